package maze

import "github.com/mazewars/mazewars-go/internal/model"

// Maze dimensions in tiles, shared by every level
const (
	Width  = 20
	Height = 15
)

// LevelCount is the number of selectable levels
const LevelCount = 4

// Tile is one cell of a maze grid
type Tile uint8

const (
	TileFloor Tile = iota
	TileWall
)

// Level is one playable maze: a bordered grid plus spawn points
// assigned to players by join order.
type Level struct {
	Index  int
	Grid   [][]Tile // indexed [y][x]
	Spawns []model.Position
}

// GetLevel builds the level for the given index. Out-of-range
// indexes wrap, so any value the wire carries yields a level.
func GetLevel(index int) Level {
	index = ((index % LevelCount) + LevelCount) % LevelCount

	// Pillar spacing varies per level; borders and odd-odd floor
	// cells are invariant so spawn points stay walkable.
	stepX, stepY := 2, 2
	switch index {
	case 1:
		stepX = 4
	case 2:
		stepY = 4
	case 3:
		stepX, stepY = 4, 4
	}

	grid := make([][]Tile, Height)
	for y := range grid {
		grid[y] = make([]Tile, Width)
		for x := range grid[y] {
			border := x == 0 || y == 0 || x == Width-1 || y == Height-1
			pillar := x%stepX == 0 && y%stepY == 0
			if border || pillar {
				grid[y][x] = TileWall
			}
		}
	}

	return Level{Index: index, Grid: grid, Spawns: spawnPoints(grid)}
}

// SpawnPoint returns the spawn position for the i-th joiner,
// wrapping when the roster outgrows the spawn list.
func (l Level) SpawnPoint(i int) model.Position {
	if len(l.Spawns) == 0 {
		return model.Position{}
	}
	if i < 0 {
		i = 0
	}
	return l.Spawns[i%len(l.Spawns)]
}

// spawnPoints spreads spawns over the floor's odd-odd cells,
// alternating opposite ends so consecutive joiners land far apart
func spawnPoints(grid [][]Tile) []model.Position {
	var cells [][2]int
	for y := 1; y < Height-1; y += 2 {
		for x := 1; x < Width-1; x += 2 {
			if grid[y][x] == TileFloor {
				cells = append(cells, [2]int{x, y})
			}
		}
	}

	spawns := make([]model.Position, 0, len(cells))
	head, tail := 0, len(cells)-1
	for head <= tail {
		spawns = append(spawns, tileCenter(cells[head]))
		if head != tail {
			spawns = append(spawns, tileCenter(cells[tail]))
		}
		head++
		tail--
	}
	return spawns
}

func tileCenter(cell [2]int) model.Position {
	return model.Position{
		X: float32(cell[0]) + 0.5,
		Y: 0,
		Z: float32(cell[1]) + 0.5,
	}
}
