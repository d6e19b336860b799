package factory

import (
	"time"

	archivememory "github.com/mazewars/mazewars-go/internal/archive/memory"
	"github.com/mazewars/mazewars-go/internal/dependencies/mocks"
	"github.com/mazewars/mazewars-go/internal/match"
)

// TestApp carries a match wired against mocked dependencies, with no
// sockets bound, for driving game flows deterministically in tests
type TestApp struct {
	Match   *match.Match
	Archive *archivememory.Store

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates a match configured for testing with mocked
// dependencies and the given rules
func NewTestApp(cfg match.Config) *TestApp {
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	return &TestApp{
		Match:      match.New(cfg, mockClock, mockRandom),
		Archive:    archivememory.New(),
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}
