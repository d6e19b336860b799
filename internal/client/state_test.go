package client

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mazewars/mazewars-go/internal/model"
	"github.com/mazewars/mazewars-go/internal/protocol"
)

type StateSuite struct {
	suite.Suite
	state *state
	at    time.Time
}

func TestStateSuite(t *testing.T) {
	suite.Run(t, new(StateSuite))
}

func (s *StateSuite) SetupTest() {
	s.state = newState("alice")
	s.at = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
}

func (s *StateSuite) apply(msg protocol.ServerMessage) []Event {
	return s.state.apply(msg, s.at)
}

func (s *StateSuite) TestInitialState() {
	self := s.state.self
	s.Equal("alice", self.Username)
	s.Equal(model.MaxHealth, self.Health)
	s.False(self.Dead)
	s.False(self.Started)
	s.False(self.Finished)
	s.Empty(s.state.mirror)
	s.True(s.state.canSend())
}

func (s *StateSuite) TestLobbyUpdateTracked() {
	events := s.apply(protocol.PlayersInLobby{PlayerCount: 2, Players: []string{"alice", "bob"}})

	s.Require().Len(events, 1)
	s.Equal(EventLobbyUpdated, events[0].Type)
	s.Equal(LobbyUpdatedPayload{PlayerCount: 2, Players: []string{"alice", "bob"}}, events[0].Payload)
	s.Equal([]string{"alice", "bob"}, s.state.self.LobbyPlayers)
}

func (s *StateSuite) TestGameStartSetsLevel() {
	events := s.apply(protocol.GameStart{MazeLevel: 3})

	s.Require().Len(events, 1)
	s.Equal(EventMatchStarted, events[0].Type)
	s.True(s.state.self.Started)
	s.Equal(3, s.state.self.Level)
}

func (s *StateSuite) TestSpawnForSelfRecorded() {
	spawn := model.Position{X: 1.5, Y: 0, Z: 1.5}
	events := s.apply(protocol.PlayerSpawn{PlayerID: "alice", Position: spawn})

	s.Require().Len(events, 1)
	s.Equal(PlayerSpawnedPayload{Username: "alice", Position: spawn, Self: true}, events[0].Payload)
	s.True(s.state.self.Spawned)
	s.Equal(spawn, s.state.self.Spawn)
	s.Empty(s.state.mirror, "self never enters the mirror")
}

func (s *StateSuite) TestSpawnForOtherEntersMirror() {
	spawn := model.Position{X: 18.5, Y: 0, Z: 13.5}
	s.apply(protocol.PlayerSpawn{PlayerID: "bob", Position: spawn})

	s.Equal(RemotePlayer{Position: spawn}, s.state.mirror["bob"])
}

func (s *StateSuite) TestMoveUpsertsMirror() {
	pos := model.Position{X: 4, Y: 0, Z: 7}
	rot := model.Rotation{Yaw: 90}

	events := s.apply(protocol.PlayerMove{PlayerID: "bob", Position: pos, Rotation: rot})
	s.Empty(events, "transform relays surface no event")
	s.Equal(RemotePlayer{Position: pos, Rotation: rot}, s.state.mirror["bob"])

	// A newer report overwrites, last write wins
	pos2 := model.Position{X: 5, Y: 0, Z: 7}
	s.apply(protocol.PlayerMove{PlayerID: "bob", Position: pos2, Rotation: rot})
	s.Equal(RemotePlayer{Position: pos2, Rotation: rot}, s.state.mirror["bob"])
	s.Len(s.state.mirror, 1)
}

func (s *StateSuite) TestOwnMoveEchoIgnored() {
	s.apply(protocol.PlayerMove{PlayerID: "alice", Position: model.Position{X: 9}})

	s.Empty(s.state.mirror)
}

func (s *StateSuite) TestHealthUpdateForSelf() {
	events := s.apply(protocol.HealthUpdate{PlayerID: "alice", Health: 70})

	s.Require().Len(events, 1)
	s.Equal(HealthChangedPayload{Username: "alice", Health: 70, Self: true}, events[0].Payload)
	s.Equal(70, s.state.self.Health)
}

func (s *StateSuite) TestHealthUpdateForOther() {
	events := s.apply(protocol.HealthUpdate{PlayerID: "bob", Health: 40})

	s.Require().Len(events, 1)
	s.Equal(HealthChangedPayload{Username: "bob", Health: 40, Self: false}, events[0].Payload)
	s.Equal(model.MaxHealth, s.state.self.Health, "own health untouched")
}

func (s *StateSuite) TestOtherDeathRemovesFromMirror() {
	s.apply(protocol.PlayerMove{PlayerID: "bob", Position: model.Position{X: 1}})
	killer := "carol"

	events := s.apply(protocol.PlayerDeath{PlayerID: "bob", KillerID: &killer})

	s.Require().Len(events, 1)
	s.Equal(PlayerEliminatedPayload{Username: "bob", Killer: "carol"}, events[0].Payload)
	s.NotContains(s.state.mirror, "bob")
	s.True(s.state.canSend(), "another player's death does not silence us")
}

func (s *StateSuite) TestOwnDeathSilencesSends() {
	killer := "bob"
	events := s.apply(protocol.PlayerDeath{PlayerID: "alice", KillerID: &killer})

	s.Require().Len(events, 1)
	s.Equal(EventSelfDied, events[0].Type)
	s.Equal(SelfDiedPayload{Killer: "bob"}, events[0].Payload)
	s.True(s.state.self.Dead)
	s.Equal("bob", s.state.self.Killer)
	s.False(s.state.canSend())
}

func (s *StateSuite) TestDeathWithoutKiller() {
	events := s.apply(protocol.PlayerDeath{PlayerID: "alice", KillerID: nil})

	s.Equal(SelfDiedPayload{}, events[0].Payload)
	s.True(s.state.self.Dead)
}

func (s *StateSuite) TestGameOverIsTerminal() {
	events := s.apply(protocol.GameOver{Winner: "bob"})

	s.Require().Len(events, 1)
	s.Equal(MatchOverPayload{Winner: "bob", Won: false}, events[0].Payload)
	s.True(s.state.self.Finished)
	s.Equal("bob", s.state.self.Winner)
	s.False(s.state.canSend())
}

func (s *StateSuite) TestGameOverAsWinner() {
	events := s.apply(protocol.GameOver{Winner: "alice"})

	s.Equal(MatchOverPayload{Winner: "alice", Won: true}, events[0].Payload)
}

func (s *StateSuite) TestJoinRejection() {
	events := s.apply(protocol.JoinGameError{Message: "Username already taken"})

	s.Require().Len(events, 1)
	s.Equal(EventJoinRejected, events[0].Type)
	s.True(s.state.self.Rejected)
	s.Equal("Username already taken", s.state.self.RejectReason)
	s.False(s.state.canSend())
}

func (s *StateSuite) TestServerErrorSurfaced() {
	events := s.apply(protocol.Error{Message: "Invalid message format"})

	s.Require().Len(events, 1)
	s.Equal(EventServerError, events[0].Type)
	s.Equal(ServerErrorPayload{Message: "Invalid message format"}, events[0].Payload)
	s.True(s.state.canSend(), "protocol errors are advisory")
}

func (s *StateSuite) TestMirrorSnapshotIsACopy() {
	s.apply(protocol.PlayerMove{PlayerID: "bob", Position: model.Position{X: 1}})

	snap := s.state.snapshotMirror()
	delete(snap, "bob")

	s.Contains(s.state.mirror, "bob")
}
