package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/mazewars/mazewars-go/internal/model"
)

// envelope is the wire framing: a kind discriminator plus the
// kind-specific payload. One envelope per datagram.
type envelope struct {
	Type Kind            `json:"type"`
	Data json.RawMessage `json:"data"`
}

// EncodeClientMessage serializes one client-to-server message
func EncodeClientMessage(msg ClientMessage) ([]byte, error) {
	return encode(msg.Kind(), msg)
}

// EncodeServerMessage serializes one server-to-client message
func EncodeServerMessage(msg ServerMessage) ([]byte, error) {
	return encode(msg.Kind(), msg)
}

func encode(kind Kind, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding %s payload: %w", kind, err)
	}
	raw, err := json.Marshal(envelope{Type: kind, Data: data})
	if err != nil {
		return nil, fmt.Errorf("encoding %s envelope: %w", kind, err)
	}
	return raw, nil
}

// DecodeClientMessage parses one datagram sent by a client.
// An unrecognized kind yields model.ErrUnknownMessageType.
func DecodeClientMessage(raw []byte) (ClientMessage, error) {
	env, err := decodeEnvelope(raw)
	if err != nil {
		return nil, err
	}
	switch env.Type {
	case KindJoinGame:
		return decodePayload[JoinGame](env)
	case KindMove:
		return decodePayload[Move](env)
	case KindShotPlayer:
		return decodePayload[ShotPlayer](env)
	default:
		return nil, fmt.Errorf("%w: %q", model.ErrUnknownMessageType, env.Type)
	}
}

// DecodeServerMessage parses one datagram sent by the server.
// An unrecognized kind yields model.ErrUnknownMessageType.
func DecodeServerMessage(raw []byte) (ServerMessage, error) {
	env, err := decodeEnvelope(raw)
	if err != nil {
		return nil, err
	}
	switch env.Type {
	case KindError:
		return decodePayload[Error](env)
	case KindJoinGameError:
		return decodePayload[JoinGameError](env)
	case KindPlayersInLobby:
		return decodePayload[PlayersInLobby](env)
	case KindGameStart:
		return decodePayload[GameStart](env)
	case KindPlayerSpawn:
		return decodePayload[PlayerSpawn](env)
	case KindPlayerMove:
		return decodePayload[PlayerMove](env)
	case KindHealthUpdate:
		return decodePayload[HealthUpdate](env)
	case KindPlayerDeath:
		return decodePayload[PlayerDeath](env)
	case KindGameOver:
		return decodePayload[GameOver](env)
	default:
		return nil, fmt.Errorf("%w: %q", model.ErrUnknownMessageType, env.Type)
	}
}

func decodeEnvelope(raw []byte) (envelope, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return envelope{}, fmt.Errorf("decoding message envelope: %w", err)
	}
	return env, nil
}

// decodePayload unmarshals the envelope data into T. A missing data
// object decodes to the zero payload.
func decodePayload[T any](env envelope) (T, error) {
	var msg T
	if len(env.Data) == 0 {
		return msg, nil
	}
	if err := json.Unmarshal(env.Data, &msg); err != nil {
		return msg, fmt.Errorf("decoding %s payload: %w", env.Type, err)
	}
	return msg, nil
}
