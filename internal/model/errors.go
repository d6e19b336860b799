package model

import "errors"

// Common errors used across the application
var (
	// Join errors
	ErrUsernameTaken = errors.New("username already taken")
	ErrServerFull    = errors.New("server is full")

	// Roster errors
	ErrPlayerNotFound = errors.New("player not found")

	// Match errors
	ErrMatchFinished = errors.New("match is already finished")

	// Archive errors
	ErrMatchNotFound = errors.New("match not found")

	// Protocol errors
	ErrUnknownMessageType = errors.New("unknown message type")
)
