package game

import "errors"

var (
	ErrRosterSize      = errors.New("game: roster must have exactly three players")
	ErrDuplicatePlayer = errors.New("game: duplicate player name")
	ErrInvalidRoster   = errors.New("game: invalid roster")
	ErrUnknownPlayer   = errors.New("game: unknown player")
	ErrMissingBid      = errors.New("game: missing bid")
	ErrInvalidBid      = errors.New("game: invalid bid")
	ErrRoundMismatch   = errors.New("game: round result does not follow current state")
)
