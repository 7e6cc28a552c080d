package keyboard

import "errors"

var (
	// ErrUnknownCharacter is returned when a distance is requested for a
	// character that the queried layout does not contain.
	ErrUnknownCharacter = errors.New("keyboard: unknown character")
	// ErrUnsupportedCharacter is returned when no layout of a Set contains the character.
	ErrUnsupportedCharacter = errors.New("keyboard: unsupported character")
	// ErrInvalidStaggering is returned when a per-row staggering list does not
	// have exactly one entry per gap between rows.
	ErrInvalidStaggering = errors.New("keyboard: invalid staggering")
	// ErrUnknownLayoutSet is returned by Named for names without a built-in set.
	ErrUnknownLayoutSet = errors.New("keyboard: unknown layout set")
	ErrInvalidGrid      = errors.New("keyboard: invalid grid")
)
