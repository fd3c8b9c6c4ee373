package entity

import "errors"

var (
	// ErrRowNotFound indicates a word row id that is not in the store.
	ErrRowNotFound = errors.New("word row not found")
	// ErrInvalidRowID indicates a row id that cannot take part in pair ids.
	ErrInvalidRowID = errors.New("invalid word row id")
	// ErrTooFewLanguages indicates a row with fewer than two language texts.
	ErrTooFewLanguages = errors.New("word row requires at least two languages")
	// ErrPairNotFound indicates a pair key whose row or languages do not exist.
	ErrPairNotFound = errors.New("word pair not found")
	// ErrIndexOutOfRange indicates an out-of-bounds queue position.
	ErrIndexOutOfRange = errors.New("index out of range")
)
