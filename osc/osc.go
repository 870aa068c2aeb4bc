package osc

import "errors"

const (
	// MaxPacketSize is the size of a single UDP datagram payload. Encoded
	// packets must be smaller.
	MaxPacketSize = 65507

	bit32Size = 4
	bit64Size = 8

	// #bundle plus the timetag.
	bundleHeaderSize = 16

	secondsFrom1900To1970 = 2208988800
)

var (
	// ErrShortBuffer is returned when a length or terminator points past the
	// end of the packet.
	ErrShortBuffer = errors.New("osc: short buffer")

	// ErrMissingTypeTags is returned when no ',' follows the address pattern.
	ErrMissingTypeTags = errors.New("osc: missing type tag string")

	// ErrInvalidTypeTag is returned for a type tag other than i, f, s or b.
	ErrInvalidTypeTag = errors.New("osc: invalid type tag")

	// ErrEmbeddedNUL is returned when encoding a string that contains a NUL
	// byte, since it could not be decoded again.
	ErrEmbeddedNUL = errors.New("osc: string contains NUL")

	// ErrArgumentCount is returned by ToFloat when the message doesn't carry
	// exactly one argument.
	ErrArgumentCount = errors.New("osc: wrong number of arguments")

	// ErrNotNumeric is returned by ToFloat when the argument is a String or
	// a Blob.
	ErrNotNumeric = errors.New("osc: argument is not numeric")
)
