package osc

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"
)

////
// De/Encoding functions
////

var padding [bit32Size]byte

// parseBlob parses an OSC blob from the data byte array. It returns a copy of
// the payload and the number of bytes consumed, padding included. Padding that
// would run past the end of data is not required to be present.
func parseBlob(data []byte) ([]byte, int, error) {
	if len(data) < bit32Size {
		return nil, 0, fmt.Errorf("parseBlob: length: %w", ErrShortBuffer)
	}

	// First, get the length
	blobLen := int32(binary.BigEndian.Uint32(data[:bit32Size]))
	data = data[bit32Size:]

	if blobLen < 0 {
		return nil, 0, fmt.Errorf("parseBlob: invalid blob length %d", blobLen)
	}
	if int(blobLen) > len(data) {
		return nil, 0, fmt.Errorf("parseBlob: blob length %d: %w", blobLen, ErrShortBuffer)
	}

	blob := make([]byte, blobLen)
	copy(blob, data)

	n := min(int(blobLen)+padBytesNeeded(int(blobLen)), len(data))
	return blob, bit32Size + n, nil
}

// appendBlob appends data as an OSC blob to b: the length, the payload and
// the padding bytes.
func appendBlob(b []byte, data []byte) []byte {
	b = binary.BigEndian.AppendUint32(b, uint32(len(data)))
	b = append(b, data...)
	return append(b, padding[:padBytesNeeded(len(data))]...)
}

// parsePaddedString reads a padded string from the given slice and returns the
// string and the number of bytes read. Padding that would run past the end of
// data is not required to be present.
func parsePaddedString(data []byte) (string, int, error) {
	pos := bytes.IndexByte(data, 0)
	if pos == -1 {
		return "", 0, fmt.Errorf("parsePaddedString: missing terminator: %w", ErrShortBuffer)
	}

	return string(data[:pos]), min(pos+padBytesNeeded(pos), len(data)), nil
}

// appendPaddedString appends str and its padding bytes to b.
func appendPaddedString(b []byte, str string) ([]byte, error) {
	if strings.IndexByte(str, 0) != -1 {
		return b, fmt.Errorf("appendPaddedString: %q: %w", str, ErrEmbeddedNUL)
	}
	b = append(b, str...)
	return append(b, padding[:padBytesNeeded(len(str))]...), nil
}

// appendTypeTags appends the type tag string of args to b, without padding.
func appendTypeTags(b []byte, args []Argument) ([]byte, error) {
	b = append(b, ',')
	for _, arg := range args {
		s := ToTypeTag(arg)
		if s == TypeInvalid {
			return b, fmt.Errorf("appendTypeTags: unsupported type: %T", arg)
		}
		b = append(b, byte(s))
	}
	return b, nil
}

// padBytesNeeded determines how many NUL bytes follow an element of
// elementLen bytes. It is never zero: an element that is already 4 byte
// aligned is followed by a full word of padding. For strings this is the
// NUL terminator plus alignment.
func padBytesNeeded(elementLen int) int {
	return bit32Size - elementLen%bit32Size
}
