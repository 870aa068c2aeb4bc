package osc

import (
	"bytes"
	"encoding"
	"encoding/binary"
	"errors"
	"fmt"
)

// Packet is the interface for Message and Bundle.
type Packet interface {
	encoding.BinaryMarshaler
}

// ParsePacket decodes an OSC packet into the messages it carries. Bundles,
// nested or not, are flattened in wire order and their timetags are dropped.
//
// ParsePacket never fails as a whole: a malformed message is skipped and
// the remaining messages are still returned. The returned error joins the
// reason for every skipped message and is nil if nothing was skipped.
func ParsePacket(data []byte) ([]*Message, error) {
	var msgs []*Message
	err := parsePacket(data, func(m *Message) {
		msgs = append(msgs, m)
	})
	return msgs, err
}

// parsePacket decodes data as a bundle or a message and passes each decoded
// message to emit.
func parsePacket(data []byte, emit func(*Message)) error {
	if isBundle(data) {
		return parseBundle(data, emit)
	}

	addr, args, err := parseMessage(data)
	if err != nil {
		return fmt.Errorf("parsePacket: %w", err)
	}
	emit(&Message{Address: addr, Arguments: args})
	return nil
}

// parseBundle walks the size prefixed elements of a bundle. A malformed
// element is skipped; an element size that runs past the end of the bundle
// ends the walk, since the next element can't be located.
func parseBundle(data []byte, emit func(*Message)) error {
	if len(data) < bundleHeaderSize {
		return fmt.Errorf("parseBundle: header: %w", ErrShortBuffer)
	}

	// The timetag isn't used for anything.
	data = data[bundleHeaderSize:]

	var errs []error
	for len(data) > 0 {
		if len(data) < bit32Size {
			errs = append(errs, fmt.Errorf("parseBundle: element size: %w", ErrShortBuffer))
			break
		}

		// Read the size of the bundle element
		length := int32(binary.BigEndian.Uint32(data[:bit32Size]))
		data = data[bit32Size:]
		if length < 0 || int(length) > len(data) {
			errs = append(errs, fmt.Errorf("parseBundle: invalid bundle element length: %d", length))
			break
		}

		if err := parsePacket(data[:length], emit); err != nil {
			errs = append(errs, err)
		}
		data = data[length:]
	}

	return errors.Join(errs...)
}

// isBundle reports whether data starts with the "#bundle" OSC-string.
func isBundle(data []byte) bool {
	return len(data) >= bit64Size && bytes.Equal(data[:bit64Size], bundleTag[:])
}
