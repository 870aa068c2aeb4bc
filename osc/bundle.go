package osc

import (
	"encoding/binary"
	"fmt"
	"time"
)

// bundleTag is "#bundle" as an OSC-string.
var bundleTag = [bit64Size]byte{'#', 'b', 'u', 'n', 'd', 'l', 'e', 0}

// Bundle represents an OSC bundle. It consists of the OSC-string "#bundle"
// followed by an OSC Time Tag, followed by zero or more OSC bundle/message
// elements. The OSC-timetag is a 64-bit fixed point time tag. See
// http://opensoundcontrol.org/spec-1_0.html for more information.
//
// Bundles are only built for sending. ParsePacket flattens received bundles
// into their messages.
type Bundle struct {
	Timetag  Timetag
	Elements []Packet
}

// Verify that Bundle implements the Packet interface.
var _ Packet = (*Bundle)(nil)

// NewBundle returns a Bundle with an immediate timetag holding the given
// packets.
func NewBundle(packets ...Packet) *Bundle {
	return &Bundle{Timetag: NewImmediateTimetag(), Elements: packets}
}

// NewBundleWithTime returns a Bundle with the timetag set to time.
func NewBundleWithTime(time time.Time, packets ...Packet) *Bundle {
	return &Bundle{Timetag: NewTimetagFromTime(time), Elements: packets}
}

// Append appends an OSC bundle or OSC message to the bundle.
func (b *Bundle) Append(pck Packet) error {
	switch t := pck.(type) {
	default:
		return fmt.Errorf("unsupported OSC packet type: only Bundle and Message are supported")

	case *Bundle, *Message:
		b.Elements = append(b.Elements, t)
	}

	return nil
}

// Messages returns every message in the bundle and its nested bundles, in
// the order ParsePacket would return them.
func (b *Bundle) Messages() []*Message {
	var msgs []*Message
	for _, e := range b.Elements {
		switch t := e.(type) {
		case *Message:
			msgs = append(msgs, t)
		case *Bundle:
			msgs = append(msgs, t.Messages()...)
		}
	}
	return msgs
}

// MarshalBinary implements the encoding.BinaryMarshaler interface. The
// result has the following layout:
// 1. Bundle string: '#bundle'
// 2. OSC timetag
// 3. Length of first OSC bundle element
// 4. First bundle element
// 5. Length of n OSC bundle element
// 6. n bundle element
func (b *Bundle) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 0, bundleHeaderSize)

	// Add the '#bundle' string
	buf = append(buf, bundleTag[:]...)

	// Add the time tag
	buf = binary.BigEndian.AppendUint64(buf, uint64(b.Timetag))

	// Process all Bundle elements
	for _, m := range b.Elements {
		if m == nil {
			return nil, fmt.Errorf("MarshalBinary: nil bundle element")
		}

		bb, err := m.MarshalBinary()
		if err != nil {
			return nil, err
		}

		// Write the size of the element
		buf = binary.BigEndian.AppendUint32(buf, uint32(len(bb)))

		// Append the element
		buf = append(buf, bb...)
	}

	if len(buf) >= MaxPacketSize {
		return nil, fmt.Errorf("MarshalBinary: bundle too large: %d", len(buf))
	}

	return buf, nil
}
