package osc

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"strings"
)

// Message represents a single OSC message. An OSC message consists of an OSC
// address pattern and zero or more arguments. The type tag string is never
// stored; it is derived from Arguments.
type Message struct {
	Address   string
	Arguments []Argument
}

// Verify that Messages implements the Packet interface.
var _ Packet = (*Message)(nil)

// NewMessage returns a new Message. The address parameter is the OSC address.
func NewMessage(addr string, args ...Argument) *Message {
	return &Message{Address: addr, Arguments: args}
}

// Append appends the given arguments to the arguments list.
func (m *Message) Append(args ...Argument) error {
	for _, a := range args {
		if ToTypeTag(a) == TypeInvalid {
			return fmt.Errorf("Append: unsupported type: %T", a)
		}
	}
	m.Arguments = append(m.Arguments, args...)
	return nil
}

// Clear clears the OSC address and all arguments.
func (m *Message) Clear() {
	m.Address = ""
	m.Arguments = m.Arguments[:0]
}

// Equals returns true if the given OSC Message `o` is equal to the current OSC
// Message. Nil and empty argument lists or blobs are equal.
func (m *Message) Equals(o *Message) bool {
	if m == nil || o == nil {
		return m == o
	}
	if m.Address != o.Address || len(m.Arguments) != len(o.Arguments) {
		return false
	}

	for i, a := range m.Arguments {
		switch a := a.(type) {
		case Blob:
			b, ok := o.Arguments[i].(Blob)
			if !ok || !bytes.Equal(a, b) {
				return false
			}
		default:
			if a != o.Arguments[i] {
				return false
			}
		}
	}
	return true
}

// CountArguments returns the number of arguments.
func (m *Message) CountArguments() int {
	return len(m.Arguments)
}

// Match returns true, if the OSC address pattern of the OSC Message matches the given
// address. The match is case sensitive!
func (m *Message) Match(addr string) bool {
	regexp, err := getRegEx(m.Address)
	if err != nil {
		return false
	}
	return regexp.MatchString(addr)
}

// TypeTags returns the type tag string.
func (m *Message) TypeTags() (string, error) {
	if m == nil {
		return "", fmt.Errorf("TypeTags: message is nil")
	}
	return GetTypeTag(m.Arguments)
}

// ToFloat returns the value of the single numeric argument of the message.
// Int32 is widened to float32 and Float32 is returned as is.
func (m *Message) ToFloat() (float32, error) {
	if len(m.Arguments) != 1 {
		return 0, fmt.Errorf("ToFloat: %d arguments: %w", len(m.Arguments), ErrArgumentCount)
	}

	switch arg := m.Arguments[0].(type) {
	case Int32:
		return float32(arg), nil
	case Float32:
		return float32(arg), nil
	case String, Blob:
		return 0, fmt.Errorf("ToFloat: %c argument: %w", arg.TypeTag(), ErrNotNumeric)
	default:
		return 0, fmt.Errorf("ToFloat: unsupported type: %T", arg)
	}
}

// String implements the fmt.Stringer interface.
func (m *Message) String() string {
	if m == nil {
		return ""
	}

	tags, _ := m.TypeTags()

	var sb strings.Builder
	sb.WriteString(m.Address)
	if len(m.Arguments) == 0 {
		return sb.String()
	}

	sb.WriteByte(' ')
	sb.WriteString(tags)

	for _, arg := range m.Arguments {
		switch arg := arg.(type) {
		case String:
			fmt.Fprintf(&sb, " %q", string(arg))
		case nil:
			sb.WriteString(" nil")
		default:
			sb.WriteByte(' ')
			sb.WriteString(arg.String())
		}
	}

	return sb.String()
}

// MarshalBinary implements the encoding.BinaryMarshaler interface. The
// result has the following layout:
// 1. OSC Address Pattern
// 2. OSC Type Tag String
// 3. OSC Arguments
func (m *Message) MarshalBinary() ([]byte, error) {
	return m.AppendBinary(nil)
}

// AppendBinary appends the encoded message to b. On error b is returned
// unchanged.
func (m *Message) AppendBinary(b []byte) ([]byte, error) {
	start := len(b)

	typetags, err := appendTypeTags(make([]byte, 0, len(m.Arguments)+1), m.Arguments)
	if err != nil {
		return b[:start], fmt.Errorf("AppendBinary: %w", err)
	}

	if b, err = appendPaddedString(b, m.Address); err != nil {
		return b[:start], fmt.Errorf("AppendBinary: address: %w", err)
	}
	b = append(b, typetags...)
	b = append(b, padding[:padBytesNeeded(len(typetags))]...)

	for _, arg := range m.Arguments {
		switch t := arg.(type) {
		case Int32:
			b = binary.BigEndian.AppendUint32(b, uint32(t))
		case Float32:
			b = binary.BigEndian.AppendUint32(b, math.Float32bits(float32(t)))
		case String:
			if b, err = appendPaddedString(b, string(t)); err != nil {
				return b[:start], fmt.Errorf("AppendBinary: %w", err)
			}
		case Blob:
			b = appendBlob(b, t)
		}
	}

	if n := len(b) - start; n >= MaxPacketSize {
		return b[:start], fmt.Errorf("AppendBinary: packet too large: %d", n)
	}

	return b, nil
}

// NewMessageFromData decodes a single message. Bundles are rejected; use
// ParsePacket for those.
func NewMessageFromData(data []byte) (msg *Message, err error) {
	msg = &Message{}
	if err = msg.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return msg, nil
}

// UnmarshalBinary implements the encoding.BinaryUnmarshaler interface. The
// message is left untouched when an error is returned.
func (m *Message) UnmarshalBinary(data []byte) error {
	if isBundle(data) {
		return fmt.Errorf("UnmarshalBinary: data is a bundle")
	}

	addr, args, err := parseMessage(data)
	if err != nil {
		return fmt.Errorf("UnmarshalBinary: %w", err)
	}

	m.Address = addr
	m.Arguments = args
	return nil
}

// parseMessage reads the address pattern, the type tag string and all
// arguments. Either everything decodes or nothing is returned.
func parseMessage(data []byte) (string, []Argument, error) {
	// First, read the OSC address
	addr, n, err := parsePaddedString(data)
	if err != nil {
		return "", nil, fmt.Errorf("address: %w", err)
	}
	data = data[n:]

	if len(data) == 0 || data[0] != ',' {
		return "", nil, fmt.Errorf("%s: %w", addr, ErrMissingTypeTags)
	}

	typetags, n, err := parsePaddedString(data)
	if err != nil {
		return "", nil, fmt.Errorf("%s: type tags: %w", addr, err)
	}
	data = data[n:]

	types := make([]TypeTag, 0, len(typetags)-1)
	for i := 1; i < len(typetags); i++ {
		t := parseTypeTag(typetags[i])
		if t == TypeInvalid {
			return "", nil, fmt.Errorf("%s: %q: %w", addr, typetags[i], ErrInvalidTypeTag)
		}
		types = append(types, t)
	}

	args, err := readArguments(types, data)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", addr, err)
	}

	return addr, args, nil
}

// readArguments reads one argument per type tag from data.
func readArguments(types []TypeTag, data []byte) ([]Argument, error) {
	var args []Argument

	for _, t := range types {
		switch t {
		case TypeInt32:
			if len(data) < bit32Size {
				return nil, fmt.Errorf("readArguments: int32: %w", ErrShortBuffer)
			}
			args = append(args, Int32(binary.BigEndian.Uint32(data[:bit32Size])))
			data = data[bit32Size:]

		case TypeFloat32:
			if len(data) < bit32Size {
				return nil, fmt.Errorf("readArguments: float32: %w", ErrShortBuffer)
			}
			args = append(args, Float32(math.Float32frombits(binary.BigEndian.Uint32(data[:bit32Size]))))
			data = data[bit32Size:]

		case TypeString:
			str, n, err := parsePaddedString(data)
			if err != nil {
				return nil, fmt.Errorf("readArguments: %w", err)
			}
			args = append(args, String(str))
			data = data[n:]

		case TypeBlob:
			blob, n, err := parseBlob(data)
			if err != nil {
				return nil, fmt.Errorf("readArguments: %w", err)
			}
			args = append(args, Blob(blob))
			data = data[n:]
		}
	}

	return args, nil
}
