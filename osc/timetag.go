package osc

import (
	"encoding/binary"
	"time"
)

// Timetag is an NTP timestamp as used in bundle headers: the upper 32 bits
// count seconds since 1900-01-01 UTC, the lower 32 bits are a binary fraction
// of a second.
//
// Received bundles are flattened and their timetag dropped, so a Timetag is
// only ever built for sending.
type Timetag uint64

// Immediate is the reserved timetag asking the receiver to act on a bundle
// as soon as it arrives.
const Immediate Timetag = 1

// NewTimetag returns a time tag for the current time.
func NewTimetag() Timetag {
	return NewTimetagFromTime(time.Now())
}

// NewImmediateTimetag returns Immediate.
func NewImmediateTimetag() Timetag {
	return Immediate
}

// NewTimetagFromTime converts t, truncated to NTP precision.
func NewTimetagFromTime(t time.Time) Timetag {
	secs := uint64(t.Unix()+secondsFrom1900To1970) << 32
	frac := uint64(t.Nanosecond()) << 32 / uint64(time.Second)
	return Timetag(secs | frac)
}

// IsImmediate reports whether t is Immediate.
func (t Timetag) IsImmediate() bool {
	return t == Immediate
}

// Time converts t back to a time.Time.
func (t Timetag) Time() time.Time {
	secs := int64(t.SecondsSinceEpoch()) - secondsFrom1900To1970
	nanos := uint64(t.FractionalSecond()) * uint64(time.Second) >> 32
	return time.Unix(secs, int64(nanos))
}

// FractionalSecond returns the lower 32 bits.
func (t Timetag) FractionalSecond() uint32 {
	return uint32(t)
}

// SecondsSinceEpoch returns the upper 32 bits, the seconds since 1900.
func (t Timetag) SecondsSinceEpoch() uint32 {
	return uint32(t >> 32)
}

// MarshalBinary returns the 8 big-endian bytes of the bundle header field.
func (t Timetag) MarshalBinary() ([]byte, error) {
	return binary.BigEndian.AppendUint64(make([]byte, 0, bit64Size), uint64(t)), nil
}

// SetTime sets t to the given time.
func (t *Timetag) SetTime(at time.Time) {
	*t = NewTimetagFromTime(at)
}

// ExpiresIn returns how long until t is due. It is zero for Immediate and
// for times in the past.
func (t Timetag) ExpiresIn() time.Duration {
	if t <= Immediate {
		return 0
	}
	return max(time.Until(t.Time()), 0)
}
