package osc

import "fmt"

// Argument is a single OSC message argument. The set of implementations is
// closed: Int32, Float32, String and Blob.
type Argument interface {
	fmt.Stringer
	TypeTag() TypeTag
	argument()
}

// Int32 is a 32-bit big-endian two's complement integer ('i').
type Int32 int32

// Float32 is a 32-bit big-endian IEEE 754 float ('f').
type Float32 float32

// String is a NUL terminated, padded OSC-string ('s').
type String string

// Blob is a length prefixed, padded byte payload ('b').
type Blob []byte

func (Int32) TypeTag() TypeTag   { return TypeInt32 }
func (Float32) TypeTag() TypeTag { return TypeFloat32 }
func (String) TypeTag() TypeTag  { return TypeString }
func (Blob) TypeTag() TypeTag    { return TypeBlob }

func (a Int32) String() string   { return fmt.Sprintf("%d", int32(a)) }
func (a Float32) String() string { return fmt.Sprintf("%v", float32(a)) }
func (a String) String() string  { return string(a) }
func (a Blob) String() string    { return fmt.Sprintf("blob(%d)", len(a)) }

func (Int32) argument()   {}
func (Float32) argument() {}
func (String) argument()  {}
func (Blob) argument()    {}
