package osc

type TypeTag rune

const (
	TypeInt32   TypeTag = 'i'
	TypeFloat32 TypeTag = 'f'
	TypeString  TypeTag = 's'
	TypeBlob    TypeTag = 'b'
	TypeInvalid TypeTag = 0
)

// ToTypeTag returns the OSC TypeTag for the given argument.
// Returns TypeInvalid if the argument is nil.
func ToTypeTag(arg Argument) TypeTag {
	switch arg.(type) {
	case Int32:
		return TypeInt32
	case Float32:
		return TypeFloat32
	case String:
		return TypeString
	case Blob:
		return TypeBlob
	default:
		return TypeInvalid
	}
}

// parseTypeTag maps a type tag character read off the wire.
func parseTypeTag(c byte) TypeTag {
	switch t := TypeTag(c); t {
	case TypeInt32, TypeFloat32, TypeString, TypeBlob:
		return t
	default:
		return TypeInvalid
	}
}

// GetTypeTag returns the OSC type tag string for the given arguments.
func GetTypeTag(args []Argument) (string, error) {
	tt, err := appendTypeTags(make([]byte, 0, len(args)+1), args)
	if err != nil {
		return "", err
	}
	return string(tt), nil
}
