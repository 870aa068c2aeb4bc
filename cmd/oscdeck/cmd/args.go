package cmd

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/oscdeck/oscdeck/controller"
	"github.com/oscdeck/oscdeck/osc"
)

// parseArgument turns a command-line word into an OSC argument. The prefixes
// i:, f:, s: and b: (hex) force a type; otherwise int32, then float32, then
// string is tried.
func parseArgument(s string) (osc.Argument, error) {
	prefix, value, found := strings.Cut(s, ":")
	if found {
		switch prefix {
		case "i":
			n, err := strconv.ParseInt(value, 0, 32)
			if err != nil {
				return nil, fmt.Errorf("int argument %q: %w", value, err)
			}
			return osc.Int32(n), nil
		case "f":
			f, err := strconv.ParseFloat(value, 32)
			if err != nil {
				return nil, fmt.Errorf("float argument %q: %w", value, err)
			}
			return osc.Float32(f), nil
		case "s":
			return osc.String(value), nil
		case "b":
			data, err := hex.DecodeString(value)
			if err != nil {
				return nil, fmt.Errorf("blob argument %q: %w", value, err)
			}
			return osc.Blob(data), nil
		}
	}

	if n, err := strconv.ParseInt(s, 10, 32); err == nil {
		return osc.Int32(n), nil
	}
	if f, err := strconv.ParseFloat(s, 32); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return osc.Float32(f), nil
	}
	return osc.String(s), nil
}

// parseMessage builds a message from an address and argument words.
func parseMessage(words []string) (*osc.Message, error) {
	if len(words) == 0 {
		return nil, errors.New("missing address")
	}
	if !strings.HasPrefix(words[0], "/") {
		return nil, fmt.Errorf("address %q must start with /", words[0])
	}

	msg := osc.NewMessage(words[0])
	for _, w := range words[1:] {
		arg, err := parseArgument(w)
		if err != nil {
			return nil, err
		}
		if err := msg.Append(arg); err != nil {
			return nil, err
		}
	}
	return msg, nil
}

// parseMapping reads "/address=[Group],item".
func parseMapping(s string) (controller.Mapping, error) {
	addr, key, found := strings.Cut(s, "=")
	if !found || !strings.HasPrefix(addr, "/") {
		return controller.Mapping{}, fmt.Errorf("mapping %q: want /address=[Group],item", s)
	}

	control, err := controller.ParseConfigKey(key)
	if err != nil {
		return controller.Mapping{}, fmt.Errorf("mapping %q: %w", s, err)
	}
	return controller.Mapping{Address: addr, Control: control}, nil
}
