// Package codec encodes command output.
package codec

import (
	"errors"
	"fmt"
	"strings"
)

// Codec encodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Name() string
}

// ErrUnknownCodec is returned by ByName for unsupported names.
var ErrUnknownCodec = errors.New("unknown codec")

// ByName returns a built-in codec by name ("json" or "yaml").
func ByName(name string) (Codec, error) {
	switch strings.ToLower(name) {
	case "json":
		return JSON{}, nil
	case "yaml", "yml":
		return YAML{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}
}
