package codec

import "gopkg.in/yaml.v3"

// YAML is a YAML codec backed by gopkg.in/yaml.v3.
type YAML struct{}

// Marshal encodes the value to YAML.
func (YAML) Marshal(v any) ([]byte, error) { return yaml.Marshal(v) }

// Name returns "yaml".
func (YAML) Name() string { return "yaml" }
