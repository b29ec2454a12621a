package codec

import gojson "github.com/goccy/go-json"

// JSON is an indented JSON codec backed by github.com/goccy/go-json.
type JSON struct{}

// Marshal encodes the value to JSON with a trailing newline.
func (JSON) Marshal(v any) ([]byte, error) {
	b, err := gojson.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

// Name returns "json".
func (JSON) Name() string { return "json" }
