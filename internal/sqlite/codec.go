package sqlite

import (
	"encoding/json"
	"fmt"

	"github.com/mesh-intelligence/cabinet/pkg/container"
)

// Codec turns stored values into bytes and back.
type Codec interface {
	Encode(v any) ([]byte, error)
	Decode(data []byte) (any, error)
}

// JSONCodec stores values as JSON. Proxies are encoded as the value they
// wrap; decoded values are strings, float64s, bools, nil, []any or
// map[string]any.
type JSONCodec struct{}

// Encode marshals v.
func (JSONCodec) Encode(v any) ([]byte, error) {
	data, err := json.Marshal(container.Unwrap(v))
	if err != nil {
		return nil, fmt.Errorf("encoding value: %w", err)
	}
	return data, nil
}

// Decode unmarshals data.
func (JSONCodec) Decode(data []byte) (any, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("decoding value: %w", err)
	}
	return v, nil
}
