package record

import (
	"encoding/json"
	"fmt"

	"github.com/ripplekit/ripple"
)

// marshalValue encodes an emitted value as JSON text. The undefined
// sentinel maps to the JSON string "<none>" so it survives a decode
// round-trip distinguishably from null.
func marshalValue(v any) (string, error) {
	if ripple.IsNone(v) {
		return `"<none>"`, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal value: %w", err)
	}
	return string(data), nil
}

// unmarshalValue decodes stored JSON text back into a value. Tuples
// come back as []any, not ripple.Tuple; trace readers compare by
// content.
func unmarshalValue(data string) (any, error) {
	var v any
	if err := json.Unmarshal([]byte(data), &v); err != nil {
		return nil, fmt.Errorf("unmarshal value: %w", err)
	}
	return v, nil
}
