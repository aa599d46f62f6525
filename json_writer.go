package stk

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
)

// orderedObject builds a JSON object whose keys keep the order they were
// set in. The zero value is an empty object.
type orderedObject struct {
	keys   []string
	values []json.RawMessage
	err    error
}

// Set appends key with the JSON encoding of value.
func (o *orderedObject) Set(key string, value any) *orderedObject {
	if o.err != nil {
		return o
	}
	raw, err := json.Marshal(value)
	if err != nil {
		o.err = fmt.Errorf("encoding %q: %w", key, err)
		return o
	}
	o.keys = append(o.keys, key)
	o.values = append(o.values, raw)
	return o
}

// SetNonZero is Set, skipped when value is the zero value of its type.
func (o *orderedObject) SetNonZero(key string, value any) *orderedObject {
	if v := reflect.ValueOf(value); !v.IsValid() || v.IsZero() {
		return o
	}
	return o.Set(key, value)
}

func (o *orderedObject) MarshalJSON() ([]byte, error) {
	if o.err != nil {
		return nil, o.err
	}
	var b bytes.Buffer
	b.WriteByte('{')
	for i, key := range o.keys {
		if i > 0 {
			b.WriteByte(',')
		}
		k, _ := json.Marshal(key)
		b.Write(k)
		b.WriteByte(':')
		b.Write(o.values[i])
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}
