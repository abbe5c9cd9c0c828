package duration

import (
	"bytes"
	"encoding/json"
	"time"
)

// decodeJSON decodes a single JSON value, keeping numbers as json.Number
// so integers and floats stay distinguishable.
func decodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// MarshalJSON implements json.Marshaler.
func (f Field[M]) MarshalJSON() ([]byte, error) {
	v, err := f.Mode().Format(time.Duration(f))
	if err != nil {
		return nil, err
	}
	return json.Marshal(v)
}

// UnmarshalJSON implements json.Unmarshaler. As with the standard
// library's own types, null leaves f unchanged.
func (f *Field[M]) UnmarshalJSON(data []byte) error {
	v, err := decodeJSON(data)
	if err != nil {
		return err
	}
	return f.decode(v)
}

// MarshalJSON implements json.Marshaler.
func (o Optional[M]) MarshalJSON() ([]byte, error) {
	v, err := o.format()
	if err != nil {
		return nil, err
	}
	return json.Marshal(v)
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *Optional[M]) UnmarshalJSON(data []byte) error {
	v, err := decodeJSON(data)
	if err != nil {
		return err
	}
	return o.decode(v)
}
