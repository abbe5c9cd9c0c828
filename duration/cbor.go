package duration

import (
	"math/big"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// decodeCBOR decodes a single CBOR data item. Unsigned integers come back
// as uint64, negative integers as int64 (or big.Int when out of range),
// floats of any width as float64.
func decodeCBOR(data []byte) (any, error) {
	var v any
	if err := cbor.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	switch b := v.(type) {
	case big.Int:
		return nil, bigIntError(&b)
	case *big.Int:
		return nil, bigIntError(b)
	}
	return v, nil
}

// bigIntError classifies an integer too wide for int64/uint64.
func bigIntError(b *big.Int) error {
	if b.Sign() < 0 {
		return ErrNegative
	}
	return ErrOverflow
}

// MarshalCBOR implements cbor.Marshaler.
func (f Field[M]) MarshalCBOR() ([]byte, error) {
	v, err := f.Mode().Format(time.Duration(f))
	if err != nil {
		return nil, err
	}
	return cbor.Marshal(v)
}

// UnmarshalCBOR implements cbor.Unmarshaler.
func (f *Field[M]) UnmarshalCBOR(data []byte) error {
	v, err := decodeCBOR(data)
	if err != nil {
		return err
	}
	return f.decode(v)
}

// MarshalCBOR implements cbor.Marshaler.
func (o Optional[M]) MarshalCBOR() ([]byte, error) {
	v, err := o.format()
	if err != nil {
		return nil, err
	}
	return cbor.Marshal(v)
}

// UnmarshalCBOR implements cbor.Unmarshaler.
func (o *Optional[M]) UnmarshalCBOR(data []byte) error {
	v, err := decodeCBOR(data)
	if err != nil {
		return err
	}
	return o.decode(v)
}
