package duration

import (
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ParseNode parses a YAML scalar node, dispatching on its resolved tag:
// !!int and !!float follow the numeric rules of Parse and !!str goes to
// ParseString. A !!null node reports ok == false.
func ParseNode(n *yaml.Node) (d time.Duration, ok bool, err error) {
	v, err := nodeValue(n)
	if err != nil {
		return 0, false, err
	}
	return ParseOptional(v)
}

func nodeValue(n *yaml.Node) (any, error) {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	if n.Kind != yaml.ScalarNode {
		return nil, ErrInvalidType
	}

	switch n.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!str":
		return n.Value, nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err == nil {
			return i, nil
		}
		var u uint64
		if err := n.Decode(&u); err == nil {
			return u, nil
		}
		if strings.HasPrefix(n.Value, "-") {
			return nil, ErrNegative
		}
		return nil, ErrOverflow
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, err
		}
		return f, nil
	default:
		return nil, ErrInvalidType
	}
}

// Node returns the YAML node for d in mode m.
func (m Mode) Node(d time.Duration) (*yaml.Node, error) {
	v, err := m.Format(d)
	if err != nil {
		return nil, err
	}
	var n yaml.Node
	if err := n.Encode(v); err != nil {
		return nil, err
	}
	return &n, nil
}

// MarshalYAML implements yaml.Marshaler.
func (f Field[M]) MarshalYAML() (any, error) {
	return f.Mode().Format(time.Duration(f))
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (f *Field[M]) UnmarshalYAML(n *yaml.Node) error {
	v, err := nodeValue(n)
	if err != nil {
		return err
	}
	return f.decode(v)
}

// MarshalYAML implements yaml.Marshaler.
func (o Optional[M]) MarshalYAML() (any, error) {
	return o.format()
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (o *Optional[M]) UnmarshalYAML(n *yaml.Node) error {
	v, err := nodeValue(n)
	if err != nil {
		return err
	}
	return o.decode(v)
}
