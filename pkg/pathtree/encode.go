package pathtree

import (
	"bytes"
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// MarshalJSON encodes the leaf value
func (l Leaf[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.Value)
}

// MarshalJSON encodes the sequence as an array
func (s Sequence[T]) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]Node[T](s))
}

// MarshalJSON encodes the mapping as an object with keys in mapping order
func (m Mapping[T]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(e.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML encodes the leaf value
func (l Leaf[T]) MarshalYAML() (interface{}, error) {
	return l.Value, nil
}

// MarshalYAML encodes the sequence as a YAML sequence
func (s Sequence[T]) MarshalYAML() (interface{}, error) {
	return []Node[T](s), nil
}

// MarshalYAML encodes the mapping with keys in mapping order
func (m Mapping[T]) MarshalYAML() (interface{}, error) {
	out := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, e := range m {
		var value yaml.Node
		if err := value.Encode(e.Value); err != nil {
			return nil, err
		}
		out.Content = append(out.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Key},
			&value,
		)
	}
	return out, nil
}
