package pathtree

import (
	"fmt"
	"sort"

	"github.com/dfm/yawms/pkg/errors"
	"gopkg.in/yaml.v3"
)

// FromValue converts decoded configuration data into a tree of strings.
// Strings become leaves, lists become sequences and maps become mappings.
// Go maps carry no order, so their keys are sorted.
func FromValue(v any) (Node[string], error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case Node[string]:
		return val, nil
	case string:
		return Leaf[string]{Value: val}, nil
	case fmt.Stringer:
		return Leaf[string]{Value: val.String()}, nil
	case []string:
		return List(val...), nil
	case []any:
		seq := make(Sequence[string], len(val))
		for i, item := range val {
			child, err := FromValue(item)
			if err != nil {
				return nil, err
			}
			if child == nil {
				return nil, errors.Newf(errors.ErrInvalidInput, "empty element at index %d in path list", i)
			}
			seq[i] = child
		}
		return seq, nil
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		m := make(Mapping[string], 0, len(keys))
		for _, k := range keys {
			child, err := FromValue(val[k])
			if err != nil {
				return nil, err
			}
			if child == nil {
				return nil, errors.Newf(errors.ErrInvalidInput, "empty value for key %q in path mapping", k)
			}
			m = append(m, Entry[string]{Key: k, Value: child})
		}
		return m, nil
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unsupported path value of type %T", v)
	}
}

// FromYAML converts a YAML node into a tree of strings, keeping mapping key order
func FromYAML(n *yaml.Node) (Node[string], error) {
	if n == nil {
		return nil, nil
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return FromYAML(n.Content[0])
	case yaml.AliasNode:
		return FromYAML(n.Alias)
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			return nil, nil
		}
		return Leaf[string]{Value: n.Value}, nil
	case yaml.SequenceNode:
		seq := make(Sequence[string], 0, len(n.Content))
		for _, item := range n.Content {
			child, err := FromYAML(item)
			if err != nil {
				return nil, err
			}
			if child == nil {
				return nil, errors.Newf(errors.ErrInvalidInput, "empty element at line %d", item.Line)
			}
			seq = append(seq, child)
		}
		return seq, nil
	case yaml.MappingNode:
		entries := make([]Entry[string], 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, value := n.Content[i], n.Content[i+1]
			child, err := FromYAML(value)
			if err != nil {
				return nil, err
			}
			if child == nil {
				return nil, errors.Newf(errors.ErrInvalidInput, "empty value for key %q at line %d", key.Value, key.Line)
			}
			entries = append(entries, Entry[string]{Key: key.Value, Value: child})
		}
		return NewMapping(entries...)
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unsupported YAML node kind %d at line %d", n.Kind, n.Line)
	}
}
