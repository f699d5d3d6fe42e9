// Package pathtree holds nested structures of path-like values.
//
// A tree is a Leaf, a Sequence of trees or a Mapping of string keys to trees.
// Rules use trees for their output, input and require declarations so a job
// can name one file, a list of files or a keyed group of files, nested to any
// depth. Map, Expand and Flatten are the only traversals and all of them keep
// the shape of the input: sequence order and mapping key order are preserved.
//
// A nil Node is an absent tree. Every operation accepts it and returns nil.
package pathtree

import (
	"github.com/dfm/yawms/pkg/errors"
)

// Node is one of Leaf, Sequence or Mapping
type Node[T any] interface {
	isNode(T)
}

// Leaf is a single value
type Leaf[T any] struct {
	Value T
}

// Sequence is an ordered list of subtrees
type Sequence[T any] []Node[T]

// Entry is one key of a Mapping
type Entry[T any] struct {
	Key   string
	Value Node[T]
}

// Mapping is an ordered set of uniquely keyed subtrees
type Mapping[T any] []Entry[T]

func (Leaf[T]) isNode(T)     {}
func (Sequence[T]) isNode(T) {}
func (Mapping[T]) isNode(T)  {}

// Of wraps a single value in a Leaf
func Of[T any](v T) Node[T] {
	return Leaf[T]{Value: v}
}

// List builds a Sequence of leaves
func List[T any](values ...T) Node[T] {
	seq := make(Sequence[T], len(values))
	for i, v := range values {
		seq[i] = Leaf[T]{Value: v}
	}
	return seq
}

// Get returns the subtree stored under key
func (m Mapping[T]) Get(key string) (Node[T], bool) {
	for _, e := range m {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// Keys returns the mapping keys in order
func (m Mapping[T]) Keys() []string {
	keys := make([]string, len(m))
	for i, e := range m {
		keys[i] = e.Key
	}
	return keys
}

// NewMapping builds a Mapping and rejects duplicate keys
func NewMapping[T any](entries ...Entry[T]) (Mapping[T], error) {
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if seen[e.Key] {
			return nil, errors.Newf(errors.ErrInvalidInput, "duplicate key %q in path mapping", e.Key).
				WithDetail("key", e.Key)
		}
		seen[e.Key] = true
	}
	return Mapping[T](entries), nil
}

// Map applies fn to every leaf value
func Map[T, U any](n Node[T], fn func(T) (U, error)) (Node[U], error) {
	return Expand(n, func(v T) (Node[U], error) {
		u, err := fn(v)
		if err != nil {
			return nil, err
		}
		return Leaf[U]{Value: u}, nil
	})
}

// Expand replaces every leaf with the subtree fn returns for its value. The
// first error stops the traversal.
func Expand[T, U any](n Node[T], fn func(T) (Node[U], error)) (Node[U], error) {
	switch node := n.(type) {
	case nil:
		return nil, nil
	case Leaf[T]:
		return fn(node.Value)
	case Sequence[T]:
		out := make(Sequence[U], len(node))
		for i, child := range node {
			mapped, err := Expand(child, fn)
			if err != nil {
				return nil, err
			}
			out[i] = mapped
		}
		return out, nil
	case Mapping[T]:
		out := make(Mapping[U], len(node))
		for i, e := range node {
			mapped, err := Expand(e.Value, fn)
			if err != nil {
				return nil, err
			}
			out[i] = Entry[U]{Key: e.Key, Value: mapped}
		}
		return out, nil
	default:
		return nil, errors.Newf(errors.ErrInternal, "unknown path tree node %T", n)
	}
}

// Flatten returns the leaf values depth first, in sequence order and mapping key order
func Flatten[T any](n Node[T]) []T {
	var out []T
	walk(n, func(v T) { out = append(out, v) })
	return out
}

func walk[T any](n Node[T], visit func(T)) {
	switch node := n.(type) {
	case Leaf[T]:
		visit(node.Value)
	case Sequence[T]:
		for _, child := range node {
			walk(child, visit)
		}
	case Mapping[T]:
		for _, e := range node {
			walk(e.Value, visit)
		}
	}
}
