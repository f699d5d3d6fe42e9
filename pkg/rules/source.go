package rules

import (
	"github.com/dfm/yawms/pkg/pathtree"
	"github.com/dfm/yawms/pkg/wildcard"
)

// Body is the work a job performs. It is only invoked by Run.
type Body func(*Job) error

// Source is a leaf of an input or require tree: a Path or a Func
type Source interface {
	expand(b wildcard.Bindings) (pathtree.Node[string], error)
}

// Path is a path template rendered with the job's bindings
type Path string

func (p Path) expand(b wildcard.Bindings) (pathtree.Node[string], error) {
	rendered, err := wildcard.Apply(b, string(p))
	if err != nil {
		return nil, err
	}
	return pathtree.Of(rendered), nil
}

// Func computes a tree of concrete paths from the job's bindings
type Func func(wildcard.Bindings) (pathtree.Node[string], error)

func (f Func) expand(b wildcard.Bindings) (pathtree.Node[string], error) {
	tree, err := f(b.Clone())
	if err != nil {
		return nil, err
	}
	if tree == nil {
		return pathtree.Sequence[string]{}, nil
	}
	return tree, nil
}

// Paths builds a source tree from templates: a single leaf for one template,
// a sequence otherwise
func Paths(templates ...string) pathtree.Node[Source] {
	if len(templates) == 1 {
		return pathtree.Of[Source](Path(templates[0]))
	}
	seq := make(pathtree.Sequence[Source], len(templates))
	for i, t := range templates {
		seq[i] = pathtree.Of[Source](Path(t))
	}
	return seq
}

// Templates converts a tree of template strings into a source tree
func Templates(tree pathtree.Node[string]) pathtree.Node[Source] {
	out, _ := pathtree.Map(tree, func(t string) (Source, error) {
		return Path(t), nil
	})
	return out
}

// Computed wraps a single Func as a source tree
func Computed(fn Func) pathtree.Node[Source] {
	return pathtree.Of[Source](fn)
}
