package rules

import (
	"fmt"
	"path/filepath"

	"github.com/dfm/yawms/pkg/errors"
	"github.com/dfm/yawms/pkg/logging"
	"github.com/dfm/yawms/pkg/pathtree"
	"github.com/dfm/yawms/pkg/wildcard"
	"github.com/rs/zerolog"
)

// Options are the construction parameters of a Rule. Every field is optional.
type Options struct {
	// Name is a template rendered with the job's bindings
	Name string
	Body Body
	// Output templates are compiled into wildcards when the rule is built
	Output  pathtree.Node[string]
	Input   pathtree.Node[Source]
	Require pathtree.Node[Source]
}

// Rule is a build rule definition
type Rule struct {
	name    string
	body    Body
	output  pathtree.Node[*wildcard.Wildcard]
	input   pathtree.Node[Source]
	require pathtree.Node[Source]
	logger  zerolog.Logger
}

// New builds a rule, compiling every output template
func New(opts Options) (*Rule, error) {
	output, err := pathtree.Map(opts.Output, wildcard.Compile)
	if err != nil {
		return nil, errors.Wrapf(err, errors.GetErrorCode(err),
			"invalid output for rule %q", opts.Name)
	}

	return &Rule{
		name:    opts.Name,
		body:    opts.Body,
		output:  output,
		input:   opts.Input,
		require: opts.Require,
		logger:  logging.GetLogger("rules").With().Str("rule", opts.Name).Logger(),
	}, nil
}

// Name returns the name template, empty when the rule is unnamed
func (r *Rule) Name() string {
	return r.name
}

// Output returns the compiled output tree, nil when no output was declared
func (r *Rule) Output() pathtree.Node[*wildcard.Wildcard] {
	return r.output
}

// Input returns the input source tree
func (r *Rule) Input() pathtree.Node[Source] {
	return r.input
}

// Require returns the require source tree
func (r *Rule) Require() pathtree.Node[Source] {
	return r.require
}

// HasBody reports whether the rule was given a body
func (r *Rule) HasBody() bool {
	return r.body != nil
}

// SetInput rebinds the input tree. Jobs resolved afterwards see the new tree.
func (r *Rule) SetInput(input pathtree.Node[Source]) {
	r.input = input
}

// SetRequire rebinds the require tree. Jobs resolved afterwards see the new tree.
func (r *Rule) SetRequire(require pathtree.Node[Source]) {
	r.require = require
}

// WildcardCount sums the distinct wildcard names of every output leaf
func (r *Rule) WildcardCount() int {
	count := 0
	for _, w := range pathtree.Flatten(r.output) {
		count += len(w.Names())
	}
	return count
}

// Resolve builds the job of a rule whose output needs no wildcard bindings
func (r *Rule) Resolve() (*Job, error) {
	if n := r.WildcardCount(); n > 0 {
		return nil, errors.Newf(errors.ErrAmbiguousResolution,
			"cannot resolve rule %s with no target when output wildcards are required", r).
			WithDetail("rule", r.name).
			WithDetail("wildcards", n)
	}
	r.logger.Debug().Msg("Resolved rule without target")
	return newJob(r, wildcard.Bindings{})
}

// ResolveTarget binds the rule to a concrete target path. The output leaves
// are tried in flatten order and the first match wins.
func (r *Rule) ResolveTarget(target string) (*Job, error) {
	if r.output == nil {
		return nil, errors.Newf(errors.ErrNoOutputSpec,
			"cannot resolve rule %s with target when output is not specified", r).
			WithDetail("rule", r.name).
			WithDetail("target", target)
	}

	target = filepath.ToSlash(target)
	for _, w := range pathtree.Flatten(r.output) {
		bindings, ok := w.Match(target)
		if !ok {
			r.logger.Trace().
				Str("target", target).
				Str("pattern", w.Pattern()).
				Msg("Output did not match")
			continue
		}
		r.logger.Debug().
			Str("target", target).
			Str("pattern", w.Pattern()).
			Interface("bindings", bindings).
			Msg("Target matched output")
		return newJob(r, bindings)
	}

	return nil, errors.Newf(errors.ErrNoMatchingOutput,
		"path %s does not match rule %s", target, r).
		WithDetail("rule", r.name).
		WithDetail("target", target)
}

// Run resolves the rule without a target and runs the job's body once
func (r *Rule) Run() error {
	job, err := r.Resolve()
	if err != nil {
		return err
	}
	return job.Run()
}

// RunTarget resolves the rule against target and runs the job's body once
func (r *Rule) RunTarget(target string) error {
	job, err := r.ResolveTarget(target)
	if err != nil {
		return err
	}
	return job.Run()
}

func (r *Rule) String() string {
	if r.name == "" {
		return "<Rule>"
	}
	return fmt.Sprintf("<Rule %s>", r.name)
}
