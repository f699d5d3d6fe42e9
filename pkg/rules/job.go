package rules

import (
	"fmt"
	"strings"

	"github.com/dfm/yawms/pkg/errors"
	"github.com/dfm/yawms/pkg/pathtree"
	"github.com/dfm/yawms/pkg/wildcard"
)

// Job is a rule bound to concrete wildcard values
type Job struct {
	rule     *Rule
	bindings wildcard.Bindings
	name     string
	output   pathtree.Node[string]
	input    pathtree.Node[Source]
	require  pathtree.Node[Source]
}

func newJob(r *Rule, bindings wildcard.Bindings) (*Job, error) {
	job := &Job{
		rule:     r,
		bindings: bindings.Clone(),
		input:    r.input,
		require:  r.require,
	}

	if r.name != "" {
		name, err := wildcard.Apply(job.bindings, r.name)
		if err != nil {
			return nil, job.unresolved("name", err)
		}
		job.name = name
	}

	output, err := pathtree.Map(r.output, func(w *wildcard.Wildcard) (string, error) {
		return wildcard.Apply(job.bindings, w.Pattern())
	})
	if err != nil {
		return nil, job.unresolved("output", err)
	}
	job.output = output

	return job, nil
}

// Rule returns the rule the job was resolved from
func (j *Job) Rule() *Rule {
	return j.rule
}

// Bindings returns a copy of the wildcard values
func (j *Job) Bindings() wildcard.Bindings {
	return j.bindings.Clone()
}

// Name returns the rendered name, empty when the rule is unnamed
func (j *Job) Name() string {
	return j.name
}

// Output returns the concrete output tree, nil when the rule has no output
func (j *Job) Output() pathtree.Node[string] {
	return j.output
}

// Outputs returns the flattened output paths
func (j *Job) Outputs() []string {
	return pathtree.Flatten(j.output)
}

// Input renders the input tree, nil when the rule declares none
func (j *Job) Input() (pathtree.Node[string], error) {
	return j.render("input", j.input)
}

// Require renders the require tree, nil when the rule declares none
func (j *Job) Require() (pathtree.Node[string], error) {
	return j.render("require", j.require)
}

func (j *Job) render(field string, tree pathtree.Node[Source]) (pathtree.Node[string], error) {
	out, err := pathtree.Expand(tree, func(s Source) (pathtree.Node[string], error) {
		if s == nil {
			return nil, errors.Newf(errors.ErrInvalidInput, "empty %s source", field)
		}
		return s.expand(j.bindings)
	})
	if err == nil {
		return out, nil
	}
	if _, ok := wildcard.UnresolvedName(err); ok {
		return nil, j.unresolved(field, err)
	}
	return nil, errors.Wrapf(err, errors.GetErrorCode(err),
		"could not compute '%s' paths for %s", field, j)
}

// unresolved reports a template that needs a wildcard the job has no value for
func (j *Job) unresolved(field string, err error) error {
	name, _ := wildcard.UnresolvedName(err)
	return errors.Wrapf(err, errors.ErrUnresolvedWildcard,
		"could not resolve '%s' wildcards from output paths", field).
		WithDetail("field", field).
		WithDetail("wildcard", name).
		WithDetail("bindings", j.bindings.Clone())
}

// Key identifies the job by its flattened output paths. Jobs without output
// have no identity and fail with ErrNoOutput.
func (j *Job) Key() (string, error) {
	if j.output == nil {
		return "", errors.Newf(errors.ErrNoOutput, "job %s has no output and cannot be identified", j)
	}
	return strings.Join(j.Outputs(), "\x00"), nil
}

// Equal reports whether both jobs produce the same output paths in the same order
func (j *Job) Equal(other *Job) bool {
	if other == nil {
		return false
	}
	a, err := j.Key()
	if err != nil {
		return false
	}
	b, err := other.Key()
	if err != nil {
		return false
	}
	return a == b
}

// Run invokes the rule body with the job. Rules without a body do nothing.
func (j *Job) Run() error {
	if j.rule.body == nil {
		return nil
	}
	j.rule.logger.Debug().Str("job", j.String()).Msg("Running job body")
	if err := j.rule.body(j); err != nil {
		return errors.Wrapf(err, errors.ErrBodyFailed, "job %s failed", j)
	}
	return nil
}

func (j *Job) String() string {
	if j.name != "" {
		return fmt.Sprintf("<Job %s>", j.name)
	}
	if outputs := j.Outputs(); len(outputs) > 0 {
		return fmt.Sprintf("<Job %s>", strings.Join(outputs, " "))
	}
	return "<Job>"
}
