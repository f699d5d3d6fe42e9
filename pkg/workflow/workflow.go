// Package workflow is the registry of rules and the entry point for resolving
// build targets to jobs.
//
// Rules are searched most recently registered first, so a later definition
// overrides an earlier one for the targets both of them can produce.
package workflow

import (
	"fmt"

	"github.com/dfm/yawms/pkg/errors"
	"github.com/dfm/yawms/pkg/logging"
	"github.com/dfm/yawms/pkg/rules"
	"github.com/rs/zerolog"
)

// Workflow holds rules in registration order
type Workflow struct {
	rules       []*rules.Rule
	defaultRule *rules.Rule
	logger      zerolog.Logger
}

// New creates an empty workflow
func New() *Workflow {
	return &Workflow{
		logger: logging.GetLogger("workflow"),
	}
}

// Register builds a rule and appends it to the workflow
func (w *Workflow) Register(opts rules.Options) (*rules.Rule, error) {
	r, err := rules.New(opts)
	if err != nil {
		return nil, err
	}
	w.rules = append(w.rules, r)
	w.logger.Debug().
		Str("rule", r.Name()).
		Int("index", len(w.rules)-1).
		Msg("Registered rule")
	return r, nil
}

// RegisterDefault registers a rule and makes it the default target.
// The last default registered wins.
func (w *Workflow) RegisterDefault(opts rules.Options) (*rules.Rule, error) {
	r, err := w.Register(opts)
	if err != nil {
		return nil, err
	}
	w.defaultRule = r
	return r, nil
}

// Rules returns the rules in registration order
func (w *Workflow) Rules() []*rules.Rule {
	out := make([]*rules.Rule, len(w.rules))
	copy(out, w.rules)
	return out
}

// Default returns the default rule, nil when none was set
func (w *Workflow) Default() *rules.Rule {
	return w.defaultRule
}

// RuleByName returns the most recently registered rule named name. Names are
// compared as written, templates included.
func (w *Workflow) RuleByName(name string) (*rules.Rule, bool) {
	for i := len(w.rules) - 1; i >= 0; i-- {
		if w.rules[i].Name() == name {
			return w.rules[i], true
		}
	}
	return nil, false
}

// Resolve turns a target into a job. Jobs are returned as is, rules are
// resolved without a target, and strings or fmt.Stringer values are treated
// as paths and searched with FindJob.
func (w *Workflow) Resolve(target any) (*rules.Job, error) {
	switch t := target.(type) {
	case *rules.Job:
		if t == nil {
			break
		}
		return t, nil
	case *rules.Rule:
		if t == nil {
			break
		}
		return t.Resolve()
	case string:
		return w.FindJob(t)
	case fmt.Stringer:
		return w.FindJob(t.String())
	}
	return nil, errors.Newf(errors.ErrInvalidTarget, "cannot resolve target of type %T", target)
}

// FindJob asks every rule, most recently registered first, to resolve path
// and returns the first job built. Rules that cannot produce path are skipped;
// any other failure stops the search.
func (w *Workflow) FindJob(path string) (*rules.Job, error) {
	for i := len(w.rules) - 1; i >= 0; i-- {
		r := w.rules[i]
		job, err := r.ResolveTarget(path)
		if err == nil {
			w.logger.Debug().
				Str("target", path).
				Str("rule", r.Name()).
				Msg("Found rule for target")
			return job, nil
		}
		if errors.IsErrorCode(err, errors.ErrNoMatchingOutput) || errors.IsErrorCode(err, errors.ErrNoOutputSpec) {
			continue
		}
		return nil, err
	}
	return nil, errors.Newf(errors.ErrNoRuleForTarget, "no rule found for target %s", path).
		WithDetail("target", path)
}

// Run resolves every target to a job, in target order. With no targets the
// default rule is used, or the first registered rule when there is no
// default. Bodies are not executed; see Execute.
func (w *Workflow) Run(targets ...any) ([]*rules.Job, error) {
	if len(w.rules) == 0 {
		return nil, errors.New(errors.ErrEmptyWorkflow, "no rules defined")
	}
	done := logging.LogOperationStart(w.logger, "resolve targets")
	defer done()

	if len(targets) == 0 {
		r := w.defaultRule
		if r == nil {
			r = w.rules[0]
		}
		targets = []any{r}
	}

	jobs := make([]*rules.Job, 0, len(targets))
	for _, target := range targets {
		job, err := w.Resolve(target)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

// Execute runs the body of each job in order and stops at the first failure.
// It performs no staleness or dependency checks.
func (w *Workflow) Execute(jobs []*rules.Job) error {
	for _, job := range jobs {
		w.logger.Info().Str("job", job.String()).Msg("Executing job")
		if err := job.Run(); err != nil {
			return err
		}
	}
	return nil
}
