package output

import (
	"github.com/dfm/yawms/pkg/pathtree"
	"github.com/dfm/yawms/pkg/rules"
	"github.com/dfm/yawms/pkg/wildcard"
	"github.com/dfm/yawms/pkg/workflow"
)

// computed stands in for paths produced by a function
const computed = "<computed>"

// JobView is a resolved job ready for rendering
type JobView struct {
	Name     string                `json:"name,omitempty" yaml:"name,omitempty"`
	Rule     string                `json:"rule,omitempty" yaml:"rule,omitempty"`
	Bindings wildcard.Bindings     `json:"bindings" yaml:"bindings"`
	Output   pathtree.Node[string] `json:"output,omitempty" yaml:"output,omitempty"`
	Input    pathtree.Node[string] `json:"input,omitempty" yaml:"input,omitempty"`
	Require  pathtree.Node[string] `json:"require,omitempty" yaml:"require,omitempty"`
}

// NewJobView renders the job's input and require paths
func NewJobView(job *rules.Job) (JobView, error) {
	input, err := job.Input()
	if err != nil {
		return JobView{}, err
	}
	require, err := job.Require()
	if err != nil {
		return JobView{}, err
	}
	return JobView{
		Name:     job.Name(),
		Rule:     job.Rule().Name(),
		Bindings: job.Bindings(),
		Output:   job.Output(),
		Input:    input,
		Require:  require,
	}, nil
}

// NewJobViews builds a view per job, in order
func NewJobViews(jobs []*rules.Job) ([]JobView, error) {
	views := make([]JobView, 0, len(jobs))
	for _, job := range jobs {
		v, err := NewJobView(job)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}

// RuleView describes a registered rule with its templates
type RuleView struct {
	Index     int                   `json:"index" yaml:"index"`
	Name      string                `json:"name,omitempty" yaml:"name,omitempty"`
	Output    pathtree.Node[string] `json:"output,omitempty" yaml:"output,omitempty"`
	Input     pathtree.Node[string] `json:"input,omitempty" yaml:"input,omitempty"`
	Require   pathtree.Node[string] `json:"require,omitempty" yaml:"require,omitempty"`
	Wildcards []string              `json:"wildcards,omitempty" yaml:"wildcards,omitempty"`
	Default   bool                  `json:"default" yaml:"default"`
	Body      bool                  `json:"body" yaml:"body"`
}

// NewRuleViews lists the workflow's rules in registration order
func NewRuleViews(wf *workflow.Workflow) []RuleView {
	def := wf.Default()
	all := wf.Rules()
	views := make([]RuleView, 0, len(all))
	for i, r := range all {
		output, _ := pathtree.Map(r.Output(), func(w *wildcard.Wildcard) (string, error) {
			return w.Pattern(), nil
		})
		views = append(views, RuleView{
			Index:     i,
			Name:      r.Name(),
			Output:    output,
			Input:     templates(r.Input()),
			Require:   templates(r.Require()),
			Wildcards: wildcardNames(r.Output()),
			Default:   r == def,
			Body:      r.HasBody(),
		})
	}
	return views
}

func templates(tree pathtree.Node[rules.Source]) pathtree.Node[string] {
	out, _ := pathtree.Map(tree, func(s rules.Source) (string, error) {
		if p, ok := s.(rules.Path); ok {
			return string(p), nil
		}
		return computed, nil
	})
	return out
}

func wildcardNames(tree pathtree.Node[*wildcard.Wildcard]) []string {
	seen := make(map[string]bool)
	var names []string
	for _, w := range pathtree.Flatten(tree) {
		for _, name := range w.Names() {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}

// MatchView is the outcome of matching one candidate against a template
type MatchView struct {
	Template  string            `json:"template" yaml:"template"`
	Expr      string            `json:"expr" yaml:"expr"`
	Candidate string            `json:"candidate" yaml:"candidate"`
	Matched   bool              `json:"matched" yaml:"matched"`
	Bindings  wildcard.Bindings `json:"bindings,omitempty" yaml:"bindings,omitempty"`
}

// NewMatchView matches candidate against w
func NewMatchView(w *wildcard.Wildcard, candidate string) MatchView {
	b, ok := w.Match(candidate)
	return MatchView{
		Template:  w.Pattern(),
		Expr:      w.Expr(),
		Candidate: candidate,
		Matched:   ok,
		Bindings:  b,
	}
}
