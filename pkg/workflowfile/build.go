package workflowfile

import (
	"fmt"
	"io"
	"strings"

	"github.com/dfm/yawms/pkg/errors"
	"github.com/dfm/yawms/pkg/logging"
	"github.com/dfm/yawms/pkg/pathtree"
	"github.com/dfm/yawms/pkg/rules"
	"github.com/dfm/yawms/pkg/wildcard"
	"github.com/dfm/yawms/pkg/workflow"
)

// BuildOptions controls how rule bodies are built
type BuildOptions struct {
	// Commands receives every rendered command, one per line. Rules with a
	// command get no body when it is nil.
	Commands io.Writer
}

// Build registers every rule of f on a new workflow, in file order
func Build(f *File, opts BuildOptions) (*workflow.Workflow, error) {
	logger := logging.GetLogger("workflowfile")
	wf := workflow.New()

	for i, def := range f.Rules {
		ruleOpts := rules.Options{
			Name:    def.Name,
			Output:  def.Output,
			Input:   rules.Templates(def.Input),
			Require: rules.Templates(def.Require),
		}
		if def.Command != "" && opts.Commands != nil {
			ruleOpts.Body = CommandBody(def.Command, opts.Commands)
		}

		register := wf.Register
		if def.Default {
			register = wf.RegisterDefault
		}
		if _, err := register(ruleOpts); err != nil {
			return nil, errors.Wrapf(err, errors.GetErrorCode(err), "rule %d (%s) in %s", i+1, describe(def), f.Path).
				WithDetail("rule", i+1)
		}
	}

	logger.Debug().
		Str("path", f.Path).
		Int("rules", len(f.Rules)).
		Msg("Workflow built")
	return wf, nil
}

// CommandBody returns a body that renders command for the job and writes it
// to w. The command can use the job's wildcards along with {name}, {output},
// {input} and {require}, the last three joined by spaces. Those four names
// take precedence over wildcards of the same name.
func CommandBody(command string, w io.Writer) rules.Body {
	return func(job *rules.Job) error {
		vars, err := commandVars(job)
		if err != nil {
			return err
		}
		line, err := wildcard.Apply(vars, command)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, line)
		return err
	}
}

func commandVars(job *rules.Job) (wildcard.Bindings, error) {
	vars := job.Bindings()
	vars["name"] = job.Name()
	vars["output"] = strings.Join(job.Outputs(), " ")

	input, err := job.Input()
	if err != nil {
		return nil, err
	}
	vars["input"] = strings.Join(pathtree.Flatten(input), " ")

	require, err := job.Require()
	if err != nil {
		return nil, err
	}
	vars["require"] = strings.Join(pathtree.Flatten(require), " ")
	return vars, nil
}

func describe(def RuleDef) string {
	if def.Name != "" {
		return def.Name
	}
	return strings.Join(pathtree.Flatten(def.Output), ", ")
}
