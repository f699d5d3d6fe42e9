package yawms

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/dfm/yawms/internal/version"
	"github.com/dfm/yawms/pkg/cobrax/topics"
	"github.com/dfm/yawms/pkg/config"
	"github.com/dfm/yawms/pkg/errors"
	"github.com/dfm/yawms/pkg/logging"
	"github.com/dfm/yawms/pkg/output"
	"github.com/dfm/yawms/pkg/workflow"
	"github.com/dfm/yawms/pkg/workflowfile"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

//go:embed topics/*.md
var topicFiles embed.FS

// app is the state shared by the commands of one root command
type app struct {
	verbosity int
	file      string
	format    string

	cfg *config.Config
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	a := &app{}

	rootCmd := &cobra.Command{
		Use:     "yawms",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand: show help but report incorrect usage
			_ = cmd.Help()
			return errors.New(errors.ErrInvalidInput, MsgErrNoCommand)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&a.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVarP(&a.file, "file", "f", "", MsgFlagFile)
	rootCmd.PersistentFlags().StringVarP(&a.format, "format", "o", "auto", MsgFlagFormat)
	_ = rootCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"auto", "term", "text", "json", "yaml"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: "COMMANDS:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})
	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newResolveCmd(a))
	rootCmd.AddCommand(newRunCmd(a))
	rootCmd.AddCommand(newRulesCmd(a))
	rootCmd.AddCommand(newMatchCmd(a))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newManCmd())

	helpFS, err := fs.Sub(topicFiles, "topics")
	if err == nil {
		_, err = topics.InitializeWithOptions(rootCmd, helpFS, topics.Options{
			Extensions: []string{".md"},
			Renderer:   topics.NewGlamourRenderer(),
		})
	}
	if err != nil {
		log.Warn().Err(err).Msg("Help topics unavailable")
	}
	rootCmd.SetHelpCommandGroupID("misc")

	return rootCmd
}

// setup loads the configuration, flags taking precedence, and configures logging
func (a *app) setup(cmd *cobra.Command) error {
	overrides := make(map[string]interface{})
	if cmd.Flags().Changed("format") {
		overrides["output.format"] = a.format
	}
	if a.verbosity > 0 {
		overrides["log.verbosity"] = a.verbosity
	}

	cfg, err := config.Load(config.Options{Overrides: overrides})
	if err != nil {
		logging.SetupLogger(a.verbosity)
		return err
	}
	a.cfg = cfg

	logging.SetupLogger(cfg.Log.Verbosity)
	log.Debug().Str("command", cmd.Name()).Msg("Command started")
	return nil
}

// renderer builds the output renderer for cmd's standard output
func (a *app) renderer(cmd *cobra.Command) (*output.Renderer, error) {
	format, err := output.ParseFormat(a.cfg.Output.Format)
	if err != nil {
		return nil, err
	}
	if format == output.FormatAuto && a.cfg.Output.NoColor {
		format = output.FormatText
	}

	r, err := output.NewRenderer(format, cmd.OutOrStdout())
	if err != nil {
		return nil, err
	}
	if r.Format() == output.FormatTerminal && a.cfg.Output.NoColor {
		return output.NewRenderer(output.FormatText, cmd.OutOrStdout())
	}
	return r, nil
}

// workflowPath returns the --file flag or the first configured workflow
// file in the working directory
func (a *app) workflowPath() (string, error) {
	if a.file != "" {
		return a.file, nil
	}
	dir, err := os.Getwd()
	if err != nil {
		return "", errors.Wrap(err, errors.ErrConfigLoad, "cannot determine working directory")
	}
	return a.cfg.FindWorkflowFile(dir)
}

// loadWorkflow reads the workflow file. Rendered commands go to commands
// when it is not nil.
func (a *app) loadWorkflow(commands io.Writer) (*workflow.Workflow, error) {
	path, err := a.workflowPath()
	if err != nil {
		return nil, err
	}

	f, err := workflowfile.Load(path)
	if err != nil {
		return nil, fmt.Errorf(MsgErrLoadWorkflow, err)
	}
	wf, err := workflowfile.Build(f, workflowfile.BuildOptions{Commands: commands})
	if err != nil {
		return nil, fmt.Errorf(MsgErrLoadWorkflow, err)
	}
	return wf, nil
}

// targets converts command line arguments to workflow targets. ":name"
// selects a rule by name, anything else is a path.
func targets(wf *workflow.Workflow, args []string) ([]any, error) {
	out := make([]any, 0, len(args))
	for _, arg := range args {
		if name, ok := strings.CutPrefix(arg, ":"); ok {
			r, found := wf.RuleByName(name)
			if !found {
				return nil, errors.Newf(errors.ErrInvalidTarget, "no rule named %s", name).
					WithDetail("target", arg)
			}
			out = append(out, r)
			continue
		}
		out = append(out, arg)
	}
	return out, nil
}
