package yawms

import (
	"github.com/dfm/yawms/pkg/output"
	"github.com/spf13/cobra"
)

func newResolveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "resolve [targets...]",
		Short:   MsgResolveShort,
		Long:    MsgResolveLong,
		Example: MsgResolveExample,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			wf, err := a.loadWorkflow(nil)
			if err != nil {
				return err
			}
			ts, err := targets(wf, args)
			if err != nil {
				return err
			}
			jobs, err := wf.Run(ts...)
			if err != nil {
				return err
			}
			views, err := output.NewJobViews(jobs)
			if err != nil {
				return err
			}

			r, err := a.renderer(cmd)
			if err != nil {
				return err
			}
			return r.Jobs(views)
		},
	}
}

func newRunCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "run [targets...]",
		Short:   MsgRunShort,
		Long:    MsgRunLong,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			wf, err := a.loadWorkflow(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			ts, err := targets(wf, args)
			if err != nil {
				return err
			}
			jobs, err := wf.Run(ts...)
			if err != nil {
				return err
			}
			return wf.Execute(jobs)
		},
	}
}

func newRulesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rules",
		Short:   MsgRulesShort,
		Long:    MsgRulesLong,
		Args:    cobra.NoArgs,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			wf, err := a.loadWorkflow(nil)
			if err != nil {
				return err
			}
			r, err := a.renderer(cmd)
			if err != nil {
				return err
			}
			return r.Rules(output.NewRuleViews(wf))
		},
	}
}
