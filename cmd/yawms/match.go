package yawms

import (
	"github.com/dfm/yawms/pkg/output"
	"github.com/dfm/yawms/pkg/wildcard"
	"github.com/spf13/cobra"
)

func newMatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "match TEMPLATE CANDIDATE...",
		Short:   MsgMatchShort,
		Long:    MsgMatchLong,
		Example: MsgMatchExample,
		Args:    cobra.MinimumNArgs(2),
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := wildcard.Compile(args[0])
			if err != nil {
				return err
			}

			views := make([]output.MatchView, 0, len(args)-1)
			for _, candidate := range args[1:] {
				views = append(views, output.NewMatchView(w, candidate))
			}

			r, err := a.renderer(cmd)
			if err != nil {
				return err
			}
			return r.Matches(views)
		},
	}
}
