package cli

import (
	"github.com/spf13/cobra"
	"github.com/yuwenzhijiao/showcase/internal/domain/stat"
)

func NewStatsCommand(globalOptions *GlobalOptions) *cobra.Command {
	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Visitor counter",
	}

	getCmd := &cobra.Command{
		Use:   "get",
		Short: "Print the visitor count",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := globalOptions.client().VisitorCount(commandContext(cmd))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), stat.VisitorCountResponse{VisitorCount: n})
		},
	}

	visitCmd := &cobra.Command{
		Use:   "visit",
		Short: "Count one visit and print the new total",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := globalOptions.client().TrackVisit(commandContext(cmd))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), stat.VisitorCountResponse{VisitorCount: n})
		},
	}

	statsCmd.AddCommand(getCmd)
	statsCmd.AddCommand(visitCmd)

	return statsCmd
}
