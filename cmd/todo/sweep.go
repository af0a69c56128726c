package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"todolist/internal/sweeper"
)

func sweepCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Close overdue tasks once and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(cmd.Context(), opts, os.Stderr)
			if err != nil {
				return err
			}
			defer env.close()

			sw := sweeper.New(env.services.Tasks, env.cfg.Sweeper.Interval(), env.logger)
			closed, err := sw.RunOnce(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "closed %d overdue task(s)\n", closed)
			return nil
		},
	}
}
