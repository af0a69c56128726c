package main

import (
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"todolist/internal/console"
)

func consoleCmd(opts *rootOptions) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "console",
		Short: "Manage projects and tasks from an interactive menu",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			// Operation logs would interleave with the menu.
			logOut := io.Discard
			if verbose {
				logOut = os.Stderr
			}

			env, err := setup(ctx, opts, logOut)
			if err != nil {
				return err
			}
			defer env.close()

			c := console.New(env.services.Projects, env.services.Tasks, cmd.InOrStdin(), cmd.OutOrStdout())
			return c.Run(ctx)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Write operation logs to stderr")
	return cmd
}
