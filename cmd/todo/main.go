package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var Version = "dev"

type rootOptions struct {
	configPath string
	driver     string
	dbURL      string
}

func main() {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "todo",
		Short:         "ToDoList - projects and tasks with automatic overdue closing",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", os.Getenv("TODO_CONFIG"), "Path to a YAML/TOML/JSON/.env config file")
	rootCmd.PersistentFlags().StringVar(&opts.driver, "driver", "", "Storage driver: sqlite, postgres or memory (overrides DB_DRIVER)")
	rootCmd.PersistentFlags().StringVar(&opts.dbURL, "db", "", "SQLite path or Postgres connection string (overrides DATABASE_URL)")

	rootCmd.AddCommand(serveCmd(opts))
	rootCmd.AddCommand(consoleCmd(opts))
	rootCmd.AddCommand(sweepCmd(opts))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
