package main

import (
	"fmt"
	"os"

	"github.com/cloo-solutions/supporthub/internal/cli"
	"github.com/cloo-solutions/supporthub/internal/cli/admin"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "supporthubd",
		Short: "Support hub API server",
		Long:  "Support hub daemon for running the chat and ticket API, migrating the database and inspecting tickets",
	}

	cli.AddHelpJSONFlag(rootCmd)
	rootCmd.AddCommand(admin.ServeCmd())
	rootCmd.AddCommand(admin.MigrateCmd())
	rootCmd.AddCommand(admin.DocsCmd())
	rootCmd.AddCommand(admin.TicketsCmd())

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
