package main

import (
	"fmt"
	"os"

	"github.com/cloo-solutions/supporthub/internal/cli"
	"github.com/cloo-solutions/supporthub/internal/cli/client"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "supporthub",
		Short: "Support Hub CLI - chat with the support assistant and open tickets",
		Long: `Support Hub CLI talks to the support hub API: chat with the assistant,
open support tickets, search and manage the knowledge base, upload documents
and view support analytics.

Environment variables:
  SUPPORTHUB_API_URL   API base URL (default: http://localhost:8080)`,
		Version: version,
	}

	rootCmd.PersistentFlags().Bool("output", false, "Output as JSON")
	rootCmd.PersistentFlags().String("api-url", "", "API base URL (overrides env and config)")
	cli.AddHelpJSONFlag(rootCmd)

	rootCmd.AddCommand(client.ChatCmd())
	rootCmd.AddCommand(client.TicketCmd())
	rootCmd.AddCommand(client.SearchCmd())
	rootCmd.AddCommand(client.DocsCmd())
	rootCmd.AddCommand(client.AnalyticsCmd())
	rootCmd.AddCommand(client.UploadCmd())
	rootCmd.AddCommand(client.HealthCmd())
	rootCmd.AddCommand(client.ConfigCmd())

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
