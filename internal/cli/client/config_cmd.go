package client

import (
	"encoding/json"
	"fmt"
	"io"
	"net/mail"

	"github.com/spf13/cobra"
)

// ConfigCmd creates the config parent command
func ConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage client settings",
		Long:  "Set, show, and clear the API URL and default contact email for the supporthub CLI",
	}

	cmd.AddCommand(ConfigSetCmd())
	cmd.AddCommand(ConfigShowCmd())
	cmd.AddCommand(ConfigClearCmd())

	return cmd
}

// ConfigSetCmd creates the config set command
func ConfigSetCmd() *cobra.Command {
	var (
		apiURL string
		email  string
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Save settings",
		Long:  "Store the API URL and contact email in global config (~/.config/supporthub/config.json)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(cmd.OutOrStdout(), apiURL, email)
		},
	}

	cmd.Flags().StringVar(&apiURL, "url", defaultAPIURL, "API URL")
	cmd.Flags().StringVar(&email, "email", "", "Default contact email for tickets")

	return cmd
}

// ConfigShowCmd creates the config show command
func ConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show effective settings",
		Long:  "Display the API URL in use and where it came from",
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			flagURL, _ := cmd.Flags().GetString("api-url")
			return runConfigShow(cmd.OutOrStdout(), flagURL, outputJSON)
		},
	}
}

// ConfigClearCmd creates the config clear command
func ConfigClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove saved settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := DeleteGlobalConfig(); err != nil {
				return fmt.Errorf("failed to clear config: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Settings cleared")
			return nil
		},
	}
}

func runConfigSet(out io.Writer, apiURL, email string) error {
	if !IsValidAPIURL(apiURL) {
		return fmt.Errorf("invalid API URL %q (expected http:// or https://)", apiURL)
	}
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return fmt.Errorf("invalid email address %q", email)
		}
	}

	config := &GlobalConfig{
		APIURL: apiURL,
		Email:  email,
	}

	if err := SaveGlobalConfig(config); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	fmt.Fprintln(out, "Settings saved")
	return nil
}

func runConfigShow(out io.Writer, flagURL string, outputJSON bool) error {
	source, apiURL := GetURLSource(flagURL)
	email := defaultEmail()

	if outputJSON {
		status := map[string]interface{}{
			"api_url": apiURL,
			"source":  string(source),
		}
		if email != "" {
			status["email"] = email
		}

		data, err := json.MarshalIndent(status, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal settings: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	fmt.Fprintf(out, "API URL: %s\n", apiURL)
	fmt.Fprintf(out, "Source: %s\n", source)
	if email != "" {
		fmt.Fprintf(out, "Email: %s\n", email)
	}
	return nil
}
