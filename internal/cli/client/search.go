package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// SearchRequest represents the search API request.
type SearchRequest struct {
	Query string `json:"query"`
	Limit *int   `json:"limit,omitempty"`
}

// Document is a knowledge base entry as returned by the API.
type Document struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Type      string `json:"type"`
	UpdatedAt string `json:"updated_at"`
}

// SearchResponse represents the search API response.
type SearchResponse struct {
	Query   string     `json:"query"`
	Results []Document `json:"results"`
	Total   int        `json:"total"`
}

// SearchCmd creates the search command.
func SearchCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the knowledge base",
		Long:  "Finds knowledge base articles whose title or content contains the query (case-insensitive).",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}
			outputJSON, _ := cmd.Flags().GetBool("output")

			var limitPtr *int
			if cmd.Flags().Changed("limit") {
				limitPtr = &limit
			}
			return runSearch(cmd.Context(), cmd.OutOrStdout(), api, args[0], limitPtr, outputJSON)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 3, "Maximum number of results")

	return cmd
}

func runSearch(ctx context.Context, out io.Writer, api *APIClient, query string, limit *int, outputJSON bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	resp, err := api.Post(ctx, "/search", SearchRequest{Query: query, Limit: limit})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if outputJSON {
		fmt.Fprintln(out, string(resp.Data))
		return nil
	}

	var result SearchResponse
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return fmt.Errorf("failed to parse search response: %w", err)
	}

	if len(result.Results) == 0 {
		fmt.Fprintln(out, "No results found")
		return nil
	}

	fmt.Fprintf(out, "Found %d results:\n\n", result.Total)
	for _, d := range result.Results {
		fmt.Fprintf(out, "  [%d] %s (%s)\n", d.ID, d.Title, d.Type)
		fmt.Fprintf(out, "      %s\n", snippet(d.Content, 100))
	}
	return nil
}
