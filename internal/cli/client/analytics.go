package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// QueryCount is one entry of the most frequent questions.
type QueryCount struct {
	Query string `json:"query"`
	Count int    `json:"count"`
}

// RecentTicket is a short view of a recently filed ticket.
type RecentTicket struct {
	ID       string `json:"id"`
	Subject  string `json:"subject"`
	Status   string `json:"status"`
	Priority string `json:"priority"`
}

// Analytics is the support activity summary.
type Analytics struct {
	TotalChats      int            `json:"total_chats"`
	TicketsCreated  int            `json:"tickets_created"`
	ResolutionRate  float64        `json:"resolution_rate"`
	AvgResponseTime string         `json:"avg_response_time"`
	TopQueries      []QueryCount   `json:"top_queries"`
	RecentTickets   []RecentTicket `json:"recent_tickets"`
}

// AnalyticsCmd creates the analytics command.
func AnalyticsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analytics",
		Short: "Show support activity",
		Long:  "Shows chat volume, tickets created, resolution rate, response time, top questions and recent tickets.",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runAnalytics(context.Background(), cmd.OutOrStdout(), api, outputJSON)
		},
	}
}

func runAnalytics(ctx context.Context, out io.Writer, api *APIClient, outputJSON bool) error {
	resp, err := api.Get(ctx, "/analytics")
	if err != nil {
		return fmt.Errorf("failed to load analytics: %w", err)
	}

	if outputJSON {
		fmt.Fprintln(out, string(resp.Data))
		return nil
	}

	var a Analytics
	if err := json.Unmarshal(resp.Data, &a); err != nil {
		return fmt.Errorf("failed to parse analytics: %w", err)
	}

	fmt.Fprintf(out, "Total chats:        %d\n", a.TotalChats)
	fmt.Fprintf(out, "Tickets created:    %d\n", a.TicketsCreated)
	fmt.Fprintf(out, "Resolution rate:    %.1f%%\n", a.ResolutionRate)
	fmt.Fprintf(out, "Avg response time:  %s\n", a.AvgResponseTime)

	if len(a.TopQueries) > 0 {
		fmt.Fprintln(out, "\nTop questions:")
		for i, q := range a.TopQueries {
			fmt.Fprintf(out, "  %d. %s (%d)\n", i+1, q.Query, q.Count)
		}
	}

	if len(a.RecentTickets) > 0 {
		fmt.Fprintln(out, "\nRecent tickets:")
		for _, t := range a.RecentTickets {
			fmt.Fprintf(out, "  %s [%s/%s] %s\n", t.ID, t.Priority, t.Status, t.Subject)
		}
	}
	return nil
}
