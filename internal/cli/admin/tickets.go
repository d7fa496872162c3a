package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/cloo-solutions/supporthub/internal/domain"
	"github.com/cloo-solutions/supporthub/internal/repository"
	"github.com/cloo-solutions/supporthub/internal/service"
	"github.com/spf13/cobra"
)

func TicketsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tickets",
		Short: "Inspect support tickets",
		Long:  "List and show support tickets directly from the database",
	}

	cmd.AddCommand(TicketsListCmd())
	cmd.AddCommand(TicketsShowCmd())

	return cmd
}

func TicketsListCmd() *cobra.Command {
	var (
		limit  int
		cursor string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tickets, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			outputFormat, _ := cmd.Flags().GetString("output")
			return runTicketsList(cmd.OutOrStdout(), outputFormat, limit, cursor)
		},
	}

	cmd.Flags().StringP("output", "o", "text", "Output format (text or json)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of results")
	cmd.Flags().StringVar(&cursor, "cursor", "", "Pagination cursor from previous response")

	return cmd
}

func runTicketsList(out io.Writer, outputFormat string, limit int, cursor string) error {
	ctx := context.Background()

	pool, err := getDBPool(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	svc := service.NewTicketService(repository.NewTicketRepository(pool), nil, nil)
	result, err := svc.List(ctx, service.ListTicketsInput{Cursor: cursor, Limit: limit})
	if err != nil {
		return fmt.Errorf("failed to list tickets: %w", err)
	}

	return printTicketPage(out, outputFormat, result)
}

func printTicketPage(out io.Writer, outputFormat string, result *service.ListTicketsOutput) error {
	if outputFormat == "json" {
		data := make([]map[string]interface{}, len(result.Items))
		for i, t := range result.Items {
			data[i] = ticketJSON(t)
		}
		output := map[string]interface{}{
			"items":    data,
			"cursor":   result.Cursor,
			"has_more": result.HasMore,
		}
		jsonBytes, _ := json.MarshalIndent(output, "", "  ")
		fmt.Fprintln(out, string(jsonBytes))
		return nil
	}

	if len(result.Items) == 0 {
		fmt.Fprintln(out, "No tickets found")
		return nil
	}
	fmt.Fprintln(out, "Tickets:")
	for _, t := range result.Items {
		fmt.Fprintf(out, "  %s [%s/%s] %s (created: %s)\n",
			t.ID, t.Priority, t.Status, t.Subject(), t.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	if result.HasMore && result.Cursor != "" {
		fmt.Fprintf(out, "\nMore results available. Use --cursor %s\n", result.Cursor)
	}
	return nil
}

func TicketsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <ticket-id>",
		Short: "Show one ticket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			pool, err := getDBPool(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			t, err := repository.NewTicketRepository(pool).GetByID(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to get ticket: %w", err)
			}

			jsonBytes, _ := json.MarshalIndent(ticketJSON(t), "", "  ")
			fmt.Fprintln(cmd.OutOrStdout(), string(jsonBytes))
			return nil
		},
	}
}

func ticketJSON(t *domain.Ticket) map[string]interface{} {
	return map[string]interface{}{
		"id":           t.ID,
		"subject":      t.Subject(),
		"user_message": t.UserMessage,
		"ai_response":  t.AIResponse,
		"user_email":   t.UserEmail,
		"priority":     t.Priority,
		"status":       t.Status,
		"created_at":   t.CreatedAt,
	}
}
