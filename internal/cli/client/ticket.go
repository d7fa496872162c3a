package client

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/cloo-solutions/supporthub/internal/domain"
	"github.com/spf13/cobra"
)

// TicketSubmitter files support tickets.
type TicketSubmitter interface {
	SubmitTicket(ctx context.Context, req TicketRequest) (*TicketResponse, error)
}

// submitTicket drives one dialog through Draft -> Submitting -> Submitted | Failed.
func submitTicket(ctx context.Context, out io.Writer, api TicketSubmitter, dialog *domain.TicketDialog, req TicketRequest) error {
	if err := dialog.Submit(); err != nil {
		return err
	}
	fmt.Fprintln(out, "Submitting...")

	resp, err := api.SubmitTicket(ctx, req)
	if err != nil {
		if ferr := dialog.Fail(err.Error()); ferr != nil {
			return ferr
		}
		return fmt.Errorf("failed to create support ticket: %w", err)
	}

	if err := dialog.Succeed(resp.TicketID); err != nil {
		return err
	}

	fmt.Fprintln(out, "Ticket Created Successfully!")
	fmt.Fprintln(out, "We've received your support request and will get back to you soon.")
	if resp.TicketID != "" {
		fmt.Fprintf(out, "Ticket ID: %s\n", resp.TicketID)
	}
	return nil
}

// submitWithRetries resubmits the same request after a failure, up to retries more times.
func submitWithRetries(ctx context.Context, out io.Writer, api TicketSubmitter, dialog *domain.TicketDialog, req TicketRequest, retries int) error {
	var err error
	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			if rerr := dialog.Reset(); rerr != nil {
				return rerr
			}
			fmt.Fprintf(out, "Retrying (%d/%d)...\n", attempt, retries)
		}

		err = submitTicket(ctx, out, api, dialog, req)
		if err == nil || ctx.Err() != nil {
			return err
		}
	}
	return err
}

// TicketCmd creates the ticket command.
func TicketCmd() *cobra.Command {
	var (
		aiResponse string
		email      string
		priority   string
		retries    int
	)

	cmd := &cobra.Command{
		Use:   "ticket <message>",
		Short: "Open a support ticket",
		Long: `Creates a support ticket for a question the assistant could not resolve.

Priority is one of low, medium, high or urgent (default medium).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}

			if email == "" {
				email = defaultEmail()
			}

			req := TicketRequest{
				UserMessage: strings.TrimSpace(args[0]),
				AIResponse:  aiResponse,
				UserEmail:   email,
				Priority:    priority,
			}
			if req.UserMessage == "" {
				return fmt.Errorf("message cannot be empty")
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			outputJSON, _ := cmd.Flags().GetBool("output")
			return runTicket(ctx, cmd.OutOrStdout(), api, req, retries, outputJSON)
		},
	}

	cmd.Flags().StringVar(&aiResponse, "ai-response", "", "Assistant reply that prompted the ticket")
	cmd.Flags().StringVarP(&email, "email", "e", "", "Contact email (defaults to the configured email)")
	cmd.Flags().StringVarP(&priority, "priority", "p", string(domain.DefaultPriority), "Ticket priority (low, medium, high, urgent)")
	cmd.Flags().IntVar(&retries, "retries", 0, "Resubmit this many times if the submission fails")

	return cmd
}

func runTicket(ctx context.Context, out io.Writer, api TicketSubmitter, req TicketRequest, retries int, outputJSON bool) error {
	if outputJSON {
		resp, err := api.SubmitTicket(ctx, req)
		if err != nil {
			return err
		}
		return printJSON(out, resp)
	}

	return submitWithRetries(ctx, out, api, domain.NewTicketDialog(), req, retries)
}
