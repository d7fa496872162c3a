package admin

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/cloo-solutions/supporthub/internal/domain"
	"github.com/cloo-solutions/supporthub/internal/knowledge"
	"github.com/cloo-solutions/supporthub/internal/repository"
	"github.com/cloo-solutions/supporthub/internal/service"
	"github.com/spf13/cobra"
)

func DocsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docs",
		Short: "Manage the knowledge base",
		Long:  "Seed and list knowledge base documents directly in the database",
	}

	cmd.AddCommand(DocsSeedCmd())
	cmd.AddCommand(DocsListCmd())

	return cmd
}

func DocsSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the reference documents into an empty knowledge base",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			pool, err := getDBPool(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			svc := service.NewDocumentServiceWithTx(repository.NewDocumentRepository(pool), nil, nil, repository.NewTxRunner(pool))
			seeded, err := svc.SeedIfEmpty(ctx, knowledge.SeedDocuments())
			if err != nil {
				return fmt.Errorf("failed to seed knowledge base: %w", err)
			}

			if seeded {
				fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d documents\n", len(knowledge.SeedDocuments()))
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "Knowledge base already has documents, nothing seeded")
			}
			return nil
		},
	}
}

func DocsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all documents in id order",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			pool, err := getDBPool(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			docs, err := repository.NewDocumentRepository(pool).ListAll(ctx)
			if err != nil {
				return fmt.Errorf("failed to list documents: %w", err)
			}

			printDocuments(cmd.OutOrStdout(), docs)
			return nil
		},
	}
}

func printDocuments(out io.Writer, docs []domain.Document) {
	if len(docs) == 0 {
		fmt.Fprintln(out, "No documents found")
		return
	}
	for _, d := range docs {
		fmt.Fprintf(out, "%4d  %-14s %-28s %s\n", d.ID, d.Type, truncate(d.Title, 28), d.UpdatedAt.Format("2006-01-02"))
	}
	fmt.Fprintf(out, "\n%d %s\n", len(docs), plural(len(docs), "document"))
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
