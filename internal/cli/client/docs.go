package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

// DocumentRequest is the body of POST /documents and PUT /documents/{id}.
type DocumentRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Type    string `json:"type,omitempty"`
}

// DocsCmd creates the docs parent command.
func DocsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docs",
		Short: "Manage knowledge base documents",
		Long:  "List, show, add and update the articles the assistant answers from",
	}

	cmd.AddCommand(DocsListCmd())
	cmd.AddCommand(DocsShowCmd())
	cmd.AddCommand(DocsAddCmd())
	cmd.AddCommand(DocsUpdateCmd())

	return cmd
}

// DocsListCmd creates the docs list command.
func DocsListCmd() *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runDocsList(context.Background(), cmd.OutOrStdout(), api, filter, outputJSON)
		},
	}

	cmd.Flags().StringVarP(&filter, "query", "q", "", "Only show documents whose title contains this text")

	return cmd
}

func runDocsList(ctx context.Context, out io.Writer, api *APIClient, filter string, outputJSON bool) error {
	path := "/documents"
	if filter != "" {
		path += "?q=" + url.QueryEscape(filter)
	}

	resp, err := api.Get(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if outputJSON {
		fmt.Fprintln(out, string(resp.Data))
		return nil
	}

	var docs []Document
	if err := json.Unmarshal(resp.Data, &docs); err != nil {
		return fmt.Errorf("failed to parse documents: %w", err)
	}

	if len(docs) == 0 {
		fmt.Fprintln(out, "No documents found")
		return nil
	}
	for _, d := range docs {
		fmt.Fprintf(out, "%4d  %-14s %-28s %s\n", d.ID, d.Type, snippet(d.Title, 28), d.UpdatedAt)
	}
	return nil
}

// DocsShowCmd creates the docs show command.
func DocsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}

			doc, err := getDocument(context.Background(), api, args[0])
			if err != nil {
				return err
			}

			outputJSON, _ := cmd.Flags().GetBool("output")
			if outputJSON {
				return printJSON(cmd.OutOrStdout(), doc)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\n", doc.Title)
			fmt.Fprintf(out, "Type: %s  Updated: %s\n\n", doc.Type, doc.UpdatedAt)
			fmt.Fprintln(out, doc.Content)
			return nil
		},
	}
}

func getDocument(ctx context.Context, api *APIClient, rawID string) (*Document, error) {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("invalid document id %q", rawID)
	}

	resp, err := api.Get(ctx, fmt.Sprintf("/documents/%d", id))
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(resp.Data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	return &doc, nil
}

// DocsAddCmd creates the docs add command.
func DocsAddCmd() *cobra.Command {
	var (
		title   string
		content string
		file    string
		docType string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a document",
		Long:  "Adds an article to the knowledge base. Content comes from --content or --file.",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}

			body, err := contentFrom(content, file)
			if err != nil {
				return err
			}

			resp, err := api.Post(context.Background(), "/documents", DocumentRequest{
				Title:   title,
				Content: body,
				Type:    docType,
			})
			if err != nil {
				return fmt.Errorf("failed to add document: %w", err)
			}
			return printDocumentResult(cmd, "Added", resp)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Document title")
	cmd.Flags().StringVar(&content, "content", "", "Document content")
	cmd.Flags().StringVarP(&file, "file", "f", "", "Read content from a file")
	cmd.Flags().StringVarP(&docType, "type", "t", "", "Document type (FAQ, Tutorial, Product Info, Technical, Support)")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

// DocsUpdateCmd creates the docs update command.
func DocsUpdateCmd() *cobra.Command {
	var (
		title   string
		content string
		file    string
		docType string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a document",
		Long:  "Replaces the given fields of a document; fields not passed keep their current value.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}
			ctx := context.Background()

			doc, err := getDocument(ctx, api, args[0])
			if err != nil {
				return err
			}

			req := DocumentRequest{Title: doc.Title, Content: doc.Content, Type: doc.Type}
			if cmd.Flags().Changed("title") {
				req.Title = title
			}
			if cmd.Flags().Changed("content") || cmd.Flags().Changed("file") {
				if req.Content, err = contentFrom(content, file); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("type") {
				req.Type = docType
			}

			resp, err := api.Put(ctx, fmt.Sprintf("/documents/%d", doc.ID), req)
			if err != nil {
				return fmt.Errorf("failed to update document: %w", err)
			}
			return printDocumentResult(cmd, "Updated", resp)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&content, "content", "", "New content")
	cmd.Flags().StringVarP(&file, "file", "f", "", "Read new content from a file")
	cmd.Flags().StringVarP(&docType, "type", "t", "", "New document type")

	return cmd
}

func contentFrom(content, file string) (string, error) {
	if file == "" {
		return content, nil
	}
	if content != "" {
		return "", fmt.Errorf("--content and --file are mutually exclusive")
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", file, err)
	}
	return string(data), nil
}

func printDocumentResult(cmd *cobra.Command, verb string, resp *APIResponse) error {
	outputJSON, _ := cmd.Flags().GetBool("output")
	if outputJSON {
		fmt.Fprintln(cmd.OutOrStdout(), string(resp.Data))
		return nil
	}

	var doc Document
	if err := json.Unmarshal(resp.Data, &doc); err != nil {
		return fmt.Errorf("failed to parse document: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s document %d: %s\n", verb, doc.ID, doc.Title)
	return nil
}
