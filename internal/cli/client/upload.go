package client

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

// UploadCmd creates the upload command.
func UploadCmd() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a document",
		Long: `Uploads a file to document storage.

Plain text and markdown files are also added to the knowledge base.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			outputJSON, _ := cmd.Flags().GetBool("output")
			return runUpload(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), api, args[0], quiet || outputJSON, outputJSON)
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Do not print upload progress")

	return cmd
}

func runUpload(ctx context.Context, out, progressOut io.Writer, api *APIClient, path string, quiet, outputJSON bool) error {
	var onProgress ProgressFunc
	if !quiet {
		onProgress = func(current, total int64) {
			if total > 0 {
				fmt.Fprintf(progressOut, "\rUploading... %3d%%", current*100/total)
			}
		}
	}

	resp, err := api.UploadFile(ctx, path, onProgress)
	if !quiet {
		fmt.Fprintln(progressOut)
	}
	if err != nil {
		return fmt.Errorf("failed to upload document: %w", err)
	}

	if outputJSON {
		return printJSON(out, resp)
	}

	fmt.Fprintf(out, "Uploaded %s (%d bytes, %s)\n", resp.Filename, resp.Size, resp.ContentType)
	if resp.DocumentID != nil {
		fmt.Fprintf(out, "Added to knowledge base as document %d\n", *resp.DocumentID)
	}
	return nil
}
