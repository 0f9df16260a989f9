package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/paperchat-io/paperchat/internal/core/domain"
	"github.com/paperchat-io/paperchat/internal/core/services"
)

var ingestMIMEType string

var ingestCmd = &cobra.Command{
	Use:   "ingest [file]",
	Short: "Ingest a document",
	Long: `Parses a document, chunks its text, embeds the chunks and adds them
to your index. Supported formats: PDF, DOCX, PPTX, CSV and plain text.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestMIMEType, "mime", "", "override the detected MIME type")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	path := args[0]

	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("cannot read %s: %w", path, err)
	}

	mimeType := ingestMIMEType
	if mimeType == "" {
		detected, ok := services.MIMETypeForPath(path)
		if !ok {
			return fmt.Errorf("cannot detect format of %s, pass --mime", path)
		}
		mimeType = detected
	}

	userID, err := currentUserID(cmd)
	if err != nil {
		return err
	}

	result, err := retrievalService.Ingest(cmd.Context(), userID, domain.RawDocument{
		UserID:   userID,
		Path:     path,
		Name:     filepath.Base(path),
		MIMEType: mimeType,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUnsupportedFormat) {
			return fmt.Errorf("unsupported format %s", mimeType)
		}
		return fmt.Errorf("ingestion failed: %w", err)
	}

	cmd.Printf("Ingested %s (%d chunks, document %s)\n",
		filepath.Base(path), result.ChunkCount, result.DocumentID)

	if len(result.Metadata) > 0 && verbose {
		cmd.Println("Metadata:")
		for key, value := range result.Metadata {
			cmd.Printf("  %s: %s\n", key, value)
		}
	}
	return nil
}
