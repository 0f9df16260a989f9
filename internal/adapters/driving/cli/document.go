package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/paperchat-io/paperchat/internal/core/domain"
)

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Manage ingested documents",
}

var documentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your documents",
	Args:  cobra.NoArgs,
	RunE:  runDocumentList,
}

var documentDeleteCmd = &cobra.Command{
	Use:   "delete [doc-id]",
	Short: "Delete a document and its chunks",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentDelete,
}

func init() {
	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentDeleteCmd)
	rootCmd.AddCommand(documentCmd)
}

func runDocumentList(cmd *cobra.Command, _ []string) error {
	userID, err := currentUserID(cmd)
	if err != nil {
		return err
	}

	docs, err := retrievalService.ListDocuments(cmd.Context(), userID)
	if err != nil {
		return fmt.Errorf("listing documents: %w", err)
	}

	if len(docs) == 0 {
		cmd.Println("No documents ingested.")
		return nil
	}

	for _, doc := range docs {
		cmd.Printf("%s  %s (%s, %s)\n",
			doc.ID, doc.Name, doc.MIMEType, doc.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func runDocumentDelete(cmd *cobra.Command, args []string) error {
	userID, err := currentUserID(cmd)
	if err != nil {
		return err
	}

	if err := retrievalService.DeleteDocument(cmd.Context(), userID, args[0]); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("document %s not found", args[0])
		}
		return fmt.Errorf("deleting document: %w", err)
	}

	cmd.Printf("Deleted document %s\n", args[0])
	return nil
}
