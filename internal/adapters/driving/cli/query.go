package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/paperchat-io/paperchat/internal/core/domain"
)

var (
	queryTopK int
	queryJSON bool
)

var queryCmd = &cobra.Command{
	Use:   "query [text]",
	Short: "Find the document chunks nearest to a query",
	Long: `Embeds the query text and returns the closest chunks from your
index, nearest first. Useful for inspecting what chat would see.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().IntVarP(&queryTopK, "top", "k", 2, "number of chunks to return")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	userID, err := currentUserID(cmd)
	if err != nil {
		return err
	}

	results, err := retrievalService.Query(cmd.Context(), userID, args[0], queryTopK)
	if err != nil {
		if errors.Is(err, domain.ErrUserIndexNotFound) {
			return errors.New("no documents ingested yet, run 'paperchat ingest' first")
		}
		if errors.Is(err, domain.ErrEmptyIndex) {
			return errors.New("your index is empty")
		}
		return fmt.Errorf("query failed: %w", err)
	}

	if queryJSON {
		type hit struct {
			Position int     `json:"position"`
			Distance float32 `json:"distance"`
			Content  string  `json:"content"`
		}
		hits := make([]hit, len(results))
		for i, r := range results {
			hits[i] = hit{Position: r.Position, Distance: r.Distance, Content: r.Chunk.Content}
		}
		data, err := json.MarshalIndent(hits, "", "  ")
		if err != nil {
			return fmt.Errorf("marshalling results: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(results) == 0 {
		cmd.Println("No matching chunks.")
		return nil
	}

	for i, r := range results {
		cmd.Printf("[%d] position %d, distance %.4f\n", i+1, r.Position, r.Distance)
		cmd.Println(r.Chunk.Content)
		cmd.Println()
	}
	return nil
}
