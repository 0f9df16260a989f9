package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/paperchat-io/paperchat/internal/core/domain"
)

var chatCmd = &cobra.Command{
	Use:   "chat [question]",
	Short: "Ask questions about your documents",
	Long: `Answers a question using content retrieved from your index.
With no argument, starts an interactive session; exit with Ctrl-D
or an empty line.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runChat,
}

var chatHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Show your conversation transcript",
	Args:  cobra.NoArgs,
	RunE:  runChatHistory,
}

var chatHistoryLimit int

func init() {
	chatHistoryCmd.Flags().IntVarP(&chatHistoryLimit, "limit", "n", 0, "show only the last n messages")
	chatCmd.AddCommand(chatHistoryCmd)
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	userID, err := currentUserID(cmd)
	if err != nil {
		return err
	}

	if len(args) == 1 {
		return askOnce(cmd, userID, args[0])
	}

	// Interactive loop.
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		cmd.Print("> ")
		if !scanner.Scan() {
			cmd.Println()
			return scanner.Err()
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			return nil
		}
		if err := askOnce(cmd, userID, question); err != nil {
			return err
		}
	}
}

func askOnce(cmd *cobra.Command, userID, question string) error {
	answer, err := chatService.Answer(cmd.Context(), userID, question)
	if err != nil {
		if errors.Is(err, domain.ErrUserIndexNotFound) {
			return errors.New("no documents ingested yet, run 'paperchat ingest' first")
		}
		return fmt.Errorf("chat failed: %w", err)
	}
	cmd.Println(answer)
	return nil
}

func runChatHistory(cmd *cobra.Command, _ []string) error {
	userID, err := currentUserID(cmd)
	if err != nil {
		return err
	}

	history, err := chatService.History(cmd.Context(), userID, chatHistoryLimit)
	if err != nil {
		return fmt.Errorf("loading transcript: %w", err)
	}

	if len(history) == 0 {
		cmd.Println("No conversation yet.")
		return nil
	}

	for _, msg := range history {
		cmd.Printf("%s: %s\n", msg.Role, msg.Content)
	}
	return nil
}
