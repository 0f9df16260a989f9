// Package cli implements the paperchat command line interface.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/paperchat-io/paperchat/internal/adapters/driven/auth"
	configfile "github.com/paperchat-io/paperchat/internal/adapters/driven/config/file"
	ollamaembed "github.com/paperchat-io/paperchat/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/paperchat-io/paperchat/internal/adapters/driven/embedding/openai"
	ollamallm "github.com/paperchat-io/paperchat/internal/adapters/driven/llm/ollama"
	openaillm "github.com/paperchat-io/paperchat/internal/adapters/driven/llm/openai"
	"github.com/paperchat-io/paperchat/internal/adapters/driven/storage/sqlite"
	"github.com/paperchat-io/paperchat/internal/core/ports/driven"
	"github.com/paperchat-io/paperchat/internal/core/ports/driving"
	"github.com/paperchat-io/paperchat/internal/core/services"
	"github.com/paperchat-io/paperchat/internal/logger"
	"github.com/paperchat-io/paperchat/internal/normalisers"
	"github.com/paperchat-io/paperchat/internal/postprocessors"
	"github.com/paperchat-io/paperchat/internal/postprocessors/chunker"
)

// version is set at build time via ldflags.
var version = "dev"

// Cross-command state, wired in initServices.
var (
	verbose  bool
	username string
	dataDir  string

	configStore      driven.ConfigStore
	metadataStore    *sqlite.Store
	embeddingService driven.EmbeddingService
	llmService       driven.LLMService
	identityProvider driven.IdentityProvider
	retrievalService driving.RetrievalService
	chatService      driving.ChatService
)

var rootCmd = &cobra.Command{
	Use:   "paperchat",
	Short: "Chat with your documents",
	Long: `paperchat ingests documents (PDF, DOCX, PPTX, CSV, plain text),
indexes their content for semantic search and answers questions
grounded in what you uploaded.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)

		// Help and version need no backends.
		if cmd.Name() == "help" || cmd.Name() == "version" {
			return nil
		}
		return initServices()
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		closeServices()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&username, "user", "u", "", "act as this user (default: OS user)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default: ~/.paperchat)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with a context, so commands
// like watch stop cleanly on SIGINT.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// SetVersion sets the version string reported by the version command.
func SetVersion(v string) {
	version = v
}

// initServices builds the service graph from configuration.
func initServices() error {
	baseDir := dataDir
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolving home directory: %w", err)
		}
		baseDir = filepath.Join(home, ".paperchat")
	}

	cfg, err := configfile.NewConfigStore(baseDir)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	configStore = cfg

	store, err := sqlite.NewStore(filepath.Join(baseDir, "data"))
	if err != nil {
		return fmt.Errorf("opening metadata store: %w", err)
	}
	metadataStore = store

	embeddingService, err = buildEmbeddingService(cfg)
	if err != nil {
		return err
	}

	llmService, err = buildLLMService(cfg)
	if err != nil {
		return err
	}

	identityProvider, err = auth.NewStaticProvider(username)
	if err != nil {
		return fmt.Errorf("resolving identity: %w", err)
	}

	registry := normalisers.NewDefaultRegistry()

	chunkSize := cfg.GetInt("chunker.chunk_size")
	if chunkSize <= 0 {
		chunkSize = chunker.DefaultChunkSize
	}
	pipeline := postprocessors.NewDefaultPipeline(chunkSize)

	retrievalService = services.NewRetrievalService(
		registry,
		pipeline,
		embeddingService,
		store.DocumentStore(),
		filepath.Join(baseDir, "data", "indexes"),
	)

	var chatOpts []services.ChatOption
	if k := cfg.GetInt("chat.top_k"); k > 0 {
		chatOpts = append(chatOpts, services.WithTopK(k))
	}
	if n := cfg.GetInt("chat.max_tokens"); n > 0 {
		chatOpts = append(chatOpts, services.WithMaxTokens(n))
	}
	chatService = services.NewChatService(
		retrievalService,
		llmService,
		store.TranscriptStore(),
		chatOpts...,
	)

	return nil
}

// buildEmbeddingService selects the embedding backend from config.
// Ollama is the default; set embedding.provider = "openai" to switch.
func buildEmbeddingService(cfg driven.ConfigStore) (driven.EmbeddingService, error) {
	switch provider := cfg.GetString("embedding.provider"); provider {
	case "", "ollama":
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:    cfg.GetString("embedding.base_url"),
			Model:      cfg.GetString("embedding.model"),
			Dimensions: cfg.GetInt("embedding.dimensions"),
		}), nil
	case "openai":
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     os.Getenv("OPENAI_API_KEY"),
			BaseURL:    cfg.GetString("embedding.base_url"),
			Model:      cfg.GetString("embedding.model"),
			Dimensions: cfg.GetInt("embedding.dimensions"),
		})
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", provider)
	}
}

// buildLLMService selects the completion backend from config.
func buildLLMService(cfg driven.ConfigStore) (driven.LLMService, error) {
	switch provider := cfg.GetString("llm.provider"); provider {
	case "", "ollama":
		return ollamallm.NewLLMService(ollamallm.LLMConfig{
			BaseURL: cfg.GetString("llm.base_url"),
			Model:   cfg.GetString("llm.model"),
		}), nil
	case "openai":
		return openaillm.NewLLMService(openaillm.Config{
			APIKey:  os.Getenv("OPENAI_API_KEY"),
			BaseURL: cfg.GetString("llm.base_url"),
			Model:   cfg.GetString("llm.model"),
		})
	default:
		return nil, fmt.Errorf("unknown llm provider %q", provider)
	}
}

// closeServices releases backend connections.
func closeServices() {
	if embeddingService != nil {
		embeddingService.Close() //nolint:errcheck
	}
	if llmService != nil {
		llmService.Close() //nolint:errcheck
	}
	if metadataStore != nil {
		metadataStore.Close() //nolint:errcheck
	}
}

// currentUserID resolves the acting user's ID.
func currentUserID(cmd *cobra.Command) (string, error) {
	identity, err := identityProvider.Current(cmd.Context())
	if err != nil {
		return "", fmt.Errorf("resolving identity: %w", err)
	}
	return identity.UserID, nil
}
