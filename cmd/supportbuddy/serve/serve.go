// Package servecmder provides the serve command for running the API server.
package servecmder

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/supportbuddyx/supportbuddy/api"
	"github.com/supportbuddyx/supportbuddy/pkg/chat"
	"github.com/supportbuddyx/supportbuddy/pkg/config"
	docstoreutils "github.com/supportbuddyx/supportbuddy/pkg/docstore/utils"
	embeddingutils "github.com/supportbuddyx/supportbuddy/pkg/embeddings/utils"
	eventstreamutils "github.com/supportbuddyx/supportbuddy/pkg/eventstream/utils"
	"github.com/supportbuddyx/supportbuddy/pkg/ingest"
	llmutils "github.com/supportbuddyx/supportbuddy/pkg/llm/utils"
	"github.com/supportbuddyx/supportbuddy/pkg/logger"
	"github.com/supportbuddyx/supportbuddy/pkg/memory"
	"github.com/supportbuddyx/supportbuddy/pkg/retrieval"
	vectorutils "github.com/supportbuddyx/supportbuddy/pkg/vector/utils"
	"github.com/supportbuddyx/supportbuddy/pkg/worker"
)

type ServeCommander struct {
	configDir string
	listen    string
	debug     bool
	logger    *zap.Logger
}

const serveLongDesc string = `Run the SupportBuddy API server.

Configuration is read from config.toml (current directory or
~/.supportbuddy) and SUPPORTBUDDY_* environment variables. Flags
override the configured listen address.`

const serveShortDesc string = "Run the SupportBuddy API server"

func NewServeCmd() *cobra.Command {
	cmder := &ServeCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %v", err)
			}
			return cmder.run()
		},
	}

	cmd.Flags().StringVarP(&cmder.configDir, "config-dir", "c", "", "Directory containing config.toml")
	cmd.Flags().StringVarP(&cmder.listen, "listen", "l", "", "Address for the API server to listen on")

	return cmd
}

func (c *ServeCommander) run() error {
	// Local .env files are optional
	_ = godotenv.Load()

	v, err := config.InitViper(c.configDir)
	if err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}

	cfg, err := config.Load(v)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if c.listen != "" {
		cfg.Server.Listen = c.listen
	}

	c.logger = logger.NewLogger(c.debug)
	defer c.logger.Sync()

	ctx := context.Background()

	// Create shared document store
	docs, err := docstoreutils.NewDriver(ctx, &docstoreutils.NewDriverOpts{
		ProviderType: cfg.DocStore.Provider,
		SQLitePath:   cfg.DocStore.Path,
		MongoURI:     cfg.DocStore.URI,
		MongoDB:      cfg.DocStore.Database,
	})
	if err != nil {
		return fmt.Errorf("creating document store: %w", err)
	}
	defer docs.Close()

	c.logger.Info("using document store",
		zap.String("provider", cfg.DocStore.Provider),
	)

	embedder, err := embeddingutils.NewEmbedder(&embeddingutils.NewEmbedderOpts{
		ProviderType: cfg.Embedding.Provider,
		TargetURL:    cfg.Embedding.Target,
		Model:        cfg.Embedding.Model,
		APIKeyEnv:    cfg.Embedding.APIKeyEnv,
	})
	if err != nil {
		return fmt.Errorf("creating embedder: %w", err)
	}
	defer embedder.Close()

	vectors, err := vectorutils.NewDriver(ctx, &vectorutils.NewDriverOpts{
		ProviderType: cfg.VectorStore.Provider,
		Target:       cfg.VectorStore.Target,
		Collection:   cfg.VectorStore.Collection,
		Dimensions:   cfg.Embedding.Dimensions,
		Logger:       c.logger,
	})
	if err != nil {
		return fmt.Errorf("creating vector store: %w", err)
	}
	defer vectors.Close()

	c.logger.Info("using vector store",
		zap.String("provider", cfg.VectorStore.Provider),
		zap.String("collection", cfg.VectorStore.Collection),
	)

	completer, err := llmutils.NewCompleter(&llmutils.NewCompleterOpts{
		ProviderType: cfg.Completion.Provider,
		TargetURL:    cfg.Completion.Target,
		Model:        cfg.Completion.Model,
		MaxTokens:    cfg.Completion.MaxTokens,
		APIKeyEnv:    cfg.Completion.APIKeyEnv,
	})
	if err != nil {
		return fmt.Errorf("creating completer: %w", err)
	}
	defer completer.Close()

	c.logger.Info("using completion provider",
		zap.String("provider", cfg.Completion.Provider),
		zap.String("model", cfg.Completion.Model),
	)

	publisher, err := eventstreamutils.NewPublisher(&eventstreamutils.NewPublisherOpts{
		ProviderType: cfg.Events.Provider,
		Brokers:      cfg.Events.Brokers,
		Topic:        cfg.Events.Topic,
	})
	if err != nil {
		return fmt.Errorf("creating event publisher: %w", err)
	}
	defer publisher.Close()

	retriever := retrieval.New(embedder, vectors, cfg.Retrieval.TopK, c.logger)
	memories := memory.NewStore(docs)
	registry := chat.NewRegistry(docs, memories, retriever, completer, c.logger)
	workflow := ingest.NewWorkflow(docs, retriever, ingest.NewHTTPFetcher(c.logger), c.logger)

	pool, err := worker.NewPool(&worker.Config{
		Publisher:  publisher,
		NumWorkers: cfg.Workers.Num,
		QueueSize:  cfg.Workers.QueueSize,
		Logger:     c.logger,
	})
	if err != nil {
		return fmt.Errorf("creating worker pool: %w", err)
	}

	apiConfig := api.Config{
		ListenAddr: cfg.Server.Listen,
	}
	apiServer := api.NewServer(apiConfig, registry, workflow, pool, c.logger)

	// Channel to capture errors from goroutines
	errChan := make(chan error, 1)

	go func() {
		if err := apiServer.Run(); err != nil {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
	}()

	// Wait for interrupt signal or error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		pool.Close()
		return err
	case sig := <-sigChan:
		c.logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
		if err := apiServer.Shutdown(); err != nil {
			c.logger.Error("api server shutdown failed", zap.Error(err))
		}
		pool.Close()
		return nil
	}
}
