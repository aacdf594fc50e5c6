package api

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/supportbuddyx/supportbuddy/pkg/chat"
	"github.com/supportbuddyx/supportbuddy/pkg/ingest"
	"github.com/supportbuddyx/supportbuddy/pkg/worker"
)

// Server is the API server for the SupportBuddy service
type Server struct {
	config   Config
	registry *chat.Registry
	workflow *ingest.Workflow
	pool     *worker.Pool
	logger   *zap.Logger
	app      *fiber.App
}

// NewServer creates a new API server.
// The registry and workflow are injected to allow sharing with other
// components (e.g., a CLI importer reusing the ingestion pipeline).
// The pool may be nil, in which case no exchange events are emitted.
func NewServer(config Config, registry *chat.Registry, workflow *ingest.Workflow, pool *worker.Pool, logger *zap.Logger) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{
		config:   config,
		registry: registry,
		workflow: workflow,
		pool:     pool,
		logger:   logger,
		app:      app,
	}

	app.Get("/", s.handleLiveness)
	app.Post("/addUrl", s.handleAddURL)
	app.Post("/addSiteMap", s.handleAddSitemap)
	app.Post("/askQuestion", s.handleAskQuestion)
	app.Post("/deleteUserMemory", s.handleDeleteUserMemory)

	return s
}

// Run starts the API server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting API server",
		zap.String("listen", s.config.ListenAddr),
	)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
