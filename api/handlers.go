package api

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/supportbuddyx/supportbuddy/pkg/worker"
)

// MessageResponse is the generic success envelope for ingestion and
// deletion endpoints.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the generic failure envelope. Details stay in the
// server log; callers only see the category.
type ErrorResponse struct {
	Error string `json:"error"`
}

const (
	msgBadRequest  = "Bad request"
	msgServerError = "Server error"
)

// addURLRequest is the request body for POST /addUrl. URLs is a pointer so
// a missing field can be told apart from a present-but-empty list.
type addURLRequest struct {
	URLs *[]string `json:"urls"`
}

// addSitemapRequest is the request body for POST /addSiteMap.
type addSitemapRequest struct {
	Sitemap string `json:"sitemap"`
}

// askQuestionRequest is the request body for POST /askQuestion.
type askQuestionRequest struct {
	UserID       string `json:"user_id"`
	MessageInput string `json:"message_input"`
}

// deleteUserMemoryRequest is the request body for POST /deleteUserMemory.
type deleteUserMemoryRequest struct {
	UserID string `json:"user_id"`
}

// handleLiveness returns a simple health check response.
func (s *Server) handleLiveness(c *fiber.Ctx) error {
	return c.JSON(MessageResponse{Message: "SupportBuddy is running..."})
}

// handleAddURL ingests a batch of page URLs.
func (s *Server) handleAddURL(c *fiber.Ctx) error {
	var req addURLRequest
	if err := c.BodyParser(&req); err != nil {
		s.logger.Warn("malformed addUrl request", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: msgBadRequest})
	}

	if req.URLs == nil {
		s.logger.Warn("addUrl request without urls field")
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: msgBadRequest})
	}

	// An empty list is a valid no-op, not a validation failure.
	if err := s.workflow.AddURLs(c.Context(), *req.URLs); err != nil {
		s.logger.Error("url ingestion failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: msgServerError})
	}

	return c.JSON(MessageResponse{Message: "URLs handled successfully"})
}

// handleAddSitemap expands a sitemap and ingests its pages.
func (s *Server) handleAddSitemap(c *fiber.Ctx) error {
	var req addSitemapRequest
	if err := c.BodyParser(&req); err != nil {
		s.logger.Warn("malformed addSiteMap request", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: msgBadRequest})
	}

	if req.Sitemap == "" {
		s.logger.Warn("addSiteMap request with no sitemap")
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: msgBadRequest})
	}

	if err := s.workflow.AddSitemap(c.Context(), req.Sitemap); err != nil {
		s.logger.Error("sitemap ingestion failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: msgServerError})
	}

	return c.JSON(MessageResponse{Message: "Sitemap handled successfully"})
}

// handleAskQuestion answers a user question with conversation memory.
// Collaborator failures inside the registry are absorbed there; the caller
// receives a JSON null body rather than an error status.
func (s *Server) handleAskQuestion(c *fiber.Ctx) error {
	var req askQuestionRequest
	if err := c.BodyParser(&req); err != nil {
		s.logger.Warn("malformed askQuestion request", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: msgBadRequest})
	}

	if req.UserID == "" || req.MessageInput == "" {
		s.logger.Warn("askQuestion request with missing fields",
			zap.String("user_id", req.UserID),
		)
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: msgBadRequest})
	}

	result := s.registry.Ask(c.Context(), req.UserID, req.MessageInput)

	if result != nil && s.pool != nil {
		s.pool.Enqueue(worker.Job{
			UserID:   req.UserID,
			Question: req.MessageInput,
			Answer:   result.Answer,
			Sources:  result.Sources,
		})
	}

	return c.JSON(result)
}

// handleDeleteUserMemory removes a user's record and memory blob.
// Deleting an absent user still reports success; the miss is only logged.
func (s *Server) handleDeleteUserMemory(c *fiber.Ctx) error {
	var req deleteUserMemoryRequest
	if err := c.BodyParser(&req); err != nil {
		s.logger.Warn("malformed deleteUserMemory request", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: msgBadRequest})
	}

	if req.UserID == "" {
		s.logger.Warn("deleteUserMemory request with no user_id")
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: msgBadRequest})
	}

	if _, err := s.registry.Delete(c.Context(), req.UserID); err != nil {
		s.logger.Error("user memory deletion failed",
			zap.String("user_id", req.UserID),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: msgServerError})
	}

	return c.JSON(MessageResponse{Message: "User memory deleted successfully"})
}
