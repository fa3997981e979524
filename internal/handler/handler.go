package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/wearly/tryonbot/internal/service"
)

// Handler holds all dependencies needed by the HTTP handlers.
type Handler struct {
	conversation *service.ConversationService
}

// Deps contains all dependencies required to construct a Handler.
type Deps struct {
	Conversation *service.ConversationService
}

// New creates a new Handler from the provided dependencies.
func New(deps Deps) *Handler {
	return &Handler{conversation: deps.Conversation}
}

// Register attaches all routes to the server.
func (h *Handler) Register(e *echo.Echo) {
	e.GET("/", h.HandleHealth)
	e.POST("/webhook", h.HandleWebhook)
}
