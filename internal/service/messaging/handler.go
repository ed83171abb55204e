package messaging

import (
	"net/http"

	"github.com/labstack/echo/v4"

	svcErr "github.com/oggyb/desire-match/internal/errors"
	"github.com/oggyb/desire-match/internal/middleware"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type sendRequest struct {
	ConversationID uint64 `json:"conversationId" validate:"required"`
	Message        string `json:"message" validate:"required"`
}

// StartConversation handles POST /messages/start-conversation/:userId
func (h *Handler) StartConversation(c echo.Context) error {
	other, err := middleware.ParamUint(c, "userId")
	if err != nil {
		return err
	}
	id, created, err := h.svc.StartConversation(c.Request().Context(), middleware.UserID(c), other)
	if err != nil {
		return err
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	return c.JSON(status, echo.Map{"success": true, "conversationId": id})
}

// Conversations handles GET /messages/conversations
func (h *Handler) Conversations(c echo.Context) error {
	items, err := h.svc.ListConversations(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "conversations": items})
}

// Messages handles GET /messages/conversation/:id
func (h *Handler) Messages(c echo.Context) error {
	id, err := middleware.ParamUint(c, "id")
	if err != nil {
		return err
	}
	items, err := h.svc.GetMessages(c.Request().Context(), middleware.UserID(c), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "messages": items})
}

// Send handles POST /messages/send
func (h *Handler) Send(c echo.Context) error {
	var req sendRequest
	if err := c.Bind(&req); err != nil {
		return svcErr.InvalidArgument("Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	id, err := h.svc.Send(c.Request().Context(), middleware.UserID(c), req.ConversationID, req.Message)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "messageId": id})
}
