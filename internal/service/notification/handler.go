package notification

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/oggyb/desire-match/internal/middleware"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// List handles GET /notifications?limit=&token=
func (h *Handler) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	var token *string
	if t := c.QueryParam("token"); t != "" {
		token = &t
	}

	items, next, err := h.svc.List(c.Request().Context(), middleware.UserID(c), token, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":       true,
		"notifications": items,
		"nextToken":     next,
	})
}

// MarkRead handles PUT /notifications/:id/read
func (h *Handler) MarkRead(c echo.Context) error {
	id, err := middleware.ParamUint(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.MarkRead(c.Request().Context(), middleware.UserID(c), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Notification marked as read"})
}

// MarkAllRead handles PUT /notifications/read-all
func (h *Handler) MarkAllRead(c echo.Context) error {
	if err := h.svc.MarkAllRead(c.Request().Context(), middleware.UserID(c)); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "All notifications marked as read"})
}

// UnreadCount handles GET /notifications/unread-count
func (h *Handler) UnreadCount(c echo.Context) error {
	n, err := h.svc.UnreadCount(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "count": n})
}
