package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	svcErr "github.com/oggyb/desire-match/internal/errors"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Register handles POST /auth/register
func (h *Handler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return svcErr.InvalidArgument("Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	sess, err := h.svc.Register(c.Request().Context(), &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "User registered successfully",
		"token":   sess.Token,
		"user":    sess.User,
	})
}

// Login handles POST /auth/login
func (h *Handler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return svcErr.InvalidArgument("Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	sess, err := h.svc.Login(c.Request().Context(), &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Login successful",
		"token":   sess.Token,
		"user":    sess.User,
	})
}
