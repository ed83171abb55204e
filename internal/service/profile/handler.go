package profile

import (
	"net/http"
	"strconv"

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

type passwordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,strongpassword"`
	ConfirmPassword string `json:"confirmPassword" validate:"eqfield=NewPassword"`
}

// bind decodes and validates a JSON body into req.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return svcErr.InvalidArgument("Invalid request body")
	}
	return c.Validate(req)
}

// Browse handles GET /users?page=&limit=
func (h *Handler) Browse(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	users, pg, err := h.svc.Browse(c.Request().Context(), middleware.UserID(c), page, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "users": users, "pagination": pg})
}

// Me handles GET /users/profile
func (h *Handler) Me(c echo.Context) error {
	u, err := h.svc.Me(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "user": u})
}

// Update handles PUT /users/profile
func (h *Handler) Update(c echo.Context) error {
	var req UpdateProfileRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.svc.UpdateProfile(c.Request().Context(), middleware.UserID(c), &req); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Profile updated successfully"})
}

// Password handles PUT /users/password
func (h *Handler) Password(c echo.Context) error {
	var req passwordRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.svc.ChangePassword(c.Request().Context(), middleware.UserID(c), req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Password updated successfully"})
}

// DeleteAccount handles DELETE /users/account
func (h *Handler) DeleteAccount(c echo.Context) error {
	if err := h.svc.DeleteAccount(c.Request().Context(), middleware.UserID(c)); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Account deleted successfully"})
}

// PotentialMatches handles GET /users/matches
func (h *Handler) PotentialMatches(c echo.Context) error {
	items, err := h.svc.PotentialMatches(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "matches": items})
}

// Get handles GET /users/:id
func (h *Handler) Get(c echo.Context) error {
	id, err := middleware.ParamUint(c, "id")
	if err != nil {
		return err
	}
	u, err := h.svc.GetProfile(c.Request().Context(), middleware.UserID(c), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "user": u})
}

// UploadURL handles POST /users/photos/upload-url
func (h *Handler) UploadURL(c echo.Context) error {
	var req UploadURLRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	res, err := h.svc.PhotoUploadURL(c.Request().Context(), middleware.UserID(c), &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "uploadUrl": res.UploadURL, "key": res.Key})
}

// CompleteOnboarding handles POST /onboarding/complete
func (h *Handler) CompleteOnboarding(c echo.Context) error {
	var req OnboardingRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.svc.CompleteOnboarding(c.Request().Context(), middleware.UserID(c), &req); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Onboarding completed successfully"})
}

// OnboardingStatus handles GET /onboarding/status
func (h *Handler) OnboardingStatus(c echo.Context) error {
	st, err := h.svc.OnboardingStatus(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":             true,
		"onboardingCompleted": st.Completed,
		"data":                st.Data,
	})
}

// AddFavorite handles POST /favorites/:userId
func (h *Handler) AddFavorite(c echo.Context) error {
	target, err := middleware.ParamUint(c, "userId")
	if err != nil {
		return err
	}
	if err := h.svc.AddFavorite(c.Request().Context(), middleware.UserID(c), target); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Added to favorites"})
}

// RemoveFavorite handles DELETE /favorites/:userId
func (h *Handler) RemoveFavorite(c echo.Context) error {
	target, err := middleware.ParamUint(c, "userId")
	if err != nil {
		return err
	}
	if err := h.svc.RemoveFavorite(c.Request().Context(), middleware.UserID(c), target); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Removed from favorites"})
}

// Favorites handles GET /favorites
func (h *Handler) Favorites(c echo.Context) error {
	items, err := h.svc.ListFavorites(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "favorites": items})
}
