package matching

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/oggyb/desire-match/internal/middleware"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Like handles POST /matches/like/:userId
func (h *Handler) Like(c echo.Context) error {
	target, err := middleware.ParamUint(c, "userId")
	if err != nil {
		return err
	}
	res, err := h.svc.Like(c.Request().Context(), middleware.UserID(c), target)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":     true,
		"isMatch":     res.IsMatch,
		"matchedUser": res.MatchedUser,
	})
}

// Dislike handles POST /matches/dislike/:userId
func (h *Handler) Dislike(c echo.Context) error {
	target, err := middleware.ParamUint(c, "userId")
	if err != nil {
		return err
	}
	if err := h.svc.Dislike(c.Request().Context(), middleware.UserID(c), target); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// Unmatch handles POST /matches/unmatch/:userId
func (h *Handler) Unmatch(c echo.Context) error {
	target, err := middleware.ParamUint(c, "userId")
	if err != nil {
		return err
	}
	if err := h.svc.Unmatch(c.Request().Context(), middleware.UserID(c), target); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// MyMatches handles GET /matches/my-matches
func (h *Handler) MyMatches(c echo.Context) error {
	items, err := h.svc.Matches(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "matches": items})
}

// MyLikes handles GET /matches/my-likes
func (h *Handler) MyLikes(c echo.Context) error {
	items, err := h.svc.SentLikes(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "likes": items})
}

// LikesMeCount handles GET /matches/likes-me/count
func (h *Handler) LikesMeCount(c echo.Context) error {
	count, err := h.svc.ReceivedLikesCount(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "count": count})
}

// LikesMe handles GET /matches/likes-me
func (h *Handler) LikesMe(c echo.Context) error {
	items, err := h.svc.ReceivedLikes(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "likes": items})
}
