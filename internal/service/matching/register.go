package matching

import (
	"github.com/labstack/echo/v4"

	"github.com/oggyb/desire-match/internal/app"
	"github.com/oggyb/desire-match/internal/middleware"
)

// Registrar ties the matching routes into the HTTP server
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the matching service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the matching handlers under /matches
func (r *Registrar) Register(api *echo.Group) {
	h := NewHandler(NewMatchingService(r.appCtx))
	g := api.Group("/matches", middleware.JWT(r.appCtx.Tokens))
	g.POST("/like/:userId", h.Like)
	g.POST("/dislike/:userId", h.Dislike)
	g.POST("/unmatch/:userId", h.Unmatch)
	g.GET("/my-matches", h.MyMatches)
	g.GET("/my-likes", h.MyLikes)
	g.GET("/likes-me", h.LikesMe)
	g.GET("/likes-me/count", h.LikesMeCount)
}
