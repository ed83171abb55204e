package notification

import (
	"github.com/labstack/echo/v4"

	"github.com/oggyb/desire-match/internal/app"
	"github.com/oggyb/desire-match/internal/middleware"
)

// Registrar ties the notification routes into the HTTP server
type Registrar struct {
	appCtx *app.AppContext
}

func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

func (r *Registrar) Register(api *echo.Group) {
	h := NewHandler(NewNotificationService(r.appCtx))
	g := api.Group("/notifications", middleware.JWT(r.appCtx.Tokens))
	g.GET("", h.List)
	g.GET("/unread-count", h.UnreadCount)
	g.PUT("/read-all", h.MarkAllRead)
	g.PUT("/:id/read", h.MarkRead)
}
