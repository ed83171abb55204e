package messaging

import (
	"github.com/labstack/echo/v4"

	"github.com/oggyb/desire-match/internal/app"
	"github.com/oggyb/desire-match/internal/middleware"
)

// Registrar ties the messaging routes into the HTTP server
type Registrar struct {
	appCtx *app.AppContext
}

func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the messaging handlers under /messages
func (r *Registrar) Register(api *echo.Group) {
	h := NewHandler(NewMessagingService(r.appCtx))
	g := api.Group("/messages", middleware.JWT(r.appCtx.Tokens))
	g.GET("/conversations", h.Conversations)
	g.GET("/conversation/:id", h.Messages)
	g.POST("/send", h.Send)
	g.POST("/start-conversation/:userId", h.StartConversation)
}
