package auth

import (
	"github.com/labstack/echo/v4"

	"github.com/oggyb/desire-match/internal/app"
)

// Registrar mounts the public /auth routes.
type Registrar struct {
	appCtx *app.AppContext
}

func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

func (r *Registrar) Register(api *echo.Group) {
	h := NewHandler(NewAuthService(r.appCtx))
	g := api.Group("/auth")
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
}
