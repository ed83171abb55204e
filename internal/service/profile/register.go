package profile

import (
	"github.com/labstack/echo/v4"

	"github.com/oggyb/desire-match/internal/app"
	"github.com/oggyb/desire-match/internal/middleware"
)

// Registrar ties the profile, onboarding and favorites routes into the HTTP server
type Registrar struct {
	appCtx *app.AppContext
}

func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

func (r *Registrar) Register(api *echo.Group) {
	h := NewHandler(NewProfileService(r.appCtx))
	auth := middleware.JWT(r.appCtx.Tokens)

	users := api.Group("/users", auth)
	users.GET("", h.Browse)
	users.GET("/profile", h.Me)
	users.PUT("/profile", h.Update)
	users.PUT("/password", h.Password)
	users.DELETE("/account", h.DeleteAccount)
	users.GET("/matches", h.PotentialMatches)
	users.POST("/photos/upload-url", h.UploadURL)
	users.GET("/:id", h.Get)

	onboarding := api.Group("/onboarding", auth)
	onboarding.POST("/complete", h.CompleteOnboarding)
	onboarding.GET("/status", h.OnboardingStatus)

	favorites := api.Group("/favorites", auth)
	favorites.GET("", h.Favorites)
	favorites.POST("/:userId", h.AddFavorite)
	favorites.DELETE("/:userId", h.RemoveFavorite)
}
