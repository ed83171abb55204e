package server

import "github.com/labstack/echo/v4"

// Registrar is a common interface for all feature route registrars.
// api is the /api group; registrars add their own auth middleware.
type Registrar interface {
	Register(api *echo.Group)
}
