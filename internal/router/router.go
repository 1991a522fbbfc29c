// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/moviestack/movie-catalog/internal/handler"
	"github.com/moviestack/movie-catalog/internal/middleware"
)

// Handlers groups everything RegisterRoutes needs to wire the surface.
type Handlers struct {
	Movies    *handler.MovieHandler
	Genres    *handler.TermHandler
	Directors *handler.TermHandler
	Auth      *handler.AuthHandler
}

// RegisterRoutes registers the full HTTP surface. Reads are public;
// every mutation requires a valid bearer token (RequireAuth), with the
// Identity middleware expected to be installed globally beforehand.
func RegisterRoutes(e *echo.Echo, h Handlers) {
	e.GET("/healthz", handler.Health)
	e.GET("/", handler.Index)

	// Public catalog reads.
	e.GET("/movies", h.Movies.List)
	e.GET("/movies/:id", h.Movies.Get)
	e.GET("/search", h.Movies.Search)
	e.GET("/genres", h.Genres.List)
	e.GET("/directors", h.Directors.List)

	// Account endpoints: registration and token issuance are open,
	// logout needs the token it is about to revoke.
	e.POST("/register", h.Auth.Register)
	e.POST("/auth/token", h.Auth.Token)
	e.GET("/logout", h.Auth.Logout, middleware.RequireAuth)

	// Protected mutations.
	e.POST("/movies", h.Movies.Create, middleware.RequireAuth)
	e.PUT("/movies/:id", h.Movies.Update, middleware.RequireAuth)
	e.DELETE("/movies/:id", h.Movies.Delete, middleware.RequireAuth)

	e.POST("/genres", h.Genres.Create, middleware.RequireAuth)
	e.PUT("/genres/:id", h.Genres.Update, middleware.RequireAuth)
	e.DELETE("/genres/:id", h.Genres.Delete, middleware.RequireAuth)

	e.POST("/directors", h.Directors.Create, middleware.RequireAuth)
	e.PUT("/directors/:id", h.Directors.Update, middleware.RequireAuth)
	e.DELETE("/directors/:id", h.Directors.Delete, middleware.RequireAuth)
}
