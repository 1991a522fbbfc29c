package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/moviestack/movie-catalog/internal/middleware"
)

// Health is a simple health-check endpoint used by load balancers and
// monitoring systems to verify that the service is running.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// Index greets the caller, by name when a valid token was presented.
func Index(c echo.Context) error {
	ident := middleware.CurrentIdentity(c)
	if ident.Authenticated {
		return c.JSON(http.StatusOK, fmt.Sprintf("Welcome to the movie catalog, %s !", ident.User.Username))
	}
	return c.JSON(http.StatusOK, "Welcome to the movie catalog !!")
}
