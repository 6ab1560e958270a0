package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter returns a router for the actions of one API version. A ".json" or ".xml"
// suffix is trimmed before routing, so "/instances/1.xml" reaches the "/instances/{id}"
// route with id "1" while negotiation still sees the suffix.
func NewRouter() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.URLFormat)
	return router
}
