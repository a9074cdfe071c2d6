package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/api"
	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/handlers/respond"
	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/middleware"
)

// NewRouter mounts h on a chi router with request ids, panic recovery, structured
// request logging and bearer authentication for secured operations.
func NewRouter(h api.ServerInterface, tokens middleware.TokenParser, logger *slog.Logger) http.Handler {
	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(middleware.NewStructuredLogger(logger))
	router.Use(chimiddleware.Recoverer)

	return api.HandlerWithOptions(h, api.ChiServerOptions{
		BaseRouter:       router,
		Middlewares:      []api.MiddlewareFunc{middleware.BearerAuth(tokens)},
		ErrorHandlerFunc: respond.ParamError,
	})
}
