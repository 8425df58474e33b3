// Package http provides the inbound HTTP adapter including routing and
// server lifecycle for the sentry process.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/chanstack/chanstack/internal/adapters/http/handlers"
)

// NewRouter creates an HTTP handler with all sentry routes registered.
// Middleware is applied globally in the order given. The route shapes
// (/channel, /channel/list) are fixed; validator worker deployments depend
// on them.
func NewRouter(
	channelHandler *handlers.ChannelHandler,
	validatorHandler *handlers.ValidatorHandler,
	healthHandler *handlers.HealthHandler,
	middlewares ...func(http.Handler) http.Handler,
) http.Handler {
	r := chi.NewRouter()

	for _, mw := range middlewares {
		r.Use(mw)
	}

	// Health endpoints.
	r.Get("/health/live", healthHandler.Liveness)
	r.Get("/health/ready", healthHandler.Readiness)

	// Channel lifecycle and spend history.
	r.Post("/channel", channelHandler.CreateChannel)
	r.Get("/channel/list", channelHandler.ListChannels)
	r.Get("/channel/{id}", channelHandler.GetChannel)
	r.Get("/channel/{id}/events", channelHandler.ListEvents)
	r.Post("/channel/{id}/events", channelHandler.AppendEvent)
	r.Post("/channel/{id}/withdraw", channelHandler.BeginWithdraw)
	r.Post("/channel/{id}/withdraw/complete", channelHandler.CompleteWithdraw)
	r.Post("/channel/{id}/close", channelHandler.CloseChannel)

	// Validator registry.
	r.Get("/validators", validatorHandler.ListValidators)
	r.Post("/validators", validatorHandler.RegisterValidator)
	r.Get("/validators/{address}", validatorHandler.GetValidator)

	return r
}
