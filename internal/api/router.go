// NotifyGuard - Notification Prioritization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/northlane-labs/notifyguard

// Package api provides HTTP routing using Chi router.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/northlane-labs/notifyguard/internal/middleware"
)

// Router wires the Handler's endpoints behind the Chi middleware stack.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter builds a Router for handler, applying the middleware config
// built from corsOrigins and rate-limit settings.
func NewRouter(handler *Handler, chiMW *ChiMiddleware) *Router {
	return &Router{handler: handler, chiMiddleware: chiMW}
}

// chiMiddlewareAdapter adapts http.HandlerFunc middleware to Chi's
// func(http.Handler) http.Handler, so internal/middleware's existing
// functions compose with r.Use().
func chiMiddlewareAdapter(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// Setup configures every HTTP route.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())
	r.Use(chiMiddlewareAdapter(middleware.Compression))
	r.Use(chiMiddlewareAdapter(middleware.PrometheusMetrics))

	// Health and stats: permissive rate limiting, no auth, used for
	// monitoring and dashboard polling.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Get("/", router.handler.Health)
		r.Get("/live", router.handler.HealthLive)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.With(router.chiMiddleware.RateLimitHealth()).Get("/stats", router.handler.Stats)

		// Evaluate is the hot path: permissive rate limiting since every
		// inbound notification event goes through it.
		r.With(router.chiMiddleware.RateLimitEvaluate()).Post("/evaluate", router.handler.Evaluate)

		r.With(router.chiMiddleware.RateLimitBurst()).Get("/history/{user_id}", router.handler.History)

		r.Route("/rules", func(r chi.Router) {
			r.With(router.chiMiddleware.RateLimitBurst()).Get("/", router.handler.ListRules)
			r.With(router.chiMiddleware.RateLimitWrite()).Post("/", router.handler.CreateRule)
		})

		r.With(router.chiMiddleware.RateLimitWrite()).Post("/force-dispatch", router.handler.ForceDispatch)
	})

	r.With(router.chiMiddleware.RateLimitBurst()).Get("/ws/decisions", router.handler.WebSocket)

	return r
}
