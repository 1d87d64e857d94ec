package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		// Platform connection lifecycle
		r.Route("/connection", func(r chi.Router) {
			r.Get("/", s.handleConnectionStatus)
			r.Post("/connect", s.handleConnect)
			r.Post("/disconnect", s.handleDisconnect)
		})

		// Live device model
		r.Get("/rooms", s.handleListRooms)
		r.Get("/rooms/physical", s.handleListPhysicalRooms)
		r.Route("/devices", func(r chi.Router) {
			r.Get("/", s.handleListDevices)
			r.Get("/battery", s.handleLowBattery)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetDevice)
				r.Post("/service", s.handleCallService)
			})
		})

		// Device customizations
		r.Route("/customizations", func(r chi.Router) {
			r.Get("/", s.handleListCustomizations)
			r.Put("/{id}", s.handleSetCustomization)
			r.Delete("/{id}", s.handleDeleteCustomization)
		})

		// Tabs and grid layout
		r.Route("/tabs", func(r chi.Router) {
			r.Get("/", s.handleListTabs)
			r.Post("/", s.handleCreateTab)
			r.Get("/active", s.handleGetActiveTab)
			r.Put("/active", s.handleSetActiveTab)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetTab)
				r.Patch("/", s.handleRenameTab)
				r.Delete("/", s.handleDeleteTab)
				r.Put("/grid", s.handleUpdateGridSettings)

				r.Route("/layout", func(r chi.Router) {
					r.Post("/place", s.handlePlaceDevice)
					r.Post("/move", s.handleMoveDevice)
					r.Post("/resize", s.handleResizeDevice)
					r.Delete("/{deviceID}", s.handleRemoveDevice)
				})
			})
		})

		// Card templates
		r.Route("/templates", func(r chi.Router) {
			r.Get("/", s.handleListTemplates)
			r.Post("/", s.handleCreateTemplate)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetTemplate)
				r.Put("/", s.handleUpdateTemplate)
				r.Delete("/", s.handleDeleteTemplate)
			})
		})

		// Platform passthroughs
		r.Route("/platform", func(r chi.Router) {
			r.Get("/config", s.handlePlatformConfig)
			r.Post("/sign-path", s.handleSignPath)
		})
		r.Get("/camera/{id}/stream", s.handleCameraStream)
		r.Get("/history", s.handleHistory)

		// Dashboard event stream
		r.Get("/ws", s.handleWebSocket)
	})

	return r
}

// handleHealth returns the server health status, including the platform
// connection state so a single probe covers both.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"version":  s.version,
		"platform": s.platform.Status(),
	})
}
