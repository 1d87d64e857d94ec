// Package api provides the HTTP REST API and WebSocket hub for Fusion
// Server.
//
// It exposes the live room/device model, dashboard layout commands, and
// platform passthroughs (service calls, history, signed URLs, camera
// streams) to the web dashboard, and relays incremental entity state
// changes to connected dashboard clients over WebSocket.
//
// The server follows the same lifecycle pattern as the other components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// Thread Safety: All methods are safe for concurrent use from multiple goroutines.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/egorcha174/fusion-new-sub001/internal/dashboard"
	"github.com/egorcha174/fusion-new-sub001/internal/hass"
	"github.com/egorcha174/fusion-new-sub001/internal/infrastructure/config"
	"github.com/egorcha174/fusion-new-sub001/internal/infrastructure/influxdb"
	"github.com/egorcha174/fusion-new-sub001/internal/infrastructure/logging"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight
// requests to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config      config.APIConfig
	WS          config.WebSocketConfig
	Dashboard   config.DashboardConfig
	Logger      *logging.Logger
	Platform    *hass.Client
	Layout      *dashboard.Manager
	Influx      *influxdb.Client // optional: telemetry recording disabled when nil
	ExternalHub *Hub             // if set, the server uses this hub instead of creating its own
	Version     string
}

// Server is the HTTP API server for Fusion Server.
type Server struct {
	cfg      config.APIConfig
	wsCfg    config.WebSocketConfig
	dashCfg  config.DashboardConfig
	logger   *logging.Logger
	platform *hass.Client
	layout   *dashboard.Manager
	influx   *influxdb.Client
	version  string

	server      *http.Server
	hub         *Hub
	externalHub bool
	cancel      context.CancelFunc
}

// New creates an API server with the given dependencies. The server is not
// started until Start() is called.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Platform == nil {
		return nil, fmt.Errorf("platform client is required")
	}
	if deps.Layout == nil {
		return nil, fmt.Errorf("dashboard manager is required")
	}

	s := &Server{
		cfg:      deps.Config,
		wsCfg:    deps.WS,
		dashCfg:  deps.Dashboard,
		logger:   deps.Logger,
		platform: deps.Platform,
		layout:   deps.Layout,
		influx:   deps.Influx,
		version:  deps.Version,
	}
	if deps.ExternalHub != nil {
		s.hub = deps.ExternalHub
		s.externalHub = true
	}
	return s, nil
}

// Start begins listening for HTTP connections. It starts the WebSocket
// hub, subscribes to live state changes for broadcast and telemetry, and
// launches the HTTP listener in a background goroutine.
func (s *Server) Start(ctx context.Context) error {
	var srvCtx context.Context
	srvCtx, s.cancel = context.WithCancel(ctx)

	if s.hub == nil {
		s.hub = NewHub(s.wsCfg, s.logger)
		go s.hub.Run(srvCtx)
	}

	s.subscribeStateUpdates()

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           s.buildRouter(),
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	s.logger.Info("API server listening", "address", s.server.Addr)
	return nil
}

// Close gracefully shuts down the API server, waiting up to
// gracefulShutdownTimeout for in-flight requests.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}
	if s.cancel != nil {
		s.cancel()
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// Hub exposes the WebSocket hub for components that broadcast directly.
func (s *Server) Hub() *Hub {
	return s.hub
}

// subscribeStateUpdates relays incremental entity changes from the live
// state mirror to dashboard WebSocket clients and, when telemetry is
// enabled, records numeric states to InfluxDB. The callback runs on the
// platform client's read loop, so both paths must stay non-blocking: the
// hub uses buffered per-client sends and the Influx write API batches
// asynchronously.
func (s *Server) subscribeStateUpdates() {
	s.platform.Store().Subscribe(func(change hass.StateChange) {
		payload := map[string]any{"entity_id": change.EntityID}
		if change.NewState != nil {
			payload["new_state"] = change.NewState
		} else {
			payload["new_state"] = nil
		}
		s.hub.Broadcast("device.state_changed", payload)

		if s.influx != nil && change.NewState != nil {
			s.influx.RecordEntityState(change.EntityID, change.NewState.State, change.NewState.Attributes)
		}
	})
}
