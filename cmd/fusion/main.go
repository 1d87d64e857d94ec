// Fusion Server - home automation dashboard backend
//
// Fusion Server sits between a Home Assistant style platform and the web
// dashboard: it mirrors live entity state over the platform's WebSocket
// API, maps raw entities into the dashboard's device model, owns the
// persisted grid layouts, and serves both over REST and WebSocket.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/egorcha174/fusion-new-sub001/migrations"

	"github.com/egorcha174/fusion-new-sub001/internal/api"
	"github.com/egorcha174/fusion-new-sub001/internal/bridge"
	"github.com/egorcha174/fusion-new-sub001/internal/dashboard"
	"github.com/egorcha174/fusion-new-sub001/internal/hass"
	"github.com/egorcha174/fusion-new-sub001/internal/infrastructure/config"
	"github.com/egorcha174/fusion-new-sub001/internal/infrastructure/database"
	"github.com/egorcha174/fusion-new-sub001/internal/infrastructure/influxdb"
	"github.com/egorcha174/fusion-new-sub001/internal/infrastructure/logging"
	"github.com/egorcha174/fusion-new-sub001/internal/infrastructure/mqtt"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Cancel on interrupt signals (Ctrl+C, SIGTERM) for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting Fusion Server",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open the settings database
	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	// Load dashboard state (tabs, customizations, templates)
	layout := dashboard.NewManager(dashboard.NewSQLiteStore(db.DB), cfg.Dashboard, log)
	if loadErr := layout.Load(ctx); loadErr != nil {
		return fmt.Errorf("loading dashboard state: %w", loadErr)
	}
	log.Info("dashboard state loaded",
		"tabs", len(layout.Tabs()),
		"templates", len(layout.Templates()),
	)

	// Platform client. The initial connect is best-effort: the server stays
	// up without a session, and the dashboard triggers reconnects through
	// the API.
	store := hass.NewStateStore()
	platform := hass.NewClient(cfg.Platform, store, log)
	if connErr := platform.Connect(ctx); connErr != nil {
		log.Warn("initial platform connect failed; waiting for a connect request",
			"error", connErr)
	} else {
		log.Info("platform session established")
	}
	defer platform.Disconnect()

	// Connect to InfluxDB (optional)
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)

		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
	} else {
		log.Info("InfluxDB disabled")
	}

	// Start the MQTT republish bridge (optional)
	if cfg.MQTT.Enabled {
		if bridgeErr := startBridge(cfg, platform, store, layout, log); bridgeErr != nil {
			return bridgeErr
		}
	} else {
		log.Info("MQTT bridge disabled")
	}

	// Start the API server
	server, err := api.New(api.Deps{
		Config:    cfg.API,
		WS:        cfg.WebSocket,
		Dashboard: cfg.Dashboard,
		Logger:    log,
		Platform:  platform,
		Layout:    layout,
		Influx:    influxClient,
		Version:   version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if startErr := server.Start(ctx); startErr != nil {
		return fmt.Errorf("starting API server: %w", startErr)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	log.Info("initialisation complete, waiting for shutdown signal")

	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls run in reverse order:
	// 1. API server
	// 2. InfluxDB (if enabled)
	// 3. Platform session
	// 4. Database

	log.Info("Fusion Server stopped")
	return nil
}

// startBridge connects to the broker and starts the state republish bridge.
// A snapshot of the current mirror is published immediately so the broker's
// retained topics are complete even when entities never change afterwards.
func startBridge(cfg *config.Config, platform *hass.Client, store *hass.StateStore, layout *dashboard.Manager, log *logging.Logger) error {
	mqttClient, err := mqtt.Connect(cfg.MQTT)
	if err != nil {
		return fmt.Errorf("connecting to MQTT: %w", err)
	}
	log.Info("MQTT connected",
		"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
		"client_id", cfg.MQTT.Broker.ClientID,
	)

	mqttClient.SetLogger(log)
	mqttClient.SetOnConnect(func() {
		log.Info("MQTT reconnected")
	})
	mqttClient.SetOnDisconnect(func(err error) {
		log.Warn("MQTT disconnected", "error", err)
	})

	b, err := bridge.New(bridge.Options{
		MQTT:     mqttClient,
		Platform: platform,
		Store:    store,
		Layout:   layout,
		Topics:   mqtt.Topics{Prefix: cfg.MQTT.TopicPrefix},
		Logger:   log,
	})
	if err != nil {
		_ = mqttClient.Close()
		return fmt.Errorf("creating MQTT bridge: %w", err)
	}
	if err := b.Start(); err != nil {
		_ = mqttClient.Close()
		return fmt.Errorf("starting MQTT bridge: %w", err)
	}
	b.PublishSnapshot()
	return nil
}

// getConfigPath returns the configuration file path.
// Uses FUSION_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("FUSION_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
