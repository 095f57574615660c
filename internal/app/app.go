// Package app wires the waypoint subsystem together: configuration,
// logging, the demo taxonomy, rule compilation, the shared map layer,
// the authority, and the HTTP/websocket surface.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	mapmarkers "github.com/maltiez2/vsmod-mapmarkers"
	"github.com/maltiez2/vsmod-mapmarkers/internal/config"
	"github.com/maltiez2/vsmod-mapmarkers/internal/demoworld"
	"github.com/maltiez2/vsmod-mapmarkers/internal/logging"
	"github.com/maltiez2/vsmod-mapmarkers/internal/maplayer"
	"github.com/maltiez2/vsmod-mapmarkers/internal/net/ws"
	"github.com/maltiez2/vsmod-mapmarkers/internal/telemetry"
	"github.com/maltiez2/vsmod-mapmarkers/rules"
)

// Config carries the bootstrap options of the server binary.
type Config struct {
	ConfigDir string
}

// Run wires the subsystem together and serves until ctx is cancelled.
func Run(ctx context.Context, cfg Config) error {
	cfgErr := config.Load(cfg.ConfigDir)

	var graylogAddr string
	if viper.GetBool("graylog.enabled") {
		graylogAddr = viper.GetString("graylog.address")
	}
	log := logging.New(logging.Options{
		Level:          viper.GetString("logLevel"),
		FilePath:       viper.GetString("logFile"),
		GraylogAddress: graylogAddr,
	})
	if cfgErr != nil {
		log.Warn().Err(cfgErr).Msg("failed to load config, using defaults")
	}

	registry := demoworld.NewRegistry()

	rulesPath := viper.GetString("rules.path")
	if err := rules.EnsureUserFile(rulesPath); err != nil {
		log.Warn().Err(err).Str("path", rulesPath).Msg("failed to write default rules file")
	}
	ruleset, err := rules.Load(rules.FileSource(rulesPath))
	if err != nil {
		log.Error().Err(err).Str("path", rulesPath).
			Msg("failed to load waypoint rules, compiling empty tables")
		ruleset = nil
	}
	tables := rules.Compile(ruleset, registry.Blocks(), registry.Creatures())
	log.Info().
		Int("blocks", len(tables.Blocks)).
		Int("creatures", len(tables.Creatures)).
		Msg("waypoint rules compiled")

	var layer *maplayer.Layer
	if path := viper.GetString("storage.path"); path != "" {
		layer = maplayer.NewPersistent(path, log)
	} else {
		layer = maplayer.New(log)
	}

	hub := ws.NewHub(layer, log)
	authority, err := mapmarkers.NewAuthority(layer, hub, log)
	if err != nil {
		return fmt.Errorf("constructing authority: %w", err)
	}

	recorder := telemetry.NewManager(log)
	defer recorder.Close()
	authority.SetRecorder(recorder)

	handler := newHTTPHandler(authority, hub, layer, tables, log)
	srv := &http.Server{Addr: viper.GetString("listen"), Handler: handler}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	log.Info().Str("addr", srv.Addr).Msg("server listening")

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		<-errCh
		log.Info().Msg("server stopped")
		return nil
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	}
}

type rulesInfo struct {
	Blocks    int `json:"blocks"`
	Creatures int `json:"creatures"`
}

func newHTTPHandler(authority *mapmarkers.Authority, hub *ws.Hub, layer *maplayer.Layer, tables rules.Tables, log zerolog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("/diagnostics", func(w http.ResponseWriter, r *http.Request) {
		payload := struct {
			Status     string           `json:"status"`
			ServerTime int64            `json:"serverTime"`
			Waypoints  int              `json:"waypoints"`
			Authority  mapmarkers.Stats `json:"authority"`
			Rules      rulesInfo        `json:"rules"`
		}{
			Status:     "ok",
			ServerTime: time.Now().UnixMilli(),
			Waypoints:  layer.Len(),
			Authority:  authority.Snapshot(),
			Rules: rulesInfo{
				Blocks:    len(tables.Blocks),
				Creatures: len(tables.Creatures),
			},
		}

		data, err := json.Marshal(payload)
		if err != nil {
			http.Error(w, "failed to encode", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	})

	mux.Handle("/ws", ws.NewHandler(authority, hub, log))

	return mux
}
