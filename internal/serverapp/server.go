// Package serverapp assembles the companion server from its parts:
// config, the save store, the game engine, the HTTP API, the WebSocket
// hub, and the middleware stack.
package serverapp

import (
	"errors"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"

	"github.com/CultivationChroniclesV1/ronnetsv12-sub000/internal/config"
	"github.com/CultivationChroniclesV1/ronnetsv12-sub000/internal/engine"
	"github.com/CultivationChroniclesV1/ronnetsv12-sub000/internal/httpmw"
	"github.com/CultivationChroniclesV1/ronnetsv12-sub000/internal/persist"
	"github.com/CultivationChroniclesV1/ronnetsv12-sub000/internal/server"
)

type Options struct {
	Config *config.Config
	Logger *log.Logger
}

// App bundles the running pieces so the caller can start the engine and
// shut everything down.
type App struct {
	Handler http.Handler
	Engine  *engine.Engine
	Hub     *server.Hub
	Closer  func() error
}

func New(opts Options) (*App, error) {
	if opts.Config == nil {
		return nil, errors.New("config is required")
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	cfg := opts.Config

	dataDir := strings.TrimSpace(cfg.Server.DataDir)
	if dataDir == "" {
		dataDir = "data"
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}

	slot := strings.TrimSpace(cfg.Engine.SaveSlot)
	if slot == "" {
		slot = "local"
	}

	var (
		repo        server.SaveRepo
		engineStore persist.Store
		storeClose  = func() error { return nil }
	)
	switch cfg.Server.Backend {
	case "", "sqlite":
		store, err := persist.NewSQLiteStore(filepath.Join(dataDir, "saves.db"))
		if err != nil {
			return nil, err
		}
		repo = store
		engineStore = store.ForSlot(slot)
		storeClose = store.Close
	case "file":
		store, err := persist.NewFileStore(filepath.Join(dataDir, "saves"))
		if err != nil {
			return nil, err
		}
		repo = store
		engineStore = store.ForSlot(slot)
	default:
		return nil, errors.New("unknown save backend: " + cfg.Server.Backend)
	}

	hub := server.NewHub(opts.Logger)
	go hub.Run()

	eng := engine.New(engine.Options{
		Store:             engineStore,
		Logger:            opts.Logger,
		TickInterval:      cfg.Engine.TickInterval(),
		AutosaveInterval:  cfg.Engine.AutosaveInterval(),
		OfflineProgress:   cfg.Engine.OfflineProgress,
		BaseManualQi:      cfg.Balance.BaseManualQi,
		BreakthroughBase:  cfg.Balance.BreakthroughBaseChance,
		OfflineCap:        cfg.Balance.OfflineCap(),
		OfflineDecayFloor: cfg.Balance.OfflineDecayFloor,
	})
	eng.Subscribe(func(ev engine.Event) {
		hub.Broadcast(server.Notice{Type: string(ev.Type), Slot: slot, Payload: ev})
	})

	api := server.NewHandler(repo, hub, opts.Logger)
	router := mux.NewRouter()
	api.Routes(router)

	handler := httpmw.Chain(router,
		httpmw.WithRequestID,
		httpmw.WithRecover(opts.Logger),
		httpmw.WithAccessLog(opts.Logger),
	)

	closer := func() error {
		eng.Stop()
		hub.Stop()
		return storeClose()
	}

	return &App{Handler: handler, Engine: eng, Hub: hub, Closer: closer}, nil
}
