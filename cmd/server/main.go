package main

import (
	"context"
	"flag"
	"log"
	"net/http"

	"github.com/CultivationChroniclesV1/ronnetsv12-sub000/internal/config"
	"github.com/CultivationChroniclesV1/ronnetsv12-sub000/internal/serverapp"
)

func main() {
	configPath := flag.String("config", "cultivation_config.yml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	app, err := serverapp.New(serverapp.Options{
		Config: &cfg,
		Logger: log.Default(),
	})
	if err != nil {
		log.Fatalf("build server: %v", err)
	}
	defer func() {
		if err := app.Closer(); err != nil {
			log.Printf("close store: %v", err)
		}
	}()

	if err := app.Engine.Initialize(context.Background()); err != nil {
		log.Fatalf("start engine: %v", err)
	}

	log.Printf("listening on %s", cfg.Server.Addr)
	log.Fatal(http.ListenAndServe(cfg.Server.Addr, app.Handler))
}
