package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/eyalbz/leadform/app"
	"github.com/eyalbz/leadform/config"
	"github.com/eyalbz/leadform/database"
	"github.com/eyalbz/leadform/httpx"
	"github.com/eyalbz/leadform/log"
	"github.com/eyalbz/leadform/routes"
)

func main() {
	cfg, err := config.ParseFlags()
	if err != nil {
		log.Fatal("main.config:", err)
	}
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	store, err := database.Open(cfg)
	if err != nil {
		log.Fatal("main.db.open:", err)
	}
	defer store.Close()

	if cfg.AdminUser != "" && cfg.AdminPassword != "" {
		err = store.EnsureOwner(context.Background(), cfg.AdminUser, cfg.AdminPassword)
		if err != nil {
			log.Fatal("main.db.ensure_owner:", err)
		}
	}

	bearerServer := httpx.NewBearerServer(store.DB, cfg)

	app := app.App{
		Store:        store,
		BearerServer: bearerServer,
		Config:       cfg,
	}

	handler := routes.Wire(app)

	err = runServer(cfg, handler)
	if !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("main.server:", err)
	}
}

func runServer(cfg config.Config, handler http.Handler) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Info("Listening on " + cfg.BaseURL)
	return srv.ListenAndServe()
}
