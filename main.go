package main

import (
	"context"
	"log"

	"github.com/oyarzun/hoteltv/api"
	"github.com/oyarzun/hoteltv/auth"
	"github.com/oyarzun/hoteltv/config"
	"github.com/oyarzun/hoteltv/media"
	"github.com/oyarzun/hoteltv/screens"
	"github.com/oyarzun/hoteltv/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database
	db, err := store.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Initialize media storage
	mediaStore, err := media.NewFromConfig(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to initialize media storage: %v", err)
	}

	authn := auth.NewAuthenticator(db, cfg.JWTSecret, cfg.TokenTTL)
	if err := authn.SeedAdmin(cfg.SeedAdminPassword); err != nil {
		log.Fatalf("Failed to seed admin account: %v", err)
	}

	service := screens.NewService(db, mediaStore)

	// Static /uploads delivery only applies to the local media backend
	uploadsDir := ""
	if cfg.MediaBackend == config.MediaLocal {
		uploadsDir = cfg.UploadsDir()
	}

	webServer := api.NewWebServer(service, authn, uploadsDir, cfg.MaxUploadBytes)
	webServer.Start(cfg.Addr)
}
