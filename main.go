package main

import (
	"net/http"

	"github.com/Solvent24/wps-ai/config"
	"github.com/Solvent24/wps-ai/config/database"
	"github.com/Solvent24/wps-ai/pkg/logger"
	"github.com/Solvent24/wps-ai/router"
	"github.com/Solvent24/wps-ai/socket"
)

func main() {
	logger.Init()
	defer logger.Log.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Sugar.Fatalf("Failed to load config: %v", err)
	}

	db := database.Connect(cfg)
	defer db.Close()

	hub := socket.NewHub()
	go hub.Run()

	handler := router.Setup(cfg, db, hub)

	logger.Sugar.Infof("Backend listening on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, handler); err != nil {
		logger.Sugar.Fatalf("Server stopped: %v", err)
	}
}
