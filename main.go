package main

import (
	"context"
	"time"

	"github.com/tenco/blog/config"
	"github.com/tenco/blog/models"
	"github.com/tenco/blog/routes"
	"github.com/tenco/blog/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}
	defer func() { _ = utils.Logger.Sync() }()

	db, err := config.InitDatabase(cfg, &models.User{}, &models.Board{}, &models.Reply{})
	if err != nil {
		utils.Sugar.Fatalf("database init failed: %v", err)
	}

	sessions := utils.NewSessionStore(context.Background(), time.Duration(cfg.Session.TTLMinutes)*time.Minute)

	r, err := routes.SetupRouter(db, sessions)
	if err != nil {
		utils.Sugar.Fatalf("router init failed: %v", err)
	}

	utils.Sugar.Infof("Starting server on %s (graceful)", cfg.HTTPAddr())
	if err := utils.GraceServer(cfg.HTTPAddr(), r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
