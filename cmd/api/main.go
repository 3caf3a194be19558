package main

import (
	"context"
	"log"
	"time"

	"github.com/devlog-app/devlog-backend/config"
	"github.com/devlog-app/devlog-backend/internal/accounts/cache"
	accountrepo "github.com/devlog-app/devlog-backend/internal/accounts/repository"
	"github.com/devlog-app/devlog-backend/internal/auth"
	"github.com/devlog-app/devlog-backend/internal/bootstrap"
	"github.com/devlog-app/devlog-backend/internal/maintenance"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx := context.Background()

	firebase, err := auth.InitializeFirebase(ctx, &cfg.Firebase)
	if err != nil {
		log.Fatalf("firebase: %v", err)
	}
	defer firebase.Close()

	rdb, err := bootstrap.OpenRedis(ctx, &cfg.Redis)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	if rdb == nil {
		log.Println("REDIS_ADDR not set, username cache disabled")
	}

	var usernameCache *cache.UsernameCache
	if rdb != nil {
		usernameCache = cache.NewUsernameCache(rdb, 24*time.Hour)
	}
	sweeper := maintenance.NewSweeper(accountrepo.NewAccountRepository(firebase.Firestore), usernameCache)
	sweeper.Start()
	defer sweeper.Stop()

	r := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:      "devlog-backend",
		Version:          cfg.App.Version,
		Firebase:         firebase,
		Redis:            rdb,
		SignupRatePerMin: cfg.App.SignupRatePerMin,
	})

	log.Printf("listening on :%s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
