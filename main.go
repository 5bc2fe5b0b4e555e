package main

import (
	"time"

	"github.com/leoverde/pulse/config"
	"github.com/leoverde/pulse/i18n"
	"github.com/leoverde/pulse/models"
	"github.com/leoverde/pulse/routes"
	"github.com/leoverde/pulse/services"
	"github.com/leoverde/pulse/store"
	"github.com/leoverde/pulse/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(&models.User{}, &models.Post{}, &models.Comment{}, &models.Like{})
	rdb := store.NewRedisClient(cfg)

	translator, err := i18n.Load(cfg.LocalesPath, cfg.DefaultLanguage)
	if err != nil {
		utils.Sugar.Fatalf("load locales: %v", err)
	}

	dataStore := store.NewGormStore(db)
	sessionStore := store.NewRedisSessionStore(rdb, time.Duration(cfg.SessionTTLMinutes)*time.Minute)

	deps := routes.Deps{
		Credentials: services.NewCredentialService(dataStore),
		Sessions:    services.NewSessionManager(sessionStore),
		Posts:       services.NewPostService(dataStore),
		Engagement:  services.NewEngagementService(dataStore),
		Feed:        services.NewFeedService(dataStore),
		Profiles:    services.NewProfileService(dataStore),
		Blacklist:   store.NewTokenBlacklist(rdb),
		Translator:  translator,
	}

	r := routes.SetupRouter(deps)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
