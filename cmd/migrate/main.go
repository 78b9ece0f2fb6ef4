package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	flag "github.com/spf13/pflag"
	"gwconsole/internal/pkg/logger"
	"gwconsole/internal/platform/config"
	"gwconsole/internal/platform/database"
	"gwconsole/internal/platform/session"
)

func main() {
	direction := flag.String("direction", "up", "Migration direction: up or down")
	configPath := flag.String("config", "configs/config.yaml", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logger.Init(cfg.Logging)

	db, err := database.Open(cfg.Session)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Session.Path).Msg("failed to open session store")
	}
	defer db.Close()

	store := session.NewStore(db, session.NewSealer(cfg.Session.Secret))
	ctx := context.Background()

	switch *direction {
	case "up":
		err = store.Migrate(ctx)
	case "down":
		err = store.Rollback(ctx)
	default:
		log.Fatal().Str("direction", *direction).Msg("invalid direction: must be 'up' or 'down'")
	}
	if err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	fmt.Println("Migration completed successfully")
}
