package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	flag "github.com/spf13/pflag"
	"gwconsole/internal/app"
	"gwconsole/internal/cli"
	"gwconsole/internal/pkg/logger"
	"gwconsole/internal/platform/config"
)

func main() {
	global := flag.NewFlagSet("gwconsole", flag.ContinueOnError)
	global.SetInterspersed(false)
	configPath := global.String("config", "configs/config.yaml", "Path to config file")
	if err := global.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	// stdout carries tables
	if cfg.Logging.Output != "file" {
		cfg.Logging.Output = "stderr"
	}
	logger.Init(cfg.Logging)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	console, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open console")
	}

	code := cli.Run(ctx, console, global.Args(), os.Stdout, os.Stderr)
	console.Close()
	stop()
	os.Exit(code)
}
