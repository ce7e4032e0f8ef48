package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"sueca/config"
	"sueca/server"
)

func main() {
	configPath := flag.String("config", "", "Path to JSON config file")
	addr := flag.String("addr", "", "Listen address (overrides config)")
	seed := flag.Int64("seed", 0, "Shuffle seed (0 = random)")
	dev := flag.Bool("dev", false, "Human-readable development logging")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err == nil {
		err = cfg.ApplyEnv()
	}
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	cfg.DevLog = cfg.DevLog || *dev

	logger, err := cfg.NewLogger()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	table, err := server.NewTable(server.TableConfig{
		Seed:       cfg.Seed,
		AIDelayMin: cfg.AIDelayMin(),
		AIDelayMax: cfg.AIDelayMax(),
	}, logger.Named("table"))
	if err != nil {
		logger.Fatal("failed to create table", zap.Error(err))
	}
	defer table.Close()

	hub := server.NewHub(logger.Named("hub"))
	gameServer := server.NewGameServer(hub, table, logger)

	// Start hub and game server in background
	go hub.Run()
	go gameServer.Run()

	if err := table.Start(); err != nil {
		logger.Fatal("failed to start game", zap.Error(err))
	}

	e := server.NewRouter(gameServer, cfg.StaticDir, logger.Named("http"))

	go func() {
		logger.Info("starting Sueca server",
			zap.String("addr", cfg.Addr),
			zap.Duration("ai_delay_min", cfg.AIDelayMin()),
			zap.Duration("ai_delay_max", cfg.AIDelayMax()))
		if err := e.Start(cfg.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server stopped", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}
