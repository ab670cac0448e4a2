package application

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/connect4-backend/internal/config"
	"github.com/rocketscienceinc/connect4-backend/internal/repository"
	"github.com/rocketscienceinc/connect4-backend/internal/repository/storage"
	"github.com/rocketscienceinc/connect4-backend/internal/session"
	"github.com/rocketscienceinc/connect4-backend/transport/rest"
	"github.com/rocketscienceinc/connect4-backend/transport/websocket"
)

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig.String())
		cancel()
	}()

	var archive repository.ArchiveRepository

	if addr := conf.Redis.GetRedisAddr(); addr != "" {
		redisStorage, err := storage.New(ctx, addr)
		if err != nil {
			return fmt.Errorf("could not connect to redis storage: %w", err)
		}

		defer func() {
			if err = redisStorage.Close(); err != nil {
				log.Error("could not close redis storage", "error", err)
			}
		}()

		archive = repository.NewArchiveRepository(redisStorage.Connection)
		log.Info("Game archive enabled", "addr", addr)
	} else {
		log.Info("No redis address configured, game archive disabled")
	}

	registry := session.NewRegistry()

	errCh := make(chan error, 2)

	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		errCh <- rest.Start(ctx, logger, archive, conf.HTTPPort)
	}()

	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		wsServer := websocket.New(logger, registry, archive)
		errCh <- wsServer.Start(ctx, conf.SocketPort)
	}()

	// both servers return nil after draining on shutdown; the first real
	// error tears the other one down through the shared context
	for i := 0; i < 2; i++ {
		if err := <-errCh; err != nil {
			cancel()
			return fmt.Errorf("server error: %w", err)
		}
	}

	log.Info("Application stopped")

	return nil
}
