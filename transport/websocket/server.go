package websocket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/connect4-backend/internal/repository"
	"github.com/rocketscienceinc/connect4-backend/internal/session"
)

const shutdownTimeout = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

// Server speaks the session protocol over websocket connections: one
// goroutine per connection, classified by its first message into starting,
// joining or watching a game.
type Server struct {
	logger   *slog.Logger
	registry *session.Registry
	archive  repository.ArchiveRepository // nil disables archiving

	conns sync.WaitGroup
}

func New(logger *slog.Logger, registry *session.Registry, archive repository.ArchiveRepository) *Server {
	return &Server{
		logger:   logger,
		registry: registry,
		archive:  archive,
	}
}

// Start - starts the WebSocket server and blocks until ctx is canceled or
// the listener fails. On cancel it stops accepting new connections and
// waits out in-flight deliveries before returning.
func (that *Server) Start(ctx context.Context, port string) error {
	log := that.logger.With("component", "websocket")

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", that.serveWS)

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("failed to start server: %w", err)
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to shut down cleanly", "error", err)
	}

	that.waitConnections(shutdownCtx)
	log.Info("WebSocket server stopped")

	return nil
}

// serveWS upgrades the request and runs the per-connection state machine.
func (that *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "serveWS")

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	that.conns.Add(1)
	defer that.conns.Done()

	that.handleConnection(conn)
}

// waitConnections blocks until every connection goroutine has finished or
// the shutdown deadline passes, so queued broadcasts are not truncated.
func (that *Server) waitConnections(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		that.conns.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
	}
}
