package session

import (
	"fmt"
	"sync"

	"github.com/rocketscienceinc/connect4-backend/internal/apperror"
)

// Registry is the process-wide mapping from capability tokens to live
// sessions. Join tokens and watch tokens are independent namespaces that
// resolve to the same session. The registry lives from process start to
// process exit; sessions come and go with their starting connection.
type Registry struct {
	mu    sync.RWMutex
	join  map[string]*Session
	watch map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{
		join:  make(map[string]*Session),
		watch: make(map[string]*Session),
	}
}

// Create allocates a fresh game with an empty connection group, mints both
// capability tokens and registers them.
func (that *Registry) Create() (*Session, error) {
	joinToken, err := newToken()
	if err != nil {
		return nil, fmt.Errorf("failed to mint join token: %w", err)
	}

	watchToken, err := newToken()
	if err != nil {
		return nil, fmt.Errorf("failed to mint watch token: %w", err)
	}

	sess := newSession(joinToken, watchToken)

	that.mu.Lock()
	defer that.mu.Unlock()

	that.join[joinToken] = sess
	that.watch[watchToken] = sess

	return sess, nil
}

// ResolveJoin looks a session up by its join token. An unknown token is a
// normal apperror.ErrSessionNotFound outcome, never fatal.
func (that *Registry) ResolveJoin(token string) (*Session, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	sess, ok := that.join[token]
	if !ok {
		return nil, apperror.ErrSessionNotFound
	}

	return sess, nil
}

// ResolveWatch looks a session up by its watch token.
func (that *Registry) ResolveWatch(token string) (*Session, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	sess, ok := that.watch[token]
	if !ok {
		return nil, apperror.ErrSessionNotFound
	}

	return sess, nil
}

// Destroy removes both of the session's tokens from their namespaces.
// Tokens are never reused: after Destroy both resolve to not-found forever.
func (that *Registry) Destroy(sess *Session) {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.join, sess.JoinToken)
	delete(that.watch, sess.WatchToken)
}

// Len returns the number of live sessions.
func (that *Registry) Len() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.join)
}
