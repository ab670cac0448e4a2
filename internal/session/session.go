package session

import (
	"sync"

	"github.com/rocketscienceinc/connect4-backend/internal/entity"
	"github.com/rocketscienceinc/connect4-backend/internal/event"
)

// Session is one in-progress or finished game plus its attached
// connections. It is owned by the Registry for its lifetime and referenced,
// never owned, by every attached connection. The session mutex is the
// single point of entry for moves: board mutation and broadcast enqueue
// happen under it, so every member of the group observes the same move
// order.
type Session struct {
	ID         string
	JoinToken  string
	WatchToken string

	mu        sync.Mutex
	game      *entity.Game
	group     *Group
	seatTaken bool
}

func newSession(joinToken, watchToken string) *Session {
	game := entity.NewGame()

	return &Session{
		ID:         game.ID,
		JoinToken:  joinToken,
		WatchToken: watchToken,
		game:       game,
		group:      NewGroup(),
	}
}

// Attach adds sub to the broadcast group without a history replay; the
// starting connection attaches this way before any move exists.
func (that *Session) Attach(sub Subscriber) {
	that.group.Attach(sub)
}

// AttachReplay attaches sub and returns a snapshot of the move history made
// so far. Attachment and the snapshot share the move lock, so a move played
// concurrently lands either in the snapshot or in a later broadcast, never
// in neither.
func (that *Session) AttachReplay(sub Subscriber) []entity.Move {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.group.Attach(sub)

	moves := make([]entity.Move, len(that.game.Moves))
	copy(moves, that.game.Moves)

	return moves
}

func (that *Session) Detach(sub Subscriber) {
	that.group.Detach(sub)
}

// ClaimSeat reserves the second player's seat. It succeeds for exactly one
// join over the session's lifetime; the seat is not released on disconnect
// since a departed player's seat cannot be resumed.
func (that *Session) ClaimSeat() bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.seatTaken {
		return false
	}
	that.seatTaken = true

	return true
}

// CurrentPlayer returns the side whose turn it logically is.
func (that *Session) CurrentPlayer() string {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.game.CurrentPlayer()
}

// Play applies one move and, on success, broadcasts the play event — and a
// win event if the move won — to the whole group. Only one Play is in
// flight per session at a time; a failed move mutates nothing and
// broadcasts nothing.
func (that *Session) Play(player string, column int) (entity.Move, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	row, err := that.game.Play(player, column)
	if err != nil {
		return entity.Move{}, err
	}

	that.group.Broadcast(event.Play(player, column, row).MustEncode())

	if that.game.LastPlayerWon {
		that.group.Broadcast(event.Win(player).MustEncode())
	}

	return entity.Move{Player: player, Column: column, Row: row}, nil
}

// Result reports the finished-game outcome: the winning player, or
// entity.PlayerTie on a draw. done is false while the game is running.
func (that *Session) Result() (winner string, done bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	switch {
	case that.game.LastPlayerWon:
		return that.game.LastPlayer, true
	case that.game.IsDraw():
		return entity.PlayerTie, true
	default:
		return "", false
	}
}

func (that *Session) MoveCount() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.game.Moves)
}

// Members returns the current size of the broadcast group.
func (that *Session) Members() int {
	return that.group.Len()
}
