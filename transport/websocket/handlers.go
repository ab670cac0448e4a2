package websocket

import (
	"context"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/connect4-backend/internal/apperror"
	"github.com/rocketscienceinc/connect4-backend/internal/entity"
	"github.com/rocketscienceinc/connect4-backend/internal/event"
	"github.com/rocketscienceinc/connect4-backend/internal/session"
)

const archiveTimeout = 5 * time.Second

// handleConnection classifies a fresh connection by its first message and
// runs it to completion: AwaitingIntent -> Starting/Joining/Watching ->
// Active -> Closed.
func (that *Server) handleConnection(conn *websocket.Conn) {
	log := that.logger.With("method", "handleConnection")

	c := newClient(conn)
	defer c.close()

	first, err := c.readMessage()
	if err != nil {
		log.Debug("connection closed before declaring intent", "error", err)
		return
	}

	intent, err := event.Decode(first)
	if err != nil || intent.Type != event.TypeInit {
		// protocol violation: anything but an init intent closes the
		// connection without a reply
		log.Info("protocol violation on first message", "error", err)
		return
	}

	switch {
	case intent.Join != "":
		that.handleJoin(c, intent.Join)
	case intent.Watch != "":
		that.handleWatch(c, intent.Watch)
	default:
		that.handleStart(c)
	}
}

// handleStart creates a session, hands both capability tokens back to this
// connection only, and plays as red. The session lives exactly as long as
// this connection: its close destroys the session whatever the cause.
func (that *Server) handleStart(c *client) {
	log := that.logger.With("method", "handleStart")

	sess, err := that.registry.Create()
	if err != nil {
		log.Error("failed to create session", "error", err)
		return
	}

	defer that.registry.Destroy(sess)
	defer sess.Detach(c)

	c.sendEvent(event.Init(sess.JoinToken, sess.WatchToken))
	sess.Attach(c)

	log.Info("session started", "sessionID", sess.ID)

	that.playerLoop(c, sess, entity.PlayerRed)

	log.Info("session closed", "sessionID", sess.ID)
}

// handleJoin seats the connection as yellow, catching it up on any move
// already made before it enters the move loop.
func (that *Server) handleJoin(c *client, token string) {
	log := that.logger.With("method", "handleJoin")

	sess, err := that.registry.ResolveJoin(token)
	if err != nil {
		log.Info("join token not found")
		c.sendEvent(event.Error("game not found"))
		return
	}

	if !sess.ClaimSeat() {
		log.Info("second seat already taken", "sessionID", sess.ID)
		c.sendEvent(event.Error("game already has two players"))
		return
	}

	defer sess.Detach(c)
	that.replay(c, sess)

	log.Info("player joined", "sessionID", sess.ID)

	that.playerLoop(c, sess, entity.PlayerYellow)
}

// handleWatch attaches the connection as a spectator: replay, then nothing
// but broadcasts until the peer goes away.
func (that *Server) handleWatch(c *client, token string) {
	log := that.logger.With("method", "handleWatch")

	sess, err := that.registry.ResolveWatch(token)
	if err != nil {
		log.Info("watch token not found")
		c.sendEvent(event.Error("game not found"))
		return
	}

	defer sess.Detach(c)
	that.replay(c, sess)

	log.Info("spectator attached", "sessionID", sess.ID)

	// spectators send nothing; inbound traffic is ignored and only the
	// connection closing ends the loop
	for {
		if _, err := c.readMessage(); err != nil {
			return
		}
	}
}

// replay attaches c and resends the full move history to it alone. The
// attach and the history snapshot share the session's move lock, so every
// concurrent move is observed exactly once.
func (that *Server) replay(c *client, sess *session.Session) {
	for _, move := range sess.AttachReplay(c) {
		c.sendEvent(event.Play(move.Player, move.Column, move.Row))
	}
}

// playerLoop dispatches this connection's move requests for as long as the
// transport stays open. Turn legality is enforced here, once, by comparing
// the seat against move-log parity; the board engine checks board legality.
func (that *Server) playerLoop(c *client, sess *session.Session, player string) {
	log := that.logger.With("method", "playerLoop", "sessionID", sess.ID, "player", player)

	for {
		data, err := c.readMessage()
		if err != nil {
			log.Debug("connection closed", "error", err)
			return
		}

		ev, err := event.Decode(data)
		if err != nil || ev.Type != event.TypePlay || ev.Column == nil {
			c.sendEvent(event.Error("move request expected"))
			continue
		}

		if sess.CurrentPlayer() != player {
			c.sendEvent(event.Error(apperror.ErrNotYourTurn.Error()))
			continue
		}

		move, err := sess.Play(player, *ev.Column)
		if err != nil {
			if !apperror.IsIllegalMove(err) {
				log.Error("failed to play move", "error", err)
			}
			c.sendEvent(event.Error(err.Error()))
			continue
		}

		log.Debug("move played", "column", move.Column, "row", move.Row)

		if winner, done := sess.Result(); done {
			that.archiveGame(sess, winner)
		}
	}
}

// archiveGame records a finished game's summary, when an archive is wired.
func (that *Server) archiveGame(sess *session.Session, winner string) {
	if that.archive == nil {
		return
	}

	log := that.logger.With("method", "archiveGame", "sessionID", sess.ID)

	ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
	defer cancel()

	result := &entity.GameResult{
		ID:         sess.ID,
		Winner:     winner,
		Moves:      sess.MoveCount(),
		FinishedAt: time.Now().UTC(),
	}

	if err := that.archive.Save(ctx, result); err != nil {
		log.Error("failed to archive game", "error", err)
		return
	}

	log.Info("game archived", "winner", winner)
}
