package websocket

import (
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/connect4-backend/internal/event"
)

const (
	writeWait     = 10 * time.Second
	sendQueueSize = 32
)

// client wraps one websocket connection. Reads happen on the protocol
// handler's goroutine; writes are funneled through a buffered queue drained
// by a single writer goroutine, so events are delivered whole and in FIFO
// order, and a slow peer never blocks the rest of its session.
type client struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once
}

func newClient(conn *websocket.Conn) *client {
	c := &client{
		conn: conn,
		send: make(chan []byte, sendQueueSize),
		done: make(chan struct{}),
	}

	go c.writePump()

	return c
}

// Send implements session.Subscriber. It never blocks: a client whose
// queue is full is torn down here and detached by its own handler, not by
// the broadcast that could not reach it.
func (that *client) Send(message []byte) {
	select {
	case that.send <- message:
	case <-that.done:
	default:
		that.close()
	}
}

func (that *client) sendEvent(ev *event.Event) {
	that.Send(ev.MustEncode())
}

func (that *client) readMessage() ([]byte, error) {
	_, data, err := that.conn.ReadMessage()
	if err != nil {
		return nil, fmt.Errorf("failed to read message: %w", err)
	}

	return data, nil
}

// close releases the connection. Safe to call more than once; the writer
// drains already-queued events before the transport goes away.
func (that *client) close() {
	that.once.Do(func() {
		close(that.done)
	})
}

func (that *client) writePump() {
	defer that.conn.Close()

	for {
		select {
		case message := <-that.send:
			if err := that.write(message); err != nil {
				return
			}
		case <-that.done:
			that.drain()
			return
		}
	}
}

// drain flushes whatever is already queued, then says goodbye.
func (that *client) drain() {
	for {
		select {
		case message := <-that.send:
			if err := that.write(message); err != nil {
				return
			}
		default:
			deadline := time.Now().Add(writeWait)
			_ = that.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
			return
		}
	}
}

func (that *client) write(message []byte) error {
	_ = that.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return that.conn.WriteMessage(websocket.TextMessage, message)
}
