// Package event defines the closed set of structured events exchanged with
// clients and the single codec they all pass through. Unknown or malformed
// shapes are rejected at decode time rather than on first field access.
package event

import (
	"encoding/json"
	"errors"
	"fmt"
)

type Type string

const (
	// TypeInit is the first message in both directions: the client declares
	// its intent (start, join or watch), the server answers the starter
	// with both capability tokens.
	TypeInit Type = "init"

	// TypePlay is a move request from a client, and the broadcast form of
	// a successful move from the server.
	TypePlay Type = "play"

	TypeWin   Type = "win"
	TypeError Type = "error"
)

var ErrUnknownType = errors.New("unknown event type")

// Event is the wire shape shared by every event kind. Which fields are
// meaningful depends on Type; absent fields are omitted on the wire.
type Event struct {
	Type    Type   `json:"type"`
	Join    string `json:"join,omitempty"`
	Watch   string `json:"watch,omitempty"`
	Player  string `json:"player,omitempty"`
	Column  *int   `json:"column,omitempty"`
	Row     *int   `json:"row,omitempty"`
	Message string `json:"message,omitempty"`
}

// Decode parses one event off the wire, rejecting anything outside the
// closed type set.
func Decode(data []byte) (*Event, error) {
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}

	switch ev.Type {
	case TypeInit, TypePlay, TypeWin, TypeError:
		return &ev, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, ev.Type)
	}
}

func (that *Event) Encode() ([]byte, error) {
	data, err := json.Marshal(that)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}

	return data, nil
}

// MustEncode encodes an event built by this package's constructors; those
// shapes cannot fail to marshal.
func (that *Event) MustEncode() []byte {
	data, err := that.Encode()
	if err != nil {
		panic(err)
	}

	return data
}

func Init(joinToken, watchToken string) *Event {
	return &Event{Type: TypeInit, Join: joinToken, Watch: watchToken}
}

func Play(player string, column, row int) *Event {
	return &Event{Type: TypePlay, Player: player, Column: &column, Row: &row}
}

func Win(player string) *Event {
	return &Event{Type: TypeWin, Player: player}
}

func Error(message string) *Event {
	return &Event{Type: TypeError, Message: message}
}
