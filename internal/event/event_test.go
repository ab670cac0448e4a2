package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	t.Run("Accepts a play request", func(t *testing.T) {
		// Given: a client move request
		data := []byte(`{"type":"play","column":3}`)

		// When: decoding it
		ev, err := Decode(data)

		// Then: the type and column survive, absent fields stay nil
		require.NoError(t, err)
		assert.Equal(t, TypePlay, ev.Type)
		require.NotNil(t, ev.Column)
		assert.Equal(t, 3, *ev.Column)
		assert.Nil(t, ev.Row)
	})

	t.Run("Column zero is distinguishable from a missing column", func(t *testing.T) {
		// Given: a move into the first column
		ev, err := Decode([]byte(`{"type":"play","column":0}`))

		// Then: the column is present and zero
		require.NoError(t, err)
		require.NotNil(t, ev.Column)
		assert.Equal(t, 0, *ev.Column)

		// And: a request with no column decodes with a nil column
		ev, err = Decode([]byte(`{"type":"play"}`))
		require.NoError(t, err)
		assert.Nil(t, ev.Column)
	})

	t.Run("Rejects an unknown event type", func(t *testing.T) {
		// When: decoding a type outside the closed set
		_, err := Decode([]byte(`{"type":"chat","message":"hi"}`))

		// Then: it is rejected explicitly
		assert.ErrorIs(t, err, ErrUnknownType)
	})

	t.Run("Rejects malformed JSON", func(t *testing.T) {
		_, err := Decode([]byte(`{"type":`))
		assert.Error(t, err)
	})

	t.Run("Rejects a missing type", func(t *testing.T) {
		_, err := Decode([]byte(`{"column":3}`))
		assert.ErrorIs(t, err, ErrUnknownType)
	})
}

func TestConstructors(t *testing.T) {
	t.Run("Init carries both tokens to the starter", func(t *testing.T) {
		// When: building and re-decoding an init event
		ev, err := Decode(Init("join-token", "watch-token").MustEncode())

		// Then: both tokens come through
		require.NoError(t, err)
		assert.Equal(t, TypeInit, ev.Type)
		assert.Equal(t, "join-token", ev.Join)
		assert.Equal(t, "watch-token", ev.Watch)
	})

	t.Run("Error events omit the unused fields", func(t *testing.T) {
		// When: encoding an error event
		data := Error("move is illegal").MustEncode()

		// Then: only type and message are on the wire
		assert.JSONEq(t, `{"type":"error","message":"move is illegal"}`, string(data))
	})
}
