package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/connect4-backend/internal/entity"
	"github.com/rocketscienceinc/connect4-backend/testing/suite"
)

func TestArchiveRepository_Save(t *testing.T) {
	ctx, st := suite.New(t)

	archive := NewArchiveRepository(st.Storage)

	// Given: a finished game summary
	result := &entity.GameResult{
		ID:         "game-1",
		Winner:     entity.PlayerRed,
		Moves:      7,
		FinishedAt: time.Now().UTC().Truncate(time.Second),
	}

	// When: it is archived
	err := archive.Save(ctx, result)

	// Then: it can be read back intact
	require.NoError(t, err)

	stored, err := archive.GetByID(ctx, result.ID)
	require.NoError(t, err)
	assert.Equal(t, result.Winner, stored.Winner)
	assert.Equal(t, result.Moves, stored.Moves)
	assert.True(t, result.FinishedAt.Equal(stored.FinishedAt))
}

func TestArchiveRepository_GetByID(t *testing.T) {
	t.Run("GetByID_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		archive := NewArchiveRepository(st.Storage)

		// When: reading a result that was never archived
		_, err := archive.GetByID(ctx, "no-such-game")

		// Then: it reports not found
		assert.ErrorIs(t, err, ErrResultNotFound)
	})
}

func TestArchiveRepository_Recent(t *testing.T) {
	ctx, st := suite.New(t)

	archive := NewArchiveRepository(st.Storage)

	// Given: three archived games
	for i, id := range []string{"game-a", "game-b", "game-c"} {
		result := &entity.GameResult{
			ID:         id,
			Winner:     entity.PlayerYellow,
			Moves:      10 + i,
			FinishedAt: time.Now().UTC(),
		}
		require.NoError(t, archive.Save(ctx, result))
	}

	// When: asking for the two most recent
	results, err := archive.Recent(ctx, 2)

	// Then: the newest come first
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "game-c", results[0].ID)
	assert.Equal(t, "game-b", results[1].ID)
}
