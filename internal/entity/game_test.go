package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/connect4-backend/internal/apperror"
)

func TestGame_Play(t *testing.T) {
	t.Run("Discs stack bottom-up in one column", func(t *testing.T) {
		// Given: a fresh game
		game := NewGame()

		// When: three discs are dropped into the same column
		rows := make([]int, 0, 3)
		for _, player := range []string{PlayerRed, PlayerYellow, PlayerRed} {
			row, err := game.Play(player, 3)
			require.NoError(t, err)
			rows = append(rows, row)
		}

		// Then: they land on rows 0, 1, 2 and the log records each move
		assert.Equal(t, []int{0, 1, 2}, rows)
		assert.Len(t, game.Moves, 3)
		assert.Equal(t, PlayerRed, game.LastPlayer)
		assert.False(t, game.LastPlayerWon)
	})

	t.Run("Out-of-range column fails without side effects", func(t *testing.T) {
		// Given: a fresh game
		game := NewGame()

		// When: playing columns outside [0, 6]
		_, errLow := game.Play(PlayerRed, -1)
		_, errHigh := game.Play(PlayerRed, Columns)

		// Then: both fail as illegal moves and nothing is logged
		assert.ErrorIs(t, errLow, apperror.ErrInvalidColumn)
		assert.ErrorIs(t, errHigh, apperror.ErrInvalidColumn)
		assert.Empty(t, game.Moves)
	})

	t.Run("Full column fails without appending to the move log", func(t *testing.T) {
		// Given: column 0 filled to its six-disc capacity
		game := NewGame()
		for i := 0; i < Rows; i++ {
			_, err := game.Play(game.CurrentPlayer(), 0)
			require.NoError(t, err)
		}

		// When: a seventh disc targets the same column
		_, err := game.Play(game.CurrentPlayer(), 0)

		// Then: it fails and the log still holds six moves
		assert.ErrorIs(t, err, apperror.ErrColumnFull)
		assert.Len(t, game.Moves, Rows)
	})

	t.Run("Playing after a win fails with game finished", func(t *testing.T) {
		// Given: a game red has already won
		game := NewGame()
		for col := 0; col < 3; col++ {
			_, err := game.Play(PlayerRed, col)
			require.NoError(t, err)
			_, err = game.Play(PlayerYellow, col)
			require.NoError(t, err)
		}
		_, err := game.Play(PlayerRed, 3)
		require.NoError(t, err)
		require.True(t, game.LastPlayerWon)

		// When: yellow tries to keep playing
		_, err = game.Play(PlayerYellow, 4)

		// Then: the move is rejected
		assert.ErrorIs(t, err, apperror.ErrGameFinished)
	})
}

func TestGame_CurrentPlayer(t *testing.T) {
	t.Run("Turn alternates with move-log parity, red first", func(t *testing.T) {
		// Given: a fresh game
		game := NewGame()

		// Then: red moves on even parity, yellow on odd
		assert.Equal(t, PlayerRed, game.CurrentPlayer())

		_, err := game.Play(PlayerRed, 0)
		require.NoError(t, err)
		assert.Equal(t, PlayerYellow, game.CurrentPlayer())

		_, err = game.Play(PlayerYellow, 1)
		require.NoError(t, err)
		assert.Equal(t, PlayerRed, game.CurrentPlayer())
	})
}

func TestGame_WinDetection(t *testing.T) {
	t.Run("Completing a horizontal run of four wins", func(t *testing.T) {
		// Given: red holds columns 0..2 on the bottom row
		game := NewGame()
		for col := 0; col < 3; col++ {
			_, err := game.Play(PlayerRed, col)
			require.NoError(t, err)
			_, err = game.Play(PlayerYellow, col)
			require.NoError(t, err)
		}

		// When: red plays column 3
		row, err := game.Play(PlayerRed, 3)

		// Then: the disc lands on row 0 and red has won
		require.NoError(t, err)
		assert.Equal(t, 0, row)
		assert.True(t, game.LastPlayerWon)
		assert.Equal(t, PlayerRed, game.LastPlayer)
	})

	t.Run("Completing a run from its middle wins", func(t *testing.T) {
		// Given: red on columns 0, 1, 3 of the bottom row
		game := NewGame()
		for _, col := range []int{0, 1, 3} {
			_, err := game.Play(PlayerRed, col)
			require.NoError(t, err)
			_, err = game.Play(PlayerYellow, col)
			require.NoError(t, err)
		}

		// When: red fills the gap at column 2
		_, err := game.Play(PlayerRed, 2)

		// Then: the run 0..3 is detected even though its end was not played last
		require.NoError(t, err)
		assert.True(t, game.LastPlayerWon)
	})

	t.Run("Four in a column wins", func(t *testing.T) {
		// Given: red stacking column 5, yellow answering in column 0
		game := NewGame()
		for i := 0; i < 3; i++ {
			_, err := game.Play(PlayerRed, 5)
			require.NoError(t, err)
			_, err = game.Play(PlayerYellow, 0)
			require.NoError(t, err)
		}

		// When: red places the fourth disc in column 5
		_, err := game.Play(PlayerRed, 5)

		// Then: the vertical run wins
		require.NoError(t, err)
		assert.True(t, game.LastPlayerWon)
	})

	t.Run("Diagonal up-right run of four wins", func(t *testing.T) {
		// Given: a staircase where red owns (0,0) (1,1) (2,2)
		game := NewGame()
		moves := []struct {
			player string
			column int
		}{
			{PlayerRed, 0},
			{PlayerYellow, 1},
			{PlayerRed, 1},
			{PlayerYellow, 2},
			{PlayerRed, 2}, // lands row 1
			{PlayerYellow, 3},
			{PlayerRed, 2}, // lands row 2
			{PlayerYellow, 3},
			{PlayerRed, 3}, // lands row 2
			{PlayerYellow, 0},
		}
		for _, m := range moves {
			_, err := game.Play(m.player, m.column)
			require.NoError(t, err)
		}

		// When: red tops column 3 at row 3
		row, err := game.Play(PlayerRed, 3)

		// Then: the diagonal (0,0)..(3,3) wins
		require.NoError(t, err)
		assert.Equal(t, 3, row)
		assert.True(t, game.LastPlayerWon)
	})

	t.Run("Three in a row is not a win", func(t *testing.T) {
		// Given: red with two discs on the bottom row
		game := NewGame()
		for _, col := range []int{0, 1} {
			_, err := game.Play(PlayerRed, col)
			require.NoError(t, err)
			_, err = game.Play(PlayerYellow, col)
			require.NoError(t, err)
		}

		// When: red plays a third adjacent disc
		_, err := game.Play(PlayerRed, 2)

		// Then: no win yet
		require.NoError(t, err)
		assert.False(t, game.LastPlayerWon)
	})
}

func TestGame_Draw(t *testing.T) {
	t.Run("Full board without four in a row is a draw and never a win", func(t *testing.T) {
		// Given: a column order that fills the board with no run of four.
		// Columns are taken in pair-swapped blocks so no line collects
		// four discs of one color.
		game := NewGame()
		columnBlocks := [][]int{
			{0, 1, 2, 3, 4, 5},
			{0, 1, 2, 3, 4, 5},
			{1, 0, 3, 2, 5, 4},
			{1, 0, 3, 2, 5, 4},
			{0, 1, 2, 3, 4, 5},
			{0, 1, 2, 3, 4, 5},
			{6, 6, 6, 6, 6, 6},
		}

		// When: playing all 42 moves in strict alternation
		for _, block := range columnBlocks {
			for _, col := range block {
				_, err := game.Play(game.CurrentPlayer(), col)
				require.NoError(t, err)
				require.False(t, game.LastPlayerWon, "unexpected win after column %d", col)
			}
		}

		// Then: the board is full, drawn, finished
		assert.Len(t, game.Moves, MaxMoves)
		assert.True(t, game.IsDraw())
		assert.True(t, game.IsFinished())
	})
}
