package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/connect4-backend/internal/apperror"
)

const (
	PlayerRed    = "red"
	PlayerYellow = "yellow"
	PlayerTie    = "-"

	EmptyCell = ""
)

const (
	Columns = 7
	Rows    = 6

	MaxMoves = Columns * Rows

	winLength = 4
)

// Move is one entry of a game's append-only move log.
type Move struct {
	Player string `json:"player"`
	Column int    `json:"column"`
	Row    int    `json:"row"`
}

// Game is the board state machine for one Connect Four game. The grid is
// indexed [column][row] with row 0 at the bottom; columns fill bottom-up.
// It does no I/O and is not safe for concurrent use: callers serialize
// access (one in-flight Play per game).
type Game struct {
	ID            string                `json:"id"`
	Grid          [Columns][Rows]string `json:"grid"`
	Moves         []Move                `json:"moves"`
	LastPlayer    string                `json:"last_player,omitempty"`
	LastPlayerWon bool                  `json:"last_player_won"`
}

func NewGame() *Game {
	return &Game{ID: uuid.NewString()}
}

// CurrentPlayer returns the side to move, derived from move-log parity.
// Red always moves first.
func (that *Game) CurrentPlayer() string {
	if len(that.Moves)%2 == 0 {
		return PlayerRed
	}
	return PlayerYellow
}

// Play drops player's disc into column and returns the row it landed in
// (0 = bottom). It validates board legality only — column range, column
// fullness, and that the game is still running; turn order is the caller's
// contract and is not checked here. A failed Play leaves the game untouched.
func (that *Game) Play(player string, column int) (int, error) {
	if that.LastPlayerWon {
		return 0, apperror.ErrGameFinished
	}

	if column < 0 || column >= Columns {
		return 0, fmt.Errorf("%w: %d", apperror.ErrInvalidColumn, column)
	}

	row := that.columnHeight(column)
	if row >= Rows {
		return 0, fmt.Errorf("%w: %d", apperror.ErrColumnFull, column)
	}

	that.Grid[column][row] = player
	that.Moves = append(that.Moves, Move{Player: player, Column: column, Row: row})
	that.LastPlayer = player
	that.LastPlayerWon = that.isWinningCell(player, column, row)

	return row, nil
}

// IsDraw reports whether the board is full with no winner.
func (that *Game) IsDraw() bool {
	return len(that.Moves) == MaxMoves && !that.LastPlayerWon
}

func (that *Game) IsFinished() bool {
	return that.LastPlayerWon || len(that.Moves) == MaxMoves
}

// columnHeight returns the number of occupied cells in column, which is
// also the row the next disc lands in.
func (that *Game) columnHeight(column int) int {
	for row := 0; row < Rows; row++ {
		if that.Grid[column][row] == EmptyCell {
			return row
		}
	}
	return Rows
}

// isWinningCell scans the four line directions through the just-played cell
// for a run of four. Only lines through (column, row) can have been
// completed by this move, so a full-board rescan is never needed.
func (that *Game) isWinningCell(player string, column, row int) bool {
	directions := [4][2]int{
		{1, 0},  // horizontal
		{0, 1},  // vertical
		{1, 1},  // diagonal up-right
		{1, -1}, // diagonal down-right
	}

	for _, dir := range directions {
		run := 1 +
			that.countRun(player, column, row, dir[0], dir[1]) +
			that.countRun(player, column, row, -dir[0], -dir[1])
		if run >= winLength {
			return true
		}
	}

	return false
}

// countRun counts consecutive cells owned by player walking from
// (column, row) in direction (dx, dy), excluding the starting cell.
func (that *Game) countRun(player string, column, row, dx, dy int) int {
	count := 0
	for {
		column += dx
		row += dy

		if column < 0 || column >= Columns || row < 0 || row >= Rows {
			break
		}
		if that.Grid[column][row] != player {
			break
		}

		count++
	}

	return count
}

// GameResult is the archived summary of a finished game. Winner is
// PlayerTie for a draw.
type GameResult struct {
	ID         string    `json:"id"`
	Winner     string    `json:"winner"`
	Moves      int       `json:"moves"`
	FinishedAt time.Time `json:"finished_at"`
}
