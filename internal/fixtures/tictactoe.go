package fixtures

import (
	"strings"

	"github.com/behrlich/cfrsolve/pkg/game"
)

// ttBoard is a 3x3 board, '.' empty, 'X' or 'O' occupied, row-major.
type ttBoard [9]byte

func emptyTTBoard() ttBoard {
	var b ttBoard
	for i := range b {
		b[i] = '.'
	}
	return b
}

func (b ttBoard) String() string {
	var sb strings.Builder
	sb.Grow(9)
	for _, c := range b {
		sb.WriteByte(c)
	}
	return sb.String()
}

var ttLines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8}, // rows
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8}, // columns
	{0, 4, 8}, {2, 4, 6}, // diagonals
}

// ttWinner returns 'X', 'O', or 0 if nobody has three in a row yet.
func ttWinner(b ttBoard) byte {
	for _, line := range ttLines {
		a, c, d := b[line[0]], b[line[1]], b[line[2]]
		if a != '.' && a == c && c == d {
			return a
		}
	}
	return 0
}

func (b ttBoard) full() bool {
	for _, c := range b {
		if c == '.' {
			return false
		}
	}
	return true
}

func ttMarkFor(player int) byte {
	if player == 0 {
		return 'X'
	}
	return 'O'
}

// TicTacToe builds the full, non-abstracted two-player tic-tac-toe tree by
// plain recursive descent: every reachable board is its own node, with no
// memoization folding symmetric or repeated board states onto one NodeID.
// Player 0 plays X and moves first; player 1 plays O. A won board pays the
// winner +1 and the loser -1; a full, undecided board pays both 0.
func TicTacToe() *game.Tree {
	b := game.NewBuilder()
	root := buildTTNode(b, emptyTTBoard(), 0)
	tree, err := b.Build(root)
	if err != nil {
		panic(err)
	}
	return tree
}

func buildTTNode(b *game.Builder, board ttBoard, player int) game.NodeID {
	if w := ttWinner(board); w != 0 {
		return b.AddTerminal(ttTerminalPayoff(w))
	}
	if board.full() {
		return b.AddTerminal([]float64{0, 0})
	}

	mark := ttMarkFor(player)
	var children []game.NodeID
	for cell := 0; cell < 9; cell++ {
		if board[cell] != '.' {
			continue
		}
		next := board
		next[cell] = mark
		children = append(children, buildTTNode(b, next, 1-player))
	}

	return b.AddDecision(children, game.InformationSet{
		ActionCount: len(children),
		Player:      player,
		Payload:     board.String(),
	})
}

func ttTerminalPayoff(winner byte) []float64 {
	if winner == 'X' {
		return []float64{1, -1}
	}
	return []float64{-1, 1}
}
