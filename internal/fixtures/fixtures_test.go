package fixtures

import (
	"testing"

	"github.com/behrlich/cfrsolve/pkg/game"
)

// countKinds walks the full tree from its root and tallies node kinds.
func countKinds(tree *game.Tree) (terminals, chances, decisions int) {
	var visit func(id game.NodeID)
	visit = func(id game.NodeID) {
		switch tree.Kind(id) {
		case game.Terminal:
			terminals++
		case game.Chance:
			chances++
		case game.Decision:
			decisions++
		}
		for i := 0; i < tree.NumChildren(id); i++ {
			visit(tree.Child(id, i))
		}
	}
	visit(tree.Root())
	return
}

func TestRockPaperScissors_Shape(t *testing.T) {
	tree := RockPaperScissors(2)
	if tree.PlayerCount() != 2 {
		t.Fatalf("expected 2 players, got %d", tree.PlayerCount())
	}
	if n := tree.NumInfoSets(); n != 2 {
		t.Fatalf("expected 2 info sets (one per player), got %d", n)
	}
}

func TestKuhnPoker_Shape(t *testing.T) {
	tree := KuhnPoker()
	if tree.PlayerCount() != 2 {
		t.Fatalf("expected 2 players, got %d", tree.PlayerCount())
	}
	if n := tree.NumInfoSets(); n != 12 {
		t.Fatalf("expected the standard 12 information sets, got %d", n)
	}

	terminals, chances, decisions := countKinds(tree)

	if chances != 4 {
		t.Errorf("expected 4 chance nodes, got %d", chances)
	}
	if decisions != 24 {
		t.Errorf("expected 24 decision nodes, got %d", decisions)
	}
	if terminals != 30 {
		t.Errorf("expected 30 terminal nodes, got %d", terminals)
	}
}

func TestTicTacToe_Shape(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping full tic-tac-toe tree construction (~5.5e5 nodes) in short mode")
	}
	tree := TicTacToe()
	if tree.PlayerCount() != 2 {
		t.Fatalf("expected 2 players, got %d", tree.PlayerCount())
	}
	if tree.NumInfoSets() == 0 {
		t.Fatal("expected a nonzero number of information sets")
	}
}

func TestOneCardPoker_Shape(t *testing.T) {
	tree := OneCardPoker(1, [2]int{1, 2}, [2]int{100, 100})
	if tree.PlayerCount() != 2 {
		t.Fatalf("expected 2 players, got %d", tree.PlayerCount())
	}
	if tree.NumInfoSets() == 0 {
		t.Fatal("expected a nonzero number of information sets")
	}
}
