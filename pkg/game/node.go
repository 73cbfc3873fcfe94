// Package game holds the immutable extensive-form game tree that a solver
// in package cfr consumes: an arena of terminal, chance, and decision
// nodes, plus the information-set registry that groups decision nodes a
// player cannot tell apart.
package game

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind is the tag of a Node's variant.
type Kind int

const (
	Terminal Kind = iota
	Chance
	Decision
)

func (k Kind) String() string {
	switch k {
	case Terminal:
		return "terminal"
	case Chance:
		return "chance"
	case Decision:
		return "decision"
	default:
		return "unknown"
	}
}

// NodeID indexes a node within a Tree's arena.
type NodeID int32

// InformationSet identifies a maximal set of decision nodes a player
// cannot distinguish between. Two identifiers with equal (ActionCount,
// Player, Payload) denote the same set and share PerInfoSetState.
//
// Payload is an opaque, game-specific byte string (board cards, bet
// history, whatever distinguishes observable histories) and is otherwise
// unexamined by this package. It is a plain string, not []byte, so
// InformationSet stays comparable and usable as a map key directly.
type InformationSet struct {
	ActionCount int
	Player      int
	Payload     string
}

func (is InformationSet) String() string {
	return fmt.Sprintf("p%d/%d/%s", is.Player, is.ActionCount, is.Payload)
}

// node is the arena record for one tree node. Exactly one of the three
// shapes below is populated, selected by Kind.
type node struct {
	kind Kind

	// Terminal
	payoff []float64

	// Chance
	children []NodeID
	probs    []float64

	// Decision
	decChildren []NodeID
	infoSet     InformationSet
	infoSetIdx  int // dense index into Tree.infoSets, cached at build time
}

// Tree is an immutable, arena-backed extensive-form game tree. The zero
// value is not usable; construct one with a Builder.
type Tree struct {
	nodes       []node
	root        NodeID
	playerCount int

	infoSets      []InformationSet
	infoSetIndex  map[InformationSet]int
}

// Root returns the tree's root node.
func (t *Tree) Root() NodeID { return t.root }

// PlayerCount returns the larger of 1 + the maximum player index referenced
// by any information set and the length of the longest terminal payoff
// vector (see Builder.checkPlayers).
func (t *Tree) PlayerCount() int { return t.playerCount }

// Kind returns the variant tag of the given node.
func (t *Tree) Kind(id NodeID) Kind { return t.nodes[id].kind }

// Payoff returns the payoff vector of a terminal node. It panics if id is
// not a terminal node; callers are expected to dispatch on Kind first, as
// the traversal in package cfr does.
func (t *Tree) Payoff(id NodeID) []float64 {
	n := &t.nodes[id]
	if n.kind != Terminal {
		panic(fmt.Sprintf("game: Payoff called on non-terminal node %d (%s)", id, n.kind))
	}
	return n.payoff
}

// NumChildren returns the number of children of a chance or decision node.
func (t *Tree) NumChildren(id NodeID) int {
	n := &t.nodes[id]
	switch n.kind {
	case Chance:
		return len(n.children)
	case Decision:
		return len(n.decChildren)
	default:
		return 0
	}
}

// Child returns the ith child of a chance or decision node.
func (t *Tree) Child(id NodeID, i int) NodeID {
	n := &t.nodes[id]
	switch n.kind {
	case Chance:
		return n.children[i]
	case Decision:
		return n.decChildren[i]
	default:
		panic(fmt.Sprintf("game: Child called on %s node %d", n.kind, id))
	}
}

// ChildProbability returns the probability of the ith child of a chance
// node. It panics if id is not a chance node.
func (t *Tree) ChildProbability(id NodeID, i int) float64 {
	n := &t.nodes[id]
	if n.kind != Chance {
		panic(fmt.Sprintf("game: ChildProbability called on %s node %d", n.kind, id))
	}
	return n.probs[i]
}

// InfoSet returns the information set of a decision node. It panics if id
// is not a decision node.
func (t *Tree) InfoSet(id NodeID) InformationSet {
	n := &t.nodes[id]
	if n.kind != Decision {
		panic(fmt.Sprintf("game: InfoSet called on %s node %d", n.kind, id))
	}
	return n.infoSet
}

// infoSetDenseIndex returns the decision node's cached dense registry
// index, populated once at Build time so the solver's hot path never
// hashes InformationSet.Payload per traversal step.
func (t *Tree) infoSetDenseIndex(id NodeID) int {
	return t.nodes[id].infoSetIdx
}

// InfoSetDenseIndex returns the dense registry index cached on a decision
// node at Build time; it is the exported form of infoSetDenseIndex used by
// package cfr's traversal.
func (t *Tree) InfoSetDenseIndex(id NodeID) int {
	return t.infoSetDenseIndex(id)
}

// InfoSets returns every distinct information set in the tree, in the
// order each was first encountered during Build.
func (t *Tree) InfoSets() []InformationSet {
	out := make([]InformationSet, len(t.infoSets))
	copy(out, t.infoSets)
	return out
}

// NumInfoSets returns the number of distinct information sets.
func (t *Tree) NumInfoSets() int { return len(t.infoSets) }

// InfoSetIndex returns the dense registry index of an information set and
// whether it is part of this tree at all.
func (t *Tree) InfoSetIndex(is InformationSet) (int, bool) {
	idx, ok := t.infoSetIndex[is]
	return idx, ok
}

// Player-related sentinel errors. Wrapped with github.com/pkg/errors so
// callers retain a stack trace while still being able to errors.Is against
// the sentinel.
var (
	// ErrInvariantViolation is wrapped by every structural validation
	// failure a Builder detects: mismatched action counts within one
	// info set, chance probabilities not summing to 1±ε, or a cycle.
	ErrInvariantViolation = errors.New("game: invariant violation")
)

// InvariantError reports a specific structural problem found by
// Builder.Build. errors.Is(err, ErrInvariantViolation) is true for every
// InvariantError.
type InvariantError struct {
	cause error
}

func (e *InvariantError) Error() string { return e.cause.Error() }
func (e *InvariantError) Unwrap() error { return e.cause }

func invariantErrorf(format string, args ...interface{}) error {
	return &InvariantError{cause: errors.Wrapf(ErrInvariantViolation, format, args...)}
}
