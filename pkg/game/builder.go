package game

import "math"

// probabilityEpsilon is the tolerance spec §3 allows chance probabilities
// (and, by the same invariant, average strategies) to deviate from 1.
const probabilityEpsilon = 1e-6

// Builder accumulates nodes into an arena and produces an immutable Tree.
// Nodes are added leaves-first (children must exist before the node that
// references them is added), matching how a recursive factory naturally
// builds a tree bottom-up.
type Builder struct {
	nodes []node

	infoSets     []InformationSet
	infoSetIndex map[InformationSet]int
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		infoSetIndex: make(map[InformationSet]int),
	}
}

// AddTerminal adds a terminal node carrying the given payoff vector (one
// entry per player) and returns its NodeID.
func (b *Builder) AddTerminal(payoff []float64) NodeID {
	cp := make([]float64, len(payoff))
	copy(cp, payoff)
	b.nodes = append(b.nodes, node{kind: Terminal, payoff: cp})
	return NodeID(len(b.nodes) - 1)
}

// AddChance adds a chance node with the given children and parallel
// probabilities and returns its NodeID. Probabilities are validated to
// sum to 1±ε at Build time, not here, so callers can build incrementally
// (e.g. appending children in a loop) without per-call overhead.
func (b *Builder) AddChance(children []NodeID, probs []float64) NodeID {
	cc := make([]NodeID, len(children))
	copy(cc, children)
	cp := make([]float64, len(probs))
	copy(cp, probs)
	b.nodes = append(b.nodes, node{kind: Chance, children: cc, probs: cp})
	return NodeID(len(b.nodes) - 1)
}

// AddDecision adds a decision node with the given children and
// information set and returns its NodeID. infoSet.ActionCount must equal
// len(children); this is validated at Build time against every other
// decision node sharing the same information set.
func (b *Builder) AddDecision(children []NodeID, infoSet InformationSet) NodeID {
	cc := make([]NodeID, len(children))
	copy(cc, children)

	idx, ok := b.infoSetIndex[infoSet]
	if !ok {
		idx = len(b.infoSets)
		b.infoSetIndex[infoSet] = idx
		b.infoSets = append(b.infoSets, infoSet)
	}

	b.nodes = append(b.nodes, node{
		kind:        Decision,
		decChildren: cc,
		infoSet:     infoSet,
		infoSetIdx:  idx,
	})
	return NodeID(len(b.nodes) - 1)
}

// Build validates the accumulated nodes against the invariants in spec §3
// and returns the resulting immutable Tree, or an *InvariantError.
//
// root must be a NodeID previously returned by one of the Add* methods.
func (b *Builder) Build(root NodeID) (*Tree, error) {
	if int(root) < 0 || int(root) >= len(b.nodes) {
		return nil, invariantErrorf("root node id %d out of range [0,%d)", root, len(b.nodes))
	}

	if err := b.checkChanceProbabilities(); err != nil {
		return nil, err
	}
	if err := b.checkActionCounts(); err != nil {
		return nil, err
	}
	playerCount, err := b.checkPlayers()
	if err != nil {
		return nil, err
	}
	if err := b.checkTerminalPayoffs(playerCount); err != nil {
		return nil, err
	}
	if err := b.checkAcyclic(root); err != nil {
		return nil, err
	}

	return &Tree{
		nodes:        b.nodes,
		root:         root,
		playerCount:  playerCount,
		infoSets:     b.infoSets,
		infoSetIndex: b.infoSetIndex,
	}, nil
}

func (b *Builder) checkChanceProbabilities() error {
	for id, n := range b.nodes {
		if n.kind != Chance {
			continue
		}
		if len(n.children) != len(n.probs) {
			return invariantErrorf("chance node %d has %d children but %d probabilities", id, len(n.children), len(n.probs))
		}
		sum := 0.0
		for _, p := range n.probs {
			if p < 0 {
				return invariantErrorf("chance node %d has negative probability %v", id, p)
			}
			sum += p
		}
		if math.Abs(sum-1.0) > probabilityEpsilon {
			return invariantErrorf("chance node %d probabilities sum to %v, want 1±%v", id, sum, probabilityEpsilon)
		}
	}
	return nil
}

func (b *Builder) checkActionCounts() error {
	for id, n := range b.nodes {
		if n.kind != Decision {
			continue
		}
		if n.infoSet.ActionCount != len(n.decChildren) {
			return invariantErrorf("decision node %d has %d children but its info set %s declares action_count=%d",
				id, len(n.decChildren), n.infoSet, n.infoSet.ActionCount)
		}
	}
	return nil
}

// checkPlayers derives PlayerCount from the larger of two signals: the
// highest player index any decision node's information set names, and the
// longest terminal payoff vector in the tree. A terminal vector can name
// more players than any decision node acts for (a player who never gets a
// turn still needs a payoff entry), so neither signal alone is reliable.
func (b *Builder) checkPlayers() (int, error) {
	maxPlayer := -1
	for id, n := range b.nodes {
		switch n.kind {
		case Decision:
			if n.infoSet.Player < 0 {
				return 0, invariantErrorf("decision node %d has negative player index %d", id, n.infoSet.Player)
			}
			if n.infoSet.Player > maxPlayer {
				maxPlayer = n.infoSet.Player
			}
		case Terminal:
			if len(n.payoff)-1 > maxPlayer {
				maxPlayer = len(n.payoff) - 1
			}
		}
	}
	return maxPlayer + 1, nil
}

// checkTerminalPayoffs ensures every terminal's payoff vector has exactly
// one entry per player, so traversal never indexes past it.
func (b *Builder) checkTerminalPayoffs(playerCount int) error {
	for id, n := range b.nodes {
		if n.kind != Terminal {
			continue
		}
		if len(n.payoff) != playerCount {
			return invariantErrorf("terminal node %d has %d payoff entries, want %d (one per player)",
				id, len(n.payoff), playerCount)
		}
	}
	return nil
}

// checkAcyclic walks from root tracking the active recursion path; a
// node reappearing on that path is a cycle. The tree is expected to be a
// DAG-free tree in practice (each node has exactly one parent), so this
// also incidentally catches accidental node reuse across branches with
// differing ancestry, which would otherwise double-count reach weights.
func (b *Builder) checkAcyclic(root NodeID) error {
	const (
		unvisited = 0
		onPath    = 1
		done      = 2
	)
	state := make([]uint8, len(b.nodes))

	var visit func(id NodeID) error
	visit = func(id NodeID) error {
		if state[id] == onPath {
			return invariantErrorf("cycle detected at node %d", id)
		}
		if state[id] == done {
			return invariantErrorf("node %d is shared by more than one parent", id)
		}
		state[id] = onPath

		n := &b.nodes[id]
		var children []NodeID
		switch n.kind {
		case Chance:
			children = n.children
		case Decision:
			children = n.decChildren
		}
		for _, c := range children {
			if int(c) < 0 || int(c) >= len(b.nodes) {
				return invariantErrorf("node %d references out-of-range child %d", id, c)
			}
			if err := visit(c); err != nil {
				return err
			}
		}

		state[id] = done
		return nil
	}

	return visit(root)
}
