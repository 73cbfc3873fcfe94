package cfr

import (
	"github.com/pkg/errors"

	"github.com/behrlich/cfrsolve/pkg/game"
)

// ErrUnknownInformationSet is wrapped by Query when asked about an
// information set the Solver never saw at construction, per spec §7.
var ErrUnknownInformationSet = errors.New("cfr: unknown information set")

// Solver holds a game.Tree, its information-set registry, and one
// PerInfoSetState per distinct information set, and drives CFR iterations
// over it. A Solver owns its PerInfoSetState map exclusively; the tree it
// was built from is read-only for the Solver's lifetime.
type Solver struct {
	tree    *game.Tree
	variant Variant
	iter    int

	// states is indexed by the dense registry index game.Tree caches on
	// each decision node, not by map lookup on the traversal hot path.
	states []*PerInfoSetState
}

// NewSolver walks tree once to enumerate its information sets, allocates
// one PerInfoSetState per set, and returns a Solver ready to Step.
func NewSolver(tree *game.Tree, variant Variant) *Solver {
	infoSets := tree.InfoSets()
	states := make([]*PerInfoSetState, len(infoSets))
	for i, is := range infoSets {
		states[i] = newPerInfoSetState(is.ActionCount)
	}
	return &Solver{tree: tree, variant: variant, states: states}
}

// Iteration returns the number of completed Step calls.
func (s *Solver) Iteration() int { return s.iter }

// Step runs one full-tree CFR iteration (spec §4.3, §4.4) and returns the
// root-level counterfactual value vector from the traversal, for logging
// or convergence monitoring.
func (s *Solver) Step() []float64 {
	s.iter++

	p := s.tree.PlayerCount()
	playerReach := make([]float64, p)
	for i := range playerReach {
		playerReach[i] = 1
	}

	root := s.traverse(s.tree.Root(), 1.0, playerReach)

	for _, state := range s.states {
		sigma := s.variant.CurrentStrategy(state)
		s.variant.Collect(state, sigma, s.iter)
		state.clearIteration()
	}

	return root
}

// traverse implements spec §4.3's recursion. natureReach is the product
// of chance probabilities from the root; playerReach[p] is the product of
// p's own action probabilities from the root. It returns the expected
// payoff vector at id under the current strategy profile.
func (s *Solver) traverse(id game.NodeID, natureReach float64, playerReach []float64) []float64 {
	switch s.tree.Kind(id) {
	case game.Terminal:
		return s.tree.Payoff(id)

	case game.Chance:
		return s.traverseChance(id, natureReach, playerReach)

	default: // game.Decision
		return s.traverseDecision(id, natureReach, playerReach)
	}
}

func (s *Solver) traverseChance(id game.NodeID, natureReach float64, playerReach []float64) []float64 {
	n := s.tree.NumChildren(id)
	p := len(playerReach)
	out := make([]float64, p)
	for i := 0; i < n; i++ {
		prob := s.tree.ChildProbability(id, i)
		v := s.traverse(s.tree.Child(id, i), natureReach*prob, playerReach)
		for pl := 0; pl < p; pl++ {
			out[pl] += prob * v[pl]
		}
	}
	return out
}

func (s *Solver) traverseDecision(id game.NodeID, natureReach float64, playerReach []float64) []float64 {
	infoSet := s.tree.InfoSet(id)
	state := s.states[s.tree.InfoSetDenseIndex(id)]
	sigma := s.variant.CurrentStrategy(state)

	player := infoSet.Player
	numActions := s.tree.NumChildren(id)
	numPlayers := len(playerReach)

	ownReachBefore := playerReach[player]

	actionValues := make([][]float64, numActions)
	out := make([]float64, numPlayers)

	for a := 0; a < numActions; a++ {
		childReach := make([]float64, numPlayers)
		copy(childReach, playerReach)
		childReach[player] = ownReachBefore * sigma[a]

		v := s.traverse(s.tree.Child(id, a), natureReach, childReach)
		actionValues[a] = v
		for pl := 0; pl < numPlayers; pl++ {
			out[pl] += sigma[a] * v[pl]
		}
	}

	cfReach := natureReach
	for pl := 0; pl < numPlayers; pl++ {
		if pl != player {
			cfReach *= playerReach[pl]
		}
	}

	state.IterWeight += ownReachBefore
	for a := 0; a < numActions; a++ {
		state.IterCounterfactuals[a] += cfReach * actionValues[a][player]
	}

	return out
}

// Checkpoint returns the full per-information-set state plus the iteration
// counter, keyed by game.InformationSet, for a caller to serialize however
// it likes (spec §6: persistence is the caller's responsibility). The
// returned states are copies; mutating them does not affect the Solver.
func (s *Solver) Checkpoint() (iteration int, states map[game.InformationSet]PerInfoSetState) {
	states = make(map[game.InformationSet]PerInfoSetState, len(s.states))
	for _, is := range s.tree.InfoSets() {
		idx, _ := s.tree.InfoSetIndex(is)
		states[is] = s.states[idx].clone()
	}
	return s.iter, states
}

// Restore replaces the Solver's iteration counter and per-information-set
// state with a previously checkpointed snapshot. Information sets present
// in the tree but absent from states are reset to a freshly initialized
// (all-zero) state; information sets in states but absent from the tree
// are ignored.
func (s *Solver) Restore(iteration int, states map[game.InformationSet]PerInfoSetState) {
	s.iter = iteration
	for _, is := range s.tree.InfoSets() {
		idx, _ := s.tree.InfoSetIndex(is)
		if saved, ok := states[is]; ok {
			cloned := saved.clone()
			s.states[idx] = &cloned
		} else {
			s.states[idx] = newPerInfoSetState(is.ActionCount)
		}
	}
}

// Query returns the average strategy for an information set (spec §4.2,
// §4.6), or ErrUnknownInformationSet wrapped in the returned error if it
// was not part of the tree this Solver was built from.
func (s *Solver) Query(infoSet game.InformationSet) ([]float64, error) {
	idx, ok := s.lookup(infoSet)
	if !ok {
		return nil, errors.Wrapf(ErrUnknownInformationSet, "%s", infoSet)
	}
	return s.states[idx].AverageStrategy(), nil
}

// QueryNode is the node-dispatching convenience from spec §4.6: a
// terminal node has no distribution, a chance node's distribution is its
// fixed probabilities, and a decision node's distribution is its
// information set's average strategy.
func (s *Solver) QueryNode(id game.NodeID) ([]float64, error) {
	switch s.tree.Kind(id) {
	case game.Terminal:
		return nil, nil
	case game.Chance:
		n := s.tree.NumChildren(id)
		out := make([]float64, n)
		for i := 0; i < n; i++ {
			out[i] = s.tree.ChildProbability(id, i)
		}
		return out, nil
	default:
		return s.Query(s.tree.InfoSet(id))
	}
}

func (s *Solver) lookup(infoSet game.InformationSet) (int, bool) {
	return s.tree.InfoSetIndex(infoSet)
}

// ExpectedValue walks the tree with every decision node's average
// strategy instead of its current strategy, and touches no solver state,
// per spec §4.5. node defaults to the tree's root if nil.
func (s *Solver) ExpectedValue(node *game.NodeID) ([]float64, error) {
	id := s.tree.Root()
	if node != nil {
		id = *node
	}
	return s.expectedValue(id)
}

func (s *Solver) expectedValue(id game.NodeID) ([]float64, error) {
	switch s.tree.Kind(id) {
	case game.Terminal:
		return s.tree.Payoff(id), nil

	case game.Chance:
		n := s.tree.NumChildren(id)
		p := s.tree.PlayerCount()
		out := make([]float64, p)
		for i := 0; i < n; i++ {
			prob := s.tree.ChildProbability(id, i)
			v, err := s.expectedValue(s.tree.Child(id, i))
			if err != nil {
				return nil, err
			}
			for pl := 0; pl < p; pl++ {
				out[pl] += prob * v[pl]
			}
		}
		return out, nil

	default: // game.Decision
		infoSet := s.tree.InfoSet(id)
		sigma, err := s.Query(infoSet)
		if err != nil {
			return nil, err
		}
		n := s.tree.NumChildren(id)
		p := s.tree.PlayerCount()
		out := make([]float64, p)
		for a := 0; a < n; a++ {
			v, err := s.expectedValue(s.tree.Child(id, a))
			if err != nil {
				return nil, err
			}
			for pl := 0; pl < p; pl++ {
				out[pl] += sigma[a] * v[pl]
			}
		}
		return out, nil
	}
}
