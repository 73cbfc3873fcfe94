// Package cfr implements the regret-minimization engine: per-information-set
// state, the vanilla/CFR+/Discounted CFR strategy variants, the full-tree
// traversal that drives one iteration, and the Solver driver that ties them
// together over a game.Tree.
package cfr

// PerInfoSetState is the mutable numeric accumulator for one information
// set, per spec §3. One instance is allocated per distinct
// game.InformationSet when a Solver is constructed; it is mutated only by
// Solver.Step and lives for the lifetime of the Solver.
type PerInfoSetState struct {
	// Regrets holds running cumulative regret per action.
	Regrets []float64
	// StrategySum holds the running reach-weighted sum of strategies
	// played, used to derive the average strategy.
	StrategySum []float64
	// WeightSum is the running sum of reach weights behind StrategySum.
	WeightSum float64

	// IterWeight and IterCounterfactuals are reset to zero at the end of
	// every collect step; they accumulate within a single traversal.
	IterWeight          float64
	IterCounterfactuals []float64
}

func newPerInfoSetState(actionCount int) *PerInfoSetState {
	return &PerInfoSetState{
		Regrets:             make([]float64, actionCount),
		StrategySum:         make([]float64, actionCount),
		IterCounterfactuals: make([]float64, actionCount),
	}
}

// AverageStrategy returns StrategySum/WeightSum, or the uniform
// distribution if WeightSum is zero, per spec §4.2.
func (s *PerInfoSetState) AverageStrategy() []float64 {
	n := len(s.StrategySum)
	out := make([]float64, n)
	if s.WeightSum > 0 {
		for i := range out {
			out[i] = s.StrategySum[i] / s.WeightSum
		}
	} else {
		uniform := 1.0 / float64(n)
		for i := range out {
			out[i] = uniform
		}
	}
	return out
}

// clone returns a deep copy, used when checkpointing so the caller's
// snapshot cannot alias the Solver's live slices.
func (s *PerInfoSetState) clone() PerInfoSetState {
	cp := *s
	cp.Regrets = append([]float64(nil), s.Regrets...)
	cp.StrategySum = append([]float64(nil), s.StrategySum...)
	cp.IterCounterfactuals = append([]float64(nil), s.IterCounterfactuals...)
	return cp
}

func (s *PerInfoSetState) clearIteration() {
	s.IterWeight = 0
	for i := range s.IterCounterfactuals {
		s.IterCounterfactuals[i] = 0
	}
}

func uniformStrategy(n int) []float64 {
	out := make([]float64, n)
	u := 1.0 / float64(n)
	for i := range out {
		out[i] = u
	}
	return out
}
