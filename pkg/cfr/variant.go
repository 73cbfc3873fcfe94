package cfr

import (
	"math"

	"github.com/pkg/errors"
)

// ErrInvalidArgument is wrapped by NewDiscounted when given non-finite
// discount parameters, per spec §7.
var ErrInvalidArgument = errors.New("cfr: invalid argument")

// Variant is the seam between the three CFR algorithms spec §1 names:
// vanilla CFR, CFR+, and Discounted CFR (DCFR). They share one traversal
// skeleton (Solver.traverse) and differ only in how the current
// strategy is derived from regrets and how the end-of-iteration collect
// step discounts regrets and the running average.
type Variant interface {
	// CurrentStrategy computes the iteration's mixed strategy over
	// state's actions, per spec §4.2.
	CurrentStrategy(state *PerInfoSetState) []float64

	// Collect applies the common update in spec §4.4 (strategy_sum,
	// weight_sum, base regret update) plus this variant's discount
	// overlay, given the strategy used this iteration and the 1-based
	// iteration counter.
	Collect(state *PerInfoSetState, strategy []float64, iter int)
}

// regretMatch computes r+/sum(r+), or uniform if all r+ are zero. Both
// Vanilla and Discounted CFR use this formula (spec §4.2).
func regretMatch(regrets []float64) []float64 {
	n := len(regrets)
	out := make([]float64, n)
	sum := 0.0
	for i, r := range regrets {
		if r > 0 {
			out[i] = r
			sum += r
		}
	}
	if sum > 0 {
		for i := range out {
			out[i] /= sum
		}
		return out
	}
	return uniformStrategy(n)
}

// collectCommon applies the base update shared by every variant: adds
// this iteration's reach-weighted strategy into the running average and
// folds the accumulated counterfactuals into cumulative regret. It
// returns the counterfactual value of the strategy actually played,
// u_bar, purely so callers that want it (none currently do) don't need
// to recompute it.
func collectCommon(state *PerInfoSetState, strategy []float64) (uBar float64) {
	for i, sigma := range strategy {
		state.StrategySum[i] += state.IterWeight * sigma
		uBar += state.IterCounterfactuals[i] * sigma
	}
	state.WeightSum += state.IterWeight

	for i := range state.Regrets {
		state.Regrets[i] += state.IterCounterfactuals[i] - uBar
	}
	return uBar
}

// Vanilla implements vanilla CFR (spec §4.2, §4.4 "Common").
type Vanilla struct{}

func (Vanilla) CurrentStrategy(state *PerInfoSetState) []float64 {
	return regretMatch(state.Regrets)
}

func (Vanilla) Collect(state *PerInfoSetState, strategy []float64, _ int) {
	collectCommon(state, strategy)
}

// CFRPlus implements CFR+: regrets are kept non-negative, and the running
// average emphasizes later iterations via a t/(t+1) discount (spec §4.2,
// §4.4).
type CFRPlus struct{}

// CurrentStrategy reuses regretMatch: CFR+'s regrets are already clamped
// non-negative by Collect, so the shared positive-regret-matching formula
// applies unchanged (it also guards a strategy queried before any Collect
// has run, since regrets start at zero).
func (CFRPlus) CurrentStrategy(state *PerInfoSetState) []float64 {
	return regretMatch(state.Regrets)
}

func (CFRPlus) Collect(state *PerInfoSetState, strategy []float64, iter int) {
	collectCommon(state, strategy)

	for i, r := range state.Regrets {
		if r < 0 {
			state.Regrets[i] = 0
		}
	}

	t := float64(iter)
	m := t / (t + 1)
	state.WeightSum *= m
	for i := range state.StrategySum {
		state.StrategySum[i] *= m
	}
}

// Discounted implements Discounted CFR (DCFR) with parameters alpha,
// beta, gamma (spec §4.4). Defaults per spec are alpha=1.5, beta=0,
// gamma=2; use NewDiscounted to construct with those or custom values.
type Discounted struct {
	Alpha, Beta, Gamma float64
}

// NewDiscounted returns a Discounted variant with the given parameters,
// or an error wrapping ErrInvalidArgument if any is non-finite.
func NewDiscounted(alpha, beta, gamma float64) (*Discounted, error) {
	for name, v := range map[string]float64{"alpha": alpha, "beta": beta, "gamma": gamma} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, errors.Wrapf(ErrInvalidArgument, "%s must be finite, got %v", name, v)
		}
	}
	return &Discounted{Alpha: alpha, Beta: beta, Gamma: gamma}, nil
}

// DefaultDiscounted returns the standard DCFR parameterization from
// spec §4.4: alpha=1.5, beta=0, gamma=2.
func DefaultDiscounted() *Discounted {
	d, _ := NewDiscounted(1.5, 0, 2)
	return d
}

func (Discounted) CurrentStrategy(state *PerInfoSetState) []float64 {
	return regretMatch(state.Regrets)
}

func (d *Discounted) Collect(state *PerInfoSetState, strategy []float64, iter int) {
	collectCommon(state, strategy)

	t := float64(iter)
	alphaM := math.Pow(t, d.Alpha) / (math.Pow(t, d.Alpha) + 1)
	betaM := math.Pow(t, d.Beta) / (math.Pow(t, d.Beta) + 1)
	gammaM := math.Pow(t/(t+1), d.Gamma)

	for i, r := range state.Regrets {
		if r > 0 {
			state.Regrets[i] = r * alphaM
		} else {
			state.Regrets[i] = r * betaM
		}
	}

	state.WeightSum *= gammaM
	for i := range state.StrategySum {
		state.StrategySum[i] *= gammaM
	}
}
