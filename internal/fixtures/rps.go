// Package fixtures builds small, self-contained game.Tree instances used by
// pkg/cfr's tests to exercise the solver against known-equilibrium games.
// Each fixture is a direct, minimal port of the corresponding factory in the
// Python reference implementation this solver was distilled from; none of it
// is exported as a general-purpose game-authoring API.
package fixtures

import "github.com/behrlich/cfrsolve/pkg/game"

// rpsHandCount is the number of hands in one throw: rock, paper, scissors.
const rpsHandCount = 3

// RockPaperScissors builds the n-player rock-paper-scissors tree: players
// throw in sequence without observing any prior throw, so every decision
// node for a given player shares one information set regardless of history.
// Payoffs follow the standard n-player rule: if the thrown hands span all
// three choices, or only one choice, every player ties at 0; otherwise the
// two-hand split has a single winning hand, and everyone who threw it gets
// 1 while everyone who threw the losing hand takes -1.
func RockPaperScissors(playerCount int) *game.Tree {
	if playerCount < 1 {
		panic("fixtures: RockPaperScissors requires playerCount >= 1")
	}

	b := game.NewBuilder()
	root := buildRPSDecision(b, playerCount, nil)
	tree, err := b.Build(root)
	if err != nil {
		panic(err)
	}
	return tree
}

func buildRPSDecision(b *game.Builder, playerCount int, thrown []int) game.NodeID {
	player := len(thrown)
	if player == playerCount {
		return b.AddTerminal(rpsPayoffs(thrown))
	}

	children := make([]game.NodeID, rpsHandCount)
	for hand := 0; hand < rpsHandCount; hand++ {
		children[hand] = buildRPSDecision(b, playerCount, append(append([]int{}, thrown...), hand))
	}
	return b.AddDecision(children, game.InformationSet{
		ActionCount: rpsHandCount,
		Player:      player,
		Payload:     "",
	})
}

// rpsPayoffs implements the standard rock/paper/scissors beats relation
// (rock=0 beats scissors=2, scissors=2 beats paper=1, paper=1 beats rock=0).
func rpsPayoffs(thrown []int) []float64 {
	seen := map[int]bool{}
	for _, h := range thrown {
		seen[h] = true
	}

	payoff := make([]float64, len(thrown))
	if len(seen) == 1 || len(seen) == 3 {
		return payoff // all tie at 0
	}

	var pair [2]int
	i := 0
	for h := range seen {
		pair[i] = h
		i++
	}
	a, c := pair[0], pair[1]
	winner, loser := a, c
	if (a+1)%rpsHandCount == c {
		winner, loser = c, a
	}

	for i, h := range thrown {
		switch h {
		case winner:
			payoff[i] = 1
		case loser:
			payoff[i] = -1
		}
	}
	return payoff
}
