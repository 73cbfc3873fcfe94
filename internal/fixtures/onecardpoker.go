package fixtures

import (
	"fmt"

	"github.com/behrlich/cfrsolve/pkg/cards"
	"github.com/behrlich/cfrsolve/pkg/game"
)

// ocpDeck is the full thirteen-rank deck used by one-card poker: one hole
// card per player, suit irrelevant, showdown decided by rank alone (so ties
// never occur since no two players can hold the same rank).
var ocpDeck = [13]cards.Rank{
	cards.Two, cards.Three, cards.Four, cards.Five, cards.Six, cards.Seven,
	cards.Eight, cards.Nine, cards.Ten, cards.Jack, cards.Queen, cards.King, cards.Ace,
}

type ocpState struct {
	cards   [2]cards.Rank
	history string
}

// OneCardPoker builds a two-player one-card poker game tree: each player
// posts a blind (blinds[0], blinds[1]) and an ante, is dealt one card from
// the thirteen-rank deck, and a single no-limit-flavored betting round
// follows with one fixed raise size (the larger of the two blinds) and at
// most one raise in the round. Stacks are only checked to exceed each
// player's blind plus ante; they do not shape the betting. Showdown pays the
// pot to the higher rank; ties cannot occur.
func OneCardPoker(ante int, blinds [2]int, stacks [2]int) *game.Tree {
	if stacks[0] <= blinds[0]+ante || stacks[1] <= blinds[1]+ante {
		panic("fixtures: OneCardPoker requires stacks strictly greater than blind+ante")
	}

	b := game.NewBuilder()
	raise := blinds[0]
	if blinds[1] > raise {
		raise = blinds[1]
	}
	pot := ocpPot{ante: ante, blinds: blinds, raise: raise, stacks: stacks}

	dealP0Children := make([]game.NodeID, len(ocpDeck))
	dealP0Probs := make([]float64, len(ocpDeck))
	for i, c := range ocpDeck {
		dealP0Children[i] = buildOCPDealP1(b, pot, c)
		dealP0Probs[i] = 1.0 / float64(len(ocpDeck))
	}

	root := b.AddChance(dealP0Children, dealP0Probs)
	tree, err := b.Build(root)
	if err != nil {
		panic(err)
	}
	return tree
}

// ocpPot carries the fixed betting parameters through construction; unlike
// kuhnState it never changes after OneCardPoker computes it once.
type ocpPot struct {
	ante   int
	blinds [2]int
	raise  int
	stacks [2]int
}

func buildOCPDealP1(b *game.Builder, pot ocpPot, p0Card cards.Rank) game.NodeID {
	var children []game.NodeID
	var probs []float64
	for _, c := range ocpDeck {
		if c == p0Card {
			continue
		}
		st := ocpState{cards: [2]cards.Rank{p0Card, c}}
		children = append(children, buildOCPBetting(b, pot, st, 0))
		probs = append(probs, 1.0/float64(len(ocpDeck)-1))
	}
	return b.AddChance(children, probs)
}

// buildOCPBetting builds the single betting round. At most one raise is
// allowed in the whole round (heads-up limit style), so the tree stays finite
// regardless of stack depth: once a raise has happened, the facing player
// can only fold or call.
func buildOCPBetting(b *game.Builder, pot ocpPot, st ocpState, actor int) game.NodeID {
	switch st.history {
	case "":
		return ocpDecisionNode(b, pot, st, actor, []string{"c", "r"})
	case "c":
		return ocpDecisionNode(b, pot, st, actor, []string{"c", "r"})
	case "cc":
		return b.AddTerminal(ocpShowdownPayoff(st, pot, false))
	case "cr":
		return ocpDecisionNode(b, pot, st, actor, []string{"f", "c"})
	case "crf":
		return b.AddTerminal(ocpFoldPayoff(st, actor, pot))
	case "crc":
		return b.AddTerminal(ocpShowdownPayoff(st, pot, true))
	case "r":
		return ocpDecisionNode(b, pot, st, actor, []string{"f", "c"})
	case "rf":
		return b.AddTerminal(ocpFoldPayoff(st, actor, pot))
	case "rc":
		return b.AddTerminal(ocpShowdownPayoff(st, pot, true))
	default:
		panic(fmt.Sprintf("fixtures: unreachable one-card-poker history %q", st.history))
	}
}

func ocpDecisionNode(b *game.Builder, pot ocpPot, st ocpState, actor int, actions []string) game.NodeID {
	children := make([]game.NodeID, len(actions))
	for i, a := range actions {
		next := st
		next.history += a
		nextActor := 1 - actor
		if a == "f" {
			nextActor = actor
		}
		children[i] = buildOCPBetting(b, pot, next, nextActor)
	}

	payload := fmt.Sprintf("%v|%s", st.cards[actor], st.history)
	return b.AddDecision(children, game.InformationSet{
		ActionCount: len(actions),
		Player:      actor,
		Payload:     payload,
	})
}

// ocpStake returns how much a player has committed to the pot: their ante
// plus their own blind, plus the raise once a raise has been called by both
// sides (a fold never reaches that state for the folder, so ocpFoldPayoff
// never adds it).
func ocpStake(pot ocpPot, player int, raised bool) int {
	stake := pot.ante + pot.blinds[player]
	if raised {
		stake += pot.raise
	}
	return stake
}

// ocpShowdownPayoff awards the pot to the higher-ranked hole card. Each
// player's own stake returns to them regardless, so the zero-sum amount
// that actually changes hands is the loser's stake, not a value shared
// between both players (blinds[0] and blinds[1] may differ).
func ocpShowdownPayoff(st ocpState, pot ocpPot, raised bool) []float64 {
	stake0 := float64(ocpStake(pot, 0, raised))
	stake1 := float64(ocpStake(pot, 1, raised))
	if st.cards[0] > st.cards[1] {
		return []float64{stake1, -stake1}
	}
	return []float64{-stake0, stake0}
}

// ocpFoldPayoff awards the folder's own (pre-raise) stake to the other
// player: a fold never calls the last raise, so only the ante and the
// folder's own blind are actually at risk.
func ocpFoldPayoff(st ocpState, folder int, pot ocpPot) []float64 {
	stake := float64(ocpStake(pot, folder, false))
	payoff := make([]float64, 2)
	payoff[folder] = -stake
	payoff[1-folder] = stake
	return payoff
}
