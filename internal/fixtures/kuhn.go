package fixtures

import (
	"fmt"

	"github.com/behrlich/cfrsolve/pkg/cards"
	"github.com/behrlich/cfrsolve/pkg/game"
)

// kuhnDeck is the three-card Kuhn poker deck: Jack, Queen, King, each dealt
// once. Only ranks are dealt; the deck has no suits.
var kuhnDeck = [3]cards.Rank{cards.Jack, cards.Queen, cards.King}

const kuhnAnte = 1
const kuhnBet = 1

// kuhnState threads the betting history and both players' private cards
// through tree construction; it is discarded once the tree is built.
type kuhnState struct {
	cards   [2]cards.Rank
	history string // sequence of 'c' (check/call), 'b' (bet) and 'f' (fold) so far
}

// KuhnPoker builds the classic two-player Kuhn poker game tree (Kuhn 1950):
// each player antes 1, is dealt one of {J, Q, K} from a three-card deck, and
// a single betting round follows with a bet size of 1. Dealing happens in
// two chance stages (player 0's card, then player 1's card from the
// remaining two) rather than one flat six-way draw, producing the standard
// 58-node tree: 4 chance nodes, 24 decision nodes, 30 terminals, and 12
// information sets (one per (player, private card, history-so-far)).
func KuhnPoker() *game.Tree {
	b := game.NewBuilder()

	dealP0Children := make([]game.NodeID, 3)
	dealP0Probs := make([]float64, 3)
	for i := 0; i < 3; i++ {
		dealP0Children[i] = buildKuhnDealP1(b, kuhnDeck[i])
		dealP0Probs[i] = 1.0 / 3.0
	}

	root := b.AddChance(dealP0Children, dealP0Probs)
	tree, err := b.Build(root)
	if err != nil {
		panic(err)
	}
	return tree
}

// buildKuhnDealP1 builds the second dealing stage: a chance node choosing
// player 1's card uniformly from the two ranks player 0 was not dealt.
func buildKuhnDealP1(b *game.Builder, p0Card cards.Rank) game.NodeID {
	var children []game.NodeID
	var probs []float64
	for _, r := range kuhnDeck {
		if r == p0Card {
			continue
		}
		st := kuhnState{cards: [2]cards.Rank{p0Card, r}}
		children = append(children, buildKuhnBetting(b, st, 0))
		probs = append(probs, 0.5)
	}
	return b.AddChance(children, probs)
}

// buildKuhnBetting builds the betting subtree for player `actor` to act
// given the betting history already in st.history. Kuhn's single round ends
// either in a fold, a check-check (showdown with no bets), or a bet
// followed by a call (showdown) or fold.
func buildKuhnBetting(b *game.Builder, st kuhnState, actor int) game.NodeID {
	switch st.history {
	case "":
		return kuhnDecisionNode(b, st, actor, []string{"c", "b"})
	case "c":
		return kuhnDecisionNode(b, st, actor, []string{"c", "b"})
	case "cb":
		return kuhnDecisionNode(b, st, actor, []string{"f", "c"})
	case "cc":
		return b.AddTerminal(kuhnShowdownPayoff(st, kuhnAnte))
	case "cbf":
		return b.AddTerminal(kuhnFoldPayoff(st, actor, kuhnAnte))
	case "cbc":
		return b.AddTerminal(kuhnShowdownPayoff(st, kuhnAnte+kuhnBet))
	case "b":
		return kuhnDecisionNode(b, st, actor, []string{"f", "c"})
	case "bf":
		return b.AddTerminal(kuhnFoldPayoff(st, actor, kuhnAnte))
	case "bc":
		return b.AddTerminal(kuhnShowdownPayoff(st, kuhnAnte+kuhnBet))
	default:
		panic(fmt.Sprintf("fixtures: unreachable kuhn history %q", st.history))
	}
}

// kuhnDecisionNode builds one decision node for the player to act, offering
// the given action labels ("c"=check or call, "b"=bet, "f"=fold), keyed by
// an information set of the acting player's private card and the history
// they've observed so far (symmetric across the unseen opponent card).
func kuhnDecisionNode(b *game.Builder, st kuhnState, actor int, actions []string) game.NodeID {
	children := make([]game.NodeID, len(actions))
	for i, a := range actions {
		next := st
		next.history += a
		if a == "f" {
			children[i] = buildKuhnBetting(b, next, actor) // fold terminates, actor unused
		} else {
			children[i] = buildKuhnBetting(b, next, 1-actor)
		}
	}

	payload := fmt.Sprintf("%v|%s", st.cards[actor], st.history)

	return b.AddDecision(children, game.InformationSet{
		ActionCount: len(actions),
		Player:      actor,
		Payload:     payload,
	})
}

// kuhnShowdownPayoff awards the full pot (size 2*atStake, one contribution
// per player) to whichever player holds the higher-ranked card.
func kuhnShowdownPayoff(st kuhnState, atStake float64) []float64 {
	if st.cards[0] > st.cards[1] {
		return []float64{atStake, -atStake}
	}
	return []float64{-atStake, atStake}
}

// kuhnFoldPayoff awards the pot to the player who did not fold. folder is
// the player whose action produced the terminal 'f'.
func kuhnFoldPayoff(st kuhnState, folder int, atStake float64) []float64 {
	payoff := make([]float64, 2)
	payoff[folder] = -atStake
	payoff[1-folder] = atStake
	return payoff
}
