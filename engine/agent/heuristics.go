package agent

import (
	"slices"

	engine "github.com/getzen/rookre/engine"
)

// suitStrength sums the game ranks of the seat's cards in suit. The joker
// counts toward every suit since it joins whichever suit is named.
func suitStrength(g *engine.GameState, seat int, suit engine.Suit) float32 {
	var s float32
	for _, id := range g.Players[seat].Hand {
		c := g.Card(id)
		if c.Suit == suit || c.Kind == engine.KindJoker {
			s += c.GameRank
		}
	}
	return s
}

// strongestSuit returns the allowed suit with the highest strength. Ties keep
// the earlier suit.
func strongestSuit(g *engine.GameState, seat int, allowed []engine.Suit) (engine.Suit, float32) {
	best, bestStrength := allowed[0], suitStrength(g, seat, allowed[0])
	for _, s := range allowed[1:] {
		if v := suitStrength(g, seat, s); v > bestStrength {
			best, bestStrength = s, v
		}
	}
	return best, bestStrength
}

// weakestDiscards picks the cards the maker should bury: non-trump first,
// lowest game rank first, pointless cards before counters.
func weakestDiscards(g *engine.GameState, seat int) []engine.CardID {
	need := len(g.Players[seat].Hand) - g.Rules.HandSize
	if need <= 0 {
		return nil
	}
	ids := g.EligibleDiscards()
	slices.SortStableFunc(ids, func(a, b engine.CardID) int {
		ca, cb := g.Card(a), g.Card(b)
		if ca.IsTrump != cb.IsTrump {
			if ca.IsTrump {
				return 1
			}
			return -1
		}
		if ca.Points != cb.Points {
			return int(ca.Points - cb.Points)
		}
		switch {
		case ca.GameRank < cb.GameRank:
			return -1
		case ca.GameRank > cb.GameRank:
			return 1
		}
		return 0
	})
	return ids[:min(need, len(ids))]
}
