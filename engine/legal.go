package engine

import (
	"fmt"
	"slices"
)

// NoPlayableError reports a seat with no eligible card. It signals an
// inconsistent state and carries enough context to diagnose it.
type NoPlayableError struct {
	Seat  int
	Hand  []Card
	Lead  Card
	Trick Trick
}

func (e *NoPlayableError) Error() string {
	return fmt.Sprintf("seat %d has no eligible card: hand %v, lead %s, %d played", e.Seat, e.Hand, e.Lead, e.Trick.Played)
}

// PlayableCards returns the active seat's eligible cards in hand order.
func (g *GameState) PlayableCards() ([]CardID, error) {
	seat := g.ActivePlayer
	hand := g.Players[seat].Hand
	matchingLead := 0
	hasNonTrump := false
	for _, id := range hand {
		c := &g.Cards[id]
		if !g.Trick.IsEmpty() && c.Suit == g.Trick.Lead.Suit {
			matchingLead++
		}
		if !c.IsTrump {
			hasNonTrump = true
		}
	}
	broken := g.TrumpBroken || !g.Rules.TrumpMustBeBroken
	out := make([]CardID, 0, len(hand))
	for _, id := range hand {
		if g.Trick.IsEligible(g.Cards[id], matchingLead, broken, hasNonTrump) {
			out = append(out, id)
		}
	}
	if len(out) == 0 {
		return nil, &NoPlayableError{Seat: seat, Hand: g.CardsFor(hand), Lead: g.Trick.Lead, Trick: g.Trick}
	}
	return out, nil
}

// EligibleDiscards returns the maker's cards that may go to the nest. The
// joker always stays in hand.
func (g *GameState) EligibleDiscards() []CardID {
	if g.Maker < 0 {
		return nil
	}
	var out []CardID
	for _, id := range g.Players[g.Maker].Hand {
		if g.Cards[id].Kind != KindJoker {
			out = append(out, id)
		}
	}
	return out
}

// AvailableTrumpSuits returns the suits the active bidder may name. With
// turn-up bidding the first round offers only the suit of the top nest card
// and the second round offers the rest; a turned-up joker opens every suit.
func (g *GameState) AvailableTrumpSuits() []Suit {
	all := TrumpSuits[:]
	if !g.Rules.TurnUpBidding {
		return slices.Clone(all)
	}
	top, ok := g.TopNestCard()
	if !ok || top.Kind == KindJoker {
		return slices.Clone(all)
	}
	if g.BidRound <= 1 {
		return []Suit{top.Suit}
	}
	out := make([]Suit, 0, len(all)-1)
	for _, s := range all {
		if s != top.Suit {
			out = append(out, s)
		}
	}
	return out
}

// IsFinalBidTurn reports whether the active seat is the last to speak before a
// redeal.
func (g *GameState) IsFinalBidTurn() bool {
	lastRound := !g.Rules.TurnUpBidding || g.BidRound >= 2
	return lastRound && g.PassCount == len(g.Players)-1
}

// PlayCardID moves id from the active seat's hand into the trick and passes
// the turn. It checks ownership but not eligibility; rollouts pick from
// PlayableCards.
func (g *GameState) PlayCardID(id CardID) error {
	seat := g.ActivePlayer
	if !g.Players[seat].removeFromHand(id) {
		return fmt.Errorf("%w: %d not in seat %d's hand", ErrCardNotFound, id, seat)
	}
	c := &g.Cards[id]
	c.FaceUp = true
	c.Select = Unselectable
	g.Trick.Add(seat, *c)
	if c.IsTrump {
		g.TrumpBroken = true
	}
	g.advanceActivePlayer()
	return nil
}

// AwardTrick gives the completed trick to its winner, who leads next, and
// returns it. The table trick is left empty.
func (g *GameState) AwardTrick() Trick {
	t := g.Trick
	g.Players[t.Winner].addTrick(t)
	g.LastTrickWinner = t.Winner
	g.TricksPlayed++
	g.ActivePlayer = t.Winner
	g.Trick = NewTrick(len(g.Players))
	return t
}

// PrepareForNewTrick clears the trick. The last winner keeps the lead.
func (g *GameState) PrepareForNewTrick() {
	if !g.Players[g.ActivePlayer].Active {
		g.advanceActivePlayer()
	}
	g.Trick = NewTrick(len(g.Players))
}
