package engine

import (
	"errors"
	"math/rand"
	"slices"
	"testing"
)

// TestPlayableCardsSound plays random hands and checks, at every card decision,
// that exactly the cards PlayableCards returns are accepted by Perform.
func TestPlayableCardsSound(t *testing.T) {
	for seed := uint64(1); seed <= 6; seed++ {
		g := newPlayGame(t, seed)
		rng := rand.New(rand.NewSource(int64(seed)))
		for g.HandNumber == 1 {
			playable, err := g.PlayableCards()
			if err != nil {
				t.Fatalf("seed %d: %v", seed, err)
			}
			seat := g.ActivePlayer
			for _, id := range g.Players[seat].Hand {
				c := g.Clone()
				err := c.Perform(PlayerAction{Kind: ActPlayCard, Seat: seat, Card: id})
				if slices.Contains(playable, id) {
					if err != nil {
						t.Fatalf("seed %d: playable %s rejected: %v", seed, g.Cards[id], err)
					}
				} else if !errors.Is(err, ErrIneligibleCard) {
					t.Fatalf("seed %d: unplayable %s on lead %s: err = %v", seed, g.Cards[id], g.Trick.Lead, err)
				}
			}
			checkFollowsRules(t, g, playable)
			mustPerform(t, g, PlayerAction{Kind: ActPlayCard, Seat: seat, Card: playable[rng.Intn(len(playable))]})
		}
	}
}

func checkFollowsRules(t *testing.T, g *GameState, playable []CardID) {
	t.Helper()
	hand := g.CardsFor(g.ActiveHand())
	if g.Trick.IsEmpty() {
		hasNonTrump := slices.ContainsFunc(hand, func(c Card) bool { return !c.IsTrump })
		if g.TrumpBroken || !hasNonTrump {
			if len(playable) != len(hand) {
				t.Fatalf("lead: %d of %d cards playable", len(playable), len(hand))
			}
			return
		}
		for _, id := range playable {
			if g.Cards[id].IsTrump {
				t.Fatalf("trump %s leadable before trump was broken", g.Cards[id])
			}
		}
		return
	}
	lead := g.Trick.Lead.Suit
	canFollow := slices.ContainsFunc(hand, func(c Card) bool { return c.Suit == lead })
	for _, id := range playable {
		if canFollow && g.Cards[id].Suit != lead {
			t.Fatalf("%s playable while holding %s", g.Cards[id], lead)
		}
	}
	if !canFollow && len(playable) != len(hand) {
		t.Fatalf("void in %s but only %d of %d cards playable", lead, len(playable), len(hand))
	}
}

func TestTrumpMayLeadWhenRuleOff(t *testing.T) {
	g := newPlayGame(t, 2)
	g.Rules.TrumpMustBeBroken = false
	playable, err := g.PlayableCards()
	if err != nil {
		t.Fatal(err)
	}
	if len(playable) != len(g.ActiveHand()) {
		t.Fatalf("lead: %d of %d cards playable with the rule off", len(playable), len(g.ActiveHand()))
	}
}

func TestNoPlayableError(t *testing.T) {
	g := newPlayGame(t, 2)
	g.Players[g.ActivePlayer].Hand = nil
	_, err := g.PlayableCards()
	var np *NoPlayableError
	if !errors.As(err, &np) {
		t.Fatalf("err = %v, want *NoPlayableError", err)
	}
	if np.Seat != g.ActivePlayer {
		t.Fatalf("error seat %d, want %d", np.Seat, g.ActivePlayer)
	}
}

func TestAvailableTrumpSuits(t *testing.T) {
	g := newDealtGame(t, 3)
	suitedTop(g)
	top, _ := g.TopNestCard()

	round1 := g.AvailableTrumpSuits()
	if len(round1) != 1 || round1[0] != top.Suit {
		t.Fatalf("round one suits %v, want [%s]", round1, top.Suit)
	}
	for i := 0; i < 4; i++ {
		mustPerform(t, g, PlayerAction{Kind: ActMakeBid, Seat: g.ActivePlayer, Pass: true})
	}
	round2 := g.AvailableTrumpSuits()
	if len(round2) != 3 || slices.Contains(round2, top.Suit) {
		t.Fatalf("round two suits %v, want the three others than %s", round2, top.Suit)
	}

	g.Rules.TurnUpBidding = false
	if got := g.AvailableTrumpSuits(); len(got) != 4 {
		t.Fatalf("without turn-up bidding got %v", got)
	}
}

func TestJokerTurnedUpOpensAllSuits(t *testing.T) {
	g := newDealtGame(t, 3)
	joker := CardID(len(g.Cards) - 1)
	for i, id := range g.Nest {
		if id == joker {
			top := len(g.Nest) - 1
			g.Nest[i], g.Nest[top] = g.Nest[top], g.Nest[i]
			break
		}
	}
	if top, _ := g.TopNestCard(); top.Kind != KindJoker {
		t.Skip("joker not in the nest for this seed")
	}
	if got := g.AvailableTrumpSuits(); len(got) != 4 {
		t.Fatalf("joker turned up: suits %v, want all four", got)
	}
}

func TestIsFinalBidTurn(t *testing.T) {
	g := newDealtGame(t, 3)
	for i := 0; i < 7; i++ {
		if g.IsFinalBidTurn() {
			t.Fatalf("final turn reported after %d passes", i)
		}
		mustPerform(t, g, PlayerAction{Kind: ActMakeBid, Seat: g.ActivePlayer, Pass: true})
	}
	if !g.IsFinalBidTurn() {
		t.Fatal("seventh pass did not leave the final bidding turn")
	}
	if g.ActivePlayer != g.Dealer {
		t.Fatalf("final bidder %d, want dealer %d", g.ActivePlayer, g.Dealer)
	}
}

func TestEligibleDiscardsExcludeJoker(t *testing.T) {
	g := newExchangeGame(t, 5)
	for _, id := range g.EligibleDiscards() {
		if g.Cards[id].Kind == KindJoker {
			t.Fatal("joker offered as a discard")
		}
	}
	for _, id := range g.Players[g.Maker].Hand {
		if g.Cards[id].Kind != KindJoker && g.Cards[id].Select != Selectable {
			t.Fatalf("%s not marked selectable for a human maker", g.Cards[id])
		}
	}
}
