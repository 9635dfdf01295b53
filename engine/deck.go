package engine

import "slices"

// newCards builds the card arena for the rules. IDs are arena indexes.
func newCards(r HouseRules) []Card {
	cards := make([]Card, 0, r.DeckSize())
	for _, suit := range TrumpSuits {
		for rank := RankTwo; rank <= RankAce; rank++ {
			if slices.Contains(r.RemoveRanks, rank) {
				continue
			}
			c := NewCard(KindSuited, suit, rank)
			for _, rp := range r.RankPoints {
				if rp.Rank == rank {
					c.Points = Points(rp.Points)
				}
			}
			for _, rc := range r.RankChanges {
				if rc.Face == rank {
					c.GameRank = rc.Game
				}
			}
			c.ID = CardID(len(cards))
			cards = append(cards, c)
		}
	}
	if r.DeckKind == Standard53 {
		j := NewCard(KindJoker, SuitJoker, 0)
		j.GameRank = r.JokerRank
		j.Points = Points(r.JokerPoints)
		j.ID = CardID(len(cards))
		cards = append(cards, j)
	}
	return cards
}

// resetCards restores every card's per-hand attributes. The joker goes back
// to its own suit.
func (g *GameState) resetCards() {
	for i := range g.Cards {
		c := &g.Cards[i]
		c.IsTrump = false
		c.FaceUp = false
		c.Select = Unselectable
		if c.Kind == KindJoker {
			c.Suit = SuitJoker
		}
	}
}

// shuffleDeck performs a Fisher-Yates shuffle on the deck.
func (g *GameState) shuffleDeck() {
	shuffleIDs(g.Deck, g.randN)
}

func shuffleIDs(ids []CardID, randN func(int) int) {
	for i := len(ids) - 1; i > 0; i-- {
		j := randN(i + 1)
		ids[i], ids[j] = ids[j], ids[i]
	}
}

func (g *GameState) popDeck() CardID {
	id := g.Deck[len(g.Deck)-1]
	g.Deck = g.Deck[:len(g.Deck)-1]
	return id
}

// dealToNest moves the top deck card to the nest face down.
func (g *GameState) dealToNest() CardID {
	id := g.popDeck()
	g.Cards[id].FaceUp = false
	g.Nest = append(g.Nest, id)
	return id
}

// dealCard moves the top deck card to seat. Human hands stay sorted and face up.
func (g *GameState) dealCard(seat int) CardID {
	id := g.popDeck()
	p := &g.Players[seat]
	p.addToHand(id)
	g.Cards[id].FaceUp = !p.Controller.IsBot()
	if !p.Controller.IsBot() {
		g.sortHand(seat)
	}
	return id
}

// turnUpNest flips the top NestFaceUp nest cards.
func (g *GameState) turnUpNest() {
	n := min(g.Rules.NestFaceUp, len(g.Nest))
	for _, id := range g.Nest[len(g.Nest)-n:] {
		g.Cards[id].FaceUp = true
	}
}

// TopNestCard returns the top card of the nest, or false when the nest is empty.
func (g *GameState) TopNestCard() (Card, bool) {
	if len(g.Nest) == 0 {
		return Card{}, false
	}
	return g.Cards[g.Nest[len(g.Nest)-1]], true
}

// setTrump flags every card of suit, plus the joker, as trump.
func (g *GameState) setTrump(suit Suit) {
	g.Trump = suit
	for i := range g.Cards {
		c := &g.Cards[i]
		if c.Kind == KindJoker {
			c.Suit = suit
		}
		c.IsTrump = c.Suit == suit
	}
	for seat := range g.Players {
		if !g.Players[seat].Controller.IsBot() {
			g.sortHand(seat)
		}
	}
}
