// internal/game/view.go
package game

import (
	"github.com/google/uuid"

	engine "github.com/getzen/rookre/engine"
)

// Spectator is the observer seat for public views.
const Spectator = -1

// ObfCard represents a card as one observer may see it. Face-down cards and
// other seats' hands carry only the id.
type ObfCard struct {
	ID         engine.CardID `json:"id"`
	Known      bool          `json:"known"`
	Rank       string        `json:"rank,omitempty"`
	Suit       string        `json:"suit,omitempty"`
	Points     int           `json:"points,omitempty"`
	Trump      bool          `json:"trump,omitempty"`
	Selectable bool          `json:"selectable,omitempty"`
}

// ObfPlayerState is one seat as seen by an observer.
type ObfPlayerState struct {
	Seat           int       `json:"seat"`
	Controller     string    `json:"controller"`
	Kind           string    `json:"kind"`
	HandSize       int       `json:"handSize"`
	TricksWon      int       `json:"tricksWon"`
	PointsThisHand int       `json:"pointsThisHand"`
	Score          int       `json:"score"`
	IsCurrentTurn  bool      `json:"isCurrentTurn"`
	RevealedHand   []ObfCard `json:"revealedHand,omitempty"` // only for the observer's own seat
}

// ObfTableState is the whole table as seen by an observer.
type ObfTableState struct {
	TableID      uuid.UUID        `json:"tableId"`
	HandNumber   int              `json:"handNumber"`
	Phase        string           `json:"phase"`
	Dealer       int              `json:"dealer"`
	ActivePlayer int              `json:"activePlayer"`
	Maker        int              `json:"maker"`
	Trump        string           `json:"trump,omitempty"`
	TrumpBroken  bool             `json:"trumpBroken"`
	BidRound     int              `json:"bidRound"`
	Nest         []ObfCard        `json:"nest"`
	Trick        []ObfCard        `json:"trick"`
	Players      []ObfPlayerState `json:"players"`
	GameOver     bool             `json:"gameOver"`
}

// cardView reveals c only when visible is true.
func cardView(c engine.Card, visible bool) ObfCard {
	if !visible {
		return ObfCard{ID: c.ID}
	}
	rank := c.String()
	if c.Kind == engine.KindSuited {
		rank = rank[:len(rank)-len(c.Suit.String())]
	}
	return ObfCard{
		ID:         c.ID,
		Known:      true,
		Rank:       rank,
		Suit:       c.Suit.String(),
		Points:     int(c.Points),
		Trump:      c.IsTrump,
		Selectable: c.Select == engine.Selectable,
	}
}

// handView shows a hand to observer. Only the owner sees the faces.
func handView(g *engine.GameState, seat, observer int, ids []engine.CardID) []ObfCard {
	out := make([]ObfCard, len(ids))
	for i, id := range ids {
		out[i] = cardView(g.Card(id), seat == observer)
	}
	return out
}

// tableCardsView shows nest or trick cards, which are public when face up.
func tableCardsView(g *engine.GameState, ids []engine.CardID) []ObfCard {
	out := make([]ObfCard, len(ids))
	for i, id := range ids {
		c := g.Card(id)
		out[i] = cardView(c, c.FaceUp)
	}
	return out
}

// ObfuscatedState builds the table view for observer (a seat or Spectator).
// The caller must hold the table lock.
func ObfuscatedState(g *engine.GameState, tableID uuid.UUID, observer int) ObfTableState {
	phase, _, _ := g.WaitingFor()
	obf := ObfTableState{
		TableID:      tableID,
		HandNumber:   g.HandNumber,
		Phase:        phase.String(),
		Dealer:       g.Dealer,
		ActivePlayer: g.ActivePlayer,
		Maker:        g.Maker,
		TrumpBroken:  g.TrumpBroken,
		BidRound:     g.BidRound,
		Nest:         tableCardsView(g, g.Nest),
		Trick:        tableCardsView(g, g.Trick.CardIDs()),
		GameOver:     g.GameOver,
	}
	if g.Trump != engine.SuitNone {
		obf.Trump = g.Trump.String()
	}
	obf.Players = make([]ObfPlayerState, len(g.Players))
	for i := range g.Players {
		p := &g.Players[i]
		ps := ObfPlayerState{
			Seat:           i,
			Controller:     p.Controller.String(),
			Kind:           p.Kind.String(),
			HandSize:       len(p.Hand),
			TricksWon:      len(p.Tricks),
			PointsThisHand: int(p.PointsThisHand),
			Score:          int(p.Score),
			IsCurrentTurn:  i == g.ActivePlayer && !g.GameOver,
		}
		if i == observer {
			ps.RevealedHand = handView(g, i, observer, p.Hand)
		}
		obf.Players[i] = ps
	}
	return obf
}
