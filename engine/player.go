package engine

import "slices"

// PlayerKind is the seat's role for the current hand.
type PlayerKind uint8

const (
	Unassigned PlayerKind = 0
	Maker      PlayerKind = 1
	Defender   PlayerKind = 2
)

func (k PlayerKind) String() string {
	switch k {
	case Maker:
		return "maker"
	case Defender:
		return "defender"
	default:
		return "unassigned"
	}
}

// Controller says who makes decisions for a seat. Bot kinds are a closed set.
type Controller uint8

const (
	Human         Controller = 0
	RandomBot     Controller = 1
	MonteCarloBot Controller = 2
)

func (c Controller) String() string {
	switch c {
	case RandomBot:
		return "random"
	case MonteCarloBot:
		return "montecarlo"
	default:
		return "human"
	}
}

// IsBot reports whether decisions come from a strategy instead of a person.
func (c Controller) IsBot() bool { return c != Human }

// Bid is a seat's bid for the hand. Made is false until the seat has spoken.
type Bid struct {
	Made bool `json:"made"`
	Pass bool `json:"pass"`
	Suit Suit `json:"suit"`
}

// PlayerState holds one seat's hand and per-hand bookkeeping. Score persists
// across hands; everything else is cleared by Reset.
type PlayerState struct {
	Hand           []CardID   `json:"hand"`
	Bid            Bid        `json:"bid"`
	Partner        int        `json:"partner"` // -1 when none
	Kind           PlayerKind `json:"kind"`
	Tricks         []Trick    `json:"tricks"`
	PointsThisHand Points     `json:"pointsThisHand"`
	Score          Points     `json:"score"`
	Active         bool       `json:"active"`
	Controller     Controller `json:"controller"`
}

func newPlayer(c Controller) PlayerState {
	return PlayerState{Partner: -1, Active: true, Controller: c}
}

// Reset clears the seat for a new hand.
func (p *PlayerState) Reset() {
	p.Hand = p.Hand[:0]
	p.Bid = Bid{}
	p.Kind = Unassigned
	p.Tricks = p.Tricks[:0]
	p.PointsThisHand = 0
	p.Active = true
}

func (p *PlayerState) addToHand(id CardID) { p.Hand = append(p.Hand, id) }

func (p *PlayerState) removeFromHand(id CardID) bool {
	i := slices.Index(p.Hand, id)
	if i < 0 {
		return false
	}
	p.Hand = slices.Delete(p.Hand, i, i+1)
	return true
}

// HasCard reports whether id is in the seat's hand.
func (p *PlayerState) HasCard(id CardID) bool { return slices.Contains(p.Hand, id) }

func (p *PlayerState) addTrick(t Trick) {
	p.PointsThisHand += t.Points
	p.Tricks = append(p.Tricks, t)
}

func (p PlayerState) clone() PlayerState {
	p.Hand = slices.Clone(p.Hand)
	p.Tricks = slices.Clone(p.Tricks) // Trick is a flat value
	return p
}
