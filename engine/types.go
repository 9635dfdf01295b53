package engine

import "fmt"

// Suit identifies a card suit. Jokers carry SuitJoker until trump is named,
// at which point they are reclassified to the trump suit for the hand.
type Suit uint8

const (
	SuitNone    Suit = 0
	SuitClubs   Suit = 1
	SuitDiamond Suit = 2
	SuitHearts  Suit = 3
	SuitSpades  Suit = 4
	SuitJoker   Suit = 5
)

// TrumpSuits lists the suits that may be named as trump.
var TrumpSuits = [4]Suit{SuitClubs, SuitDiamond, SuitHearts, SuitSpades}

// String returns the suit glyph.
func (s Suit) String() string {
	switch s {
	case SuitClubs:
		return "♣"
	case SuitDiamond:
		return "♦"
	case SuitHearts:
		return "♥"
	case SuitSpades:
		return "♠"
	case SuitJoker:
		return "Jk"
	default:
		return "-"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Suit) MarshalText() ([]byte, error) {
	switch s {
	case SuitClubs:
		return []byte("clubs"), nil
	case SuitDiamond:
		return []byte("diamonds"), nil
	case SuitHearts:
		return []byte("hearts"), nil
	case SuitSpades:
		return []byte("spades"), nil
	case SuitJoker:
		return []byte("joker"), nil
	default:
		return []byte("none"), nil
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Suit) UnmarshalText(b []byte) error {
	switch string(b) {
	case "clubs", "c":
		*s = SuitClubs
	case "diamonds", "d":
		*s = SuitDiamond
	case "hearts", "h":
		*s = SuitHearts
	case "spades", "s":
		*s = SuitSpades
	case "joker":
		*s = SuitJoker
	case "none", "":
		*s = SuitNone
	default:
		return fmt.Errorf("unknown suit %q", string(b))
	}
	return nil
}

// CardKind separates ordinary suited cards from specials.
type CardKind uint8

const (
	KindSuited CardKind = 0
	KindJoker  CardKind = 1
)

// SelectState is the selectability flag the presentation layer reads.
type SelectState uint8

const (
	Unselectable SelectState = 0
	Selectable   SelectState = 1
	Selected     SelectState = 2
	Dimmed       SelectState = 3
)

// CardID is a stable handle into GameState.Cards. It survives cloning.
type CardID int16

// NoCard marks an empty slot.
const NoCard CardID = -1

// Points is a card or score point amount. Signed, some variants score negatively.
type Points int

// Face ranks. Aces are high.
const (
	RankTwo   = 2
	RankFive  = 5
	RankNine  = 9
	RankTen   = 10
	RankJack  = 11
	RankQueen = 12
	RankKing  = 13
	RankAce   = 14
)

// Card is one physical card. Suit, FaceRank and Points are fixed once the deck
// is built; IsTrump, FaceUp and Select change as the hand progresses.
type Card struct {
	ID       CardID      `json:"id"`
	Kind     CardKind    `json:"kind"`
	Suit     Suit        `json:"suit"`
	FaceRank int         `json:"faceRank"`
	GameRank float32     `json:"gameRank"`
	Points   Points      `json:"points"`
	IsTrump  bool        `json:"isTrump"`
	FaceUp   bool        `json:"faceUp"`
	Select   SelectState `json:"select"`
}

// NewCard builds a card whose game rank equals its face rank.
func NewCard(kind CardKind, suit Suit, faceRank int) Card {
	return Card{
		ID:       NoCard,
		Kind:     kind,
		Suit:     suit,
		FaceRank: faceRank,
		GameRank: float32(faceRank),
	}
}

// Equal compares printed identity (suit and face rank), not ID.
func (c Card) Equal(o Card) bool {
	return c.Suit == o.Suit && c.FaceRank == o.FaceRank
}

// SortOrder is suit-major, rank-minor, with jokers above every suited card.
func (c Card) SortOrder() int {
	if c.Kind == KindJoker {
		return 1000
	}
	rank := int(c.GameRank * 10)
	switch c.Suit {
	case SuitClubs:
		return rank
	case SuitDiamond:
		return 200 + rank
	case SuitHearts:
		return 400 + rank
	case SuitSpades:
		return 600 + rank
	default:
		return 800 + rank
	}
}

func (c Card) rankString() string {
	switch c.FaceRank {
	case RankJack:
		return "J"
	case RankQueen:
		return "Q"
	case RankKing:
		return "K"
	case RankAce:
		return "A"
	default:
		return fmt.Sprintf("%d", c.FaceRank)
	}
}

// String renders e.g. "10♥" or "Jk".
func (c Card) String() string {
	if c.Kind == KindJoker {
		return "Jk"
	}
	return c.rankString() + c.Suit.String()
}
