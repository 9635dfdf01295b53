package engine

import (
	"errors"
	"fmt"
)

// DeckKind selects the base deck.
type DeckKind uint8

const (
	Standard52 DeckKind = 0
	Standard53 DeckKind = 1 // 52 + one joker
)

// MarshalText implements encoding.TextMarshaler.
func (d DeckKind) MarshalText() ([]byte, error) {
	if d == Standard53 {
		return []byte("standard53"), nil
	}
	return []byte("standard52"), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *DeckKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "standard52":
		*d = Standard52
	case "standard53":
		*d = Standard53
	default:
		return fmt.Errorf("unknown deck kind %q", string(b))
	}
	return nil
}

// AwardKind says how a side's hand score is derived.
type AwardKind uint8

const (
	AwardFixed      AwardKind = 0
	AwardMultiplier AwardKind = 1
)

// MarshalText implements encoding.TextMarshaler.
func (k AwardKind) MarshalText() ([]byte, error) {
	if k == AwardMultiplier {
		return []byte("multiplier"), nil
	}
	return []byte("fixed"), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *AwardKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "fixed":
		*k = AwardFixed
	case "multiplier":
		*k = AwardMultiplier
	default:
		return fmt.Errorf("unknown award kind %q", string(b))
	}
	return nil
}

// PointsAwarded is either a fixed amount or a multiplier on points taken.
type PointsAwarded struct {
	Kind  AwardKind `yaml:"kind" json:"kind"`
	Value int       `yaml:"value" json:"value"`
}

// Fixed returns a fixed award.
func Fixed(n int) PointsAwarded { return PointsAwarded{Kind: AwardFixed, Value: n} }

// Multiplier returns an award of x times the points taken.
func Multiplier(x int) PointsAwarded { return PointsAwarded{Kind: AwardMultiplier, Value: x} }

// Apply computes the award for a side that took pointsTaken.
func (p PointsAwarded) Apply(pointsTaken Points) Points {
	if p.Kind == AwardMultiplier {
		return pointsTaken * Points(p.Value)
	}
	return Points(p.Value)
}

// NestPoints decides what the last trick winner collects for the nest.
type NestPoints struct {
	// CardPoints credits the literal card points left in the nest; otherwise Fixed.
	CardPoints bool `yaml:"cardPoints" json:"cardPoints"`
	Fixed      int  `yaml:"fixed" json:"fixed"`
}

// RankPoints assigns card points to a face rank.
type RankPoints struct {
	Rank   int `yaml:"rank" json:"rank"`
	Points int `yaml:"points" json:"points"`
}

// RankChange promotes or demotes a face rank to a different game rank.
type RankChange struct {
	Face int     `yaml:"face" json:"face"`
	Game float32 `yaml:"game" json:"game"`
}

// HouseRules holds configurable game rule settings. It is a flat, serializable
// structure with no behaviour beyond validation.
type HouseRules struct {
	DeckKind    DeckKind     `yaml:"deckKind" json:"deckKind"`
	RemoveRanks []int        `yaml:"removeRanks" json:"removeRanks"`
	JokerRank   float32      `yaml:"jokerRank" json:"jokerRank"`
	JokerPoints int          `yaml:"jokerPoints" json:"jokerPoints"`
	RankPoints  []RankPoints `yaml:"rankPoints" json:"rankPoints"`
	RankChanges []RankChange `yaml:"rankChanges" json:"rankChanges"`

	PlayerCount int `yaml:"playerCount" json:"playerCount"`
	HandSize    int `yaml:"handSize" json:"handSize"`
	NestSize    int `yaml:"nestSize" json:"nestSize"`
	NestFaceUp  int `yaml:"nestFaceUp" json:"nestFaceUp"`

	AutoDeal          bool `yaml:"autoDeal" json:"autoDeal"`
	TurnUpBidding     bool `yaml:"turnUpBidding" json:"turnUpBidding"`
	TrumpMustBeBroken bool `yaml:"trumpMustBeBroken" json:"trumpMustBeBroken"`

	PointsNeeded  int           `yaml:"pointsNeeded" json:"pointsNeeded"`
	MakersWin     PointsAwarded `yaml:"makersWin" json:"makersWin"`
	MakersLoss    PointsAwarded `yaml:"makersLoss" json:"makersLoss"`
	DefendersWin  PointsAwarded `yaml:"defendersWin" json:"defendersWin"`
	DefendersLoss PointsAwarded `yaml:"defendersLoss" json:"defendersLoss"`
	NestPoints    NestPoints    `yaml:"nestPoints" json:"nestPoints"`

	WinningScore int `yaml:"winningScore" json:"winningScore"` // 0 = play forever
}

// DefaultHouseRules returns the standard four-seat rules: a 41-card deck
// (fives through aces plus a joker), nine-card hands and a five-card nest.
func DefaultHouseRules() HouseRules {
	return HouseRules{
		DeckKind:          Standard53,
		RemoveRanks:       []int{2, 3, 4},
		JokerRank:         15,
		JokerPoints:       0,
		RankPoints:        []RankPoints{{Rank: 5, Points: 5}, {Rank: 10, Points: 10}, {Rank: 14, Points: 10}},
		PlayerCount:       4,
		HandSize:          9,
		NestSize:          5,
		NestFaceUp:        1,
		AutoDeal:          true,
		TurnUpBidding:     true,
		TrumpMustBeBroken: true,
		PointsNeeded:      70,
		MakersWin:         Multiplier(1),
		MakersLoss:        Fixed(0),
		DefendersWin:      Multiplier(2),
		DefendersLoss:     Fixed(0),
		NestPoints:        NestPoints{CardPoints: true},
		WinningScore:      500,
	}
}

// DeckSize returns the number of cards the rules build.
func (r *HouseRules) DeckSize() int {
	removed := 0
	seen := map[int]bool{}
	for _, rank := range r.RemoveRanks {
		if rank >= RankTwo && rank <= RankAce && !seen[rank] {
			seen[rank] = true
			removed++
		}
	}
	n := (RankAce - RankTwo + 1 - removed) * 4
	if r.DeckKind == Standard53 {
		n++
	}
	return n
}

// Validate checks that the rules describe a playable hand.
func (r *HouseRules) Validate() error {
	var errs []error
	if r.PlayerCount < 2 || r.PlayerCount > MaxPlayers {
		errs = append(errs, fmt.Errorf("playerCount %d out of range 2..%d", r.PlayerCount, MaxPlayers))
	}
	if r.HandSize < 1 {
		errs = append(errs, fmt.Errorf("handSize must be positive, got %d", r.HandSize))
	}
	if r.NestSize < 0 || r.NestFaceUp < 0 || r.NestFaceUp > r.NestSize {
		errs = append(errs, fmt.Errorf("nestFaceUp %d must be within nestSize %d", r.NestFaceUp, r.NestSize))
	}
	if need := r.PlayerCount*r.HandSize + r.NestSize; need > r.DeckSize() {
		errs = append(errs, fmt.Errorf("deck of %d cards cannot cover %d seats x %d + nest %d", r.DeckSize(), r.PlayerCount, r.HandSize, r.NestSize))
	}
	if r.TurnUpBidding && r.NestFaceUp < 1 {
		errs = append(errs, errors.New("turnUpBidding needs at least one face-up nest card"))
	}
	return errors.Join(errs...)
}
