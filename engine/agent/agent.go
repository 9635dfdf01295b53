// Package agent implements the bot decision procedures: a uniform Random
// player and a MonteCarlo player that picks cards by random rollouts over
// determinized deals.
//
// Strategies read a *engine.GameState and never mutate it. Callers hand them
// a Snapshot they own. A Strategy carries its own RNG and is not safe for
// concurrent use.
package agent

import (
	"fmt"

	engine "github.com/getzen/rookre/engine"
)

// Kind is the closed set of bot variants.
type Kind uint8

const (
	KindRandom Kind = iota
	KindMonteCarlo
)

func (k Kind) String() string {
	if k == KindMonteCarlo {
		return "montecarlo"
	}
	return "random"
}

// ParseKind parses a bot name as written in configuration.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "random":
		return KindRandom, nil
	case "montecarlo", "monte":
		return KindMonteCarlo, nil
	}
	return 0, fmt.Errorf("unknown bot kind %q", s)
}

// KindFor maps a seat controller to its bot variant.
func KindFor(c engine.Controller) Kind {
	if c == engine.MonteCarloBot {
		return KindMonteCarlo
	}
	return KindRandom
}

// Config tunes the strategies.
type Config struct {
	// Rollouts is the number of determinized deals sampled per card decision.
	Rollouts int `yaml:"rollouts"`
	// Seed seeds the strategy's PCG generator.
	Seed uint64 `yaml:"seed"`
	// BidThreshold is the summed game rank a suit needs before MonteCarlo bids it.
	BidThreshold float32 `yaml:"bidThreshold"`
}

// DefaultConfig returns the standard bot settings.
func DefaultConfig() Config {
	return Config{Rollouts: 1000, Seed: 1, BidThreshold: 40}
}

// Strategy produces decisions for one seat.
type Strategy interface {
	// MakeBid reports whether the seat bids rather than passes.
	MakeBid(g *engine.GameState, seat int) bool
	// ChooseTrump names one of g.AvailableTrumpSuits().
	ChooseTrump(g *engine.GameState, seat int) engine.Suit
	// ChooseDiscards returns the cards the maker sends back to the nest.
	ChooseDiscards(g *engine.GameState, seat int) []engine.CardID
	// PlayCard returns an eligible card for the active seat.
	PlayCard(g *engine.GameState, seat int) (engine.CardID, error)
}

// New returns the strategy for kind.
func New(kind Kind, cfg Config) Strategy {
	switch kind {
	case KindMonteCarlo:
		return NewMonteCarlo(cfg)
	default:
		return NewRandom(cfg.Seed)
	}
}

// Decide turns the decision g is halted on into the commands seat sends.
// Discards expand to one MoveCardToNest per card followed by EndNestExchange.
func Decide(s Strategy, g *engine.GameState, seat int) ([]engine.PlayerAction, error) {
	phase, want, ok := g.WaitingFor()
	if !ok {
		return nil, fmt.Errorf("no decision pending")
	}
	if want != seat {
		return nil, fmt.Errorf("%w: decision belongs to seat %d, not %d", engine.ErrNotYourTurn, want, seat)
	}
	switch phase {
	case engine.PhasePrepareForNewHand:
		return []engine.PlayerAction{{Kind: engine.ActDealCards, Seat: seat}}, nil
	case engine.PhaseWaitForBid:
		if !s.MakeBid(g, seat) {
			return []engine.PlayerAction{{Kind: engine.ActMakeBid, Seat: seat, Pass: true}}, nil
		}
		return []engine.PlayerAction{{Kind: engine.ActMakeBid, Seat: seat, Suit: s.ChooseTrump(g, seat)}}, nil
	case engine.PhaseWaitForDiscards:
		ids := s.ChooseDiscards(g, seat)
		out := make([]engine.PlayerAction, 0, len(ids)+1)
		for _, id := range ids {
			out = append(out, engine.PlayerAction{Kind: engine.ActMoveCardToNest, Seat: seat, Card: id})
		}
		return append(out, engine.PlayerAction{Kind: engine.ActEndNestExchange, Seat: seat}), nil
	case engine.PhaseWaitForPlayCard:
		id, err := s.PlayCard(g, seat)
		if err != nil {
			return nil, err
		}
		return []engine.PlayerAction{{Kind: engine.ActPlayCard, Seat: seat, Card: id}}, nil
	}
	return nil, fmt.Errorf("no decision for phase %s", phase)
}
