// Package engine implements the rules of a four-seat partnership trick-taking
// game with a turned-up nest, trump bidding and trick play.
//
// GameState is self-contained and cheap to deep-copy so bots can clone it for
// rollouts. All randomness comes from a seeded xorshift generator stored on the
// state, so a seed fully determines the deal sequence.
package engine

import (
	"fmt"
	"slices"
)

const MaxPlayers = 6

// GameState holds the complete state of a game.
type GameState struct {
	Rules HouseRules

	Cards []Card   // arena, indexed by CardID
	Deck  []CardID // top of deck is the last element
	Nest  []CardID // top of nest is the last element

	Players      []PlayerState
	Dealer       int
	ActivePlayer int

	BidRound    int // 1 or 2; round 2 only with TurnUpBidding
	PassCount   int
	Maker       int // -1 until a bid is made
	Trump       Suit
	TrumpBroken bool
	discarded   []CardID // maker's discards during the current exchange

	Trick           Trick
	LastTrickWinner int
	TricksPlayed    int
	HandNumber      int
	LastResult      *HandResult

	dealt     int  // DealCard steps this hand
	nestDealt bool // DealToNest already ran this deal round

	next     Phase
	queued   bool
	halt     Phase  // last executed phase while halted
	pending  CardID // card for the queued exchange move
	lastSeat int    // seat of the card played before PauseAfterPlayCard
	History  []GameAction

	GameOver bool
	RNG      uint64
}

// NewGame creates a game with the given rules, seat controllers and seed.
// The first Advance runs Setup.
func NewGame(seed uint64, rules HouseRules, controllers []Controller) (*GameState, error) {
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("invalid house rules: %w", err)
	}
	if len(controllers) != rules.PlayerCount {
		return nil, fmt.Errorf("got %d seat controllers for %d players", len(controllers), rules.PlayerCount)
	}
	g := &GameState{
		Rules:           rules,
		RNG:             seed,
		Maker:           -1,
		LastTrickWinner: -1,
		pending:         NoCard,
		Players:         make([]PlayerState, rules.PlayerCount),
		// The first PrepareForNewHand rotates the deal to seat 0.
		Dealer: rules.PlayerCount - 1,
	}
	if g.RNG == 0 {
		g.RNG = 1 // xorshift can't start at 0
	}
	for i, c := range controllers {
		g.Players[i] = newPlayer(c)
	}
	g.Trick = NewTrick(rules.PlayerCount)
	g.queue(PhaseSetup)
	return g, nil
}

// ---------------------------------------------------------------------------
// xorshift64 RNG
// ---------------------------------------------------------------------------

func (g *GameState) nextRand() uint64 {
	x := g.RNG
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	g.RNG = x
	return x
}

// randN returns a random number in [0, n).
func (g *GameState) randN(n int) int {
	return int(g.nextRand() % uint64(n))
}

// ---------------------------------------------------------------------------
// Query methods
// ---------------------------------------------------------------------------

// PlayerCount returns the number of seats.
func (g *GameState) PlayerCount() int { return len(g.Players) }

// Card returns the card with the given id.
func (g *GameState) Card(id CardID) Card { return g.Cards[id] }

// CardsFor resolves ids to card values.
func (g *GameState) CardsFor(ids []CardID) []Card {
	out := make([]Card, len(ids))
	for i, id := range ids {
		out[i] = g.Cards[id]
	}
	return out
}

// Active returns the active seat's state.
func (g *GameState) Active() *PlayerState { return &g.Players[g.ActivePlayer] }

// ActiveHand returns the active seat's hand.
func (g *GameState) ActiveHand() []CardID { return g.Players[g.ActivePlayer].Hand }

// IsBot reports whether seat is bot-controlled.
func (g *GameState) IsBot(seat int) bool { return g.Players[seat].Controller.IsBot() }

// NextPhase returns the queued phase and whether one is queued. When nothing is
// queued the game is halted awaiting a PlayerAction.
func (g *GameState) NextPhase() (Phase, bool) { return g.next, g.queued }

// Halted reports whether the pipeline is waiting for external input.
func (g *GameState) Halted() bool { return !g.queued }

// HandCompleted reports whether every trick of the hand has been played.
func (g *GameState) HandCompleted() bool { return g.TricksPlayed == g.Rules.HandSize }

// TrickCompleted reports whether the trick in progress is full.
func (g *GameState) TrickCompleted() bool { return g.Trick.Completed() }

func (g *GameState) nextSeat(seat int) int { return (seat + 1) % len(g.Players) }

func (g *GameState) advanceActivePlayer() {
	for i := 0; i < len(g.Players); i++ {
		g.ActivePlayer = g.nextSeat(g.ActivePlayer)
		if g.Players[g.ActivePlayer].Active {
			return
		}
	}
}

// assignAcrossPartners pairs seats sitting opposite each other.
func (g *GameState) assignAcrossPartners() {
	n := len(g.Players)
	for i := range g.Players {
		g.Players[i].Partner = -1
		if n%2 == 0 {
			g.Players[i].Partner = (i + n/2) % n
		}
	}
}

func (g *GameState) sortHand(seat int) {
	slices.SortStableFunc(g.Players[seat].Hand, func(a, b CardID) int {
		return g.Cards[a].SortOrder() - g.Cards[b].SortOrder()
	})
}

func (g *GameState) setSelect(state SelectState, ids []CardID) {
	for _, id := range ids {
		g.Cards[id].Select = state
	}
}

// ---------------------------------------------------------------------------
// Cloning
// ---------------------------------------------------------------------------

// Clone returns a deep copy. No slice or record in the copy shares storage with g.
func (g *GameState) Clone() *GameState {
	c := g.Snapshot()
	c.History = slices.Clone(g.History)
	for i := range c.History {
		rec := &c.History[i]
		rec.Hand = slices.Clone(rec.Hand)
		if rec.Trick != nil {
			t := *rec.Trick
			rec.Trick = &t
		}
		if rec.Result != nil {
			r := *rec.Result
			rec.Result = &r
		}
	}
	return c
}

// Snapshot is a deep copy without the presentation history. Bots and rollouts
// work on snapshots.
func (g *GameState) Snapshot() *GameState {
	c := *g
	c.Rules.RemoveRanks = slices.Clone(g.Rules.RemoveRanks)
	c.Rules.RankPoints = slices.Clone(g.Rules.RankPoints)
	c.Rules.RankChanges = slices.Clone(g.Rules.RankChanges)
	c.Cards = slices.Clone(g.Cards)
	c.Deck = slices.Clone(g.Deck)
	c.Nest = slices.Clone(g.Nest)
	c.discarded = slices.Clone(g.discarded)
	c.Players = make([]PlayerState, len(g.Players))
	for i := range g.Players {
		c.Players[i] = g.Players[i].clone()
	}
	if g.LastResult != nil {
		r := *g.LastResult
		c.LastResult = &r
	}
	c.History = nil
	return &c
}

// ---------------------------------------------------------------------------
// Card conservation
// ---------------------------------------------------------------------------

// CheckConservation verifies every card sits in exactly one place: deck, nest,
// a hand, the current trick or a won trick.
func (g *GameState) CheckConservation() error {
	seen := make([]string, len(g.Cards))
	mark := func(id CardID, where string) error {
		if id < 0 || int(id) >= len(g.Cards) {
			return fmt.Errorf("card id %d in %s is outside the arena", id, where)
		}
		if seen[id] != "" {
			return fmt.Errorf("card %s (id %d) is in both %s and %s", g.Cards[id], id, seen[id], where)
		}
		seen[id] = where
		return nil
	}
	for _, id := range g.Deck {
		if err := mark(id, "deck"); err != nil {
			return err
		}
	}
	for _, id := range g.Nest {
		if err := mark(id, "nest"); err != nil {
			return err
		}
	}
	for p := range g.Players {
		for _, id := range g.Players[p].Hand {
			if err := mark(id, fmt.Sprintf("hand %d", p)); err != nil {
				return err
			}
		}
		for ti := range g.Players[p].Tricks {
			for _, id := range g.Players[p].Tricks[ti].CardIDs() {
				if err := mark(id, fmt.Sprintf("tricks %d", p)); err != nil {
					return err
				}
			}
		}
	}
	for _, id := range g.Trick.CardIDs() {
		if err := mark(id, "trick"); err != nil {
			return err
		}
	}
	for id, where := range seen {
		if where == "" {
			return fmt.Errorf("card %s (id %d) is missing", g.Cards[id], id)
		}
	}
	return nil
}
