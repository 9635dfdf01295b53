package engine

import (
	"errors"
	"fmt"
)

// Phase names a step of the hand pipeline.
type Phase uint8

const (
	PhaseSetup Phase = iota
	PhasePrepareForNewHand
	PhaseDealToNest
	PhaseDealCard
	PhaseWaitForBid
	PhaseMoveNestToHand
	PhaseWaitForDiscards
	PhaseMoveCardToDiscard
	PhaseReturnCardToHand
	PhasePauseAfterDiscard
	PhaseEndNestExchange
	PhasePrepareForNewTrick
	PhasePrePlayCard
	PhaseWaitForPlayCard
	PhasePauseAfterPlayCard
	PhaseAwardTrick
	PhaseEndHand
	PhaseEndGame
)

var phaseNames = [...]string{
	PhaseSetup:              "Setup",
	PhasePrepareForNewHand:  "PrepareForNewHand",
	PhaseDealToNest:         "DealToNest",
	PhaseDealCard:           "DealCard",
	PhaseWaitForBid:         "WaitForBid",
	PhaseMoveNestToHand:     "MoveNestToHand",
	PhaseWaitForDiscards:    "WaitForDiscards",
	PhaseMoveCardToDiscard:  "MoveCardToDiscard",
	PhaseReturnCardToHand:   "ReturnCardToHand",
	PhasePauseAfterDiscard:  "PauseAfterDiscard",
	PhaseEndNestExchange:    "EndNestExchange",
	PhasePrepareForNewTrick: "PrepareForNewTrick",
	PhasePrePlayCard:        "PrePlayCard",
	PhaseWaitForPlayCard:    "WaitForPlayCard",
	PhasePauseAfterPlayCard: "PauseAfterPlayCard",
	PhaseAwardTrick:         "AwardTrick",
	PhaseEndHand:            "EndHand",
	PhaseEndGame:            "EndGame",
}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return fmt.Sprintf("Phase(%d)", uint8(p))
}

// MarshalText implements encoding.TextMarshaler.
func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// IsWait reports whether the phase halts the pipeline for a decision.
func (p Phase) IsWait() bool {
	return p == PhaseWaitForBid || p == PhaseWaitForDiscards || p == PhaseWaitForPlayCard
}

// GameAction is the record appended to History for each executed phase.
// Seat is -1 when the phase concerns no particular seat.
type GameAction struct {
	Phase  Phase       `json:"phase"`
	Seat   int         `json:"seat"`
	Card   CardID      `json:"card"`
	Hand   []CardID    `json:"hand,omitempty"`
	Trick  *Trick      `json:"trick,omitempty"`
	Result *HandResult `json:"result,omitempty"`
}

// PlayerActionKind enumerates inbound commands.
type PlayerActionKind uint8

const (
	ActDealCards PlayerActionKind = iota
	ActMakeBid
	ActMoveCardToNest
	ActTakeCardFromNest
	ActEndNestExchange
	ActPlayCard
)

var actionKindNames = [...]string{
	ActDealCards:        "DealCards",
	ActMakeBid:          "MakeBid",
	ActMoveCardToNest:   "MoveCardToNest",
	ActTakeCardFromNest: "TakeCardFromNest",
	ActEndNestExchange:  "EndNestExchange",
	ActPlayCard:         "PlayCard",
}

func (k PlayerActionKind) String() string {
	if int(k) < len(actionKindNames) {
		return actionKindNames[k]
	}
	return fmt.Sprintf("PlayerActionKind(%d)", uint8(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k PlayerActionKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *PlayerActionKind) UnmarshalText(b []byte) error {
	for i, name := range actionKindNames {
		if name == string(b) {
			*k = PlayerActionKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown player action %q", string(b))
}

// PlayerAction is a command from a human client or a bot decision.
type PlayerAction struct {
	Kind PlayerActionKind `json:"kind"`
	Seat int              `json:"seat"`
	Card CardID           `json:"card"`
	Suit Suit             `json:"suit"`
	Pass bool             `json:"pass"`
}

// Rejected command errors. Perform wraps them with context.
var (
	ErrGameOver       = errors.New("game is over")
	ErrWrongPhase     = errors.New("command not accepted in this phase")
	ErrNotYourTurn    = errors.New("not this seat's turn")
	ErrCardNotFound   = errors.New("card not found")
	ErrIneligibleCard = errors.New("card is not eligible")
	ErrBidNotAllowed  = errors.New("bid not allowed")
	ErrUnknownAction  = errors.New("unknown action")
)

// Perform applies a command to a halted game and queues the phase that follows.
// The caller runs the pipeline with Step or Advance afterwards. A rejected
// command leaves the state untouched.
func (g *GameState) Perform(a PlayerAction) error {
	if g.GameOver {
		return ErrGameOver
	}
	if a.Seat < 0 || a.Seat >= len(g.Players) {
		return fmt.Errorf("%w: seat %d out of range", ErrNotYourTurn, a.Seat)
	}
	switch a.Kind {
	case ActDealCards:
		return g.dealCards(a.Seat)
	case ActMakeBid:
		return g.makeBid(a.Seat, a.Suit, a.Pass)
	case ActMoveCardToNest:
		return g.moveCardToNest(a.Seat, a.Card)
	case ActTakeCardFromNest:
		return g.takeCardFromNest(a.Seat, a.Card)
	case ActEndNestExchange:
		return g.endNestExchange(a.Seat)
	case ActPlayCard:
		return g.playCard(a.Seat, a.Card)
	default:
		return fmt.Errorf("%w: kind %d", ErrUnknownAction, a.Kind)
	}
}

// awaiting checks that the pipeline is halted at phase.
func (g *GameState) awaiting(phase Phase) error {
	if g.queued || g.halt != phase {
		cur := g.halt
		if g.queued {
			cur = g.next
		}
		return fmt.Errorf("%w: expected %s, at %s", ErrWrongPhase, phase, cur)
	}
	return nil
}

func (g *GameState) checkCard(id CardID) error {
	if id < 0 || int(id) >= len(g.Cards) {
		return fmt.Errorf("%w: id %d", ErrCardNotFound, id)
	}
	return nil
}

func (g *GameState) dealCards(seat int) error {
	if err := g.awaiting(PhasePrepareForNewHand); err != nil {
		return err
	}
	if seat != g.Dealer {
		return fmt.Errorf("%w: seat %d dealt for dealer %d", ErrNotYourTurn, seat, g.Dealer)
	}
	g.queueDeal()
	return nil
}

func (g *GameState) makeBid(seat int, suit Suit, pass bool) error {
	if err := g.awaiting(PhaseWaitForBid); err != nil {
		return err
	}
	if seat != g.ActivePlayer {
		return fmt.Errorf("%w: seat %d bid during seat %d's turn", ErrNotYourTurn, seat, g.ActivePlayer)
	}
	p := &g.Players[seat]
	if pass {
		p.Bid = Bid{Made: true, Pass: true}
		g.PassCount++
		g.afterPass()
		return nil
	}
	allowed := false
	for _, s := range g.AvailableTrumpSuits() {
		if s == suit {
			allowed = true
			break
		}
	}
	if !allowed {
		return fmt.Errorf("%w: %s in bidding round %d", ErrBidNotAllowed, suit, g.BidRound)
	}
	p.Bid = Bid{Made: true, Suit: suit}
	g.Maker = seat
	for i := range g.Players {
		if i == seat || i == p.Partner {
			g.Players[i].Kind = Maker
		} else {
			g.Players[i].Kind = Defender
		}
	}
	g.setTrump(suit)
	g.ActivePlayer = seat
	g.discarded = g.discarded[:0]
	if len(g.Nest) > 0 {
		g.queue(PhaseMoveNestToHand)
	} else {
		g.queue(PhaseWaitForDiscards)
	}
	return nil
}

// afterPass advances the bid or, once every seat has passed in every round,
// redeals.
func (g *GameState) afterPass() {
	if g.PassCount < len(g.Players) {
		g.advanceActivePlayer()
		g.queue(PhaseWaitForBid)
		return
	}
	if g.Rules.TurnUpBidding && g.BidRound == 1 {
		g.BidRound = 2
		g.PassCount = 0
		for i := range g.Players {
			g.Players[i].Bid = Bid{}
		}
		g.ActivePlayer = g.nextSeat(g.Dealer)
		g.queue(PhaseWaitForBid)
		return
	}
	g.queue(PhasePrepareForNewHand)
}

func (g *GameState) checkExchange(seat int, id CardID) error {
	if err := g.awaiting(PhaseWaitForDiscards); err != nil {
		return err
	}
	if seat != g.Maker {
		return fmt.Errorf("%w: seat %d is not the maker (seat %d)", ErrNotYourTurn, seat, g.Maker)
	}
	return g.checkCard(id)
}

func (g *GameState) moveCardToNest(seat int, id CardID) error {
	if err := g.checkExchange(seat, id); err != nil {
		return err
	}
	p := &g.Players[seat]
	if !p.HasCard(id) {
		return fmt.Errorf("%w: %s not in seat %d's hand", ErrCardNotFound, g.Cards[id], seat)
	}
	if len(p.Hand) <= g.Rules.HandSize {
		return fmt.Errorf("%w: seat %d already holds %d cards", ErrIneligibleCard, seat, len(p.Hand))
	}
	if g.Cards[id].Kind == KindJoker {
		return fmt.Errorf("%w: %s cannot be discarded", ErrIneligibleCard, g.Cards[id])
	}
	g.pending = id
	g.queue(PhaseMoveCardToDiscard)
	return nil
}

func (g *GameState) takeCardFromNest(seat int, id CardID) error {
	if err := g.checkExchange(seat, id); err != nil {
		return err
	}
	found := false
	for _, d := range g.discarded {
		if d == id {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: %s was not discarded this exchange", ErrCardNotFound, g.Cards[id])
	}
	g.pending = id
	g.queue(PhaseReturnCardToHand)
	return nil
}

func (g *GameState) endNestExchange(seat int) error {
	if err := g.awaiting(PhaseWaitForDiscards); err != nil {
		return err
	}
	if seat != g.Maker {
		return fmt.Errorf("%w: seat %d is not the maker (seat %d)", ErrNotYourTurn, seat, g.Maker)
	}
	if n := len(g.Players[seat].Hand); n != g.Rules.HandSize {
		return fmt.Errorf("%w: maker holds %d cards, needs %d", ErrWrongPhase, n, g.Rules.HandSize)
	}
	g.queue(PhasePauseAfterDiscard)
	return nil
}

func (g *GameState) playCard(seat int, id CardID) error {
	if err := g.awaiting(PhaseWaitForPlayCard); err != nil {
		return err
	}
	if seat != g.ActivePlayer {
		return fmt.Errorf("%w: seat %d played during seat %d's turn", ErrNotYourTurn, seat, g.ActivePlayer)
	}
	if err := g.checkCard(id); err != nil {
		return err
	}
	if !g.Players[seat].HasCard(id) {
		return fmt.Errorf("%w: %s not in seat %d's hand", ErrCardNotFound, g.Cards[id], seat)
	}
	playable, err := g.PlayableCards()
	if err != nil {
		return err
	}
	ok := false
	for _, c := range playable {
		if c == id {
			ok = true
			break
		}
	}
	if !ok {
		return fmt.Errorf("%w: %s on lead %s", ErrIneligibleCard, g.Cards[id], g.Trick.Lead)
	}
	g.lastSeat = seat
	if err := g.PlayCardID(id); err != nil {
		return err
	}
	g.queue(PhasePauseAfterPlayCard)
	return nil
}
