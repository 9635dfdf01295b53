package engine

import (
	"errors"
	"slices"
	"testing"
)

// suitedTop makes sure the top nest card is not the joker so round-one bidding
// is restricted to a single suit.
func suitedTop(g *GameState) {
	top := len(g.Nest) - 1
	if g.Cards[g.Nest[top]].Kind == KindJoker {
		g.Nest[0], g.Nest[top] = g.Nest[top], g.Nest[0]
		g.Cards[g.Nest[top]].FaceUp = true
		g.Cards[g.Nest[0]].FaceUp = false
	}
}

// newExchangeGame returns a game halted at WaitForDiscards for the maker.
func newExchangeGame(t *testing.T, seed uint64) *GameState {
	t.Helper()
	g := newDealtGame(t, seed)
	bidFirst(t, g)
	if p, _, _ := g.WaitingFor(); p != PhaseWaitForDiscards {
		t.Fatalf("after bid waiting for %s", p)
	}
	return g
}

// newPlayGame returns a game halted at the first WaitForPlayCard.
func newPlayGame(t *testing.T, seed uint64) *GameState {
	t.Helper()
	g := newExchangeGame(t, seed)
	discardDown(t, g)
	if p, _, _ := g.WaitingFor(); p != PhaseWaitForPlayCard {
		t.Fatalf("after exchange waiting for %s", p)
	}
	return g
}

func TestBidRejections(t *testing.T) {
	g := newDealtGame(t, 3)
	suitedTop(g)
	active := g.ActivePlayer
	other := (active + 1) % 4

	err := g.Perform(PlayerAction{Kind: ActMakeBid, Seat: other, Pass: true})
	if !errors.Is(err, ErrNotYourTurn) {
		t.Fatalf("out-of-turn bid: err = %v, want ErrNotYourTurn", err)
	}

	top, _ := g.TopNestCard()
	var wrong Suit
	for _, s := range TrumpSuits {
		if s != top.Suit {
			wrong = s
			break
		}
	}
	err = g.Perform(PlayerAction{Kind: ActMakeBid, Seat: active, Suit: wrong})
	if !errors.Is(err, ErrBidNotAllowed) {
		t.Fatalf("round-one bid of %s with %s turned up: err = %v", wrong, top, err)
	}

	err = g.Perform(PlayerAction{Kind: ActMakeBid, Seat: -1})
	if !errors.Is(err, ErrNotYourTurn) {
		t.Fatalf("seat -1: err = %v", err)
	}
	if g.Maker != -1 || g.PassCount != 0 {
		t.Fatal("rejected bids changed the state")
	}
}

func TestCommandsInWrongPhase(t *testing.T) {
	g := newDealtGame(t, 4)
	seat := g.ActivePlayer
	hand := g.Players[seat].Hand

	cmds := []PlayerAction{
		{Kind: ActPlayCard, Seat: seat, Card: hand[0]},
		{Kind: ActMoveCardToNest, Seat: seat, Card: hand[0]},
		{Kind: ActTakeCardFromNest, Seat: seat, Card: g.Nest[0]},
		{Kind: ActEndNestExchange, Seat: seat},
		{Kind: ActDealCards, Seat: seat},
	}
	for _, a := range cmds {
		if err := g.Perform(a); !errors.Is(err, ErrWrongPhase) {
			t.Errorf("%s during bidding: err = %v, want ErrWrongPhase", a.Kind, err)
		}
	}
	if err := g.Perform(PlayerAction{Kind: PlayerActionKind(99), Seat: seat}); !errors.Is(err, ErrUnknownAction) {
		t.Errorf("unknown kind: err = %v", err)
	}
}

func TestExchangeRejections(t *testing.T) {
	g := newExchangeGame(t, 8)
	maker := g.Maker
	notMaker := (maker + 1) % 4

	if err := g.Perform(PlayerAction{Kind: ActEndNestExchange, Seat: maker}); !errors.Is(err, ErrWrongPhase) {
		t.Fatalf("early EndNestExchange: err = %v, want ErrWrongPhase", err)
	}
	d := g.EligibleDiscards()[0]
	if err := g.Perform(PlayerAction{Kind: ActMoveCardToNest, Seat: notMaker, Card: d}); !errors.Is(err, ErrNotYourTurn) {
		t.Fatalf("discard by defender: err = %v", err)
	}
	foreign := g.Players[notMaker].Hand[0]
	if err := g.Perform(PlayerAction{Kind: ActMoveCardToNest, Seat: maker, Card: foreign}); !errors.Is(err, ErrCardNotFound) {
		t.Fatalf("discard of another seat's card: err = %v", err)
	}
	if err := g.Perform(PlayerAction{Kind: ActMoveCardToNest, Seat: maker, Card: 500}); !errors.Is(err, ErrCardNotFound) {
		t.Fatalf("discard of id 500: err = %v", err)
	}
	if err := g.Perform(PlayerAction{Kind: ActTakeCardFromNest, Seat: maker, Card: d}); !errors.Is(err, ErrCardNotFound) {
		t.Fatalf("take back a card never discarded: err = %v", err)
	}

	for _, id := range g.Players[maker].Hand {
		if g.Cards[id].Kind == KindJoker {
			err := g.Perform(PlayerAction{Kind: ActMoveCardToNest, Seat: maker, Card: id})
			if !errors.Is(err, ErrIneligibleCard) {
				t.Fatalf("joker discard: err = %v, want ErrIneligibleCard", err)
			}
		}
	}
}

func TestTakeCardFromNestUndoesDiscard(t *testing.T) {
	g := newExchangeGame(t, 8)
	maker := g.Maker
	d := g.EligibleDiscards()[0]
	before := len(g.Players[maker].Hand)

	mustPerform(t, g, PlayerAction{Kind: ActMoveCardToNest, Seat: maker, Card: d})
	if g.Players[maker].HasCard(d) || !slices.Contains(g.Nest, d) {
		t.Fatal("discard did not move the card to the nest")
	}
	mustPerform(t, g, PlayerAction{Kind: ActTakeCardFromNest, Seat: maker, Card: d})
	if !g.Players[maker].HasCard(d) || slices.Contains(g.Nest, d) {
		t.Fatal("undo did not return the card")
	}
	if len(g.Players[maker].Hand) != before {
		t.Fatalf("hand size %d after undo, want %d", len(g.Players[maker].Hand), before)
	}
	phases := drain(g)
	tail := phases[len(phases)-4:]
	want := []Phase{PhaseMoveCardToDiscard, PhaseWaitForDiscards, PhaseReturnCardToHand, PhaseWaitForDiscards}
	if !slices.Equal(tail, want) {
		t.Fatalf("phases %v, want %v", tail, want)
	}
	if err := g.CheckConservation(); err != nil {
		t.Fatal(err)
	}
}

func TestDiscardBeyondHandSizeRejected(t *testing.T) {
	g := newExchangeGame(t, 12)
	maker := g.Maker
	for len(g.Players[maker].Hand) > g.Rules.HandSize {
		mustPerform(t, g, PlayerAction{Kind: ActMoveCardToNest, Seat: maker, Card: g.EligibleDiscards()[0]})
	}
	err := g.Perform(PlayerAction{Kind: ActMoveCardToNest, Seat: maker, Card: g.EligibleDiscards()[0]})
	if !errors.Is(err, ErrIneligibleCard) {
		t.Fatalf("discard at hand size: err = %v, want ErrIneligibleCard", err)
	}
}

func TestPlayRejections(t *testing.T) {
	g := newPlayGame(t, 6)
	leader := g.ActivePlayer
	next := (leader + 1) % 4

	clubNine := findCard(t, g, SuitClubs, 9)
	clubAce := findCard(t, g, SuitClubs, RankAce)
	heartKing := findCard(t, g, SuitHearts, RankKing)
	g.Players[leader].Hand = []CardID{clubNine}
	g.Players[next].Hand = []CardID{clubAce, heartKing}

	if err := g.Perform(PlayerAction{Kind: ActPlayCard, Seat: next, Card: clubAce}); !errors.Is(err, ErrNotYourTurn) {
		t.Fatalf("out-of-turn play: err = %v", err)
	}
	if err := g.Perform(PlayerAction{Kind: ActPlayCard, Seat: leader, Card: heartKing}); !errors.Is(err, ErrCardNotFound) {
		t.Fatalf("playing a card not held: err = %v", err)
	}
	mustPerform(t, g, PlayerAction{Kind: ActPlayCard, Seat: leader, Card: clubNine})

	err := g.Perform(PlayerAction{Kind: ActPlayCard, Seat: next, Card: heartKing})
	if !errors.Is(err, ErrIneligibleCard) {
		t.Fatalf("off-suit while holding clubs: err = %v, want ErrIneligibleCard", err)
	}
	mustPerform(t, g, PlayerAction{Kind: ActPlayCard, Seat: next, Card: clubAce})
	if g.Trick.Played != 2 {
		t.Fatalf("trick has %d cards, want 2", g.Trick.Played)
	}
}

func TestPauseAfterPlayCardRecord(t *testing.T) {
	g := newPlayGame(t, 14)
	drain(g)
	seat := g.ActivePlayer
	cards, err := g.PlayableCards()
	if err != nil {
		t.Fatal(err)
	}
	mustPerform(t, g, PlayerAction{Kind: ActPlayCard, Seat: seat, Card: cards[0]})
	a, ok := g.PopAction()
	if !ok || a.Phase != PhasePauseAfterPlayCard {
		t.Fatalf("first record %v, want PauseAfterPlayCard", a.Phase)
	}
	if a.Seat != seat || a.Card != cards[0] {
		t.Fatalf("record seat %d card %d, want %d %d", a.Seat, a.Card, seat, cards[0])
	}
	if a.Trick == nil || a.Trick.Played != 1 {
		t.Fatalf("record trick %+v", a.Trick)
	}
}
