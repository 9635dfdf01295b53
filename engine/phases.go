package engine

import "slices"

func (g *GameState) queue(p Phase) {
	g.next = p
	g.queued = true
}

// Step executes the queued phase and appends its record to History. It returns
// false when nothing is queued, i.e. the game is waiting for a PlayerAction or
// is over.
func (g *GameState) Step() bool {
	if !g.queued {
		return false
	}
	p := g.next
	g.queued = false
	rec := GameAction{Phase: p, Seat: -1, Card: NoCard}
	g.run(p, &rec)
	if !g.queued {
		g.halt = p
	}
	g.History = append(g.History, rec)
	return true
}

// Advance runs phases until the pipeline halts and returns how many ran.
func (g *GameState) Advance() int {
	n := 0
	for g.Step() {
		n++
	}
	return n
}

// PopAction removes and returns the oldest unread history record.
func (g *GameState) PopAction() (GameAction, bool) {
	if len(g.History) == 0 {
		return GameAction{}, false
	}
	a := g.History[0]
	g.History = slices.Delete(g.History, 0, 1)
	return a, true
}

// WaitingFor returns the halting phase and the seat whose decision is needed.
// ok is false while phases are still queued or the game is over.
func (g *GameState) WaitingFor() (phase Phase, seat int, ok bool) {
	if g.queued || g.GameOver {
		return 0, -1, false
	}
	switch g.halt {
	case PhaseWaitForBid, PhaseWaitForPlayCard:
		return g.halt, g.ActivePlayer, true
	case PhaseWaitForDiscards:
		return g.halt, g.Maker, true
	case PhasePrepareForNewHand:
		return g.halt, g.Dealer, true
	}
	return g.halt, -1, false
}

func (g *GameState) run(p Phase, rec *GameAction) {
	switch p {
	case PhaseSetup:
		g.Cards = newCards(g.Rules)
		g.Deck = g.Deck[:0]
		for i := range g.Cards {
			g.Deck = append(g.Deck, CardID(i))
		}
		g.assignAcrossPartners()
		g.queue(PhasePrepareForNewHand)

	case PhasePrepareForNewHand:
		g.prepareForNewHand()
		rec.Seat = g.Dealer
		if g.Rules.AutoDeal {
			g.queueDeal()
		}

	case PhaseDealToNest:
		rec.Card = g.dealToNest()
		g.nestDealt = true
		g.queueDeal()

	case PhaseDealCard:
		seat := g.ActivePlayer
		rec.Seat = seat
		rec.Card = g.dealCard(seat)
		rec.Hand = slices.Clone(g.Players[seat].Hand)
		g.dealt++
		g.nestDealt = false
		g.advanceActivePlayer()
		g.queueDeal()

	case PhaseWaitForBid:
		rec.Seat = g.ActivePlayer

	case PhaseMoveNestToHand:
		id := g.Nest[len(g.Nest)-1]
		g.Nest = g.Nest[:len(g.Nest)-1]
		g.moveToMaker(id)
		rec.Seat, rec.Card = g.Maker, id
		rec.Hand = slices.Clone(g.Players[g.Maker].Hand)
		if len(g.Nest) > 0 {
			g.queue(PhaseMoveNestToHand)
		} else {
			g.queue(PhaseWaitForDiscards)
		}

	case PhaseWaitForDiscards:
		rec.Seat = g.Maker
		g.markDiscards()

	case PhaseMoveCardToDiscard:
		id := g.pending
		g.pending = NoCard
		g.Players[g.Maker].removeFromHand(id)
		g.Cards[id].FaceUp = false
		g.Cards[id].Select = Unselectable
		g.Nest = append(g.Nest, id)
		g.discarded = append(g.discarded, id)
		rec.Seat, rec.Card = g.Maker, id
		rec.Hand = slices.Clone(g.Players[g.Maker].Hand)
		g.queue(PhaseWaitForDiscards)

	case PhaseReturnCardToHand:
		id := g.pending
		g.pending = NoCard
		if i := slices.Index(g.Nest, id); i >= 0 {
			g.Nest = slices.Delete(g.Nest, i, i+1)
		}
		if i := slices.Index(g.discarded, id); i >= 0 {
			g.discarded = slices.Delete(g.discarded, i, i+1)
		}
		g.moveToMaker(id)
		rec.Seat, rec.Card = g.Maker, id
		rec.Hand = slices.Clone(g.Players[g.Maker].Hand)
		g.queue(PhaseWaitForDiscards)

	case PhasePauseAfterDiscard:
		rec.Seat = g.Maker
		g.queue(PhaseEndNestExchange)

	case PhaseEndNestExchange:
		g.setSelect(Unselectable, g.Players[g.Maker].Hand)
		for _, id := range g.Nest {
			g.Cards[id].FaceUp = false
		}
		g.discarded = g.discarded[:0]
		g.ActivePlayer = g.nextSeat(g.Dealer)
		if !g.Players[g.ActivePlayer].Active {
			g.advanceActivePlayer()
		}
		g.queue(PhasePrepareForNewTrick)

	case PhasePrepareForNewTrick:
		g.PrepareForNewTrick()
		rec.Seat = g.ActivePlayer
		g.queue(PhasePrePlayCard)

	case PhasePrePlayCard:
		rec.Seat = g.ActivePlayer
		if !g.IsBot(g.ActivePlayer) {
			hand := g.ActiveHand()
			g.setSelect(Dimmed, hand)
			if playable, err := g.PlayableCards(); err == nil {
				g.setSelect(Selectable, playable)
			}
		}
		g.queue(PhaseWaitForPlayCard)

	case PhaseWaitForPlayCard:
		rec.Seat = g.ActivePlayer

	case PhasePauseAfterPlayCard:
		rec.Seat = g.lastSeat
		rec.Card = g.Trick.Cards[g.lastSeat]
		t := g.Trick
		rec.Trick = &t
		g.setSelect(Unselectable, g.Players[g.lastSeat].Hand)
		if g.TrickCompleted() {
			g.queue(PhaseAwardTrick)
		} else {
			g.queue(PhasePrePlayCard)
		}

	case PhaseAwardTrick:
		t := g.AwardTrick()
		rec.Seat = t.Winner
		rec.Trick = &t
		if g.HandCompleted() {
			g.queue(PhaseEndHand)
		} else {
			g.queue(PhasePrepareForNewTrick)
		}

	case PhaseEndHand:
		r := g.finishHand()
		rec.Seat = r.NestWinner
		rec.Result = &r
		if g.winnerReached() {
			g.queue(PhaseEndGame)
		} else {
			g.queue(PhasePrepareForNewHand)
		}

	case PhaseEndGame:
		g.GameOver = true
	}
}

func (g *GameState) prepareForNewHand() {
	for i := range g.Players {
		g.Players[i].Reset()
	}
	g.resetCards()
	g.Deck = g.Deck[:0]
	for i := range g.Cards {
		g.Deck = append(g.Deck, CardID(i))
	}
	g.shuffleDeck()
	g.Nest = g.Nest[:0]
	g.discarded = g.discarded[:0]
	g.Dealer = g.nextSeat(g.Dealer)
	g.ActivePlayer = g.nextSeat(g.Dealer)
	g.BidRound = 1
	g.PassCount = 0
	g.Maker = -1
	g.Trump = SuitNone
	g.TrumpBroken = false
	g.Trick = NewTrick(len(g.Players))
	g.LastTrickWinner = -1
	g.TricksPlayed = 0
	g.dealt = 0
	g.nestDealt = false
	g.HandNumber++
}

// queueDeal picks the next deal step. Each round of one card per seat starts
// with a card to the nest while the nest is short; once every hand is full
// the remainder goes to the nest and bidding opens.
func (g *GameState) queueDeal() {
	n := len(g.Players)
	handsFull := g.dealt == n*g.Rules.HandSize
	switch {
	case handsFull && len(g.Deck) > 0:
		g.queue(PhaseDealToNest)
	case handsFull:
		g.turnUpNest()
		g.ActivePlayer = g.nextSeat(g.Dealer)
		g.queue(PhaseWaitForBid)
	case g.dealt%n == 0 && !g.nestDealt && len(g.Nest) < g.Rules.NestSize:
		g.queue(PhaseDealToNest)
	default:
		g.queue(PhaseDealCard)
	}
}

func (g *GameState) moveToMaker(id CardID) {
	p := &g.Players[g.Maker]
	p.addToHand(id)
	human := !p.Controller.IsBot()
	g.Cards[id].FaceUp = human
	if human {
		g.sortHand(g.Maker)
	}
}

// markDiscards flags the maker's discardable cards for a human client.
func (g *GameState) markDiscards() {
	if g.IsBot(g.Maker) {
		return
	}
	hand := g.Players[g.Maker].Hand
	g.setSelect(Unselectable, hand)
	if len(hand) > g.Rules.HandSize {
		g.setSelect(Selectable, g.EligibleDiscards())
	}
}

func (g *GameState) winnerReached() bool {
	if g.Rules.WinningScore <= 0 {
		return false
	}
	for i := range g.Players {
		if g.Players[i].Score >= Points(g.Rules.WinningScore) {
			return true
		}
	}
	return false
}
