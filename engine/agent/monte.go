package agent

import (
	"fmt"
	"math/rand/v2"
	"sync/atomic"

	engine "github.com/getzen/rookre/engine"
)

// MonteCarlo bids and discards by rule and picks cards by simulation. For
// each sampled deal of the hidden cards it plays every candidate on a copy,
// finishes the hand with random play and credits the candidate with the
// acting side's hand score.
type MonteCarlo struct {
	cfg      Config
	rng      *rand.Rand
	rollouts atomic.Int64
}

// NewMonteCarlo returns a MonteCarlo strategy.
func NewMonteCarlo(cfg Config) *MonteCarlo {
	if cfg.Rollouts <= 0 {
		cfg.Rollouts = DefaultConfig().Rollouts
	}
	return &MonteCarlo{cfg: cfg, rng: rand.New(rand.NewPCG(cfg.Seed, 0))}
}

// Rollouts returns the number of sampled deals run so far.
func (m *MonteCarlo) Rollouts() int64 { return m.rollouts.Load() }

// MakeBid bids when the seat's strongest allowed suit reaches BidThreshold.
// The last seat to speak before a redeal always bids.
func (m *MonteCarlo) MakeBid(g *engine.GameState, seat int) bool {
	if g.IsFinalBidTurn() {
		return true
	}
	_, strength := strongestSuit(g, seat, g.AvailableTrumpSuits())
	return strength >= m.cfg.BidThreshold
}

func (m *MonteCarlo) ChooseTrump(g *engine.GameState, seat int) engine.Suit {
	suit, _ := strongestSuit(g, seat, g.AvailableTrumpSuits())
	return suit
}

func (m *MonteCarlo) ChooseDiscards(g *engine.GameState, seat int) []engine.CardID {
	return weakestDiscards(g, seat)
}

// PlayCard returns the eligible card with the best summed rollout score. A
// single eligible card is returned without simulating. Ties keep the earlier
// candidate in hand order.
func (m *MonteCarlo) PlayCard(g *engine.GameState, seat int) (engine.CardID, error) {
	if g.ActivePlayer != seat {
		return engine.NoCard, fmt.Errorf("%w: seat %d asked to play during seat %d's turn", engine.ErrNotYourTurn, seat, g.ActivePlayer)
	}
	cands, err := g.PlayableCards()
	if err != nil {
		return engine.NoCard, err
	}
	if len(cands) == 1 {
		return cands[0], nil
	}

	pool := hiddenCards(g, seat)
	totals := make([]engine.Points, len(cands))
	for r := 0; r < m.cfg.Rollouts; r++ {
		world := m.determinize(g, seat, pool)
		for i, id := range cands {
			totals[i] += m.rollout(world.Snapshot(), seat, id)
		}
		m.rollouts.Add(1)
	}

	best := 0
	for i := 1; i < len(cands); i++ {
		if totals[i] > totals[best] {
			best = i
		}
	}
	return cands[best], nil
}

// hiddenCards lists the cards seat cannot see: the deck and every other hand.
func hiddenCards(g *engine.GameState, seat int) []engine.CardID {
	pool := append([]engine.CardID(nil), g.Deck...)
	for p := range g.Players {
		if p != seat {
			pool = append(pool, g.Players[p].Hand...)
		}
	}
	return pool
}

// determinize returns a copy of g with the hidden cards reshuffled among the
// deck and the other seats. Every hand keeps its size.
func (m *MonteCarlo) determinize(g *engine.GameState, seat int, pool []engine.CardID) *engine.GameState {
	w := g.Snapshot()
	cards := append([]engine.CardID(nil), pool...)
	m.rng.Shuffle(len(cards), func(i, j int) { cards[i], cards[j] = cards[j], cards[i] })

	n := copy(w.Deck, cards)
	cards = cards[n:]
	for p := range w.Players {
		if p == seat {
			continue
		}
		n = copy(w.Players[p].Hand, cards)
		cards = cards[n:]
	}
	return w
}

// rollout plays first for the acting seat, finishes the hand at random and
// returns the acting side's score.
func (m *MonteCarlo) rollout(sim *engine.GameState, seat int, first engine.CardID) engine.Points {
	if err := sim.PlayCardID(first); err != nil {
		return 0
	}
	for !sim.HandCompleted() {
		if sim.TrickCompleted() {
			sim.AwardTrick()
			continue
		}
		ids, err := sim.PlayableCards()
		if err != nil {
			break
		}
		if err := sim.PlayCardID(ids[m.rng.IntN(len(ids))]); err != nil {
			break
		}
	}
	r := sim.ScoreHand()
	return r.SideScore(sim.Players[seat].Kind)
}
