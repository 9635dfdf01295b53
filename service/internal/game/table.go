// internal/game/table.go
package game

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	engine "github.com/getzen/rookre/engine"
	"github.com/getzen/rookre/engine/agent"
)

// ErrBotSeat rejects a client command for a seat a bot controls.
var ErrBotSeat = errors.New("seat is bot-controlled")

// OnHandEndFunc is called after each scored hand with the seat scores.
type OnHandEndFunc func(tableID uuid.UUID, result engine.HandResult, scores []int)

// OnGameEndFunc is called once when the game is over.
type OnGameEndFunc func(tableID uuid.UUID, scores []int)

// Pacing holds the presentation delays the driver waits after phases.
type Pacing struct {
	DealCard           time.Duration `yaml:"dealCard"`
	BotThink           time.Duration `yaml:"botThink"`
	PauseAfterDiscard  time.Duration `yaml:"pauseAfterDiscard"`
	PauseAfterPlayCard time.Duration `yaml:"pauseAfterPlayCard"`
}

// DefaultPacing returns delays suited to a watching human.
func DefaultPacing() Pacing {
	return Pacing{
		DealCard:           200 * time.Millisecond,
		BotThink:           500 * time.Millisecond,
		PauseAfterDiscard:  1500 * time.Millisecond,
		PauseAfterPlayCard: 1000 * time.Millisecond,
	}
}

func (p Pacing) after(phase engine.Phase) time.Duration {
	switch phase {
	case engine.PhaseDealToNest, engine.PhaseDealCard, engine.PhaseMoveNestToHand:
		return p.DealCard
	case engine.PhasePauseAfterDiscard:
		return p.PauseAfterDiscard
	case engine.PhasePauseAfterPlayCard:
		return p.PauseAfterPlayCard
	}
	return 0
}

// Table drives one game: it advances the engine, paces phases, dispatches bot
// decisions and accepts human commands. All fields below Mu are guarded by it.
type Table struct {
	ID       uuid.UUID
	Pacing   Pacing
	MaxHands int // stop after this many scored hands; 0 plays to EndGame

	// Communication callbacks.
	BroadcastFn       func(ev TableEvent)           // Sends an event to every observer.
	BroadcastToSeatFn func(seat int, ev TableEvent) // Sends an event to one human seat.
	OnHandEnd         OnHandEndFunc
	OnGameEnd         OnGameEndFunc

	Mu           sync.Mutex
	Engine       *engine.GameState
	BotFallbacks int // decisions that fell back to random play

	log         *logrus.Entry
	strategies  []agent.Strategy
	fallbacks   []agent.Strategy
	pending     *botRequest
	queued      []engine.PlayerAction
	wait        time.Duration
	handsPlayed int
	done        bool
}

// NewTable creates a table. Each bot seat gets its own strategy seeded from
// cfg.Seed and the seat index.
func NewTable(seed uint64, rules engine.HouseRules, controllers []engine.Controller, cfg agent.Config, logger *logrus.Logger) (*Table, error) {
	g, err := engine.NewGame(seed, rules, controllers)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	t := &Table{
		ID:         uuid.New(),
		Engine:     g,
		Pacing:     DefaultPacing(),
		strategies: make([]agent.Strategy, len(controllers)),
		fallbacks:  make([]agent.Strategy, len(controllers)),
	}
	t.log = logger.WithField("table", t.ID)
	for seat, c := range controllers {
		if !c.IsBot() {
			continue
		}
		seatCfg := cfg
		seatCfg.Seed = cfg.Seed + uint64(seat)*7919
		t.strategies[seat] = agent.New(agent.KindFor(c), seatCfg)
		t.fallbacks[seat] = agent.NewRandom(seatCfg.Seed + 1)
	}
	return t, nil
}

// SetStrategy replaces the strategy for a bot seat.
func (t *Table) SetStrategy(seat int, s agent.Strategy) {
	t.Mu.Lock()
	defer t.Mu.Unlock()
	t.strategies[seat] = s
}

// Done reports whether the table has finished.
func (t *Table) Done() bool {
	t.Mu.Lock()
	defer t.Mu.Unlock()
	return t.done
}

// HandsPlayed returns the number of scored hands.
func (t *Table) HandsPlayed() int {
	t.Mu.Lock()
	defer t.Mu.Unlock()
	return t.handsPlayed
}

// Scores returns the seat scores.
func (t *Table) Scores() []int {
	t.Mu.Lock()
	defer t.Mu.Unlock()
	return scoresOf(t.Engine)
}

// State returns the table as observer sees it.
func (t *Table) State(observer int) ObfTableState {
	t.Mu.Lock()
	defer t.Mu.Unlock()
	return ObfuscatedState(t.Engine, t.ID, observer)
}

// Submit applies a command from a human client. The next Update carries the
// pipeline forward.
func (t *Table) Submit(a engine.PlayerAction) error {
	t.Mu.Lock()
	defer t.Mu.Unlock()

	if t.done {
		return engine.ErrGameOver
	}
	if a.Seat >= 0 && a.Seat < t.Engine.PlayerCount() && t.Engine.IsBot(a.Seat) {
		return fmt.Errorf("%w: seat %d", ErrBotSeat, a.Seat)
	}
	if err := t.Engine.Perform(a); err != nil {
		t.log.WithFields(logrus.Fields{"seat": a.Seat, "action": a.Kind.String()}).Infof("Table %s: rejected command: %v", t.ID, err)
		t.sendToSeat(a.Seat, TableEvent{Type: EventActionRejected, Seat: seatPtr(a.Seat), Error: err.Error()})
		return err
	}
	return nil
}

// Update advances the table by delta of wall time. It runs phases until the
// pipeline halts or a pacing delay starts, applies finished bot decisions and
// dispatches new ones. It never blocks on a bot.
func (t *Table) Update(delta time.Duration) {
	t.Mu.Lock()
	defer t.Mu.Unlock()

	if t.done {
		return
	}
	t.wait -= delta
	for t.wait <= 0 && !t.done {
		if !t.tick() {
			// Idle time while waiting for input does not bank pacing credit.
			t.wait = max(t.wait, 0)
			return
		}
	}
}

// tick makes one unit of progress. It returns false when nothing can happen
// until more time passes or input arrives.
func (t *Table) tick() bool {
	g := t.Engine

	if g.Step() {
		for {
			a, ok := g.PopAction()
			if !ok {
				break
			}
			t.emit(a)
			t.wait += t.Pacing.after(a.Phase)
		}
		return true
	}

	if len(t.queued) > 0 {
		a := t.queued[0]
		t.queued = t.queued[1:]
		if err := g.Perform(a); err != nil {
			t.log.WithFields(logrus.Fields{"seat": a.Seat, "action": a.Kind.String()}).Errorf("Table %s: bot command rejected: %v", t.ID, err)
			t.queued = nil
		}
		return true
	}

	if t.pending != nil {
		return t.pollBot()
	}

	phase, seat, ok := g.WaitingFor()
	if !ok {
		if g.GameOver {
			t.finish()
		}
		return false
	}
	if seat < 0 || !g.IsBot(seat) {
		return false
	}
	t.dispatchBot(seat, phase)
	t.wait += t.Pacing.BotThink
	return true
}

// emit publishes one phase record. Holds t.Mu.
func (t *Table) emit(a engine.GameAction) {
	g := t.Engine
	t.broadcast(phaseEvent(g, a))

	if a.Hand != nil && a.Seat >= 0 && !g.IsBot(a.Seat) {
		t.sendToSeat(a.Seat, privateHandEvent(g, a))
	}

	switch a.Phase {
	case engine.PhaseWaitForBid, engine.PhaseWaitForDiscards, engine.PhaseWaitForPlayCard:
		if a.Seat >= 0 && !g.IsBot(a.Seat) {
			st := ObfuscatedState(g, t.ID, a.Seat)
			t.sendToSeat(a.Seat, TableEvent{Type: EventPrivateSyncState, Seat: seatPtr(a.Seat), State: &st})
		}

	case engine.PhaseEndHand:
		t.handsPlayed++
		scores := scoresOf(g)
		t.log.WithField("hand", a.Result.Hand).Infof("Table %s: hand %d scored. Made=%v makers=%d defenders=%d.",
			t.ID, a.Result.Hand, a.Result.Made, a.Result.MakersPoints, a.Result.DefendersPoints)
		t.broadcast(TableEvent{Type: EventHandEnd, Result: a.Result, Scores: scores})
		if t.OnHandEnd != nil {
			t.OnHandEnd(t.ID, *a.Result, scores)
		}
		if t.MaxHands > 0 && t.handsPlayed >= t.MaxHands {
			t.finish()
		}

	case engine.PhaseEndGame:
		t.finish()
	}
}

// finish marks the table done and reports the final scores once.
func (t *Table) finish() {
	if t.done {
		return
	}
	t.done = true
	scores := scoresOf(t.Engine)
	t.log.Infof("Table %s: finished after %d hands. Scores %v.", t.ID, t.handsPlayed, scores)
	t.broadcast(TableEvent{Type: EventGameEnd, Scores: scores})
	if t.OnGameEnd != nil {
		t.OnGameEnd(t.ID, scores)
	}
}

func (t *Table) broadcast(ev TableEvent) {
	if t.BroadcastFn != nil {
		t.BroadcastFn(ev)
	}
}

func (t *Table) sendToSeat(seat int, ev TableEvent) {
	if t.BroadcastToSeatFn != nil {
		t.BroadcastToSeatFn(seat, ev)
	}
}

// Run calls Update every interval until the table finishes or ctx is done.
func (t *Table) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	last := time.Now()
	for {
		now := time.Now()
		t.Update(now.Sub(last))
		last = now
		if t.Done() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
