// internal/game/bots.go
package game

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	engine "github.com/getzen/rookre/engine"
	"github.com/getzen/rookre/engine/agent"
)

// botResult is a finished bot decision.
type botResult struct {
	actions  []engine.PlayerAction
	err      error
	fellBack bool
}

// botRequest tracks the single in-flight bot decision.
type botRequest struct {
	ID     uuid.UUID
	Seat   int
	Phase  engine.Phase
	Hand   int
	result chan botResult // buffered, receives exactly once
}

// decideSafely runs s and turns a panic into an error.
func decideSafely(s agent.Strategy, g *engine.GameState, seat int) (acts []engine.PlayerAction, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("bot panic: %v", r)
		}
	}()
	return agent.Decide(s, g, seat)
}

// dispatchBot starts a decision for seat on its own goroutine over a snapshot
// the goroutine owns. Holds t.Mu.
func (t *Table) dispatchBot(seat int, phase engine.Phase) {
	req := &botRequest{
		ID:     uuid.New(),
		Seat:   seat,
		Phase:  phase,
		Hand:   t.Engine.HandNumber,
		result: make(chan botResult, 1),
	}
	t.pending = req
	snap := t.Engine.Snapshot()
	strategy, fallback := t.strategies[seat], t.fallbacks[seat]
	log := t.log.WithFields(logrus.Fields{"seat": seat, "phase": phase.String(), "request": req.ID})
	log.Debugf("Table %s: dispatching bot decision.", t.ID)

	go func() {
		acts, err := decideSafely(strategy, snap, seat)
		res := botResult{actions: acts, err: err}
		if err != nil {
			log.Warnf("Table %s: bot failed (%v). Falling back to random play.", t.ID, err)
			res.actions, res.err = decideSafely(fallback, snap, seat)
			res.fellBack = true
		}
		req.result <- res
	}()
}

// pollBot collects a finished decision without blocking. It returns false
// while the bot is still thinking. Holds t.Mu.
func (t *Table) pollBot() bool {
	req := t.pending
	var res botResult
	select {
	case r, ok := <-req.result:
		if !ok {
			res.err = fmt.Errorf("bot result channel closed")
		} else {
			res = r
		}
	default:
		return false
	}
	t.pending = nil

	if res.err != nil {
		// Both strategies failed; decide on the live state with a fresh random bot.
		t.log.WithField("seat", req.Seat).Errorf("Table %s: bot decision unusable: %v", t.ID, res.err)
		acts, err := decideSafely(agent.NewRandom(uint64(req.Hand)), t.Engine, req.Seat)
		if err != nil {
			t.log.WithField("seat", req.Seat).Errorf("Table %s: random fallback failed: %v", t.ID, err)
			return true
		}
		res.actions = acts
	}
	if res.fellBack {
		t.BotFallbacks++
	}
	t.queued = append(t.queued, res.actions...)
	return true
}
