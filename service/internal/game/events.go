// internal/game/events.go
package game

import (
	engine "github.com/getzen/rookre/engine"
)

// TableEventType represents the type of a table event sent to clients.
type TableEventType string

const (
	EventPhase            TableEventType = "phase"              // Public: one engine phase record.
	EventPrivateHand      TableEventType = "private_hand"       // Private: the seat's own hand after a change.
	EventPrivateSyncState TableEventType = "private_sync_state" // Private: full table view for a seat awaiting input.
	EventHandEnd          TableEventType = "hand_end"           // Public: hand scored.
	EventGameEnd          TableEventType = "game_end"           // Public: game over, final scores.
	EventActionRejected   TableEventType = "action_rejected"    // Private: a submitted command was refused.
)

// TableEvent is the structure for broadcasting table changes.
type TableEvent struct {
	Type   TableEventType     `json:"type"`
	Phase  string             `json:"phase,omitempty"`
	Seat   *int               `json:"seat,omitempty"`
	Card   *ObfCard           `json:"card,omitempty"`
	Hand   []ObfCard          `json:"hand,omitempty"`
	Trick  []ObfCard          `json:"trick,omitempty"`
	Result *engine.HandResult `json:"result,omitempty"`
	Scores []int              `json:"scores,omitempty"`
	State  *ObfTableState     `json:"state,omitempty"`
	Error  string             `json:"error,omitempty"`
}

func seatPtr(seat int) *int {
	if seat < 0 {
		return nil
	}
	return &seat
}

// phaseEvent renders a phase record for the public. Cards headed into a hand
// are hidden; trick and nest cards show when face up.
func phaseEvent(g *engine.GameState, a engine.GameAction) TableEvent {
	ev := TableEvent{Type: EventPhase, Phase: a.Phase.String(), Seat: seatPtr(a.Seat)}
	if a.Card != engine.NoCard {
		c := g.Card(a.Card)
		visible := false
		switch a.Phase {
		case engine.PhasePauseAfterPlayCard:
			visible = true
		case engine.PhaseDealToNest:
			visible = c.FaceUp
		}
		cv := cardView(c, visible)
		ev.Card = &cv
	}
	if a.Trick != nil {
		ev.Trick = make([]ObfCard, 0, a.Trick.Played)
		for _, id := range a.Trick.CardIDs() {
			ev.Trick = append(ev.Trick, cardView(g.Card(id), true))
		}
	}
	if a.Result != nil {
		r := *a.Result
		ev.Result = &r
	}
	return ev
}

// privateHandEvent shows seat its own hand as recorded in a.
func privateHandEvent(g *engine.GameState, a engine.GameAction) TableEvent {
	return TableEvent{
		Type:  EventPrivateHand,
		Phase: a.Phase.String(),
		Seat:  seatPtr(a.Seat),
		Hand:  handView(g, a.Seat, a.Seat, a.Hand),
	}
}

func scoresOf(g *engine.GameState) []int {
	out := make([]int, len(g.Players))
	for i := range g.Players {
		out[i] = int(g.Players[i].Score)
	}
	return out
}
