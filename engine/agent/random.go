package agent

import (
	"math/rand/v2"

	engine "github.com/getzen/rookre/engine"
)

// Random passes every bid and plays a uniformly random eligible card. It is
// also the rollout policy inside MonteCarlo.
type Random struct {
	rng *rand.Rand
}

// NewRandom returns a Random strategy seeded with seed.
func NewRandom(seed uint64) *Random {
	return &Random{rng: rand.New(rand.NewPCG(seed, 0))}
}

func (r *Random) MakeBid(*engine.GameState, int) bool { return false }

func (r *Random) ChooseTrump(g *engine.GameState, _ int) engine.Suit {
	suits := g.AvailableTrumpSuits()
	return suits[r.rng.IntN(len(suits))]
}

func (r *Random) ChooseDiscards(g *engine.GameState, seat int) []engine.CardID {
	return weakestDiscards(g, seat)
}

func (r *Random) PlayCard(g *engine.GameState, _ int) (engine.CardID, error) {
	ids, err := g.PlayableCards()
	if err != nil {
		return engine.NoCard, err
	}
	return ids[r.rng.IntN(len(ids))], nil
}
