package engine

// HandResult summarizes a scored hand.
type HandResult struct {
	Hand            int        `json:"hand"`
	Maker           int        `json:"maker"`
	Trump           Suit       `json:"trump"`
	NestWinner      int        `json:"nestWinner"`
	NestSide        PlayerKind `json:"nestSide"` // side of NestWinner
	NestPoints      Points     `json:"nestPoints"`
	MakersPoints    Points     `json:"makersPoints"`
	DefendersPoints Points     `json:"defendersPoints"`
	Made            bool       `json:"made"`
	MakersScore     Points     `json:"makersScore"`
	DefendersScore  Points     `json:"defendersScore"`
}

// NestPointsValue returns what the nest is worth to the last trick winner:
// the card points left in the nest and deck, or the configured fixed bonus.
func (g *GameState) NestPointsValue() Points {
	if !g.Rules.NestPoints.CardPoints {
		return Points(g.Rules.NestPoints.Fixed)
	}
	var pts Points
	for _, id := range g.Nest {
		pts += g.Cards[id].Points
	}
	for _, id := range g.Deck {
		pts += g.Cards[id].Points
	}
	return pts
}

// ScoreHand computes the result of the hand without changing the state. The
// nest is credited to the last trick winner's side.
func (g *GameState) ScoreHand() HandResult {
	r := HandResult{
		Hand:       g.HandNumber,
		Maker:      g.Maker,
		Trump:      g.Trump,
		NestWinner: g.LastTrickWinner,
		NestPoints: g.NestPointsValue(),
	}
	if r.NestWinner >= 0 {
		r.NestSide = g.Players[r.NestWinner].Kind
	}
	for i := range g.Players {
		p := &g.Players[i]
		pts := p.PointsThisHand
		if i == r.NestWinner {
			pts += r.NestPoints
		}
		switch p.Kind {
		case Maker:
			r.MakersPoints += pts
		case Defender:
			r.DefendersPoints += pts
		}
	}
	rules := &g.Rules
	r.Made = r.MakersPoints >= Points(rules.PointsNeeded)
	if r.Made {
		r.MakersScore = rules.MakersWin.Apply(r.MakersPoints)
		r.DefendersScore = rules.DefendersLoss.Apply(r.DefendersPoints)
	} else {
		r.MakersScore = rules.MakersLoss.Apply(r.MakersPoints)
		r.DefendersScore = rules.DefendersWin.Apply(r.DefendersPoints)
	}
	return r
}

// SideScore returns the hand score for the side seat plays on.
func (r HandResult) SideScore(kind PlayerKind) Points {
	switch kind {
	case Maker:
		return r.MakersScore
	case Defender:
		return r.DefendersScore
	}
	return 0
}

// finishHand scores the hand and adds each side's score to every seat on it.
func (g *GameState) finishHand() HandResult {
	r := g.ScoreHand()
	if r.NestWinner >= 0 {
		g.Players[r.NestWinner].PointsThisHand += r.NestPoints
	}
	for i := range g.Players {
		p := &g.Players[i]
		p.Score += r.SideScore(p.Kind)
	}
	g.LastResult = &r
	return r
}
