package engine

import "testing"

// newScoringGame returns a set-up game with seats 0 and 2 as makers, an empty
// nest and deck, and seat 1 as the last trick winner.
func newScoringGame(t *testing.T, hr HouseRules) *GameState {
	t.Helper()
	g, err := NewGame(1, hr, humans(4))
	if err != nil {
		t.Fatal(err)
	}
	g.Advance()
	g.Nest, g.Deck = nil, nil
	g.Maker = 0
	g.LastTrickWinner = 1
	for i := range g.Players {
		g.Players[i].Kind = Defender
		if i%2 == 0 {
			g.Players[i].Kind = Maker
		}
	}
	return g
}

func TestScoreHandThreshold(t *testing.T) {
	tests := []struct {
		name       string
		makers     Points
		wantMade   bool
		wantMakers Points
		wantDef    Points
	}{
		{"below", 69, false, 0, 2 * 31},
		{"at", 70, true, 70, 0},
		{"above", 85, true, 85, 0},
	}
	for _, tt := range tests {
		g := newScoringGame(t, DefaultHouseRules())
		g.Players[0].PointsThisHand = tt.makers - 20
		g.Players[2].PointsThisHand = 20
		g.Players[1].PointsThisHand = 100 - tt.makers
		r := g.ScoreHand()
		if r.Made != tt.wantMade {
			t.Errorf("%s: Made = %v, want %v", tt.name, r.Made, tt.wantMade)
		}
		if r.MakersPoints != tt.makers {
			t.Errorf("%s: MakersPoints = %d, want %d", tt.name, r.MakersPoints, tt.makers)
		}
		if r.MakersScore != tt.wantMakers || r.DefendersScore != tt.wantDef {
			t.Errorf("%s: scores %d/%d, want %d/%d", tt.name, r.MakersScore, r.DefendersScore, tt.wantMakers, tt.wantDef)
		}
	}
}

func TestScoreHandFixedAwards(t *testing.T) {
	hr := DefaultHouseRules()
	hr.MakersWin = Fixed(50)
	hr.MakersLoss = Fixed(-50)
	hr.DefendersWin = Fixed(30)
	hr.DefendersLoss = Multiplier(1)

	g := newScoringGame(t, hr)
	g.Players[0].PointsThisHand = 75
	g.Players[1].PointsThisHand = 25
	r := g.ScoreHand()
	if !r.Made || r.MakersScore != 50 || r.DefendersScore != 25 {
		t.Fatalf("made: %+v", r)
	}

	g = newScoringGame(t, hr)
	g.Players[0].PointsThisHand = 40
	g.Players[1].PointsThisHand = 60
	r = g.ScoreHand()
	if r.Made || r.MakersScore != -50 || r.DefendersScore != 30 {
		t.Fatalf("set: %+v", r)
	}
}

func TestNestPointsToLastTrickWinner(t *testing.T) {
	g := newScoringGame(t, DefaultHouseRules())
	ace := findCard(t, g, SuitHearts, RankAce)
	five := findCard(t, g, SuitSpades, 5)
	g.Nest = []CardID{ace, five}
	g.Players[0].PointsThisHand = 60
	g.Players[1].PointsThisHand = 25

	r := g.ScoreHand()
	if r.NestPoints != 15 || r.NestWinner != 1 || r.NestSide != Defender {
		t.Fatalf("nest %d to seat %d (%s), want 15 to seat 1 (defender)", r.NestPoints, r.NestWinner, r.NestSide)
	}
	if r.DefendersPoints != 40 || r.MakersPoints != 60 {
		t.Fatalf("makers %d defenders %d, want 60 and 40", r.MakersPoints, r.DefendersPoints)
	}

	g.LastTrickWinner = 2
	r = g.ScoreHand()
	if !r.Made || r.MakersPoints != 75 {
		t.Fatalf("nest to makers: %+v", r)
	}
}

func TestNestSideFollowsPartnership(t *testing.T) {
	hr := DefaultHouseRules()
	hr.PlayerCount = 6
	hr.HandSize = 6
	g, err := NewGame(1, hr, humans(6))
	if err != nil {
		t.Fatal(err)
	}
	g.Advance()
	g.Maker = 0
	for i := range g.Players {
		g.Players[i].Kind = Defender
	}
	g.Players[0].Kind = Maker
	g.Players[g.Players[0].Partner].Kind = Maker
	if p := g.Players[0].Partner; p != 3 {
		t.Fatalf("seat 0 partners seat %d, want 3", p)
	}

	g.LastTrickWinner = 3
	if r := g.ScoreHand(); r.NestSide != Maker {
		t.Fatalf("nest won by seat 3: side %s, want makers", r.NestSide)
	}
	g.LastTrickWinner = 2
	if r := g.ScoreHand(); r.NestSide != Defender {
		t.Fatalf("nest won by seat 2: side %s, want defenders", r.NestSide)
	}
}

func TestNestFixedBonus(t *testing.T) {
	hr := DefaultHouseRules()
	hr.NestPoints = NestPoints{Fixed: 20}
	g := newScoringGame(t, hr)
	g.Nest = []CardID{findCard(t, g, SuitHearts, RankAce)}
	if got := g.NestPointsValue(); got != 20 {
		t.Fatalf("fixed nest bonus = %d, want 20", got)
	}
}

func TestFinishHandAddsSideScore(t *testing.T) {
	g := newScoringGame(t, DefaultHouseRules())
	g.Players[0].PointsThisHand = 80
	g.Players[1].PointsThisHand = 20
	for i := range g.Players {
		g.Players[i].Score = 10
	}
	r := g.finishHand()
	if g.LastResult == nil || *g.LastResult != r {
		t.Fatal("LastResult not recorded")
	}
	if g.Players[0].Score != 90 || g.Players[2].Score != 90 {
		t.Fatalf("maker scores %d/%d, want 90", g.Players[0].Score, g.Players[2].Score)
	}
	if g.Players[1].Score != 10 || g.Players[3].Score != 10 {
		t.Fatalf("defender scores %d/%d, want 10", g.Players[1].Score, g.Players[3].Score)
	}
}
