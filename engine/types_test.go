package engine

import "testing"

// TestCardPoints verifies the default point values over the whole arena.
func TestCardPoints(t *testing.T) {
	cards := newCards(DefaultHouseRules())
	if len(cards) != 41 {
		t.Fatalf("default arena has %d cards, want 41", len(cards))
	}

	tests := []struct {
		suit Suit
		rank int
		want Points
	}{
		{SuitHearts, 5, 5},
		{SuitClubs, 5, 5},
		{SuitDiamond, 10, 10},
		{SuitSpades, RankAce, 10},
		{SuitHearts, 9, 0},
		{SuitClubs, RankKing, 0},
		{SuitSpades, 6, 0},
	}
	for _, tt := range tests {
		found := false
		for _, c := range cards {
			if c.Kind == KindSuited && c.Suit == tt.suit && c.FaceRank == tt.rank {
				found = true
				if c.Points != tt.want {
					t.Errorf("%s points = %d, want %d", c, c.Points, tt.want)
				}
			}
		}
		if !found {
			t.Errorf("no %d of %s in arena", tt.rank, tt.suit)
		}
	}

	var total Points
	for i, c := range cards {
		if c.ID != CardID(i) {
			t.Fatalf("card %d has id %d", i, c.ID)
		}
		if c.FaceRank >= 2 && c.FaceRank <= 4 {
			t.Errorf("removed rank present: %s", c)
		}
		total += c.Points
	}
	if total != 100 {
		t.Errorf("total points = %d, want 100", total)
	}
}

func TestJokerCard(t *testing.T) {
	cards := newCards(DefaultHouseRules())
	j := cards[len(cards)-1]
	if j.Kind != KindJoker || j.Suit != SuitJoker {
		t.Fatalf("last card %+v is not the joker", j)
	}
	if j.GameRank != 15 {
		t.Errorf("joker game rank = %v, want 15", j.GameRank)
	}
	if j.String() != "Jk" {
		t.Errorf("joker String() = %q", j.String())
	}
}

func TestRankChanges(t *testing.T) {
	hr := DefaultHouseRules()
	hr.RankChanges = []RankChange{{Face: 5, Game: 14.5}}
	for _, c := range newCards(hr) {
		if c.FaceRank == 5 && c.GameRank != 14.5 {
			t.Fatalf("%s game rank %v, want 14.5", c, c.GameRank)
		}
		if c.FaceRank == 5 && c.String() != "5"+c.Suit.String() {
			t.Fatalf("promoted five renders as %q", c.String())
		}
	}
}

func TestCardEqualIgnoresID(t *testing.T) {
	a := NewCard(KindSuited, SuitHearts, 10)
	b := a
	a.ID, b.ID = 3, 9
	if !a.Equal(b) {
		t.Fatal("same face cards not equal")
	}
	b.FaceRank = 11
	if a.Equal(b) {
		t.Fatal("different ranks equal")
	}
}

func TestSortOrder(t *testing.T) {
	clubAce := NewCard(KindSuited, SuitClubs, RankAce)
	diamondFive := NewCard(KindSuited, SuitDiamond, 5)
	spadeAce := NewCard(KindSuited, SuitSpades, RankAce)
	joker := NewCard(KindJoker, SuitJoker, 0)
	joker.GameRank = 15

	if clubAce.SortOrder() >= diamondFive.SortOrder() {
		t.Error("clubs do not sort before diamonds")
	}
	if diamondFive.SortOrder() >= spadeAce.SortOrder() {
		t.Error("diamonds do not sort before spades")
	}
	if spadeAce.SortOrder() >= joker.SortOrder() {
		t.Error("joker does not sort last")
	}
}

func TestCardString(t *testing.T) {
	tests := []struct {
		c    Card
		want string
	}{
		{NewCard(KindSuited, SuitHearts, 10), "10♥"},
		{NewCard(KindSuited, SuitSpades, RankAce), "A♠"},
		{NewCard(KindSuited, SuitClubs, RankJack), "J♣"},
		{NewCard(KindSuited, SuitDiamond, 7), "7♦"},
	}
	for _, tt := range tests {
		if got := tt.c.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestSuitText(t *testing.T) {
	for _, s := range TrumpSuits {
		b, err := s.MarshalText()
		if err != nil {
			t.Fatal(err)
		}
		var back Suit
		if err := back.UnmarshalText(b); err != nil || back != s {
			t.Fatalf("suit %s round-tripped to %s (%v)", s, back, err)
		}
	}
	var s Suit
	if err := s.UnmarshalText([]byte("h")); err != nil || s != SuitHearts {
		t.Fatalf("short form h = %s, %v", s, err)
	}
	if err := s.UnmarshalText([]byte("stars")); err == nil {
		t.Fatal("unknown suit accepted")
	}
}
