package engine

// Trick is one round of play. Slots are indexed by seat; it is a flat value
// so copying a Trick never shares storage.
type Trick struct {
	Cards   [MaxPlayers]CardID `json:"cards"`
	Seats   int                `json:"seats"`
	Played  int                `json:"played"`
	Lead    Card               `json:"lead"`
	Winning Card               `json:"winning"`
	Winner  int                `json:"winner"` // -1 until a card is played
	Points  Points             `json:"points"`
}

// NewTrick returns an empty trick for seats players.
func NewTrick(seats int) Trick {
	t := Trick{Seats: seats, Winner: -1}
	for i := range t.Cards {
		t.Cards[i] = NoCard
	}
	return t
}

// IsEmpty reports whether no card has been played yet.
func (t *Trick) IsEmpty() bool { return t.Played == 0 }

// Completed reports whether every seat has played.
func (t *Trick) Completed() bool {
	for i := 0; i < t.Seats; i++ {
		if t.Cards[i] == NoCard {
			return false
		}
	}
	return true
}

// IsEligible reports whether card may be played into the trick. matchingLead
// is the number of cards in the hand that follow the lead suit.
func (t *Trick) IsEligible(card Card, matchingLead int, trumpBroken, hasNonTrump bool) bool {
	if t.IsEmpty() {
		return !(card.IsTrump && !trumpBroken && hasNonTrump)
	}
	if matchingLead > 0 && card.Suit != t.Lead.Suit {
		return false
	}
	return true
}

// TakesLead reports whether card would beat the current winning card.
func (t *Trick) TakesLead(card Card) bool {
	if t.IsEmpty() {
		return true
	}
	if card.Suit == t.Winning.Suit {
		return card.GameRank > t.Winning.GameRank
	}
	return card.IsTrump && !t.Winning.IsTrump
}

// Add plays card for seat. The first card sets the lead and is provisionally winning.
func (t *Trick) Add(seat int, card Card) {
	if t.IsEmpty() {
		t.Lead = card
		t.Winning = card
		t.Winner = seat
	} else if t.TakesLead(card) {
		t.Winning = card
		t.Winner = seat
	}
	t.Cards[seat] = card.ID
	t.Played++
	t.Points += card.Points
}

// CardIDs returns the played card ids in seat order.
func (t *Trick) CardIDs() []CardID {
	ids := make([]CardID, 0, t.Played)
	for i := 0; i < t.Seats; i++ {
		if t.Cards[i] != NoCard {
			ids = append(ids, t.Cards[i])
		}
	}
	return ids
}
