package battle

// HandSize is the number of cards a draw tries to put in hand
const HandSize = 5

// BattleCard is a unit template with an energy cost. Piles track cards by ID.
type BattleCard struct {
	ID   int          `json:"id"`
	Cost int          `json:"cost"`
	Unit UnitTemplate `json:"unit"`
}

// Piles holds one faction's deck (draw pile), hand and discard, each in order
type Piles struct {
	Deck    []BattleCard `json:"deck"`
	Hand    []BattleCard `json:"hand"`
	Discard []BattleCard `json:"discard"`
}

// Total counts every card the faction owns
func (p Piles) Total() int {
	return len(p.Deck) + len(p.Hand) + len(p.Discard)
}

// HandCard finds a card in hand by ID
func (p Piles) HandCard(id int) (BattleCard, bool) {
	for _, c := range p.Hand {
		if c.ID == id {
			return c, true
		}
	}
	return BattleCard{}, false
}

// Play moves a card from hand to discard. It reports false when the card
// is not in hand.
func (p *Piles) Play(id int) bool {
	for i, c := range p.Hand {
		if c.ID == id {
			p.Hand = append(p.Hand[:i:i], p.Hand[i+1:]...)
			p.Discard = append(p.Discard, c)
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no slices with p
func (p Piles) Clone() Piles {
	return Piles{
		Deck:    cloneCards(p.Deck),
		Hand:    cloneCards(p.Hand),
		Discard: cloneCards(p.Discard),
	}
}

func cloneCards(cards []BattleCard) []BattleCard {
	if cards == nil {
		return []BattleCard{}
	}
	out := make([]BattleCard, len(cards))
	copy(out, cards)
	return out
}
