package engine

import (
	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/rpg-battle/internal/entities/battle"
	"github.com/KirkDiggler/rpg-battle/internal/errors"
	"github.com/KirkDiggler/rpg-battle/internal/pkg/random"
)

// Draw replaces the hand with a fresh one. The old hand goes to discard.
// When the deck runs short its remainder is drawn first, then the discard
// as it stood before this draw is shuffled into a new deck to finish the
// hand. The cards discarded by this draw wait for the next reshuffle. The
// hand comes up short only when the deck and the old discard together hold
// fewer than battle.HandSize cards.
func Draw(piles battle.Piles, r dice.Roller) (battle.Piles, error) {
	in := piles.Clone()
	discarded := in.Hand

	if len(in.Deck) >= battle.HandSize {
		return battle.Piles{
			Deck:    in.Deck[battle.HandSize:],
			Hand:    in.Deck[:battle.HandSize:battle.HandSize],
			Discard: append(in.Discard, discarded...),
		}, nil
	}

	hand := in.Deck
	missing := battle.HandSize - len(hand)

	deck := in.Discard
	if err := random.Shuffle(r, deck); err != nil {
		return battle.Piles{}, errors.Wrap(err, "failed to shuffle discard")
	}
	if missing > len(deck) {
		missing = len(deck)
	}
	hand = append(hand, deck[:missing]...)

	return battle.Piles{
		Deck:    deck[missing:],
		Hand:    hand,
		Discard: discarded,
	}, nil
}
