package battle

import (
	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/rpg-battle/internal/errors"
	"github.com/KirkDiggler/rpg-battle/internal/pkg/random"
)

// DefaultDeckSize is the size of a generated deck
const DefaultDeckSize = 20

// CardType is a catalog entry: a unit archetype and what it costs to play
type CardType struct {
	Unit UnitTemplate
	Cost int
}

func forward(n int) []Position {
	out := make([]Position, n)
	for i := range out {
		out[i] = Pos(0, 1)
	}
	return out
}

// cardTypes is ordered by cost, then by archetype
var cardTypes = []CardType{
	{Cost: 1, Unit: MustUnitTemplate(UnitTemplate{
		Kind:          UnitKindArcherRight,
		MovePattern:   forward(1),
		AttackPattern: []Position{Pos(1, 2)},
		MaxHealth:     2,
		Damage:        1,
		AttackType:    AttackNormal,
	})},
	{Cost: 1, Unit: MustUnitTemplate(UnitTemplate{
		Kind:          UnitKindArcherLeft,
		MovePattern:   forward(1),
		AttackPattern: []Position{Pos(-1, 2)},
		MaxHealth:     2,
		Damage:        1,
		AttackType:    AttackNormal,
	})},
	{Cost: 1, Unit: MustUnitTemplate(UnitTemplate{
		Kind:          UnitKindFootman,
		MovePattern:   forward(1),
		AttackPattern: []Position{Pos(0, 1)},
		MaxHealth:     3,
		Damage:        1,
		AttackType:    AttackNormal,
	})},
	{Cost: 1, Unit: MustUnitTemplate(UnitTemplate{
		Kind:          UnitKindDefender,
		MovePattern:   forward(1),
		AttackPattern: []Position{},
		MaxHealth:     4,
		Damage:        1,
		AttackType:    AttackNormal,
		Capabilities:  CapSturdy,
	})},
	{Cost: 2, Unit: MustUnitTemplate(UnitTemplate{
		Kind:          UnitKindBerserk,
		MovePattern:   forward(2),
		AttackPattern: []Position{Pos(-1, 1), Pos(0, 1), Pos(1, 1)},
		MaxHealth:     2,
		Damage:        1,
		AttackType:    AttackNormal,
	})},
	{Cost: 2, Unit: MustUnitTemplate(UnitTemplate{
		Kind:          UnitKindCatapult,
		MovePattern:   forward(1),
		AttackPattern: []Position{Pos(-1, 3), Pos(0, 3), Pos(1, 3)},
		MaxHealth:     1,
		Damage:        2,
		AttackType:    AttackNormal,
	})},
	{Cost: 2, Unit: MustUnitTemplate(UnitTemplate{
		Kind:          UnitKindHealer,
		MovePattern:   forward(1),
		AttackPattern: []Position{Pos(-1, 0), Pos(1, 0), Pos(0, 1), Pos(0, -1)},
		MaxHealth:     1,
		Damage:        1,
		AttackType:    AttackHeal,
		Capabilities:  CapHeal,
	})},
	{Cost: 2, Unit: MustUnitTemplate(UnitTemplate{
		Kind:          UnitKindThief,
		MovePattern:   forward(2),
		AttackPattern: []Position{Pos(0, 1), Pos(0, 2)},
		MaxHealth:     2,
		Damage:        0,
		AttackType:    AttackSteal,
		Capabilities:  CapPassthrough | CapThief,
	})},
	{Cost: 3, Unit: MustUnitTemplate(UnitTemplate{
		Kind:        UnitKindMage,
		MovePattern: forward(1),
		AttackPattern: []Position{
			Pos(1, 2), Pos(0, 2), Pos(-1, 2),
			Pos(1, 3), Pos(0, 3), Pos(-1, 3),
		},
		MaxHealth:  1,
		Damage:     1,
		AttackType: AttackNormal,
	})},
	{Cost: 3, Unit: MustUnitTemplate(UnitTemplate{
		Kind:          UnitKindKnight,
		MovePattern:   forward(3),
		AttackPattern: []Position{Pos(0, 1), Pos(0, 2)},
		MaxHealth:     2,
		Damage:        2,
		AttackType:    AttackNormal,
		Capabilities:  CapPush,
	})},
}

// CardTypes returns the full catalog
func CardTypes() []CardType {
	out := make([]CardType, len(cardTypes))
	copy(out, cardTypes)
	return out
}

// LookupCardType returns the catalog entry for a kind
func LookupCardType(kind UnitKind) (CardType, error) {
	for _, ct := range cardTypes {
		if ct.Unit.Kind == kind {
			return ct, nil
		}
	}
	return CardType{}, errors.InvalidArgumentf("unknown unit kind %q", kind)
}

// GenerateDeck picks archetypes distinct kinds at random and fills a deck of
// size cards drawn uniformly from them
func GenerateDeck(r dice.Roller, archetypes, size int) ([]UnitKind, error) {
	if archetypes <= 0 || archetypes > len(cardTypes) {
		return nil, errors.InvalidArgumentf("archetypes must be between 1 and %d", len(cardTypes))
	}
	if size <= 0 {
		return nil, errors.InvalidArgument("deck size must be positive")
	}

	kinds := make([]UnitKind, len(cardTypes))
	for i, ct := range cardTypes {
		kinds[i] = ct.Unit.Kind
	}
	if err := random.Shuffle(r, kinds); err != nil {
		return nil, err
	}
	kinds = kinds[:archetypes]

	deck := make([]UnitKind, size)
	for i := range deck {
		idx, err := random.Index(r, len(kinds))
		if err != nil {
			return nil, err
		}
		deck[i] = kinds[idx]
	}
	return deck, nil
}
