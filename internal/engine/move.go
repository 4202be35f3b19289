package engine

import (
	"github.com/KirkDiggler/rpg-battle/internal/entities/battle"
)

// Effect is the result of resolving one movement step: a MoveEffect or an
// AttackEffect. Effects are applied in the order they were produced.
type Effect interface {
	effect()
}

// MoveEffect puts a unit on a tile
type MoveEffect struct {
	UnitID int
	To     battle.Position
}

// AttackEffect has one unit attack another
type AttackEffect struct {
	AttackerID int
	DefenderID int
	Type       battle.AttackType
}

func (MoveEffect) effect()   {}
func (AttackEffect) effect() {}

// MoveRules are the board rules a resolution runs under
type MoveRules struct {
	Map             battle.BattleMap
	TerrainBlocking bool
}

func (r MoveRules) open(p battle.Position) bool {
	if !battle.InBounds(p) {
		return false
	}
	return !r.TerrainBlocking || !r.Map.TerrainAt(p).BlocksMovement()
}

// ResolveMove works out what happens when mover tries to step onto dest.
// step is the board vector of the step; pushed units travel along it too.
// friendlies and hostiles are seen from the mover's side. destructive marks
// a unit that is being pushed: running into an ally hurts the ally instead
// of moving.
//
// The returned effects are ordered so that applying them one by one never
// puts two units on a tile. The inputs are not modified.
func ResolveMove(
	rules MoveRules,
	mover battle.Unit,
	dest, step battle.Position,
	friendlies, hostiles []battle.Unit,
	destructive bool,
) []Effect {
	own := unitRefs(friendlies)
	other := unitRefs(hostiles)

	m := findUnit(own, mover.ID)
	if m == nil {
		m = &mover
	}

	res := resolver{rules: rules}
	return res.resolve(m, dest, step, own, other, destructive)
}

type resolver struct {
	rules MoveRules
}

// resolve moves the private copies as it goes, so later checks see the
// positions earlier effects produced
func (r resolver) resolve(
	mover *battle.Unit,
	dest, step battle.Position,
	friends, foes []*battle.Unit,
	destructive bool,
) []Effect {
	friend := unitAt(friends, dest, mover.ID)
	foe := unitAt(foes, dest, mover.ID)

	var pre, post []Effect
	enter := false

	switch {
	case friend != nil && destructive:
		pre = append(pre, AttackEffect{
			AttackerID: mover.ID,
			DefenderID: friend.ID,
			Type:       battle.AttackPush,
		})

	case friend != nil || foe != nil:
		occupant, sameTeam := friend, true
		if occupant == nil {
			occupant, sameTeam = foe, false
		}

		if mover.Has(battle.CapPush) && !occupant.Has(battle.CapSturdy) {
			theirs, enemies := pushedSides(sameTeam, friends, foes)
			pre = append(pre, r.resolve(occupant, dest.Add(step), step, theirs, enemies, true)...)
			enter = !occupant.Position.Equal(dest)
		}

		if mover.Has(battle.CapPassthrough) {
			// a cleared tile is stepped on before carrying on past it
			if enter && r.rules.open(dest) {
				mover.Position = dest
				pre = append(pre, MoveEffect{UnitID: mover.ID, To: dest})
				enter = false
			}
			post = r.resolve(mover, dest.Add(step), step, friends, foes, false)
		}

	default:
		enter = true
	}

	if enter && r.rules.open(dest) {
		mover.Position = dest
		pre = append(pre, MoveEffect{UnitID: mover.ID, To: dest})
	}

	return append(pre, post...)
}

// pushedSides returns the pushed unit's friends and foes given the pusher's.
// An ally keeps the pusher's view of the board; an opponent sees it swapped.
func pushedSides[T any](sameTeam bool, friends, foes T) (T, T) {
	if sameTeam {
		return friends, foes
	}
	return foes, friends
}

func unitRefs(units []battle.Unit) []*battle.Unit {
	out := make([]*battle.Unit, len(units))
	for i := range units {
		u := units[i]
		out[i] = &u
	}
	return out
}

func findUnit(units []*battle.Unit, id int) *battle.Unit {
	for _, u := range units {
		if u.ID == id {
			return u
		}
	}
	return nil
}

func unitAt(units []*battle.Unit, p battle.Position, except int) *battle.Unit {
	for _, u := range units {
		if u.ID != except && u.Position.Equal(p) {
			return u
		}
	}
	return nil
}
