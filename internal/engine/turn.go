package engine

import (
	"context"
	"fmt"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/rpg-battle/internal/entities/battle"
)

var phaseOrder = []battle.Phase{
	battle.PhaseEnemyDraw,
	battle.PhaseEnemyPlace,
	battle.PhaseEnemyAct,
	battle.PhasePlayerDraw,
	battle.PhasePlayerPlace,
	battle.PhasePlayerAct,
}

// phaseStream numbers the random stream of a phase in a round. Zero is
// reserved for battle setup.
func phaseStream(round int, phase battle.Phase) uint64 {
	idx := len(phaseOrder)
	for i, p := range phaseOrder {
		if p == phase {
			idx = i
			break
		}
	}
	return uint64(round)<<4 | uint64(idx+1)
}

// turn is one reducer step. It owns a clone of the state it was given.
type turn struct {
	e      *engine
	state  *battle.State
	roller dice.Roller
}

func (e *engine) newTurn(state *battle.State) *turn {
	return &turn{e: e, state: state.Clone()}
}

func (t *turn) rng() dice.Roller {
	if t.roller == nil {
		t.roller = t.e.rollers(t.state.Seed, phaseStream(t.state.Round, t.state.Phase))
	}
	return t.roller
}

func (t *turn) pause(ctx context.Context) error {
	return t.e.pacer.Pause(ctx)
}

func (t *turn) log(message string, unitID, affectedID int) {
	entry := battle.LogEntry{
		Seq:            len(t.state.Log) + 1,
		Round:          t.state.Round,
		Phase:          t.state.Phase,
		Message:        message,
		UnitID:         unitID,
		AffectedUnitID: affectedID,
		At:             t.e.clock.Now(),
	}
	t.state.Log = append(t.state.Log, entry)
	t.e.observer.OnLog(t.state.ID, entry)
}

func (t *turn) hint(h battle.AttackHint) {
	h.At = t.e.clock.Now()
	h.Until = h.At.Add(t.e.hintDuration)
	t.e.observer.OnHint(t.state.ID, h)
}

func (t *turn) snapshot() {
	t.e.observer.OnSnapshot(t.state.Clone())
}

func (t *turn) reject(reason RejectReason, message string) *PlaceUnitOutput {
	t.log(message, 0, 0)
	t.snapshot()
	return &PlaceUnitOutput{
		State:    t.state,
		Rejected: true,
		Reason:   reason,
		Message:  message,
	}
}

// draw deals a faction a new hand and refills its energy for the place
// phase that follows. The enemy's draw opens a round.
func (t *turn) draw(f battle.Faction, next battle.Phase) error {
	if f == battle.FactionEnemy {
		t.state.Round++
		t.log(fmt.Sprintf("Round %d", t.state.Round), 0, 0)
	}

	fs := t.state.Faction(f)
	piles, err := Draw(fs.Piles, t.rng())
	if err != nil {
		return err
	}
	fs.Piles = piles
	fs.Refill()

	t.state.Phase = next
	t.snapshot()
	return nil
}

// placeEnemy plans and applies the enemy's spawns. An interrupted phase
// stays in place; running it again plans with what is left of the hand and
// the energy.
func (t *turn) placeEnemy(ctx context.Context) error {
	fs := &t.state.Enemy
	row := battle.FactionEnemy.SpawnRow()

	spawns, err := PlaceUnits(
		fs.Piles.Hand,
		fs.Energy,
		row,
		occupiedColumns(t.state, row),
		t.rng(),
		t.state.Rules.Placement,
	)
	if err != nil {
		return err
	}

	for _, sp := range spawns {
		t.spawn(battle.FactionEnemy, sp.Card, sp.Position)
		t.state.MustBeConsistent()
		if err := t.pause(ctx); err != nil {
			return err
		}
	}

	t.state.Phase = battle.PhaseEnemyAct
	t.state.Cursor = battle.ActCursor{}
	t.snapshot()
	return nil
}

// spawn plays a card onto the board at full health
func (t *turn) spawn(f battle.Faction, card battle.BattleCard, pos battle.Position) battle.Unit {
	fs := t.state.Faction(f)
	fs.Piles.Play(card.ID)
	fs.Energy -= card.Cost

	unit := battle.Unit{
		UnitTemplate:  card.Unit,
		ID:            t.state.NextUnitID,
		CurrentHealth: card.Unit.MaxHealth,
		Position:      pos,
		Faction:       f,
	}
	t.state.NextUnitID++
	fs.Units = append(fs.Units, unit)

	t.log(fmt.Sprintf("%s enters at %s", unit.Label(), pos), unit.ID, 0)
	t.snapshot()
	return unit
}

// act runs a faction's act phase: every unit in ascending id order moves
// through its pattern, then attacks. The cursor records progress so an
// interrupted phase picks up after the last applied step.
func (t *turn) act(ctx context.Context, f battle.Faction, next battle.Phase) error {
	for {
		id := t.nextActor(f)
		if id == 0 {
			break
		}
		if err := t.actUnit(ctx, id); err != nil {
			return err
		}
		if t.state.Ended() {
			return nil
		}
		t.state.Cursor = battle.ActCursor{LastActed: id}
	}

	t.state.Phase = next
	t.state.Cursor = battle.ActCursor{}
	t.snapshot()
	return nil
}

// nextActor is the lowest unit id above the cursor, zero when none is left
func (t *turn) nextActor(f battle.Faction) int {
	next := 0
	for _, u := range t.state.Faction(f).Units {
		if u.ID > t.state.Cursor.LastActed && (next == 0 || u.ID < next) {
			next = u.ID
		}
	}
	return next
}

func (t *turn) actUnit(ctx context.Context, id int) error {
	stage, start := battle.StageMove, 0
	if c := t.state.Cursor; c.UnitID == id {
		stage, start = c.Stage, c.Step
	}
	last := t.state.Cursor.LastActed

	if stage == battle.StageMove {
		for step := start; ; step++ {
			u := t.state.Unit(id)
			if u == nil {
				return nil
			}
			if step >= len(u.MovePattern) {
				break
			}

			t.state.Cursor = battle.ActCursor{LastActed: last, UnitID: id, Stage: battle.StageMove, Step: step}
			moved, err := t.moveStep(ctx, id, step)
			if err != nil {
				t.state.Cursor.Step = step + 1
				return err
			}
			if !moved {
				break
			}
		}
		start = 0
	}

	for j := start; ; j++ {
		u := t.state.Unit(id)
		if u == nil || j >= len(u.AttackPattern) {
			return nil
		}

		t.state.Cursor = battle.ActCursor{LastActed: last, UnitID: id, Stage: battle.StageAttack, Step: j}
		if err := t.attackOffset(ctx, id, j); err != nil {
			t.state.Cursor.Step = j + 1
			return err
		}
		if t.state.Ended() {
			return nil
		}
	}
}

// moveStep resolves and applies one step of a unit's move pattern. It
// reports false when the step produced nothing, which ends the unit's
// movement for the turn.
func (t *turn) moveStep(ctx context.Context, id, step int) (bool, error) {
	u := t.state.Unit(id)
	own := t.state.Faction(u.Faction)
	other := t.state.Faction(u.Faction.Opponent())

	dir := battle.Orient(u.MovePattern[step], u.Faction)
	rules := MoveRules{Map: t.state.Map, TerrainBlocking: t.state.Rules.TerrainBlocking}
	effects := ResolveMove(rules, *u, u.Position.Add(dir), dir, own.Units, other.Units, false)
	if len(effects) == 0 {
		return false, nil
	}

	for _, eff := range effects {
		t.apply(eff)
		if err := t.pause(ctx); err != nil {
			return true, err
		}
	}
	return true, nil
}

func (t *turn) apply(eff Effect) {
	switch e := eff.(type) {
	case MoveEffect:
		u := t.state.Unit(e.UnitID)
		if u == nil {
			return
		}
		u.Position = e.To
		t.log(fmt.Sprintf("%s moves to %s", u.Label(), e.To), u.ID, 0)
		t.snapshot()
	case AttackEffect:
		attacker := t.state.Unit(e.AttackerID)
		defender := t.state.Unit(e.DefenderID)
		if attacker == nil || defender == nil {
			return
		}
		t.attack(*attacker, *defender, e.Type)
	default:
		panic(fmt.Sprintf("unknown effect %T", eff))
	}
	t.state.MustBeConsistent()
}

func (t *turn) attack(attacker, defender battle.Unit, typ battle.AttackType) {
	out := ResolveAttack(attacker, defender, typ)

	target := t.state.Faction(defender.Faction)
	if out.Killed {
		target.RemoveUnit(defender.ID)
	} else if d := target.Unit(defender.ID); d != nil {
		d.CurrentHealth = out.Health
	}
	t.state.Faction(attacker.Faction).StealCredits += out.Credits

	t.log(out.Message, attacker.ID, defender.ID)
	t.hint(battle.AttackHint{
		Position:   defender.Position,
		AttackerID: attacker.ID,
		DefenderID: defender.ID,
		Type:       typ,
		Amount:     out.Amount,
		Killed:     out.Killed,
	})
	t.snapshot()
}

// attackOffset resolves one offset of a unit's attack pattern. Heal units
// target allies, everyone else targets opponents. Offsets past the
// opponent's back row hit the opponent's health pool; offsets off the
// sides or behind the unit's own row do nothing.
func (t *turn) attackOffset(ctx context.Context, id, j int) error {
	u := t.state.Unit(id)
	target := battle.Offset(u.Position, u.AttackPattern[j], u.Faction)
	heals := u.AttackType == battle.AttackHeal

	if !battle.InBounds(target) {
		if heals || target.X < 0 || target.X >= battle.GridWidth || !battle.BeyondOpponentEdge(target, u.Faction) {
			return nil
		}
		t.edgeAttack(*u, target)
		if t.state.Ended() {
			return nil
		}
		return t.pause(ctx)
	}

	side := t.state.Faction(u.Faction.Opponent())
	if heals {
		side = t.state.Faction(u.Faction)
	}

	var defender *battle.Unit
	for i := range side.Units {
		if side.Units[i].Position.Equal(target) {
			defender = &side.Units[i]
			break
		}
	}
	if defender == nil {
		return nil
	}

	t.attack(*u, *defender, u.AttackType)
	t.state.MustBeConsistent()
	return t.pause(ctx)
}

func (t *turn) edgeAttack(attacker battle.Unit, target battle.Position) {
	opp := t.state.Faction(attacker.Faction.Opponent())
	out := ResolveEdgeAttack(attacker, opp.Health)

	opp.Health = out.Health
	t.state.Faction(attacker.Faction).StealCredits += out.Credits

	t.log(out.Message, attacker.ID, 0)
	t.hint(battle.AttackHint{
		Position:   target,
		AttackerID: attacker.ID,
		Type:       attacker.AttackType,
		Amount:     out.Amount,
		Edge:       true,
	})

	if out.Defeated {
		t.end(attacker.Faction)
	}
	t.snapshot()
}

func (t *turn) end(winner battle.Faction) {
	if winner == battle.FactionPlayer {
		t.log("The enemy has been defeated", 0, 0)
		t.state.Outcome = battle.OutcomeWon
	} else {
		t.log("Your forces have been defeated", 0, 0)
		t.state.Outcome = battle.OutcomeLost
	}
	t.state.Phase = battle.PhaseEnded
	t.state.Cursor = battle.ActCursor{}
}
