package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KirkDiggler/rpg-battle/internal/engine"
	"github.com/KirkDiggler/rpg-battle/internal/entities/battle"
)

func TestResolveAttack(t *testing.T) {
	t.Run("damage equal to health kills", func(t *testing.T) {
		attacker := unitOf(t, 1, battle.UnitKindFootman, battle.FactionPlayer, 0, 0)
		attacker.Damage = 5
		defender := unitOf(t, 2, battle.UnitKindDefender, battle.FactionEnemy, 0, 1)
		defender.MaxHealth = 5
		defender.CurrentHealth = 5

		out := engine.ResolveAttack(attacker, defender, battle.AttackNormal)

		assert.True(t, out.Killed)
		assert.Zero(t, out.Health)
		assert.Equal(t, "Your Footman attacks and killed Enemy Defender", out.Message)
	})

	t.Run("damage below health wounds", func(t *testing.T) {
		attacker := unitOf(t, 1, battle.UnitKindFootman, battle.FactionEnemy, 0, 0)
		defender := unitOf(t, 2, battle.UnitKindDefender, battle.FactionPlayer, 0, 1)

		out := engine.ResolveAttack(attacker, defender, battle.AttackNormal)

		assert.False(t, out.Killed)
		assert.Equal(t, 3, out.Health)
		assert.Equal(t, 1, out.Amount)
		assert.Equal(t, "Enemy Footman attacks Your Defender for 1", out.Message)
	})

	t.Run("push attacks hurt like normal ones", func(t *testing.T) {
		attacker := unitOf(t, 1, battle.UnitKindFootman, battle.FactionEnemy, 0, 0)
		defender := unitOf(t, 2, battle.UnitKindCatapult, battle.FactionEnemy, 0, 1)

		out := engine.ResolveAttack(attacker, defender, battle.AttackPush)

		assert.True(t, out.Killed)
		assert.Equal(t, "Enemy Footman pushes and killed Enemy Catapult", out.Message)
	})

	t.Run("steal earns a credit", func(t *testing.T) {
		thief := unitOf(t, 1, battle.UnitKindThief, battle.FactionPlayer, 0, 0)
		defender := unitOf(t, 2, battle.UnitKindFootman, battle.FactionEnemy, 0, 1)

		out := engine.ResolveAttack(thief, defender, battle.AttackSteal)

		assert.False(t, out.Killed)
		assert.Equal(t, defender.CurrentHealth, out.Health)
		assert.Equal(t, engine.StealAmount, out.Credits)
	})
}

func TestHealNeverOverflowsOrKills(t *testing.T) {
	healer := unitOf(t, 1, battle.UnitKindHealer, battle.FactionPlayer, 0, 0)

	for _, damage := range []int{0, 1, 2, 5, -3} {
		for maxHealth := 1; maxHealth <= 5; maxHealth++ {
			for current := 1; current <= maxHealth; current++ {
				healer.Damage = damage
				defender := unitOf(t, 2, battle.UnitKindFootman, battle.FactionPlayer, 0, 1)
				defender.MaxHealth = maxHealth
				defender.CurrentHealth = current

				out := engine.ResolveAttack(healer, defender, battle.AttackHeal)

				assert.False(t, out.Killed)
				assert.LessOrEqual(t, out.Health, maxHealth)
				assert.GreaterOrEqual(t, out.Health, current)
			}
		}
	}
}

func TestResolveEdgeAttack(t *testing.T) {
	catapult := unitOf(t, 1, battle.UnitKindCatapult, battle.FactionPlayer, 0, 0)

	out := engine.ResolveEdgeAttack(catapult, 5)
	assert.Equal(t, 3, out.Health)
	assert.False(t, out.Defeated)
	assert.Equal(t, "Your Catapult hits the enemy for 2", out.Message)

	out = engine.ResolveEdgeAttack(catapult, 2)
	assert.Zero(t, out.Health)
	assert.True(t, out.Defeated, "reaching exactly zero ends the battle")

	out = engine.ResolveEdgeAttack(catapult, 1)
	assert.Zero(t, out.Health)
	assert.True(t, out.Defeated)

	footman := unitOf(t, 2, battle.UnitKindFootman, battle.FactionEnemy, 0, 5)
	out = engine.ResolveEdgeAttack(footman, 10)
	assert.Equal(t, "Enemy Footman hits you for 1", out.Message)

	thief := unitOf(t, 3, battle.UnitKindThief, battle.FactionEnemy, 0, 5)
	out = engine.ResolveEdgeAttack(thief, 10)
	assert.Equal(t, 10, out.Health)
	assert.Equal(t, engine.StealAmount, out.Credits)
}
