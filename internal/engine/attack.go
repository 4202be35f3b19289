package engine

import (
	"fmt"

	"github.com/KirkDiggler/rpg-battle/internal/entities/battle"
)

// StealAmount is the energy credit one steal earns the thief's faction
const StealAmount = 1

// AttackOutcome is what an attack does to its target
type AttackOutcome struct {
	// Health is the defender's health afterwards, zero when killed
	Health int
	// Amount is the damage dealt or the health restored
	Amount  int
	Killed  bool
	Credits int
	Message string
}

// ResolveAttack computes one attack. Normal and push attacks kill when the
// damage reaches the defender's health. Heals are clamped to max health and
// never kill. Steals leave health alone and earn an energy credit.
func ResolveAttack(attacker, defender battle.Unit, t battle.AttackType) AttackOutcome {
	attackerName := attacker.Label()
	defenderName := defender.Label()

	switch t {
	case battle.AttackHeal:
		amount := min(abs(attacker.Damage), defender.MaxHealth-defender.CurrentHealth)
		return AttackOutcome{
			Health:  defender.CurrentHealth + amount,
			Amount:  amount,
			Message: fmt.Sprintf("%s heals %s for %d", attackerName, defenderName, amount),
		}

	case battle.AttackSteal:
		return AttackOutcome{
			Health:  defender.CurrentHealth,
			Credits: StealAmount,
			Message: fmt.Sprintf("%s steals %d energy from %s", attackerName, StealAmount, defenderName),
		}
	}

	verb := "attacks"
	if t == battle.AttackPush {
		verb = "pushes"
	}

	damage := attacker.Damage
	if damage >= defender.CurrentHealth {
		return AttackOutcome{
			Amount:  damage,
			Killed:  true,
			Message: fmt.Sprintf("%s %s and killed %s", attackerName, verb, defenderName),
		}
	}

	return AttackOutcome{
		Health:  defender.CurrentHealth - damage,
		Amount:  damage,
		Message: fmt.Sprintf("%s %s %s for %d", attackerName, verb, defenderName, damage),
	}
}

// EdgeOutcome is what an attack past the opponent's back row does to the
// opponent's health pool
type EdgeOutcome struct {
	Health   int
	Amount   int
	Credits  int
	Defeated bool
	Message  string
}

// ResolveEdgeAttack computes an attack that landed past the opponent's back
// row. It hits the opposing faction's health pool directly. Steals take
// energy instead of health. Heal units never call this.
func ResolveEdgeAttack(attacker battle.Unit, health int) EdgeOutcome {
	target := "the enemy"
	if attacker.Faction == battle.FactionEnemy {
		target = "you"
	}

	if attacker.AttackType == battle.AttackSteal {
		return EdgeOutcome{
			Health:  health,
			Credits: StealAmount,
			Message: fmt.Sprintf("%s steals %d energy from %s", attacker.Label(), StealAmount, target),
		}
	}

	left := health - attacker.Damage
	out := EdgeOutcome{
		Health:   left,
		Amount:   attacker.Damage,
		Defeated: left <= 0,
		Message:  fmt.Sprintf("%s hits %s for %d", attacker.Label(), target, attacker.Damage),
	}
	if out.Health < 0 {
		out.Health = 0
	}
	return out
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
