package battle

import "time"

// LogEntry is one line of battle narration. The log only ever grows.
type LogEntry struct {
	Seq            int       `json:"seq"`
	Round          int       `json:"round"`
	Phase          Phase     `json:"phase"`
	Message        string    `json:"message"`
	UnitID         int       `json:"unit_id,omitempty"`
	AffectedUnitID int       `json:"affected_unit_id,omitempty"`
	At             time.Time `json:"at"`
}

// AttackHint marks a tile where an attack just landed. It is advisory: a
// client shows it until Until and dropping it changes nothing in the battle.
type AttackHint struct {
	Position   Position   `json:"position"`
	AttackerID int        `json:"attacker_id"`
	DefenderID int        `json:"defender_id,omitempty"`
	Type       AttackType `json:"type"`
	Amount     int        `json:"amount"`
	Killed     bool       `json:"killed"`
	// Edge is set when the attack hit the opposing faction's health pool
	Edge  bool      `json:"edge,omitempty"`
	At    time.Time `json:"at"`
	Until time.Time `json:"until"`
}

// Footprint is the projected movement and attack tiles of a unit, shown
// when a client selects it
type Footprint struct {
	UnitID  int        `json:"unit_id"`
	Moves   []Position `json:"moves"`
	Attacks []Position `json:"attacks"`
}
