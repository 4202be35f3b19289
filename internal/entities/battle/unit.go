package battle

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/KirkDiggler/rpg-toolkit/core"

	"github.com/KirkDiggler/rpg-battle/internal/errors"
)

// UnitKind is the archetype of a unit
type UnitKind string

// Unit archetypes
const (
	UnitKindArcherRight UnitKind = "archer_right"
	UnitKindArcherLeft  UnitKind = "archer_left"
	UnitKindBerserk     UnitKind = "berserk"
	UnitKindCatapult    UnitKind = "catapult"
	UnitKindFootman     UnitKind = "footman"
	UnitKindHealer      UnitKind = "healer"
	UnitKindMage        UnitKind = "mage"
	UnitKindKnight      UnitKind = "knight"
	UnitKindThief       UnitKind = "thief"
	UnitKindDefender    UnitKind = "defender"
)

// DisplayName is the name used in log messages
func (k UnitKind) DisplayName() string {
	switch k {
	case UnitKindArcherRight:
		return "ArcherRight"
	case UnitKindArcherLeft:
		return "ArcherLeft"
	}
	s := string(k)
	if s == "" {
		return "Unit"
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// AttackType decides what an attack does to its target
type AttackType string

// Attack types
const (
	AttackNormal AttackType = "normal"
	AttackHeal   AttackType = "heal"
	AttackSteal  AttackType = "steal"
	AttackPush   AttackType = "push"
)

// Capability is a set of unit capability flags
type Capability uint8

// Capabilities
const (
	CapPush Capability = 1 << iota
	CapSturdy
	CapPassthrough
	CapHeal
	CapThief

	capAll = CapPush | CapSturdy | CapPassthrough | CapHeal | CapThief
)

var capabilityNames = []struct {
	cap  Capability
	name string
}{
	{CapPush, "push"},
	{CapSturdy, "sturdy"},
	{CapPassthrough, "passthrough"},
	{CapHeal, "heal"},
	{CapThief, "thief"},
}

// Has reports whether every flag in c is set
func (s Capability) Has(c Capability) bool {
	return s&c == c
}

// Names lists the set flags in declaration order
func (s Capability) Names() []string {
	names := []string{}
	for _, cn := range capabilityNames {
		if s.Has(cn.cap) {
			names = append(names, cn.name)
		}
	}
	return names
}

func (s Capability) String() string {
	return strings.Join(s.Names(), "|")
}

// MarshalJSON encodes the set as a list of names
func (s Capability) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Names())
}

// UnmarshalJSON decodes a list of names
func (s *Capability) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	var out Capability
	for _, name := range names {
		c, ok := ParseCapability(name)
		if !ok {
			return errors.InvalidArgumentf("unknown capability %q", name)
		}
		out |= c
	}
	*s = out
	return nil
}

// ParseCapability looks up a capability by name
func ParseCapability(name string) (Capability, bool) {
	for _, cn := range capabilityNames {
		if cn.name == name {
			return cn.cap, true
		}
	}
	return 0, false
}

// UnitTemplate is the immutable description of a unit archetype. Pattern
// slices are shared between templates, units and clones and must never be
// written to.
type UnitTemplate struct {
	Kind          UnitKind   `json:"kind"`
	MovePattern   []Position `json:"move_pattern"`
	AttackPattern []Position `json:"attack_pattern"`
	MaxHealth     int        `json:"max_health"`
	Damage        int        `json:"damage"`
	AttackType    AttackType `json:"attack_type"`
	Capabilities  Capability `json:"capabilities"`
}

// NewUnitTemplate validates and returns a template
func NewUnitTemplate(t UnitTemplate) (UnitTemplate, error) {
	vb := errors.NewValidationBuilder()

	if t.Kind == "" {
		vb.RequiredField("Kind")
	}
	if len(t.MovePattern) == 0 {
		vb.RequiredField("MovePattern")
	}
	if t.MaxHealth <= 0 {
		vb.Field("MaxHealth", "must be positive")
	}
	if t.Damage < 0 {
		vb.Field("Damage", "must not be negative")
	}
	switch t.AttackType {
	case AttackNormal, AttackHeal, AttackSteal, AttackPush:
	default:
		vb.Fieldf("AttackType", "unknown attack type %q", t.AttackType)
	}
	if t.Capabilities&^capAll != 0 {
		vb.Field("Capabilities", "contains unknown flags")
	}
	if (t.AttackType == AttackHeal) != t.Capabilities.Has(CapHeal) {
		vb.Field("Capabilities", "heal capability must match heal attack type")
	}
	if (t.AttackType == AttackSteal) != t.Capabilities.Has(CapThief) {
		vb.Field("Capabilities", "thief capability must match steal attack type")
	}

	if err := vb.Build(); err != nil {
		return UnitTemplate{}, errors.Wrapf(err, "invalid unit template %q", t.Kind)
	}
	return t, nil
}

// MustUnitTemplate is NewUnitTemplate for static tables
func MustUnitTemplate(t UnitTemplate) UnitTemplate {
	out, err := NewUnitTemplate(t)
	if err != nil {
		panic(err)
	}
	return out
}

// Unit is a template instance on the board
type Unit struct {
	UnitTemplate
	ID            int      `json:"id"`
	CurrentHealth int      `json:"current_health"`
	Position      Position `json:"position"`
	Faction       Faction  `json:"faction"`
}

var _ core.Entity = (*Unit)(nil)

// GetID returns the unit id as a string
func (u *Unit) GetID() string {
	return strconv.Itoa(u.ID)
}

// GetType returns the unit kind
func (u *Unit) GetType() string {
	return string(u.Kind)
}

// Has reports whether the unit carries a capability
func (u *Unit) Has(c Capability) bool {
	return u.Capabilities.Has(c)
}

// Label is "Your X" or "Enemy X", used in log messages
func (u *Unit) Label() string {
	return factionPossessive(u.Faction) + " " + u.Kind.DisplayName()
}

func factionPossessive(f Faction) string {
	if f == FactionPlayer {
		return "Your"
	}
	return "Enemy"
}
