// Package battle holds the battle data model: the grid, units, cards, piles,
// faction resources and the State aggregate the engine reduces over.
package battle

import "fmt"

// Grid dimensions. Every battle is fought on the same board.
const (
	GridWidth  = 7
	GridHeight = 6
)

// Faction identifies a side of the battle
type Faction string

// Factions
const (
	FactionPlayer Faction = "player"
	FactionEnemy  Faction = "enemy"
)

// Opponent returns the other faction
func (f Faction) Opponent() Faction {
	if f == FactionPlayer {
		return FactionEnemy
	}
	return FactionPlayer
}

// SpawnRow is the row a faction places new units on
func (f Faction) SpawnRow() int {
	if f == FactionEnemy {
		return 0
	}
	return GridHeight - 1
}

// Position is a tile coordinate, or a step/offset vector
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Pos is shorthand for Position{X: x, Y: y}
func Pos(x, y int) Position {
	return Position{X: x, Y: y}
}

// Equal reports whether two positions are the same tile
func (p Position) Equal(o Position) bool {
	return p.X == o.X && p.Y == o.Y
}

// Add returns the component-wise sum
func (p Position) Add(o Position) Position {
	return Position{X: p.X + o.X, Y: p.Y + o.Y}
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// InBounds reports whether p lies on the grid
func InBounds(p Position) bool {
	return p.X >= 0 && p.X < GridWidth && p.Y >= 0 && p.Y < GridHeight
}

// Orient turns a faction-relative vector into a board vector. Pattern "+y"
// always points at the opponent: enemies advance toward y=5, the player
// toward y=0. x is never mirrored.
func Orient(step Position, f Faction) Position {
	if f == FactionPlayer {
		return Position{X: step.X, Y: -step.Y}
	}
	return step
}

// Offset applies a faction-relative step to base
func Offset(base, step Position, f Faction) Position {
	return base.Add(Orient(step, f))
}

// BeyondOpponentEdge reports whether p lies past the opponent's back row,
// where attacks land on the opponent's health pool instead of a tile.
func BeyondOpponentEdge(p Position, f Faction) bool {
	if f == FactionEnemy {
		return p.Y >= GridHeight
	}
	return p.Y < 0
}
