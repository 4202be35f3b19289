package battle

import (
	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/rpg-battle/internal/pkg/random"
)

// Terrain is the ground type of a tile
type Terrain string

// Terrain types
const (
	TerrainPlain    Terrain = "plain"
	TerrainForest   Terrain = "forest"
	TerrainMountain Terrain = "mountain"
	TerrainWater    Terrain = "water"
)

// BlocksMovement reports whether the terrain stops units when terrain
// blocking is enabled for the battle
func (t Terrain) BlocksMovement() bool {
	return t == TerrainMountain || t == TerrainWater
}

// TerrainTile places a terrain type on a tile
type TerrainTile struct {
	Position Position `json:"position"`
	Terrain  Terrain  `json:"terrain"`
}

// BattleMap lists the non-plain tiles of the board. Tiles not listed are plain.
type BattleMap struct {
	Tiles []TerrainTile `json:"tiles"`
}

// TerrainAt returns the terrain of a tile
func (m BattleMap) TerrainAt(p Position) Terrain {
	for _, t := range m.Tiles {
		if t.Position.Equal(p) {
			return t.Terrain
		}
	}
	return TerrainPlain
}

// Clone returns a copy that shares no slices with m
func (m BattleMap) Clone() BattleMap {
	tiles := make([]TerrainTile, len(m.Tiles))
	copy(tiles, m.Tiles)
	return BattleMap{Tiles: tiles}
}

// Map generation bounds, inclusive
const (
	minTerrainTiles = 8
	maxTerrainTiles = 15
)

var generatedTerrain = []Terrain{TerrainWater, TerrainMountain, TerrainForest}

// GenerateMap scatters 8 to 15 forest, mountain and water tiles on distinct
// squares of the board
func GenerateMap(r dice.Roller) (BattleMap, error) {
	count, err := r.Roll(maxTerrainTiles - minTerrainTiles + 1)
	if err != nil {
		return BattleMap{}, err
	}
	count += minTerrainTiles - 1

	squares := make([]Position, 0, GridWidth*GridHeight)
	for x := 0; x < GridWidth; x++ {
		for y := 0; y < GridHeight; y++ {
			squares = append(squares, Pos(x, y))
		}
	}
	if err := random.Shuffle(r, squares); err != nil {
		return BattleMap{}, err
	}

	tiles := make([]TerrainTile, 0, count)
	for _, sq := range squares[:count] {
		idx, err := random.Index(r, len(generatedTerrain))
		if err != nil {
			return BattleMap{}, err
		}
		tiles = append(tiles, TerrainTile{Position: sq, Terrain: generatedTerrain[idx]})
	}
	return BattleMap{Tiles: tiles}, nil
}
