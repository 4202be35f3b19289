package client

import (
	"fmt"
	"io"
	"strings"

	"github.com/KirkDiggler/rpg-battle/internal/entities/battle"
)

var terrainGlyphs = map[battle.Terrain]string{
	battle.TerrainPlain:    " . ",
	battle.TerrainForest:   " ^ ",
	battle.TerrainMountain: " M ",
	battle.TerrainWater:    " ~ ",
}

// renderBoard draws the grid with the enemy's spawn row on top. Player units
// are upper case, enemy units lower case.
func renderBoard(w io.Writer, state *battle.State) {
	fmt.Fprintf(w, "    %s\n", columnHeader())
	for y := 0; y < battle.GridHeight; y++ {
		var row strings.Builder
		for x := 0; x < battle.GridWidth; x++ {
			p := battle.Pos(x, y)
			if u := state.UnitAt(p); u != nil {
				row.WriteString(unitGlyph(u))
				continue
			}
			row.WriteString(terrainGlyphs[state.Map.TerrainAt(p)])
		}
		fmt.Fprintf(w, " %d |%s|\n", y, row.String())
	}
}

func columnHeader() string {
	var b strings.Builder
	for x := 0; x < battle.GridWidth; x++ {
		fmt.Fprintf(&b, " %d ", x)
	}
	return b.String()
}

func unitGlyph(u *battle.Unit) string {
	letter := u.Kind.DisplayName()[:1]
	if u.Faction == battle.FactionPlayer {
		letter = strings.ToUpper(letter)
	} else {
		letter = strings.ToLower(letter)
	}
	return fmt.Sprintf("%s%-2d", letter, u.CurrentHealth)
}

// printBattle writes a summary of the battle followed by the board
func printBattle(w io.Writer, state *battle.State) {
	fmt.Fprintf(w, "Battle %s (seed %d)\n", state.ID, state.Seed)
	fmt.Fprintf(w, "Round %d, phase %s", state.Round, state.Phase)
	if state.Outcome != battle.OutcomeNone {
		fmt.Fprintf(w, ", outcome %s", state.Outcome)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "You:   health %d/%d, energy %d/%d, deck %d, discard %d\n",
		state.Player.Health, state.Player.MaxHealth, state.Player.Energy, state.Player.MaxEnergy,
		len(state.Player.Piles.Deck), len(state.Player.Piles.Discard))
	fmt.Fprintf(w, "Enemy: health %d/%d, units %d\n\n",
		state.Enemy.Health, state.Enemy.MaxHealth, len(state.Enemy.Units))

	renderBoard(w, state)

	if len(state.Player.Piles.Hand) > 0 {
		fmt.Fprintf(w, "\nHand:\n")
		for _, c := range state.Player.Piles.Hand {
			fmt.Fprintf(w, "  - card %d: %s (cost %d)\n", c.ID, c.Unit.Kind, c.Cost)
		}
	}
}

// printLogTail writes the last n log entries
func printLogTail(w io.Writer, entries []battle.LogEntry, n int) {
	if n <= 0 || len(entries) == 0 {
		return
	}
	if n < len(entries) {
		entries = entries[len(entries)-n:]
	}
	fmt.Fprintf(w, "\nLog:\n")
	for _, e := range entries {
		fmt.Fprintf(w, "  [%d] %s\n", e.Seq, e.Message)
	}
}
