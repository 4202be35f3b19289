package client

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-battle/internal/entities/battle"
	battlev1alpha1 "github.com/KirkDiggler/rpg-battle/internal/handlers/battle/v1alpha1"
)

var footprintUnitID int

var footprintCmd = &cobra.Command{
	Use:   "footprint",
	Short: "Show where a unit would move and attack",
	RunE:  runFootprint,
}

func init() {
	footprintCmd.Flags().StringVar(&battleID, "battle-id", "", "Battle ID (required)")
	footprintCmd.Flags().IntVar(&footprintUnitID, "unit-id", 0, "Unit ID (required)")
	_ = footprintCmd.MarkFlagRequired("battle-id") // nolint:errcheck // safe to ignore in init
	_ = footprintCmd.MarkFlagRequired("unit-id")   // nolint:errcheck // safe to ignore in init
}

func runFootprint(cmd *cobra.Command, _ []string) error {
	client, cleanup, err := createBattleClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := requestContext(cmd)
	defer cancel()

	resp, err := client.GetFootprint(ctx, &battlev1alpha1.GetFootprintRequest{
		BattleID: battleID,
		UnitID:   footprintUnitID,
	})
	if err != nil {
		return fmt.Errorf("failed to get footprint: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Unit %d\n", resp.Footprint.UnitID)
	fmt.Fprintf(out, "  moves:   %s\n", positions(resp.Footprint.Moves))
	fmt.Fprintf(out, "  attacks: %s\n", positions(resp.Footprint.Attacks))

	return nil
}

func positions(ps []battle.Position) string {
	if len(ps) == 0 {
		return "none"
	}
	out := ""
	for i, p := range ps {
		if i > 0 {
			out += " "
		}
		out += fmt.Sprintf("%d,%d", p.X, p.Y)
	}
	return out
}
