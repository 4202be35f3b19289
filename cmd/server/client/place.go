package client

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-battle/internal/entities/battle"
	battlev1alpha1 "github.com/KirkDiggler/rpg-battle/internal/handlers/battle/v1alpha1"
)

var (
	placeCardID int
	placeX      int
)

var placeCmd = &cobra.Command{
	Use:   "place",
	Short: "Play a card from your hand onto your spawn row",
	RunE:  runPlace,
}

func init() {
	placeCmd.Flags().StringVar(&battleID, "battle-id", "", "Battle ID (required)")
	placeCmd.Flags().IntVar(&placeCardID, "card-id", 0, "Card ID from your hand (required)")
	placeCmd.Flags().IntVar(&placeX, "x", 0, "column to place the unit in")
	_ = placeCmd.MarkFlagRequired("battle-id") // nolint:errcheck // safe to ignore in init
	_ = placeCmd.MarkFlagRequired("card-id")   // nolint:errcheck // safe to ignore in init
}

func runPlace(cmd *cobra.Command, _ []string) error {
	client, cleanup, err := createBattleClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := requestContext(cmd)
	defer cancel()

	resp, err := client.PlaceUnit(ctx, &battlev1alpha1.PlaceUnitRequest{
		BattleID: battleID,
		CardID:   placeCardID,
		X:        placeX,
		Y:        battle.FactionPlayer.SpawnRow(),
	})
	if err != nil {
		return fmt.Errorf("failed to place unit: %w", err)
	}

	out := cmd.OutOrStdout()
	if resp.Rejected {
		fmt.Fprintf(out, "Rejected (%s): %s\n\n", resp.Reason, resp.Message)
	} else if resp.Unit != nil {
		fmt.Fprintf(out, "Placed %s (unit %d) at %d,%d\n\n",
			resp.Unit.Kind, resp.Unit.ID, resp.Unit.Position.X, resp.Unit.Position.Y)
	}
	printBattle(out, resp.Battle)

	return nil
}
