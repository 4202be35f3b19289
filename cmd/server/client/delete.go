package client

import (
	"fmt"

	"github.com/spf13/cobra"

	battlev1alpha1 "github.com/KirkDiggler/rpg-battle/internal/handlers/battle/v1alpha1"
)

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete a battle",
	RunE:  runDelete,
}

func init() {
	deleteCmd.Flags().StringVar(&battleID, "battle-id", "", "Battle ID (required)")
	_ = deleteCmd.MarkFlagRequired("battle-id") // nolint:errcheck // safe to ignore in init
}

func runDelete(cmd *cobra.Command, _ []string) error {
	client, cleanup, err := createBattleClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := requestContext(cmd)
	defer cancel()

	if _, err := client.DeleteBattle(ctx, &battlev1alpha1.DeleteBattleRequest{BattleID: battleID}); err != nil {
		return fmt.Errorf("failed to delete battle: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Deleted battle %s\n", battleID)
	return nil
}
