package client

import (
	"fmt"

	"github.com/spf13/cobra"

	battlev1alpha1 "github.com/KirkDiggler/rpg-battle/internal/handlers/battle/v1alpha1"
)

var endTurnCmd = &cobra.Command{
	Use:   "end-turn",
	Short: "End your turn and let the battle play out to your next placement",
	Long: `End the player's turn. The server resolves the player's actions and the
enemy's whole turn before answering, so this can take a while on a paced server.`,
	RunE: runEndTurn,
}

func init() {
	endTurnCmd.Flags().StringVar(&battleID, "battle-id", "", "Battle ID (required)")
	endTurnCmd.Flags().IntVar(&logLines, "log", 20, "number of log entries to show")
	_ = endTurnCmd.MarkFlagRequired("battle-id") // nolint:errcheck // safe to ignore in init
}

func runEndTurn(cmd *cobra.Command, _ []string) error {
	client, cleanup, err := createBattleClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := requestContext(cmd)
	defer cancel()

	resp, err := client.EndTurn(ctx, &battlev1alpha1.EndTurnRequest{BattleID: battleID})
	if err != nil {
		return fmt.Errorf("failed to end turn: %w", err)
	}

	out := cmd.OutOrStdout()
	printBattle(out, resp.Battle)
	printLogTail(out, resp.Battle.Log, logLines)

	return nil
}
