package client

import (
	"fmt"

	"github.com/spf13/cobra"

	battlev1alpha1 "github.com/KirkDiggler/rpg-battle/internal/handlers/battle/v1alpha1"
)

var (
	battleID string
	logLines int
)

var getCmd = &cobra.Command{
	Use:   "get",
	Short: "Get a battle by ID",
	RunE:  runGet,
}

func init() {
	getCmd.Flags().StringVar(&battleID, "battle-id", "", "Battle ID (required)")
	getCmd.Flags().IntVar(&logLines, "log", 10, "number of log entries to show")
	_ = getCmd.MarkFlagRequired("battle-id") // nolint:errcheck // safe to ignore in init
}

func runGet(cmd *cobra.Command, _ []string) error {
	client, cleanup, err := createBattleClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := requestContext(cmd)
	defer cancel()

	resp, err := client.GetBattle(ctx, &battlev1alpha1.GetBattleRequest{BattleID: battleID})
	if err != nil {
		return fmt.Errorf("failed to get battle: %w", err)
	}

	out := cmd.OutOrStdout()
	printBattle(out, resp.Battle)
	printLogTail(out, resp.Battle.Log, logLines)

	return nil
}
