package client

import (
	"fmt"

	"github.com/spf13/cobra"

	battlev1alpha1 "github.com/KirkDiggler/rpg-battle/internal/handlers/battle/v1alpha1"
)

var (
	startSeed            uint64
	startPlayerDeck      []string
	startEnemyDeck       []string
	startPlayerHealth    int
	startEnemyHealth     int
	startTerrainBlocking bool
	startPlacement       string
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a new battle",
	Long:  `Start a battle and print it at the first player placement. Decks left empty are generated from the seed.`,
	RunE:  runStart,
}

func init() {
	startCmd.Flags().Uint64Var(&startSeed, "seed", 0, "battle seed, picked by the server when unset")
	startCmd.Flags().StringSliceVar(&startPlayerDeck, "player-deck", nil, "player unit kinds")
	startCmd.Flags().StringSliceVar(&startEnemyDeck, "enemy-deck", nil, "enemy unit kinds")
	startCmd.Flags().IntVar(&startPlayerHealth, "player-health", 0, "player faction health")
	startCmd.Flags().IntVar(&startEnemyHealth, "enemy-health", 0, "enemy faction health")
	startCmd.Flags().BoolVar(&startTerrainBlocking, "terrain-blocking", false, "mountains and water block movement")
	startCmd.Flags().StringVar(&startPlacement, "placement", "", "enemy planner policy: skip or stop")
}

func runStart(cmd *cobra.Command, _ []string) error {
	client, cleanup, err := createBattleClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := requestContext(cmd)
	defer cancel()

	req := &battlev1alpha1.StartBattleRequest{
		PlayerDeck:      startPlayerDeck,
		EnemyDeck:       startEnemyDeck,
		PlayerHealth:    startPlayerHealth,
		EnemyHealth:     startEnemyHealth,
		TerrainBlocking: startTerrainBlocking,
		Placement:       startPlacement,
	}
	if cmd.Flags().Changed("seed") {
		req.Seed = &startSeed
	}

	resp, err := client.StartBattle(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to start battle: %w", err)
	}

	out := cmd.OutOrStdout()
	printBattle(out, resp.Battle)
	printLogTail(out, resp.Battle.Log, 10)

	return nil
}
