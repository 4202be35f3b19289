package client

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	battlev1alpha1 "github.com/KirkDiggler/rpg-battle/internal/handlers/battle/v1alpha1"
	"github.com/KirkDiggler/rpg-battle/internal/stream"
)

var watchBoards bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow a battle's events as they happen",
	Long:  `Stream a battle's log lines and attack hints until the battle is deleted or the command is interrupted.`,
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&battleID, "battle-id", "", "Battle ID (required)")
	watchCmd.Flags().BoolVar(&watchBoards, "boards", false, "redraw the board on every snapshot")
	_ = watchCmd.MarkFlagRequired("battle-id") // nolint:errcheck // safe to ignore in init
}

func runWatch(cmd *cobra.Command, _ []string) error {
	client, cleanup, err := createBattleClient()
	if err != nil {
		return err
	}
	defer cleanup()

	// no timeout, the stream lives as long as the battle
	watch, err := client.WatchBattle(cmd.Context(), &battlev1alpha1.WatchBattleRequest{BattleID: battleID})
	if err != nil {
		return fmt.Errorf("failed to watch battle: %w", err)
	}

	out := cmd.OutOrStdout()
	first := true
	for {
		ev, err := watch.Recv()
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(out, "Stream closed")
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to receive event: %w", err)
		}
		printEvent(out, ev, first || watchBoards)
		first = false
	}
}

func printEvent(w io.Writer, ev *stream.Event, boards bool) {
	switch ev.Kind {
	case stream.EventSnapshot:
		if boards && ev.Snapshot != nil {
			printBattle(w, ev.Snapshot)
			fmt.Fprintln(w)
		}
	case stream.EventLog:
		if ev.Log != nil {
			fmt.Fprintf(w, "[%d] round %d %s: %s\n", ev.Log.Seq, ev.Log.Round, ev.Log.Phase, ev.Log.Message)
		}
	case stream.EventHint:
		if ev.Hint != nil {
			fmt.Fprintf(w, "  hit %s at %d,%d for %d\n", ev.Hint.Type, ev.Hint.Position.X, ev.Hint.Position.Y, ev.Hint.Amount)
		}
	}
}
