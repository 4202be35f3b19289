// Package main is the entry point for the battle server
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-battle/cmd/server/client"
)

var rootCmd = &cobra.Command{
	Use:   "rpg-battle",
	Short: "Turn-based grid battle server",
	Long: `rpg-battle resolves turn-based battles between two factions on a 7x6 grid
and serves them over gRPC, with a WebSocket event stream for browsers.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(client.ClientCmd)
}
