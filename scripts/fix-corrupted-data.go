package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/rpg-battle/internal/entities/battle"
)

const battlePattern = "battle:*"

type corruptedKey struct {
	Key    string
	Reason string
}

func main() {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Fatal("Failed to parse Redis URL:", err)
	}

	client := redis.NewClient(opt)
	ctx := context.Background()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	fmt.Println("Connected to Redis:", redisURL)
	fmt.Println("Scanning for corrupted battles...")

	checked, corrupted, err := findCorrupted(ctx, client, battlePattern)
	if err != nil {
		log.Fatal("Error during scan:", err)
	}

	fmt.Printf("\nChecked %d keys, found %d corrupted entries\n", checked, len(corrupted))

	if len(corrupted) == 0 {
		fmt.Println("No corrupted data found!")
		return
	}

	fmt.Println("\nCorrupted keys:")
	for _, c := range corrupted {
		fmt.Printf("  - %s: %s\n", c.Key, c.Reason)
	}

	fmt.Print("\nDo you want to DELETE these corrupted entries? (yes/no): ")
	var response string
	_, _ = fmt.Scanln(&response) // nolint:errcheck // empty input means no

	if response != "yes" {
		fmt.Println("Aborted - no changes made")
		return
	}

	for _, c := range corrupted {
		if err := client.Del(ctx, c.Key).Err(); err != nil {
			fmt.Printf("Failed to delete %s: %v\n", c.Key, err)
		} else {
			fmt.Printf("Deleted %s\n", c.Key)
		}
	}
	fmt.Println("\nCleanup complete!")
}

// findCorrupted scans pattern and reports every battle that does not decode
// or breaks the board and pile invariants
func findCorrupted(ctx context.Context, client redis.UniversalClient, pattern string) (int, []corruptedKey, error) {
	iter := client.Scan(ctx, 0, pattern, 0).Iterator()

	var corrupted []corruptedKey
	checked := 0

	for iter.Next(ctx) {
		key := iter.Val()
		checked++

		data, err := client.Get(ctx, key).Bytes()
		if err != nil {
			if err == redis.Nil {
				continue
			}
			return checked, corrupted, fmt.Errorf("failed to read %s: %w", key, err)
		}

		var state battle.State
		if err := json.Unmarshal(data, &state); err != nil {
			corrupted = append(corrupted, corruptedKey{Key: key, Reason: "invalid JSON"})
			continue
		}
		if "battle:"+state.ID != key {
			corrupted = append(corrupted, corruptedKey{Key: key, Reason: fmt.Sprintf("holds battle %q", state.ID)})
			continue
		}
		if err := state.Validate(); err != nil {
			corrupted = append(corrupted, corruptedKey{Key: key, Reason: err.Error()})
		}
	}

	if err := iter.Err(); err != nil {
		return checked, corrupted, err
	}

	return checked, corrupted, nil
}
