package main

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/rpg-battle/internal/testutils"
)

func TestFindCorrupted(t *testing.T) {
	client, mr := testutils.CreateTestRedisClient(t)

	good := testutils.CreateTestBattle(t, "good")
	data, err := json.Marshal(good)
	require.NoError(t, err)
	require.NoError(t, mr.Set("battle:good", string(data)))

	require.NoError(t, mr.Set("battle:garbage", "{not json"))
	require.NoError(t, mr.Set("battle:moved", string(data)))

	broken := testutils.CreateTestBattle(t, "broken")
	broken.Player.Units[0].Position = broken.Enemy.Units[0].Position
	data, err = json.Marshal(broken)
	require.NoError(t, err)
	require.NoError(t, mr.Set("battle:broken", string(data)))

	require.NoError(t, mr.Set("session:other", "{not json"))

	checked, corrupted, err := findCorrupted(context.Background(), client, battlePattern)
	require.NoError(t, err)

	assert.Equal(t, 4, checked)
	keys := make(map[string]string, len(corrupted))
	for _, c := range corrupted {
		keys[c.Key] = c.Reason
	}
	assert.Len(t, keys, 3)
	assert.Equal(t, "invalid JSON", keys["battle:garbage"])
	assert.Equal(t, `holds battle "good"`, keys["battle:moved"])
	assert.Contains(t, keys, "battle:broken")
	assert.NotContains(t, keys, "battle:good")
}
