package battle

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KirkDiggler/rpg-battle/internal/entities/battle"
)

func TestEntityAttr(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	}))

	u := &battle.Unit{UnitTemplate: battle.UnitTemplate{Kind: battle.UnitKindKnight}, ID: 7}
	logger.Info("Unit placed", entityAttr("unit", u))

	assert.Equal(t, "level=INFO msg=\"Unit placed\" unit.id=7 unit.type=knight\n", buf.String())
}

func TestEntityAttrWithoutEntity(t *testing.T) {
	attr := entityAttr("unit", nil)

	assert.Equal(t, "unit", attr.Key)
	assert.Empty(t, attr.Value.Group())
}
