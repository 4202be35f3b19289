package battle

import (
	"log/slog"

	"github.com/KirkDiggler/rpg-toolkit/core"
)

// entityAttr groups an entity's identity for structured logs
func entityAttr(key string, e core.Entity) slog.Attr {
	if e == nil {
		return slog.Group(key)
	}
	return slog.Group(key, "id", e.GetID(), "type", e.GetType())
}
