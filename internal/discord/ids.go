package discord

import (
	"log/slog"
	"strconv"
)

// ParseID converts a Discord snowflake to the numeric id used for
// participants. Malformed ids yield 0.
func ParseID(s string) int64 {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		slog.Warn("failed to parse discord id", "id", s, "err", err)
		return 0
	}
	return id
}
