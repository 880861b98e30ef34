package logginghelpers

import "log/slog"

const (
	// Level Debug -4
	LevelIngestReport slog.Level = -2
	// Level Info 0
	// Level Warn 4
	// Level Error 8
	LevelBrokenSource slog.Level = 12
)
