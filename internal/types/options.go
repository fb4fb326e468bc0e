package types

import "log/slog"

// ParseOptions carries the settings every backend parser honors.
type ParseOptions struct {
	// Logger receives Debug and Warn records. Never nil once normalized.
	Logger *slog.Logger

	// MaxPictureSize drops embedded pictures larger than this many bytes,
	// with a warning. Zero means no limit.
	MaxPictureSize int
}

// Log returns the configured logger, or a discarding one.
func (o ParseOptions) Log() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}
