package anytag

import (
	"log/slog"

	"github.com/simonhull/anytag/internal/types"
)

// Option configures behavior when opening audio files.
//
// Options use the functional options pattern:
//
//	file, err := anytag.Open("song.flac",
//	    anytag.WithStrictParsing(),
//	    anytag.WithMaxPictureSize(10<<20),
//	)
type Option func(*openOptions)

// openOptions holds configuration for opening files.
type openOptions struct {
	logger         *slog.Logger
	strictParsing  bool // Fail on any warning
	ignoreWarnings bool // Suppress all warnings
	maxPictureSize int  // Maximum picture size in bytes (0 = no limit)
}

// defaultOptions returns the default configuration.
func defaultOptions() *openOptions {
	return &openOptions{}
}

func (o *openOptions) parseOptions() types.ParseOptions {
	return types.ParseOptions{
		Logger:         o.logger,
		MaxPictureSize: o.maxPictureSize,
	}
}

// WithStrictParsing treats any warning as a fatal error.
//
// By default, parsing continues past problems such as legacy text
// encodings or unusable artwork, returning warnings alongside the tag.
func WithStrictParsing() Option {
	return func(o *openOptions) {
		o.strictParsing = true
	}
}

// WithIgnoreWarnings suppresses all warnings.
//
// File.Warnings will always be empty.
func WithIgnoreWarnings() Option {
	return func(o *openOptions) {
		o.ignoreWarnings = true
	}
}

// WithLogger sets the logger parsers report to. Parsers log at Debug for
// structure and at Warn for recovered problems. By default nothing is
// logged.
func WithLogger(l *slog.Logger) Option {
	return func(o *openOptions) {
		o.logger = l
	}
}

// WithMaxPictureSize drops embedded pictures larger than the given number
// of bytes, with a warning. This protects against excessively large
// embedded images.
//
// Default is 0 (no limit).
func WithMaxPictureSize(bytes int) Option {
	return func(o *openOptions) {
		o.maxPictureSize = bytes
	}
}
