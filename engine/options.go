package engine

import (
	"log"

	"golang.org/x/image/font"

	"github.com/vizkit-org/vizkit/layout"
)

// ============================================================================
// PIPELINE OPTIONS — functional options for Run()
// ============================================================================

// Option configures pipeline behavior.
type Option func(*config)

type config struct {
	Logger *log.Logger
	Face   font.Face
}

// WithLogger routes pipeline stage logging to a custom logger.
func WithLogger(l *log.Logger) Option {
	return func(c *config) { c.Logger = l }
}

// WithFace sets the font face used for label measurement, so layout math
// matches the renderer's actual tick font.
func WithFace(f font.Face) Option {
	return func(c *config) { c.Face = f }
}

func applyOptions(opts []Option) *config {
	cfg := &config{
		Logger: log.Default(),
		Face:   layout.DefaultFace,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
