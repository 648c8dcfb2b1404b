// Package aiutil holds small logging helpers shared by the chat pipeline.
package aiutil

import (
	"context"

	"github.com/rs/zerolog"
)

// LoggerFromContext returns the logger from the context if available,
// otherwise falls back to the provided logger.
func LoggerFromContext(ctx context.Context, fallback zerolog.Logger) zerolog.Logger {
	if ctx != nil {
		if ctxLog := zerolog.Ctx(ctx); ctxLog != nil && ctxLog.GetLevel() != zerolog.Disabled {
			return *ctxLog
		}
	}
	return fallback
}

// WithTurnLogger derives a logger tagged with turnID and stores it in ctx.
func WithTurnLogger(ctx context.Context, log zerolog.Logger, turnID string) (context.Context, zerolog.Logger) {
	turnLog := log.With().Str("turn_id", turnID).Logger()
	return turnLog.WithContext(ctx), turnLog
}
