// Package slog decorates ramendb services with structured logging.
package slog

import (
	"context"
	"log/slog"
	"time"
)

// logOutcome logs a finished operation at debug level, or at warn level when
// it failed.
func logOutcome(ctx context.Context, logger *slog.Logger, msg string, begin time.Time, err error, attrs ...any) {
	attrs = append(attrs, "duration", time.Since(begin))
	if err != nil {
		logger.WarnContext(ctx, msg, append(attrs, "err", err)...)
		return
	}
	logger.DebugContext(ctx, msg, attrs...)
}
