// Package notify delivers player notifications. The engine treats delivery
// as fire and forget; implementations here absorb failures.
package notify

import (
	"context"

	"go.uber.org/zap"
)

// LogNotifier writes notifications to the structured log. It is the default
// delivery until a chat transport is attached in front of the engine.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a LogNotifier.
//
// Precondition: logger must be non-nil.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs the notification with its target player.
func (n *LogNotifier) Notify(_ context.Context, playerID int64, text, image string) {
	fields := []zap.Field{
		zap.Int64("player_id", playerID),
		zap.String("text", text),
	}
	if image != "" {
		fields = append(fields, zap.String("image", image))
	}
	n.logger.Info("notification", fields...)
}
