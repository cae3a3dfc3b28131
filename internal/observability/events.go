package observability

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/event"
)

// EventLogger is an event.Listener that writes every combat event as one structured
// log line. Turn boundaries log at Debug; everything that changes a character logs at
// Info.
type EventLogger struct {
	logger *zap.Logger
}

// NewEventLogger creates an EventLogger.
//
// Precondition: logger must be non-nil.
func NewEventLogger(logger *zap.Logger) *EventLogger {
	if logger == nil {
		panic("observability.NewEventLogger: logger must be non-nil")
	}
	return &EventLogger{logger: logger}
}

// Handle implements event.Listener.
func (l *EventLogger) Handle(e event.Event) {
	kind := zap.String("event", string(e.Kind()))
	switch ev := e.(type) {
	case event.TurnStarted:
		l.logger.Debug("turn started", kind, zap.Int("id", ev.ID), zap.Bool("is_player", ev.IsPlayer))
	case event.TurnEnded:
		l.logger.Debug("turn ended", kind, zap.Int("id", ev.ID), zap.Int("round", ev.Round))
	case event.HealthChanged:
		for _, c := range ev.Changes {
			l.logger.Info("health changed", kind,
				zap.Int("id", c.ID),
				zap.Int("before", c.Before),
				zap.Int("after", c.After),
				zap.Int("delta", c.Delta),
			)
		}
	case event.CharactersDied:
		l.logger.Info("characters died", kind, zap.Ints("ids", ev.IDs))
	case event.SpeedChanged:
		l.logger.Info("speed changed", kind,
			zap.Int("id", ev.ID),
			zap.Int("pre_speed", ev.PreSpeed),
			zap.Int("delta", ev.Delta),
		)
	case event.StatusApplied:
		l.logger.Info("status applied", kind,
			zap.Ints("ids", ev.IDs),
			zap.String("status_id", ev.StatusID),
			zap.String("message", ev.Message),
		)
	case event.StatusRemoved:
		l.logger.Info("status removed", kind,
			zap.Int("id", ev.ID),
			zap.String("status_id", ev.StatusID),
			zap.String("message", ev.Message),
		)
	default:
		l.logger.Info("event", kind)
	}
}
