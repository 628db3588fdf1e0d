package notify

import (
	"context"
	"log/slog"
)

// LogSender writes every event to a structured logger.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender returns a sender that logs events at debug level, or at warn
// level when the event reports a failure.
func NewLogSender(logger *slog.Logger) *LogSender {
	if logger == nil {
		logger = slog.Default()
	}

	return &LogSender{logger: logger}
}

func (l *LogSender) Name() string {
	return "log"
}

func (l *LogSender) Send(ctx context.Context, event *Event) error {
	attrs := []slog.Attr{
		slog.String("type", event.Type),
		slog.Int("cleaner_id", event.CleanerID),
		slog.String("cleaner", event.CleanerName),
	}

	for k, v := range event.Extra {
		attrs = append(attrs, slog.String(k, v))
	}

	level := slog.LevelDebug
	if !event.Success {
		level = slog.LevelWarn
		attrs = append(attrs, slog.String("error", event.Error))
	}

	l.logger.LogAttrs(ctx, level, "event", attrs...)

	return nil
}
