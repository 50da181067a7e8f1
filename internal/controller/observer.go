package controller

import (
	"context"
	"log/slog"
	"time"
)

// CommandEvent describes one controller command after it finished.
type CommandEvent struct {
	Name     string
	TaskID   string
	Duration time.Duration
	Err      error
	Fields   map[string]any
}

type Observer interface {
	ObserveCommand(ctx context.Context, event CommandEvent)
}

type NoopObserver struct{}

func (NoopObserver) ObserveCommand(context.Context, CommandEvent) {}

type logObserver struct {
	logger *slog.Logger
}

// NewLogObserver logs every command through logger.
func NewLogObserver(logger *slog.Logger) Observer {
	if logger == nil {
		return NoopObserver{}
	}
	return &logObserver{logger: logger}
}

func (o *logObserver) ObserveCommand(ctx context.Context, event CommandEvent) {
	attrs := make([]any, 0, 8+len(event.Fields)*2)
	attrs = append(attrs,
		"command", event.Name,
		"duration_ms", event.Duration.Milliseconds(),
		"success", event.Err == nil,
	)
	if event.TaskID != "" {
		attrs = append(attrs, "task_id", event.TaskID)
	}
	for k, v := range event.Fields {
		attrs = append(attrs, k, v)
	}
	if event.Err != nil {
		attrs = append(attrs, "error", event.Err.Error())
		o.logger.WarnContext(ctx, "gantt_command", attrs...)
		return
	}
	o.logger.InfoContext(ctx, "gantt_command", attrs...)
}
