package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type recordingObserver struct {
	events []UseCaseEvent
}

func (r *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	r.events = append(r.events, e)
}

func TestUseCaseObserver_ReceivesServiceEvents(t *testing.T) {
	env := setupEnv(t)
	p, _, _, _ := env.seedTimeline(t)
	obs := &recordingObserver{}
	svc := NewGanttService(env.projects, env.tasks, env.deps, nil, obs)

	_, err := svc.GetGantt(context.Background(), p.ID)
	assert.NoError(t, err)
	_, err = svc.GetGantt(context.Background(), "missing")
	assert.Error(t, err)

	if assert.Len(t, obs.events, 2) {
		assert.Equal(t, "get-gantt", obs.events[0].Name)
		assert.True(t, obs.events[0].Success)
		assert.Equal(t, 3, obs.events[0].Fields["task_count"])
		assert.False(t, obs.events[1].Success)
		assert.ErrorIs(t, obs.events[1].Err, ErrNotFound)
	}
}

func TestSlogUseCaseObserver(t *testing.T) {
	var buf bytes.Buffer
	obs := NewSlogUseCaseObserver(slog.New(slog.NewTextHandler(&buf, nil)))

	obs.ObserveUseCase(context.Background(), UseCaseEvent{
		Name:     "import-gantt",
		Duration: 3 * time.Millisecond,
		Success:  true,
		Fields:   map[string]any{"task_count": 4},
	})
	obs.ObserveUseCase(context.Background(), UseCaseEvent{
		Name: "update-dates",
		Err:  errors.New("boom"),
	})
	obs.ObserveUseCase(context.Background(), UseCaseEvent{
		Name: "get-gantt",
		Err:  fmt.Errorf("project p9: %w", ErrNotFound),
	})

	out := buf.String()
	assert.Contains(t, out, "use_case=import-gantt")
	assert.Contains(t, out, "task_count=4")
	assert.Contains(t, out, "level=ERROR msg=service_use_case use_case=update-dates")
	assert.Contains(t, out, "error=boom")
	assert.Contains(t, out, "level=WARN msg=service_use_case use_case=get-gantt")

	assert.IsType(t, NoopUseCaseObserver{}, NewSlogUseCaseObserver(nil))
}
