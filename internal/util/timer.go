package util

import "time"

// Stage is one named span measured by a StageTimer.
type Stage struct {
	Name     string
	Duration time.Duration
}

// StageTimer measures consecutive pipeline stages of a single request. It is not safe
// for concurrent use; each request owns its own timer.
type StageTimer struct {
	start  time.Time
	mark   time.Time
	stages []Stage
}

// StartStageTimer creates a timer whose first stage begins now.
func StartStageTimer() *StageTimer {
	now := time.Now()
	return &StageTimer{start: now, mark: now}
}

// Mark closes the current stage under name and starts the next one.
func (t *StageTimer) Mark(name string) time.Duration {
	if t == nil {
		return 0
	}
	now := time.Now()
	elapsed := now.Sub(t.mark)
	t.mark = now
	t.stages = append(t.stages, Stage{Name: name, Duration: elapsed})
	return elapsed
}

// Stages returns the recorded stages in the order they were marked.
func (t *StageTimer) Stages() []Stage {
	if t == nil {
		return nil
	}
	out := make([]Stage, len(t.stages))
	copy(out, t.stages)
	return out
}

// ElapsedMs returns the total elapsed milliseconds since the timer started.
func (t *StageTimer) ElapsedMs() int64 {
	if t == nil || t.start.IsZero() {
		return 0
	}
	return time.Since(t.start).Milliseconds()
}

// Fields renders the stage durations as log fields keyed "<stage>_ms".
func (t *StageTimer) Fields() map[string]any {
	fields := make(map[string]any, len(t.Stages())+1)
	for _, stage := range t.Stages() {
		fields[stage.Name+"_ms"] = stage.Duration.Milliseconds()
	}
	fields["total_ms"] = t.ElapsedMs()
	return fields
}
