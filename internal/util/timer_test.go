package util

import (
	"testing"
	"time"
)

func TestStageTimerRecordsStagesInOrder(t *testing.T) {
	timer := StartStageTimer()
	time.Sleep(2 * time.Millisecond)
	first := timer.Mark("screen")
	timer.Mark("lookup")

	stages := timer.Stages()
	if len(stages) != 2 {
		t.Fatalf("expected 2 stages got %d", len(stages))
	}
	if stages[0].Name != "screen" || stages[1].Name != "lookup" {
		t.Fatalf("unexpected stage order %+v", stages)
	}
	if first < 2*time.Millisecond {
		t.Fatalf("expected first stage to include sleep, got %s", first)
	}
	fields := timer.Fields()
	if _, ok := fields["screen_ms"]; !ok {
		t.Fatalf("missing screen_ms field in %v", fields)
	}
	if _, ok := fields["total_ms"]; !ok {
		t.Fatalf("missing total_ms field in %v", fields)
	}
}

func TestNilStageTimer(t *testing.T) {
	var timer *StageTimer
	if d := timer.Mark("noop"); d != 0 {
		t.Fatalf("expected zero duration, got %s", d)
	}
	if timer.ElapsedMs() != 0 {
		t.Fatal("expected zero elapsed")
	}
}
