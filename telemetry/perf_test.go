package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseUpdate)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhaseMove)
		time.Sleep(200 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration")
	}
	if stats.PhaseAvg[PhaseUpdate] <= 0 || stats.PhaseAvg[PhaseMove] <= 0 {
		t.Errorf("phase averages = %v", stats.PhaseAvg)
	}
	if stats.PhaseAvg[PhaseKill] != 0 {
		t.Errorf("untimed phase has %v", stats.PhaseAvg[PhaseKill])
	}
	if stats.MinTickDuration > stats.AvgTickDuration || stats.AvgTickDuration > stats.MaxTickDuration {
		t.Errorf("min/avg/max out of order: %v %v %v", stats.MinTickDuration, stats.AvgTickDuration, stats.MaxTickDuration)
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5)

	// Slow ticks first; they must fall out of the window.
	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseUpdate)
		time.Sleep(2 * time.Millisecond)
		pc.EndTick()
	}
	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseUpdate)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.MaxTickDuration >= 2*time.Millisecond {
		t.Errorf("max tick %v still includes evicted samples", stats.MaxTickDuration)
	}
	if stats.TicksPerSecond <= 0 {
		t.Error("expected positive ticks per second")
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseKill)
		time.Sleep(10 * time.Microsecond)
		pc.StartPhase(PhaseMove)
		time.Sleep(500 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.PhasePct[PhaseMove] <= stats.PhasePct[PhaseKill] {
		t.Errorf("expected move (%v%%) > kill (%v%%)", stats.PhasePct[PhaseMove], stats.PhasePct[PhaseKill])
	}
	var sum float64
	for _, pct := range stats.PhasePct {
		sum += pct
	}
	if sum > 100.0001 {
		t.Errorf("phase shares sum to %v%%", sum)
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	stats := NewPerfCollector(10).Stats()

	if stats.AvgTickDuration != 0 || stats.TicksPerSecond != 0 {
		t.Errorf("empty collector reported %+v", stats)
	}
	for _, ph := range Phases {
		if stats.PhasePct[ph] != 0 {
			t.Errorf("%s = %v%%", ph, stats.PhasePct[ph])
		}
	}
}

func TestPhaseString(t *testing.T) {
	tests := []struct {
		phase Phase
		want  string
	}{
		{PhaseUpdate, "update"},
		{PhaseReproduce, "reproduce"},
		{PhaseTelemetry, "telemetry"},
		{NumPhases, "unknown"},
	}
	for _, tt := range tests {
		if got := tt.phase.String(); got != tt.want {
			t.Errorf("Phase(%d) = %q, want %q", tt.phase, got, tt.want)
		}
	}
}

func TestPerfCollector_FrameTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	// First call establishes baseline
	pc.RecordFrame()
	time.Sleep(16 * time.Millisecond) // ~60fps frame time
	// Second call measures duration
	pc.RecordFrame()

	stats := pc.Stats()

	if stats.FrameDuration < 15*time.Millisecond {
		t.Errorf("expected frame duration >= 15ms, got %v", stats.FrameDuration)
	}

	if stats.FPS <= 0 {
		t.Error("expected positive FPS")
	}
}

func TestPerfStats_ToCSV(t *testing.T) {
	s := PerfStats{
		AvgTickDuration: 2 * time.Millisecond,
		PhasePct: [NumPhases]float64{
			PhaseUpdate:    60,
			PhaseKill:      5,
			PhaseReproduce: 10,
			PhaseMove:      25,
		},
	}

	row := s.ToCSV(300)
	if row.WindowEnd != 300 || row.AvgTickUS != 2000 {
		t.Errorf("row = %+v", row)
	}
	if row.UpdatePct != 60 || row.KillPct != 5 || row.ReproducePct != 10 || row.MovePct != 25 {
		t.Errorf("phase columns = %v/%v/%v/%v", row.UpdatePct, row.KillPct, row.ReproducePct, row.MovePct)
	}
}
