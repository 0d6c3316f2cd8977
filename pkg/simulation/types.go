package simulation

import (
	"errors"
	"fmt"
	"time"
)

// AnomalyType is the kind of fault injected into a step.
type AnomalyType string

const (
	Leak   AnomalyType = "Leak"
	Misuse AnomalyType = "Misuse"
)

// Severity grades an anomaly label.
type Severity string

const (
	SeverityLow    Severity = "Low"
	SeverityMedium Severity = "Medium"
	SeverityHigh   Severity = "High"
)

// AnomalyWindow activates an anomaly on Node for every step whose hour of
// day h satisfies StartHour <= h < EndHour.
type AnomalyWindow struct {
	Type      AnomalyType
	Node      string
	StartHour int
	EndHour   int
	Severity  Severity
}

func (w AnomalyWindow) active(t time.Time) bool {
	h := t.Hour()
	return h >= w.StartHour && h < w.EndHour
}

func (w AnomalyWindow) overlaps(o AnomalyWindow) bool {
	return w.StartHour < o.EndHour && o.StartHour < w.EndHour
}

// Scenario is a named set of anomaly windows applied over a timeline.
type Scenario struct {
	Name    string
	Windows []AnomalyWindow
}

// Validate checks window bounds and that at most one window can be active
// for any step.
func (s Scenario) Validate() error {
	if s.Name == "" {
		return errors.New("scenario name is required")
	}
	for i, w := range s.Windows {
		if w.Type != Leak && w.Type != Misuse {
			return fmt.Errorf("scenario %s: window %d: unknown anomaly type %q", s.Name, i, w.Type)
		}
		if w.Node == "" {
			return fmt.Errorf("scenario %s: window %d: target node is required", s.Name, i)
		}
		if w.StartHour < 0 || w.EndHour > 24 || w.StartHour >= w.EndHour {
			return fmt.Errorf("scenario %s: window %d: invalid hours [%d, %d)", s.Name, i, w.StartHour, w.EndHour)
		}
		for j := 0; j < i; j++ {
			if w.overlaps(s.Windows[j]) {
				return fmt.Errorf("%w: scenario %s windows %d and %d", ErrOverlappingWindows, s.Name, j, i)
			}
		}
	}
	return nil
}

// activeWindow returns the window active at t, if any.
func (s Scenario) activeWindow(t time.Time) *AnomalyWindow {
	for i := range s.Windows {
		if s.Windows[i].active(t) {
			return &s.Windows[i]
		}
	}
	return nil
}

// Timeline is the sequence of step timestamps Start, Start+Interval, ...
// covering Duration.
type Timeline struct {
	Start    time.Time
	Interval time.Duration
	Duration time.Duration
}

// DefaultTimeline is one day at 15 minute resolution starting 2026-01-01.
func DefaultTimeline() Timeline {
	return Timeline{
		Start:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Interval: 15 * time.Minute,
		Duration: 24 * time.Hour,
	}
}

// Validate checks that the timeline yields at least one step.
func (tl Timeline) Validate() error {
	if tl.Interval <= 0 {
		return fmt.Errorf("%w: interval must be positive", ErrInvalidTimeline)
	}
	if tl.Duration < tl.Interval {
		return fmt.Errorf("%w: duration %s shorter than interval %s", ErrInvalidTimeline, tl.Duration, tl.Interval)
	}
	return nil
}

// Steps returns the step timestamps.
func (tl Timeline) Steps() []time.Time {
	n := int(tl.Duration / tl.Interval)
	steps := make([]time.Time, n)
	for i := range steps {
		steps[i] = tl.Start.Add(time.Duration(i) * tl.Interval)
	}
	return steps
}

// Label marks one step during which an anomaly was active.
type Label struct {
	Timestamp   time.Time
	NodeID      string
	AnomalyType AnomalyType
	Severity    Severity
}

// Row is the telemetry of a single step. Pressure and Flow are indexed like
// Series.Nodes.
type Row struct {
	Timestamp time.Time
	Pressure  []float64
	Flow      []float64
}

// Series is the output of one scenario run.
type Series struct {
	Scenario string
	Seed     uint64
	Nodes    []string
	Rows     []Row
	Labels   []Label
}
