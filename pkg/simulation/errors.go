package simulation

import (
	"errors"
	"fmt"
)

var (
	// ErrRootNotFound is returned when the supply root is not in the graph.
	ErrRootNotFound = errors.New("supply root not found")
	// ErrUnknownNode is returned when an anomaly targets a node not in the graph.
	ErrUnknownNode = errors.New("anomaly target not found")
	// ErrOverlappingWindows is returned when two windows of a scenario overlap.
	ErrOverlappingWindows = errors.New("overlapping anomaly windows")
	// ErrInvalidTimeline is returned for a timeline with no steps.
	ErrInvalidTimeline = errors.New("invalid timeline")
)

// GraphLoadError is returned when the compiled graph cannot be loaded.
type GraphLoadError struct {
	Key   string
	Cause error
}

func (e *GraphLoadError) Error() string {
	return fmt.Sprintf("load graph %s: %v", e.Key, e.Cause)
}

func (e *GraphLoadError) Unwrap() error {
	return e.Cause
}
