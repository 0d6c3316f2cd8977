package rules

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dd0wney/cluso-hydrograph/pkg/network"
)

// Default elevation thresholds in meters.
const (
	DefaultUphillLimit   = 5.0
	DefaultDownhillLimit = -10.0
)

// ElevationConsistency checks elevation changes along edges whose endpoints
// both carry an elevation. Non-pump edges rising more than UphillLimit are
// hard failures; pump edges dropping below DownhillLimit are reported as
// PUMP_FEASIBILITY warnings.
type ElevationConsistency struct {
	UphillLimit   float64
	DownhillLimit float64
}

// ID returns the rule identifier
func (r *ElevationConsistency) ID() string {
	return ElevationConsistencyID
}

// Check evaluates every edge in insertion order.
func (r *ElevationConsistency) Check(g *network.Graph) []Finding {
	var findings []Finding
	for _, e := range g.Edges() {
		from, _ := g.Node(e.From)
		to, _ := g.Node(e.To)
		if from == nil || to == nil || from.Elevation == nil || to.Elevation == nil {
			continue
		}
		diff := *to.Elevation - *from.Elevation
		location := fmt.Sprintf("%s→%s", e.From, e.To)

		switch {
		case e.Kind != network.Pump && diff > r.UphillLimit:
			findings = append(findings, Finding{
				Rule:     ElevationConsistencyID,
				Location: location,
				Message:  fmt.Sprintf("Flow uphill (%sm) without pump.", formatMeters(diff)),
				Severity: HardFailure,
			})
		case e.Kind == network.Pump && diff < r.DownhillLimit:
			findings = append(findings, Finding{
				Rule:     PumpFeasibilityID,
				Location: location,
				Message: fmt.Sprintf("Pump pushing water downhill (%sm). Potential energy waste or configuration error.",
					formatMeters(diff)),
				Severity: SoftWarning,
			})
		}
	}
	return findings
}

// formatMeters prints the shortest exact form, keeping one decimal for
// whole numbers (10 -> "10.0").
func formatMeters(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
