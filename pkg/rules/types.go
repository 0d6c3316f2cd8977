package rules

import (
	"github.com/dd0wney/cluso-hydrograph/pkg/network"
)

// Severity decides which list of a report a finding lands in.
type Severity int

const (
	SoftWarning Severity = iota
	HardFailure
)

func (s Severity) String() string {
	switch s {
	case SoftWarning:
		return "soft_warning"
	case HardFailure:
		return "hard_failure"
	default:
		return "unknown"
	}
}

// Rule identifiers.
const (
	CrossZoneFeedID        = "CROSS_ZONE_FEED"
	ElevationConsistencyID = "ELEVATION_CONSISTENCY"
	PumpFeasibilityID      = "PUMP_FEASIBILITY"
	InputValidationID      = "INPUT_VALIDATION"
)

// Finding is one rule violation.
type Finding struct {
	Rule     string
	Location string
	Message  string
	Severity Severity
}

// Rule checks a compiled graph. Check only reads the graph and returns
// findings in edge order.
type Rule interface {
	ID() string
	Check(g *network.Graph) []Finding
}

// DefaultRules is the static rule registry, evaluated in this order.
func DefaultRules() []Rule {
	return []Rule{
		&CrossZoneFeed{},
		&ElevationConsistency{UphillLimit: DefaultUphillLimit, DownhillLimit: DefaultDownhillLimit},
	}
}
