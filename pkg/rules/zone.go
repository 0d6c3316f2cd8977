package rules

import (
	"fmt"

	"github.com/dd0wney/cluso-hydrograph/pkg/network"
)

// CrossZoneFeed warns about edges connecting two different pressure zones.
// Nodes without a zone are ignored.
type CrossZoneFeed struct{}

// ID returns the rule identifier
func (r *CrossZoneFeed) ID() string {
	return CrossZoneFeedID
}

// Check reports one soft warning per cross-zone edge.
func (r *CrossZoneFeed) Check(g *network.Graph) []Finding {
	var findings []Finding
	for _, e := range g.Edges() {
		from, _ := g.Node(e.From)
		to, _ := g.Node(e.To)
		if from == nil || to == nil || from.Zone == "" || to.Zone == "" || from.Zone == to.Zone {
			continue
		}
		findings = append(findings, Finding{
			Rule:     CrossZoneFeedID,
			Location: fmt.Sprintf("%s→%s (%s→%s)", from.Zone, to.Zone, e.From, e.To),
			Message:  fmt.Sprintf("Connection detected between different zones: %s and %s", from.Zone, to.Zone),
			Severity: SoftWarning,
		})
	}
	return findings
}
