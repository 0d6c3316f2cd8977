package artifact

import (
	"encoding/json"
	"io"
	"sort"

	"github.com/dd0wney/cluso-hydrograph/pkg/algorithms"
	"github.com/dd0wney/cluso-hydrograph/pkg/network"
)

// Summary is a lossy, human-readable description of a compiled graph.
type Summary struct {
	Nodes               int      `json:"nodes"`
	Edges               int      `json:"edges"`
	Zones               []string `json:"zones"`
	Sources             int      `json:"sources"`
	Tanks               int      `json:"tanks"`
	Junctions           int      `json:"junctions"`
	Sensors             int      `json:"sensors"`
	DemandNodes         int      `json:"demand_nodes"`
	Pipes               int      `json:"pipes"`
	Pumps               int      `json:"pumps"`
	TemplateConnections int      `json:"template_connections"`
	Roots               []string `json:"roots"`
	Connected           bool     `json:"connected"`
	Acyclic             bool     `json:"acyclic"`
}

// Summarize counts g's contents by role and reports its shape. Zones are
// sorted; roots (in-degree 0) keep insertion order.
func Summarize(g *network.Graph) Summary {
	stats := g.GetStatistics()
	s := Summary{
		Nodes:               stats.NodeCount,
		Edges:               stats.EdgeCount,
		Zones:               []string{},
		Sources:             stats.ByNodeKind[network.Source],
		Tanks:               stats.ByNodeKind[network.Tank],
		Junctions:           stats.ByNodeKind[network.Junction],
		Pipes:               stats.ByEdgeKind[network.Pipe],
		Pumps:               stats.ByEdgeKind[network.Pump],
		TemplateConnections: stats.ByEdgeKind[network.TemplateConnection],
		Roots:               append([]string{}, algorithms.Roots(g)...),
		Connected:           algorithms.IsConnected(g),
		Acyclic:             algorithms.IsDAG(g),
	}

	zones := make(map[string]struct{})
	for _, n := range g.Nodes() {
		if n.Overlay.Sensor != "" {
			s.Sensors++
		}
		if n.HasDemand() {
			s.DemandNodes++
		}
		if n.Zone != "" {
			zones[n.Zone] = struct{}{}
		}
	}
	for z := range zones {
		s.Zones = append(s.Zones, z)
	}
	sort.Strings(s.Zones)
	return s
}

// WriteSummary writes s as indented JSON.
func WriteSummary(w io.Writer, s Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}
