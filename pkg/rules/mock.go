package rules

import (
	"github.com/dd0wney/cluso-hydrograph/pkg/network"
)

// MockGraph builds a small three-zone network with known defects: two
// cross-zone feeds and one pipe climbing 100 m. Validating it yields FAIL
// with one hard failure and two soft warnings.
func MockGraph() *network.Graph {
	g := network.New()
	nodes := []network.Node{
		{ID: "Source_1", Kind: network.Source, Elevation: network.Float(100), Zone: "ZONE_A"},
		{ID: "Junction_A1", Kind: network.Junction, Elevation: network.Float(90), Zone: "ZONE_A"},
		{ID: "Junction_A2", Kind: network.Junction, Elevation: network.Float(85), Zone: "ZONE_A"},
		{ID: "Tank_B", Kind: network.Tank, Elevation: network.Float(120), Zone: "ZONE_B"},
		{ID: "Junction_B1", Kind: network.Junction, Elevation: network.Float(110), Zone: "ZONE_B"},
		{ID: "Junction_C1", Kind: network.Junction, Elevation: network.Float(50), Zone: "ZONE_C"},
		{ID: "Junction_C_High", Kind: network.Junction, Elevation: network.Float(150), Zone: "ZONE_C"},
	}
	for _, n := range nodes {
		// IDs are non-empty literals.
		_, _ = g.AddNode(n)
	}

	edges := []network.Edge{
		{From: "Source_1", To: "Junction_A1", Kind: network.Pipe, Pipe: network.PipeAttrs{LengthM: network.Float(100)}},
		{From: "Junction_A1", To: "Junction_A2", Kind: network.Pipe, Pipe: network.PipeAttrs{LengthM: network.Float(50)}},
		{From: "Junction_A2", To: "Tank_B", Kind: network.Pump, Pump: network.PumpAttrs{PumpID: "Pump_AB", Curve: "Curve_1"}},
		{From: "Tank_B", To: "Junction_B1", Kind: network.Pipe, Pipe: network.PipeAttrs{LengthM: network.Float(200)}},
		{From: "Junction_A1", To: "Junction_C1", Kind: network.Pipe, Pipe: network.PipeAttrs{LengthM: network.Float(500)}},
		{From: "Junction_C1", To: "Junction_C_High", Kind: network.Pipe, Pipe: network.PipeAttrs{LengthM: network.Float(100)}},
	}
	for _, e := range edges {
		_, _ = g.AddEdge(e)
	}
	return g
}
