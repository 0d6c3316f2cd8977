package artifact

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/awalterschulze/gographviz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-hydrograph/pkg/network"
)

func TestSummarize(t *testing.T) {
	g := sampleGraph(t)
	require.NoError(t, g.SetZone("MunicipalMain", "ZoneA"))

	s := Summarize(g)
	assert.Equal(t, Summary{
		Nodes:               4,
		Edges:               3,
		Zones:               []string{"ZoneA", "ZoneD"},
		Sources:             1,
		Tanks:               1,
		Junctions:           2,
		Sensors:             1,
		DemandNodes:         1,
		Pipes:               1,
		Pumps:               1,
		TemplateConnections: 1,
		Roots:               []string{"MunicipalMain"},
		Connected:           true,
		Acyclic:             true,
	}, s)
}

// TestSummarize_Shape tests the root, connectivity and cycle fields.
func TestSummarize_Shape(t *testing.T) {
	g := network.New()
	for _, e := range [][2]string{{"RoofTank", "Riser"}, {"Riser", "Loop"}, {"Loop", "Riser"}} {
		_, err := g.AddEdge(network.Edge{From: e[0], To: e[1], Kind: network.Pipe})
		require.NoError(t, err)
	}
	_, err := g.AddNode(network.Node{ID: "BasementMeter"})
	require.NoError(t, err)

	s := Summarize(g)
	assert.Equal(t, []string{"RoofTank", "BasementMeter"}, s.Roots)
	assert.False(t, s.Connected)
	assert.False(t, s.Acyclic)
}

func TestWriteSummary_JSONShape(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, Summarize(network.New())))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	for _, key := range []string{"nodes", "edges", "zones", "sources", "tanks", "sensors", "demand_nodes", "roots", "connected", "acyclic"} {
		assert.Contains(t, decoded, key)
	}
	assert.Equal(t, []any{}, decoded["zones"])
	assert.Equal(t, []any{}, decoded["roots"])
}

func TestWriteDOT(t *testing.T) {
	g := sampleGraph(t)

	var buf bytes.Buffer
	require.NoError(t, WriteDOT(&buf, g))
	out := buf.String()

	assert.True(t, strings.HasPrefix(strings.TrimSpace(out), "digraph hydrograph"))
	assert.Contains(t, out, `"F1.Riser"`)
	assert.Contains(t, out, "cylinder")
	assert.Contains(t, out, "dashed")

	parsed, err := gographviz.Read(buf.Bytes())
	require.NoError(t, err)
	assert.Len(t, parsed.Nodes.Nodes, g.NodeCount())
	assert.Len(t, parsed.Edges.Edges, g.EdgeCount())
}
