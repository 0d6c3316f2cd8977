package artifact

import (
	"fmt"
	"io"
	"strconv"

	"github.com/awalterschulze/gographviz"

	"github.com/dd0wney/cluso-hydrograph/pkg/network"
)

const dotGraphName = "hydrograph"

var nodeShapes = map[network.NodeKind]string{
	network.Source:   "invhouse",
	network.Tank:     "cylinder",
	network.Junction: "ellipse",
}

var edgeStyles = map[network.EdgeKind]string{
	network.Pipe:               "solid",
	network.Pump:               "bold",
	network.TemplateConnection: "dashed",
}

// BuildDOT converts g into a gographviz graph. IDs are quoted because
// qualified template names contain dots.
func BuildDOT(g *network.Graph) (*gographviz.Graph, error) {
	out := gographviz.NewGraph()
	if err := out.SetName(dotGraphName); err != nil {
		return nil, err
	}
	if err := out.SetDir(true); err != nil {
		return nil, err
	}

	for _, n := range g.Nodes() {
		label := n.ID
		if n.Overlay.Sensor != "" {
			label += " [" + n.Overlay.Sensor + "]"
		}
		attrs := map[string]string{
			"shape": nodeShapes[n.Kind],
			"label": strconv.Quote(label),
		}
		if n.Zone != "" {
			attrs["group"] = strconv.Quote(n.Zone)
		}
		if err := out.AddNode(dotGraphName, strconv.Quote(n.ID), attrs); err != nil {
			return nil, fmt.Errorf("dot node %s: %w", n.ID, err)
		}
	}

	for _, e := range g.Edges() {
		attrs := map[string]string{"style": edgeStyles[e.Kind]}
		if e.Kind == network.Pump && e.Pump.PumpID != "" {
			attrs["label"] = strconv.Quote(e.Pump.PumpID)
		}
		if err := out.AddEdge(strconv.Quote(e.From), strconv.Quote(e.To), true, attrs); err != nil {
			return nil, fmt.Errorf("dot edge %s->%s: %w", e.From, e.To, err)
		}
	}
	return out, nil
}

// WriteDOT writes g in Graphviz DOT syntax.
func WriteDOT(w io.Writer, g *network.Graph) error {
	dot, err := BuildDOT(g)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, dot.String())
	return err
}
