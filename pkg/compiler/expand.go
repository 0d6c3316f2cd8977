package compiler

import (
	"github.com/dd0wney/cluso-hydrograph/pkg/network"
)

// Expansion describes what Expand added to the graph.
type Expansion struct {
	Attach string
	Nodes  []string // qualified template node IDs
	Edges  int      // template edges copied, excluding the connection edge
	Root   string   // qualified root, "" when the template has none
}

// QualifiedID returns the graph ID of template node n applied at attach.
func QualifiedID(attach, n string) string {
	return attach + "." + n
}

// Expand instantiates t at the attachment node attach. Every template node
// becomes a Junction named "{attach}.{node}", every template edge a Pipe
// between qualified names, and the attachment point is linked to the
// qualified root with a TemplateConnection edge. Applying the same template
// twice at the same point merges nodes and overwrites edges.
func Expand(g *network.Graph, t *Template, attach string) (*Expansion, error) {
	exp := &Expansion{Attach: attach, Nodes: make([]string, 0, len(t.Nodes))}

	for _, n := range t.Nodes {
		id := QualifiedID(attach, n)
		if _, err := g.AddNode(network.Node{ID: id, Kind: network.Junction}); err != nil {
			return nil, err
		}
		exp.Nodes = append(exp.Nodes, id)
	}

	for _, e := range t.Edges {
		_, err := g.AddEdge(network.Edge{
			From: QualifiedID(attach, e.From),
			To:   QualifiedID(attach, e.To),
			Kind: network.Pipe,
		})
		if err != nil {
			return nil, err
		}
		exp.Edges++
	}

	root, ok := t.Root()
	if !ok {
		return exp, nil
	}

	exp.Root = QualifiedID(attach, root)
	_, err := g.AddEdge(network.Edge{From: attach, To: exp.Root, Kind: network.TemplateConnection})
	if err != nil {
		return nil, err
	}
	return exp, nil
}
