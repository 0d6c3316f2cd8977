package network

// Graph is the compiled water distribution network: a simple directed graph
// with string node IDs. Nodes and edges keep their insertion order so that
// every traversal over the graph is deterministic.
//
// A Graph is built by a single goroutine during compilation and is read-only
// afterwards; it performs no locking of its own.
type Graph struct {
	nodes     map[string]*Node
	nodeOrder []string

	edges     map[EdgeKey]*Edge
	edgeOrder []EdgeKey

	outgoing map[string][]string // node ID -> successor IDs
	incoming map[string][]string // node ID -> predecessor IDs
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes:    make(map[string]*Node),
		edges:    make(map[EdgeKey]*Edge),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
	}
}

// AddNode inserts n or merges it into an existing node with the same ID.
// On merge the later write wins: Kind is always replaced, optional fields
// are replaced only when set on n.
func (g *Graph) AddNode(n Node) (*Node, error) {
	if n.ID == "" {
		return nil, NewError("AddNode").Cause(ErrInvalidID).Build()
	}

	existing, ok := g.nodes[n.ID]
	if !ok {
		stored := n
		stored.Overlay.Extra = copyExtra(n.Overlay.Extra)
		g.nodes[n.ID] = &stored
		g.nodeOrder = append(g.nodeOrder, n.ID)
		return &stored, nil
	}

	existing.Kind = n.Kind
	if n.Elevation != nil {
		existing.Elevation = Float(*n.Elevation)
	}
	if n.Zone != "" {
		existing.Zone = n.Zone
	}
	if n.Overlay.Demand != nil {
		existing.Overlay.Demand = Float(*n.Overlay.Demand)
	}
	if n.Overlay.Sensor != "" {
		existing.Overlay.Sensor = n.Overlay.Sensor
	}
	for k, v := range n.Overlay.Extra {
		if existing.Overlay.Extra == nil {
			existing.Overlay.Extra = make(map[string]string)
		}
		existing.Overlay.Extra[k] = v
	}
	return existing, nil
}

// EnsureNode returns the node with the given ID, creating a Junction when
// it does not exist yet. Existing attributes are left untouched.
func (g *Graph) EnsureNode(id string) (*Node, error) {
	if n, ok := g.nodes[id]; ok {
		return n, nil
	}
	return g.AddNode(Node{ID: id, Kind: Junction})
}

// AddEdge inserts e, creating missing endpoints as Junctions. Adding an edge
// whose (From, To) already exists replaces its attributes in place.
func (g *Graph) AddEdge(e Edge) (*Edge, error) {
	if e.From == "" || e.To == "" {
		return nil, NewError("AddEdge").Edge(e.From, e.To).Cause(ErrInvalidID).Build()
	}
	if _, err := g.EnsureNode(e.From); err != nil {
		return nil, err
	}
	if _, err := g.EnsureNode(e.To); err != nil {
		return nil, err
	}

	key := e.Key()
	stored := e
	if e.Pipe.LengthM != nil {
		stored.Pipe.LengthM = Float(*e.Pipe.LengthM)
	}
	if existing, ok := g.edges[key]; ok {
		*existing = stored
		return existing, nil
	}

	g.edges[key] = &stored
	g.edgeOrder = append(g.edgeOrder, key)
	g.outgoing[e.From] = append(g.outgoing[e.From], e.To)
	g.incoming[e.To] = append(g.incoming[e.To], e.From)
	return &stored, nil
}

// Node returns the node with the given ID.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// HasNode reports whether id is a node of the graph.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Edge returns the edge from -> to.
func (g *Graph) Edge(from, to string) (*Edge, bool) {
	e, ok := g.edges[EdgeKey{From: from, To: to}]
	return e, ok
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.nodeOrder))
	for _, id := range g.nodeOrder {
		out = append(out, g.nodes[id])
	}
	return out
}

// NodeIDs returns all node IDs in insertion order.
func (g *Graph) NodeIDs() []string {
	out := make([]string, len(g.nodeOrder))
	copy(out, g.nodeOrder)
	return out
}

// Edges returns all edges in insertion order.
func (g *Graph) Edges() []*Edge {
	out := make([]*Edge, 0, len(g.edgeOrder))
	for _, k := range g.edgeOrder {
		out = append(out, g.edges[k])
	}
	return out
}

// Successors returns the targets of id's outgoing edges in insertion order.
// The returned slice must not be modified.
func (g *Graph) Successors(id string) []string {
	return g.outgoing[id]
}

// Predecessors returns the sources of id's incoming edges in insertion order.
// The returned slice must not be modified.
func (g *Graph) Predecessors(id string) []string {
	return g.incoming[id]
}

// OutDegree returns the number of outgoing edges of id.
func (g *Graph) OutDegree(id string) int {
	return len(g.outgoing[id])
}

// InDegree returns the number of incoming edges of id.
func (g *Graph) InDegree(id string) int {
	return len(g.incoming[id])
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.nodeOrder)
}

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int {
	return len(g.edgeOrder)
}

// GetStatistics counts nodes and edges by kind.
func (g *Graph) GetStatistics() Statistics {
	stats := Statistics{
		NodeCount:  len(g.nodeOrder),
		EdgeCount:  len(g.edgeOrder),
		ByNodeKind: make(map[NodeKind]int),
		ByEdgeKind: make(map[EdgeKind]int),
	}
	for _, n := range g.nodes {
		stats.ByNodeKind[n.Kind]++
	}
	for _, e := range g.edges {
		stats.ByEdgeKind[e.Kind]++
	}
	return stats
}

// SetElevation attaches an elevation to an existing node.
func (g *Graph) SetElevation(id string, meters float64) error {
	n, ok := g.nodes[id]
	if !ok {
		return NewError("SetElevation").Node(id).Cause(ErrNodeNotFound).Build()
	}
	n.Elevation = Float(meters)
	return nil
}

// SetZone attaches a zone tag to an existing node.
func (g *Graph) SetZone(id, zone string) error {
	n, ok := g.nodes[id]
	if !ok {
		return NewError("SetZone").Node(id).Cause(ErrNodeNotFound).Build()
	}
	n.Zone = zone
	return nil
}

// SetDemand attaches a baseline demand to an existing node.
func (g *Graph) SetDemand(id string, demand float64) error {
	n, ok := g.nodes[id]
	if !ok {
		return NewError("SetDemand").Node(id).Cause(ErrNodeNotFound).Build()
	}
	n.Overlay.Demand = Float(demand)
	return nil
}

// SetSensor attaches a sensor kind to an existing node.
func (g *Graph) SetSensor(id, sensor string) error {
	n, ok := g.nodes[id]
	if !ok {
		return NewError("SetSensor").Node(id).Cause(ErrNodeNotFound).Build()
	}
	n.Overlay.Sensor = sensor
	return nil
}

func copyExtra(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
