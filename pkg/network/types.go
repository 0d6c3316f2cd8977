package network

// NodeKind is the role a node plays in the distribution network.
type NodeKind uint8

const (
	// Junction is the default kind for nodes created implicitly by pipes,
	// pumps and template expansion.
	Junction NodeKind = iota
	Source
	Tank
)

func (k NodeKind) String() string {
	switch k {
	case Source:
		return "Source"
	case Tank:
		return "Tank"
	case Junction:
		return "Junction"
	default:
		return "Unknown"
	}
}

// ParseNodeKind is the inverse of NodeKind.String.
func ParseNodeKind(s string) (NodeKind, bool) {
	switch s {
	case "Source":
		return Source, true
	case "Tank":
		return Tank, true
	case "Junction":
		return Junction, true
	}
	return Junction, false
}

// EdgeKind is the role an edge plays in the distribution network.
type EdgeKind uint8

const (
	Pipe EdgeKind = iota
	Pump
	TemplateConnection
)

func (k EdgeKind) String() string {
	switch k {
	case Pipe:
		return "Pipe"
	case Pump:
		return "Pump"
	case TemplateConnection:
		return "TemplateConnection"
	default:
		return "Unknown"
	}
}

// ParseEdgeKind is the inverse of EdgeKind.String.
func ParseEdgeKind(s string) (EdgeKind, bool) {
	switch s {
	case "Pipe":
		return Pipe, true
	case "Pump":
		return Pump, true
	case "TemplateConnection":
		return TemplateConnection, true
	}
	return Pipe, false
}

// Overlay carries the demand and sensor data attached after topology and
// template expansion. Extra is a forward-compatible slot for overlays the
// core does not interpret.
type Overlay struct {
	Demand *float64
	Sensor string
	Extra  map[string]string
}

// Node is a vertex of the compiled graph.
type Node struct {
	ID        string
	Kind      NodeKind
	Elevation *float64 // meters
	Zone      string
	Overlay   Overlay
}

// BaseDemand returns the baseline volumetric demand, 0 when none is attached.
func (n *Node) BaseDemand() float64 {
	if n.Overlay.Demand == nil {
		return 0
	}
	return *n.Overlay.Demand
}

// HasDemand reports whether a Demand overlay was attached.
func (n *Node) HasDemand() bool {
	return n.Overlay.Demand != nil
}

// PipeAttrs is the metadata of a Pipe edge.
type PipeAttrs struct {
	LengthM *float64
}

// PumpAttrs is the metadata of a Pump edge.
type PumpAttrs struct {
	PumpID string
	Curve  string
}

// Edge is a directed connection between two nodes. Only the attribute
// block matching Kind is meaningful.
type Edge struct {
	From string
	To   string
	Kind EdgeKind
	Pipe PipeAttrs
	Pump PumpAttrs
}

// EdgeKey identifies an edge by its endpoints.
type EdgeKey struct {
	From string
	To   string
}

// Key returns the edge identity.
func (e *Edge) Key() EdgeKey {
	return EdgeKey{From: e.From, To: e.To}
}

// Statistics summarises graph contents by role.
type Statistics struct {
	NodeCount int
	EdgeCount int
	ByNodeKind map[NodeKind]int
	ByEdgeKind map[EdgeKind]int
}

// Float returns a pointer to v; handy for optional attributes.
func Float(v float64) *float64 {
	return &v
}
