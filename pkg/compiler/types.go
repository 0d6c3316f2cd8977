package compiler

import (
	"fmt"

	"github.com/dd0wney/cluso-hydrograph/pkg/network"
)

// Input file names, relative to the versioned data directory.
const (
	TopologyFile    = "WaterSystem.txt"
	TemplatesFile   = "Floor_Templates.txt"
	ApplicationFile = "Template_Application.txt"
	DemandFile      = "Demand_Profiles.txt"
	SensorFile      = "Sensors.txt"
)

// Warning kinds, also used as the metrics label.
const (
	WarnMissingFile     = "missing_file"
	WarnMissingOperands = "missing_operands"
	WarnUnknownNode     = "unknown_node"
	WarnTemplateBlock   = "template_block"
	WarnUnknownTemplate = "unknown_template"
	WarnNoTemplateRoot  = "no_template_root"
	WarnBadOperand      = "bad_operand"
)

// Template root node names, in order of preference.
const (
	RootFloorInlet = "FloorInlet"
	RootRiser      = "Riser"
)

// Warning is a recoverable problem found while compiling. Line is 0 for
// file-level warnings.
type Warning struct {
	File    string `json:"file"`
	Line    int    `json:"line,omitempty"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func (w Warning) String() string {
	if w.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", w.File, w.Line, w.Message)
	}
	return fmt.Sprintf("%s: %s", w.File, w.Message)
}

// Stats counts what the compiler did.
type Stats struct {
	TemplatesLoaded int `json:"templates_loaded"`
	Applications    int `json:"applications"`
	ExpandedNodes   int `json:"expanded_nodes"`
	ExpandedEdges   int `json:"expanded_edges"`
	Demands         int `json:"demands"`
	Sensors         int `json:"sensors"`
}

// Result is the output of a successful compilation.
type Result struct {
	Graph    *network.Graph
	Warnings []Warning
	Stats    Stats
}

// DirectiveError is a fatal problem with a single directive, such as a
// numeric operand that does not parse.
type DirectiveError struct {
	File      string
	Line      int
	Directive string
	Cause     error
}

func (e *DirectiveError) Error() string {
	return fmt.Sprintf("%s:%d: %s: %v", e.File, e.Line, e.Directive, e.Cause)
}

func (e *DirectiveError) Unwrap() error {
	return e.Cause
}

// TemplateEdge is an edge between two unqualified template node names.
type TemplateEdge struct {
	From string
	To   string
}

// Template is a reusable floor subgraph. Nodes holds every template node in
// declaration order, including nodes introduced only as edge endpoints.
type Template struct {
	Name  string
	Nodes []string
	Edges []TemplateEdge
}

func (t *Template) addNode(id string) {
	for _, n := range t.Nodes {
		if n == id {
			return
		}
	}
	t.Nodes = append(t.Nodes, id)
}

// Root returns the node that receives the TemplateConnection edge:
// FloorInlet, else Riser. ok is false when neither exists.
func (t *Template) Root() (root string, ok bool) {
	var hasRiser bool
	for _, n := range t.Nodes {
		if n == RootFloorInlet {
			return RootFloorInlet, true
		}
		if n == RootRiser {
			hasRiser = true
		}
	}
	if hasRiser {
		return RootRiser, true
	}
	return "", false
}
