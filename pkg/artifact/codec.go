package artifact

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/golang/snappy"
	"golang.org/x/crypto/blake2b"

	"github.com/dd0wney/cluso-hydrograph/pkg/network"
)

const (
	// Format identifies the envelope and document layout.
	Format = "hydrograph/v1"
	// Namespace tags every document written by this package.
	Namespace = "cluso.hydrograph"
)

// ErrCorruptArtifact is returned when an artifact fails to decompress, has an
// unknown format, or does not match its checksum.
var ErrCorruptArtifact = errors.New("corrupt artifact")

// ErrInvalidText is returned by Marshal for a graph string that is not valid
// UTF-8; JSON would replace the offending bytes and change the identifier.
var ErrInvalidText = errors.New("graph text is not valid UTF-8")

// envelope is the outer, snappy-compressed wrapper. Checksum is the hex
// blake2b-256 digest of Payload.
type envelope struct {
	Format   string `json:"format"`
	Checksum string `json:"checksum"`
	Payload  []byte `json:"payload"`
}

type document struct {
	Format    string    `json:"format"`
	Namespace string    `json:"namespace"`
	Nodes     []nodeDoc `json:"nodes"`
	Edges     []edgeDoc `json:"edges"`
}

type nodeDoc struct {
	ID        string            `json:"id"`
	Kind      string            `json:"kind"`
	Elevation *float64          `json:"elevation,omitempty"`
	Zone      string            `json:"zone,omitempty"`
	Demand    *float64          `json:"demand,omitempty"`
	Sensor    string            `json:"sensor,omitempty"`
	Extra     map[string]string `json:"extra,omitempty"`
}

type edgeDoc struct {
	From    string   `json:"from"`
	To      string   `json:"to"`
	Kind    string   `json:"kind"`
	LengthM *float64 `json:"length_m,omitempty"`
	PumpID  string   `json:"pump_id,omitempty"`
	Curve   string   `json:"curve,omitempty"`
}

// Marshal serializes g into artifact bytes.
func Marshal(g *network.Graph) ([]byte, error) {
	doc := document{
		Format:    Format,
		Namespace: Namespace,
		Nodes:     make([]nodeDoc, 0, g.NodeCount()),
		Edges:     make([]edgeDoc, 0, g.EdgeCount()),
	}
	for _, n := range g.Nodes() {
		if err := checkText("node", n.ID, n.ID, n.Zone, n.Overlay.Sensor); err != nil {
			return nil, err
		}
		for k, v := range n.Overlay.Extra {
			if err := checkText("node", n.ID, k, v); err != nil {
				return nil, err
			}
		}
		doc.Nodes = append(doc.Nodes, nodeDoc{
			ID:        n.ID,
			Kind:      n.Kind.String(),
			Elevation: n.Elevation,
			Zone:      n.Zone,
			Demand:    n.Overlay.Demand,
			Sensor:    n.Overlay.Sensor,
			Extra:     n.Overlay.Extra,
		})
	}
	for _, e := range g.Edges() {
		if err := checkText("edge", e.From+"->"+e.To, e.From, e.To, e.Pump.PumpID, e.Pump.Curve); err != nil {
			return nil, err
		}
		doc.Edges = append(doc.Edges, edgeDoc{
			From:    e.From,
			To:      e.To,
			Kind:    e.Kind.String(),
			LengthM: e.Pipe.LengthM,
			PumpID:  e.Pump.PumpID,
			Curve:   e.Pump.Curve,
		})
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal graph document: %w", err)
	}

	sum := blake2b.Sum256(payload)
	env, err := json.Marshal(envelope{
		Format:   Format,
		Checksum: hex.EncodeToString(sum[:]),
		Payload:  payload,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal envelope: %w", err)
	}

	return snappy.Encode(nil, env), nil
}

func checkText(entity, id string, values ...string) error {
	for _, v := range values {
		if !utf8.ValidString(v) {
			return fmt.Errorf("%w: %s %q: %q", ErrInvalidText, entity, strings.ToValidUTF8(id, "?"), v)
		}
	}
	return nil
}

// Unmarshal rebuilds a graph from artifact bytes, preserving node and edge
// insertion order.
func Unmarshal(data []byte) (*network.Graph, error) {
	raw, err := snappy.Decode(nil, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptArtifact, err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: envelope: %v", ErrCorruptArtifact, err)
	}
	if env.Format != Format {
		return nil, fmt.Errorf("%w: unsupported format %q", ErrCorruptArtifact, env.Format)
	}

	sum := blake2b.Sum256(env.Payload)
	if hex.EncodeToString(sum[:]) != env.Checksum {
		return nil, fmt.Errorf("%w: checksum mismatch", ErrCorruptArtifact)
	}

	var doc document
	if err := json.Unmarshal(env.Payload, &doc); err != nil {
		return nil, fmt.Errorf("%w: document: %v", ErrCorruptArtifact, err)
	}

	g := network.New()
	for _, nd := range doc.Nodes {
		kind, ok := network.ParseNodeKind(nd.Kind)
		if !ok {
			return nil, fmt.Errorf("%w: node %q has unknown kind %q", ErrCorruptArtifact, nd.ID, nd.Kind)
		}
		_, err := g.AddNode(network.Node{
			ID:        nd.ID,
			Kind:      kind,
			Elevation: nd.Elevation,
			Zone:      nd.Zone,
			Overlay: network.Overlay{
				Demand: nd.Demand,
				Sensor: nd.Sensor,
				Extra:  nd.Extra,
			},
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptArtifact, err)
		}
	}
	for _, ed := range doc.Edges {
		kind, ok := network.ParseEdgeKind(ed.Kind)
		if !ok {
			return nil, fmt.Errorf("%w: edge %s->%s has unknown kind %q", ErrCorruptArtifact, ed.From, ed.To, ed.Kind)
		}
		_, err := g.AddEdge(network.Edge{
			From: ed.From,
			To:   ed.To,
			Kind: kind,
			Pipe: network.PipeAttrs{LengthM: ed.LengthM},
			Pump: network.PumpAttrs{PumpID: ed.PumpID, Curve: ed.Curve},
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptArtifact, err)
		}
	}

	return g, nil
}

// Encode writes the artifact for g to w.
func Encode(w io.Writer, g *network.Graph) error {
	data, err := Marshal(g)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Decode reads a whole artifact from r.
func Decode(r io.Reader) (*network.Graph, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("failed to read artifact: %w", err)
	}
	return Unmarshal(buf.Bytes())
}
