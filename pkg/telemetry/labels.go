package telemetry

import (
	"encoding/json"
	"io"

	"github.com/dd0wney/cluso-hydrograph/pkg/simulation"
)

type labelDoc struct {
	Timestamp   string `json:"timestamp"`
	NodeID      string `json:"node_id"`
	AnomalyType string `json:"anomaly_type"`
	Severity    string `json:"severity"`
}

// WriteLabels writes labels as an indented JSON array. An empty slice is
// written as [].
func WriteLabels(w io.Writer, labels []simulation.Label) error {
	docs := make([]labelDoc, len(labels))
	for i, l := range labels {
		docs[i] = labelDoc{
			Timestamp:   l.Timestamp.Format(TimestampLayout),
			NodeID:      l.NodeID,
			AnomalyType: string(l.AnomalyType),
			Severity:    string(l.Severity),
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(docs)
}
