package simulation

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// NodeSummary aggregates one node's telemetry over a run.
type NodeSummary struct {
	NodeID         string  `json:"node_id"`
	PressureMean   float64 `json:"pressure_mean"`
	PressureStdDev float64 `json:"pressure_stddev"`
	PressureMin    float64 `json:"pressure_min"`
	FlowMean       float64 `json:"flow_mean"`
	FlowStdDev     float64 `json:"flow_stddev"`
	FlowMax        float64 `json:"flow_max"`
}

// Summarize computes per-node statistics of a series in node order.
func Summarize(s *Series) []NodeSummary {
	if len(s.Rows) == 0 {
		return nil
	}
	out := make([]NodeSummary, len(s.Nodes))
	pressure := make([]float64, len(s.Rows))
	flow := make([]float64, len(s.Rows))

	for i, id := range s.Nodes {
		for r, row := range s.Rows {
			pressure[r] = row.Pressure[i]
			flow[r] = row.Flow[i]
		}
		pm, ps := meanStdDev(pressure)
		fm, fs := meanStdDev(flow)
		out[i] = NodeSummary{
			NodeID:         id,
			PressureMean:   pm,
			PressureStdDev: ps,
			PressureMin:    floats.Min(pressure),
			FlowMean:       fm,
			FlowStdDev:     fs,
			FlowMax:        floats.Max(flow),
		}
	}
	return out
}

// meanStdDev returns the mean and sample standard deviation, with a zero
// deviation for a single sample.
func meanStdDev(x []float64) (float64, float64) {
	if len(x) < 2 {
		return stat.Mean(x, nil), 0
	}
	return stat.MeanStdDev(x, nil)
}
