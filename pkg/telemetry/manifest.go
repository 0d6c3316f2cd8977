package telemetry

import (
	"time"

	"github.com/google/uuid"

	"github.com/dd0wney/cluso-hydrograph/pkg/simulation"
)

// Output file names inside a run directory.
const (
	LabelsFile   = "labels.json"
	ManifestFile = "manifest.json"
)

var scenarioFiles = map[string]string{
	simulation.ScenarioNormal: "normal.csv",
	simulation.ScenarioLeak:   "leak_scenarios.csv",
	simulation.ScenarioMisuse: "misuse_scenarios.csv",
}

// FileName returns the CSV file name for a scenario.
func FileName(scenario string) string {
	if name, ok := scenarioFiles[scenario]; ok {
		return name
	}
	return scenario + ".csv"
}

// ScenarioEntry describes one exported scenario.
type ScenarioEntry struct {
	Name    string                   `json:"name"`
	File    string                   `json:"file"`
	Seed    uint64                   `json:"seed"`
	Rows    int                      `json:"rows"`
	Labels  int                      `json:"labels"`
	Summary []simulation.NodeSummary `json:"summary,omitempty"`
}

// Manifest records what a run produced.
type Manifest struct {
	RunID     uuid.UUID       `json:"run_id"`
	CreatedAt time.Time       `json:"created_at"`
	Version   string          `json:"version,omitempty"`
	Root      string          `json:"root,omitempty"`
	Interval  string          `json:"interval"`
	Scenarios []ScenarioEntry `json:"scenarios"`
	Sinks     []string        `json:"sinks,omitempty"`
}

// TotalRows is the number of CSV rows across all scenarios.
func (m *Manifest) TotalRows() int {
	n := 0
	for _, s := range m.Scenarios {
		n += s.Rows
	}
	return n
}
