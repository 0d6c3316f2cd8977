package telemetry

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/dd0wney/cluso-hydrograph/pkg/simulation"
)

// TimestampLayout is the ISO-8601 form used in CSV rows and labels.
const TimestampLayout = "2006-01-02T15:04:05"

// Header returns the CSV header for nodes: timestamp followed by a pressure
// and a flow column per node.
func Header(nodes []string) []string {
	header := make([]string, 0, 1+2*len(nodes))
	header = append(header, "timestamp")
	for _, id := range nodes {
		header = append(header, id+"_pressure", id+"_flow")
	}
	return header
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// WriteCSV writes the series as a wide table, one row per step.
func WriteCSV(w io.Writer, s *simulation.Series) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header(s.Nodes)); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	record := make([]string, 1+2*len(s.Nodes))
	for i, row := range s.Rows {
		if len(row.Pressure) != len(s.Nodes) || len(row.Flow) != len(s.Nodes) {
			return fmt.Errorf("row %d: expected %d columns per quantity, got %d/%d",
				i, len(s.Nodes), len(row.Pressure), len(row.Flow))
		}
		record[0] = row.Timestamp.Format(TimestampLayout)
		for j := range s.Nodes {
			record[1+2*j] = formatValue(row.Pressure[j])
			record[2+2*j] = formatValue(row.Flow[j])
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
