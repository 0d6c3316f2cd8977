package rules

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-hydrograph/pkg/artifact"
	"github.com/dd0wney/cluso-hydrograph/pkg/metrics"
)

func TestReport_Status(t *testing.T) {
	hard := Finding{Rule: "R", Severity: HardFailure}
	soft := Finding{Rule: "R", Severity: SoftWarning}

	assert.Equal(t, StatusPass, NewReport().Status())
	assert.Equal(t, StatusWarn, NewReport(soft, soft).Status())
	assert.Equal(t, StatusFail, NewReport(hard).Status())
	assert.Equal(t, StatusFail, NewReport(soft, hard).Status())
}

// TestReport_StatusMonotonic verifies that adding findings never lowers the
// status
func TestReport_StatusMonotonic(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("status never decreases as findings are added", prop.ForAll(
		func(severities []bool) bool {
			r := NewReport()
			prev := r.Status()
			for _, isHard := range severities {
				f := Finding{Rule: "R", Severity: SoftWarning}
				if isHard {
					f.Severity = HardFailure
				}
				r.Add(f)
				cur := r.Status()
				if !cur.AtLeast(prev) {
					return false
				}
				prev = cur
			}
			return true
		},
		gen.SliceOf(gen.Bool()),
	))

	properties.Property("status is a function of the finding counts", prop.ForAll(
		func(hard, soft int) bool {
			r := NewReport()
			for i := 0; i < soft; i++ {
				r.Add(Finding{Severity: SoftWarning})
			}
			for i := 0; i < hard; i++ {
				r.Add(Finding{Severity: HardFailure})
			}
			switch {
			case hard > 0:
				return r.Status() == StatusFail
			case soft > 0:
				return r.Status() == StatusWarn
			default:
				return r.Status() == StatusPass
			}
		},
		gen.IntRange(0, 5),
		gen.IntRange(0, 5),
	))

	properties.TestingRun(t)
}

func TestReport_JSON(t *testing.T) {
	r := NewReport(
		Finding{Rule: CrossZoneFeedID, Location: "Z1→Z2 (A→B)", Message: "m1", Severity: SoftWarning},
		Finding{Rule: ElevationConsistencyID, Location: "A→B", Message: "m2", Severity: HardFailure},
	)

	var buf bytes.Buffer
	require.NoError(t, r.WriteJSON(&buf))
	assert.Contains(t, buf.String(), `"location": "Z1→Z2 (A→B)"`)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "FAIL", doc["status"])
	assert.Equal(t, []any{map[string]any{"rule": ElevationConsistencyID, "location": "A→B", "message": "m2"}}, doc["hard_failures"])
	assert.Len(t, doc["soft_warnings"], 1)

	var back Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, r.HardFailures, back.HardFailures)
	assert.Equal(t, r.SoftWarnings, back.SoftWarnings)
}

func TestReport_JSONEmptyLists(t *testing.T) {
	data, err := json.Marshal(NewReport())
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"PASS","hard_failures":[],"soft_warnings":[]}`, string(data))
}

func TestEngine_ValidateArtifact(t *testing.T) {
	ctx := context.Background()
	store := artifact.NewLocalStore(t.TempDir())
	require.NoError(t, artifact.Save(ctx, store, "v1/graph.bin", MockGraph()))

	reg := metrics.NewRegistry()
	engine := New(&Config{Metrics: reg})

	report := engine.ValidateArtifact(ctx, store, "v1/graph.bin")
	assert.Equal(t, StatusFail, report.Status())
	assert.Len(t, report.SoftWarnings, 2)

	assert.Equal(t, float64(1), testutil.ToFloat64(reg.ValidationRunsTotal.WithLabelValues("FAIL")))
	assert.Equal(t, float64(2), testutil.ToFloat64(reg.ValidationFindingsTotal.WithLabelValues(CrossZoneFeedID, "soft_warning")))
	assert.Equal(t, float64(1), testutil.ToFloat64(reg.ValidationFindingsTotal.WithLabelValues(ElevationConsistencyID, "hard_failure")))
}

func TestEngine_ValidateArtifact_LoadFailure(t *testing.T) {
	reg := metrics.NewRegistry()
	engine := New(&Config{Metrics: reg})

	report := engine.ValidateArtifact(context.Background(), artifact.NewLocalStore(t.TempDir()), "missing.bin")

	assert.Equal(t, StatusFail, report.Status())
	assert.Empty(t, report.SoftWarnings)
	require.Len(t, report.HardFailures, 1)
	f := report.HardFailures[0]
	assert.Equal(t, InputValidationID, f.Rule)
	assert.Equal(t, LoadFailureLocation, f.Location)
	assert.True(t, strings.HasPrefix(f.Message, "Failed to load graph from missing.bin: "), f.Message)
	assert.Equal(t, float64(1), testutil.ToFloat64(reg.ValidationFindingsTotal.WithLabelValues(InputValidationID, "hard_failure")))
}

func TestEngine_ValidateArtifact_Corrupt(t *testing.T) {
	ctx := context.Background()
	store := artifact.NewLocalStore(t.TempDir())
	require.NoError(t, store.Put(ctx, "graph.bin", []byte("not an artifact")))

	report := New(nil).ValidateArtifact(ctx, store, "graph.bin")
	require.Len(t, report.HardFailures, 1)
	assert.Equal(t, InputValidationID, report.HardFailures[0].Rule)
}

func TestRenderText(t *testing.T) {
	out := RenderText(New(nil).Run(MockGraph()))

	assert.Contains(t, out, "FAIL")
	assert.Contains(t, out, "Hard failures")
	assert.Contains(t, out, ElevationConsistencyID)
	assert.Contains(t, out, "Junction_C1→Junction_C_High")
	assert.Contains(t, out, "1 hard failure(s), 2 soft warning(s)")

	pass := RenderText(NewReport())
	assert.Contains(t, pass, "PASS")
	assert.NotContains(t, pass, "Soft warnings")
}
