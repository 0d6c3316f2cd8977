package compiler

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"testing/fstest"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-hydrograph/pkg/metrics"
	"github.com/dd0wney/cluso-hydrograph/pkg/network"
)

func file(content string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte(content)}
}

func compile(t *testing.T, fsys fstest.MapFS) *Result {
	t.Helper()
	res, err := New(nil).Compile(context.Background(), fsys)
	require.NoError(t, err)
	return res
}

func warningsOfKind(res *Result, kind string) []Warning {
	var out []Warning
	for _, w := range res.Warnings {
		if w.Kind == kind {
			out = append(out, w)
		}
	}
	return out
}

func TestCompile_TopologyOnly(t *testing.T) {
	res := compile(t, fstest.MapFS{
		TopologyFile: file("Source Main\nTank Roof\n\nPipe Main Roof\nPipe Roof Tap 12.5\n"),
	})
	g := res.Graph

	assert.Equal(t, []string{"Main", "Roof", "Tap"}, g.NodeIDs())
	main, _ := g.Node("Main")
	roof, _ := g.Node("Roof")
	tap, _ := g.Node("Tap")
	assert.Equal(t, network.Source, main.Kind)
	assert.Equal(t, network.Tank, roof.Kind)
	assert.Equal(t, network.Junction, tap.Kind)

	require.Equal(t, 2, g.EdgeCount())
	e, ok := g.Edge("Roof", "Tap")
	require.True(t, ok)
	assert.Equal(t, network.Pipe, e.Kind)
	require.NotNil(t, e.Pipe.LengthM)
	assert.Equal(t, 12.5, *e.Pipe.LengthM)

	// the four other inputs are absent
	assert.Len(t, warningsOfKind(res, WarnMissingFile), 4)
}

func TestCompile_PumpAndJunction(t *testing.T) {
	res := compile(t, fstest.MapFS{
		TopologyFile: file("Tank Sump\nJunction J1\nPump PumpA Sump Roof CurveX\nPump PumpB Sump\n"),
	})

	e, ok := res.Graph.Edge("Sump", "Roof")
	require.True(t, ok)
	assert.Equal(t, network.Pump, e.Kind)
	assert.Equal(t, "PumpA", e.Pump.PumpID)
	assert.Equal(t, "CurveX", e.Pump.Curve)
	assert.True(t, res.Graph.HasNode("J1"))

	short := warningsOfKind(res, WarnMissingOperands)
	require.Len(t, short, 1)
	assert.Equal(t, 4, short[0].Line)
}

func TestCompile_EmptyFS(t *testing.T) {
	res := compile(t, fstest.MapFS{})

	assert.Equal(t, 0, res.Graph.NodeCount())
	assert.Len(t, warningsOfKind(res, WarnMissingFile), 5)
}

// TestCompile_TemplateApplicationAddsExactlyTemplateNodes checks that one Apply
// adds the template's nodes and a single connection edge.
func TestCompile_TemplateApplicationAddsExactlyTemplateNodes(t *testing.T) {
	base := fstest.MapFS{
		TopologyFile: file("Tank Roof\nPipe Roof Floor1_Inlet\n"),
		TemplatesFile: file(`Template Office
Node Riser
Node Kitchen
Node RestroomBlock
Edge Riser Kitchen
Edge Riser RestroomBlock
EndTemplate
`),
	}
	before := compile(t, base)

	withApply := fstest.MapFS{}
	for k, v := range base {
		withApply[k] = v
	}
	withApply[ApplicationFile] = file("Apply Office Floor1_Inlet\n")
	after := compile(t, withApply)

	assert.Equal(t, before.Graph.NodeCount()+3, after.Graph.NodeCount())
	assert.Equal(t, before.Graph.EdgeCount()+2+1, after.Graph.EdgeCount())

	conn, ok := after.Graph.Edge("Floor1_Inlet", "Floor1_Inlet.Riser")
	require.True(t, ok)
	assert.Equal(t, network.TemplateConnection, conn.Kind)

	e, ok := after.Graph.Edge("Floor1_Inlet.Riser", "Floor1_Inlet.Kitchen")
	require.True(t, ok)
	assert.Equal(t, network.Pipe, e.Kind)

	n, _ := after.Graph.Node("Floor1_Inlet.Kitchen")
	assert.Equal(t, network.Junction, n.Kind)

	assert.Equal(t, 1, after.Stats.Applications)
	assert.Equal(t, 3, after.Stats.ExpandedNodes)
	assert.Equal(t, 1, after.Stats.TemplatesLoaded)
}

func TestCompile_RootPreference(t *testing.T) {
	res := compile(t, fstest.MapFS{
		TemplatesFile: file(`Template Both
Node Riser
Node FloorInlet
Edge FloorInlet Riser
EndTemplate
Template Bare
Node Sink
EndTemplate
`),
		ApplicationFile: file("Apply Both F1\nApply Bare F2\n"),
	})
	g := res.Graph

	_, ok := g.Edge("F1", "F1.FloorInlet")
	assert.True(t, ok, "FloorInlet preferred over Riser")
	_, ok = g.Edge("F1", "F1.Riser")
	assert.False(t, ok)

	assert.True(t, g.HasNode("F2.Sink"))
	assert.False(t, g.HasNode("F2"), "no connection edge means no attachment node")
	require.Len(t, warningsOfKind(res, WarnNoTemplateRoot), 1)
}

func TestCompile_UnknownTemplateIsNoop(t *testing.T) {
	res := compile(t, fstest.MapFS{
		TopologyFile:    file("Tank Roof\n"),
		ApplicationFile: file("Apply Ghost Roof\n"),
	})

	assert.Equal(t, 1, res.Graph.NodeCount())
	assert.Equal(t, 0, res.Graph.EdgeCount())
	w := warningsOfKind(res, WarnUnknownTemplate)
	require.Len(t, w, 1)
	assert.Equal(t, ApplicationFile, w[0].File)
	assert.Equal(t, 1, w[0].Line)
}

func TestCompile_ReapplyMergesWithoutDuplicates(t *testing.T) {
	res := compile(t, fstest.MapFS{
		TemplatesFile:   file("Template T\nNode Riser\nNode Bath1\nEdge Riser Bath1\nEndTemplate\n"),
		ApplicationFile: file("Apply T F1\nApply T F1\n"),
	})

	assert.Equal(t, 3, res.Graph.NodeCount())
	assert.Equal(t, 2, res.Graph.EdgeCount())
	assert.Equal(t, 2, res.Stats.Applications)
}

func TestCompile_TemplateBlockRecovery(t *testing.T) {
	res := compile(t, fstest.MapFS{
		TemplatesFile: file(`Node Stray
Template A
Node Riser
Template B
Node Riser
Edge Riser Tap
EndTemplate
EndTemplate
Template C
Node FloorInlet
`),
		ApplicationFile: file("Apply A X\nApply B Y\nApply C Z\n"),
	})

	assert.Equal(t, 3, res.Stats.TemplatesLoaded, "nested and unterminated blocks are still registered")
	assert.Len(t, warningsOfKind(res, WarnTemplateBlock), 4)
	assert.True(t, res.Graph.HasNode("X.Riser"))
	assert.True(t, res.Graph.HasNode("Y.Tap"), "edge endpoints become template nodes")
	_, ok := res.Graph.Edge("Z", "Z.FloorInlet")
	assert.True(t, ok)
}

func TestCompile_DemandsAndSensors(t *testing.T) {
	res := compile(t, fstest.MapFS{
		TopologyFile:  file("Tank Roof\nPipe Roof Tap\n"),
		DemandFile:    file("Demand Tap 2.5\nDemand Ghost 1\n"),
		SensorFile:    file("Sensor Tap Flow\nSensor Roof Pressure\nSensor Ghost Flow\n"),
		TemplatesFile: file(""),
	})

	tap, _ := res.Graph.Node("Tap")
	assert.Equal(t, 2.5, tap.BaseDemand())
	assert.Equal(t, "Flow", tap.Overlay.Sensor)
	roof, _ := res.Graph.Node("Roof")
	assert.False(t, roof.HasDemand())
	assert.Equal(t, "Pressure", roof.Overlay.Sensor)

	assert.Len(t, warningsOfKind(res, WarnUnknownNode), 2)
	assert.Equal(t, 1, res.Stats.Demands)
	assert.Equal(t, 2, res.Stats.Sensors)
}

func TestCompile_NumericParseFailureIsFatal(t *testing.T) {
	tests := []struct {
		name string
		fsys fstest.MapFS
		file string
		line int
	}{
		{
			name: "demand",
			fsys: fstest.MapFS{
				TopologyFile: file("Tank Roof\n"),
				DemandFile:   file("Demand Roof 1\nDemand Roof lots\n"),
			},
			file: DemandFile,
			line: 2,
		},
		{
			name: "elevation",
			fsys: fstest.MapFS{TopologyFile: file("Tank Roof\n\nElevation Roof high\n")},
			file: TopologyFile,
			line: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(nil).Compile(context.Background(), tt.fsys)
			require.Error(t, err)

			var de *DirectiveError
			require.True(t, errors.As(err, &de))
			assert.Equal(t, tt.file, de.File)
			assert.Equal(t, tt.line, de.Line)

			var numErr *strconv.NumError
			assert.True(t, errors.As(err, &numErr))
		})
	}
}

// TestCompile_PipeLengthNotNumeric tests that a bad optional length is
// dropped with a warning while the pipe itself is kept.
func TestCompile_PipeLengthNotNumeric(t *testing.T) {
	res := compile(t, fstest.MapFS{TopologyFile: file("Tank Roof\nPipe Roof F1 ten\nPipe F1 F2 4.5\n")})

	e, ok := res.Graph.Edge("Roof", "F1")
	require.True(t, ok)
	assert.Nil(t, e.Pipe.LengthM)
	e, ok = res.Graph.Edge("F1", "F2")
	require.True(t, ok)
	require.NotNil(t, e.Pipe.LengthM)
	assert.Equal(t, 4.5, *e.Pipe.LengthM)

	ws := warningsOfKind(res, WarnBadOperand)
	require.Len(t, ws, 1)
	assert.Equal(t, 2, ws[0].Line)
}

// TestCompile_InvalidUTF8IsFatal tests that identifiers which could not be
// persisted unchanged stop the compile at the offending line.
func TestCompile_InvalidUTF8IsFatal(t *testing.T) {
	tests := []struct {
		name string
		fsys fstest.MapFS
		file string
		line int
	}{
		{
			name: "topology node",
			fsys: fstest.MapFS{TopologyFile: file("Tank Roof\nPipe Roof Floor\xff1\n")},
			file: TopologyFile,
			line: 2,
		},
		{
			name: "sensor tag",
			fsys: fstest.MapFS{
				TopologyFile: file("Tank Roof\n"),
				SensorFile:   file("Sensor Roof Pres\xc3\n"),
			},
			file: SensorFile,
			line: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(nil).Compile(context.Background(), tt.fsys)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidEncoding)

			var de *DirectiveError
			require.True(t, errors.As(err, &de))
			assert.Equal(t, tt.file, de.File)
			assert.Equal(t, tt.line, de.Line)
		})
	}
}

func TestCompile_DeferredAttributesTargetTemplateNodes(t *testing.T) {
	res := compile(t, fstest.MapFS{
		TopologyFile: file(`Tank Roof
Elevation Roof 160
Zone F1.Riser ZoneD
Elevation F1.Riser 150.5
Zone Missing ZoneX
Pipe Roof F1
`),
		TemplatesFile:   file("Template T\nNode Riser\nEndTemplate\n"),
		ApplicationFile: file("Apply T F1\n"),
	})

	riser, ok := res.Graph.Node("F1.Riser")
	require.True(t, ok)
	assert.Equal(t, "ZoneD", riser.Zone)
	require.NotNil(t, riser.Elevation)
	assert.Equal(t, 150.5, *riser.Elevation)

	roof, _ := res.Graph.Node("Roof")
	assert.Equal(t, 160.0, *roof.Elevation)

	w := warningsOfKind(res, WarnUnknownNode)
	require.Len(t, w, 1)
	assert.Equal(t, 5, w[0].Line)
}

func TestCompile_UnrecognisedDirectivesIgnored(t *testing.T) {
	res := compile(t, fstest.MapFS{
		TopologyFile: file("Valve V1\nTank Roof\n# not a comment either\n"),
	})
	assert.Equal(t, []string{"Roof"}, res.Graph.NodeIDs())
}

func TestCompile_Metrics(t *testing.T) {
	reg := metrics.NewRegistry()
	c := New(&Config{Metrics: reg})

	_, err := c.Compile(context.Background(), fstest.MapFS{
		TopologyFile:    file("Tank Roof\nPipe Roof F1\n"),
		TemplatesFile:   file("Template T\nNode Riser\nEndTemplate\n"),
		ApplicationFile: file("Apply T F1\nApply Nope F2\n"),
	})
	require.NoError(t, err)

	assert.Equal(t, 2.0, testutil.ToFloat64(reg.CompileWarningsTotal.WithLabelValues(WarnMissingFile)))
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.TemplateExpansionsTotal.WithLabelValues("T", "expanded")))
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.TemplateExpansionsTotal.WithLabelValues("Nope", "unknown_template")))
	assert.Equal(t, 3.0, testutil.ToFloat64(reg.CompiledNodes))
}

func TestCompile_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(nil).Compile(ctx, fstest.MapFS{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCompileDir(t *testing.T) {
	res, err := New(nil).CompileDir(context.Background(), "testdata", "v1")
	require.NoError(t, err)

	assert.Empty(t, res.Warnings)
	assert.True(t, res.Graph.HasNode("Floor2_Inlet.Bath1"))
	assert.Equal(t, 2, res.Stats.Applications)
}
