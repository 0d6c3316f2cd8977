package simulation

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/dd0wney/cluso-hydrograph/pkg/algorithms"
	"github.com/dd0wney/cluso-hydrograph/pkg/network"
)

// model is the per-graph precomputation shared read-only by all steps.
// Node data lives in slices indexed by graph insertion order.
type model struct {
	params Params
	root   int

	ids        []string
	index      map[string]int
	baseDemand []float64
	terminal   []bool // out-degree 0 and carries a Demand overlay
	succ       [][]int
	pred       [][]int
	succKind   [][]network.EdgeKind // parallel to succ

	postOrder []int  // nodes reachable from root, successors before predecessors
	reachable []bool // reachable from root
}

func newModel(g *network.Graph, root string, params Params) (*model, error) {
	ids := g.NodeIDs()
	index := make(map[string]int, len(ids))
	for i, id := range ids {
		index[id] = i
	}

	m := &model{
		params:     params,
		root:       index[root],
		ids:        ids,
		index:      index,
		baseDemand: make([]float64, len(ids)),
		terminal:   make([]bool, len(ids)),
		succ:       make([][]int, len(ids)),
		pred:       make([][]int, len(ids)),
		succKind:   make([][]network.EdgeKind, len(ids)),
		reachable:  make([]bool, len(ids)),
	}

	for i, n := range g.Nodes() {
		m.baseDemand[i] = n.BaseDemand()
		m.terminal[i] = g.OutDegree(n.ID) == 0 && n.HasDemand()

		for _, s := range g.Successors(n.ID) {
			e, _ := g.Edge(n.ID, s)
			m.succ[i] = append(m.succ[i], index[s])
			m.succKind[i] = append(m.succKind[i], e.Kind)
		}
		for _, p := range g.Predecessors(n.ID) {
			m.pred[i] = append(m.pred[i], index[p])
		}
	}

	order, err := algorithms.ReverseTopologicalFrom(g, root)
	if err != nil {
		return nil, err
	}
	m.postOrder = make([]int, len(order))
	for i, id := range order {
		m.postOrder[i] = index[id]
		m.reachable[index[id]] = true
	}
	return m, nil
}

// diurnalFactor is the two-term sinusoid peaking in the morning and evening.
func (m *model) diurnalFactor(hour float64) float64 {
	return 1 + m.params.DiurnalMorning*math.Sin((hour-6)*math.Pi/12) +
		m.params.DiurnalEvening*math.Sin((hour-18)*math.Pi/12)
}

// rootPressure is the baseline head at the supply root converted to kPa.
func (m *model) rootPressure(hour float64) float64 {
	head := m.params.BaseHead + m.params.HeadAmplitude*math.Sin(hour*math.Pi/12)
	return head * m.params.Hydrostatic
}

func (m *model) elevationGain(kind network.EdgeKind) float64 {
	switch kind {
	case network.TemplateConnection:
		return 0
	default:
		// Pump edges share the Pipe gain even though validation exempts
		// them from the uphill rule.
		return m.params.PipeDropM * m.params.Hydrostatic
	}
}

// stepResult carries the intermediate values of a step for tests.
type stepResult struct {
	row        Row
	effective  []float64
	downstream []float64
}

// step computes one timestamp. rng must be freshly seeded for this step so
// that runs differing only in anomaly draw identical noise.
func (m *model) step(ts time.Time, rng *rand.Rand, anomaly *AnomalyWindow, target int) stepResult {
	n := len(m.ids)
	hour := float64(ts.Hour())
	factor := m.diurnalFactor(hour)

	leak, misuse := -1, -1
	if anomaly != nil {
		switch anomaly.Type {
		case Leak:
			leak = target
		case Misuse:
			misuse = target
		}
	}

	// Effective demand, drawn in insertion order for every node.
	effective := make([]float64, n)
	for i := range effective {
		base := m.baseDemand[i]
		if i == misuse {
			base += m.params.MisuseOffset
		}
		noise := m.params.NoiseMin + (m.params.NoiseMax-m.params.NoiseMin)*rng.Float64()
		effective[i] = base * factor * noise
	}

	// Downstream demand, successors before predecessors.
	downstream := make([]float64, n)
	for _, u := range m.postOrder {
		total := effective[u]
		if u == leak {
			total += m.params.LeakOffset
		}
		for _, v := range m.succ[u] {
			total += downstream[v]
		}
		downstream[u] = total
	}

	// Pressure, breadth-first from the root, first visit wins.
	pressure := make([]float64, n)
	for i := range pressure {
		pressure[i] = m.params.UnreachedPressure
	}
	visited := make([]bool, n)
	pressure[m.root] = m.rootPressure(hour)
	visited[m.root] = true
	queue := []int{m.root}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for k, v := range m.succ[u] {
			if visited[v] {
				continue
			}
			flow := downstream[v]
			p := pressure[u] + m.elevationGain(m.succKind[u][k]) - m.params.FrictionCoef*flow*flow
			if v == leak {
				p -= m.params.LeakPressurePenalty
			}
			pressure[v] = p
			visited[v] = true
			queue = append(queue, v)
		}
	}

	// Flow: terminal demand points report their own draw, everything else
	// the sum of inbound edge flows. Edges out of unreachable nodes carry 0.
	flow := make([]float64, n)
	for v := range flow {
		if m.terminal[v] {
			flow[v] = effective[v]
			continue
		}
		for _, u := range m.pred[v] {
			if m.reachable[u] {
				flow[v] += downstream[v]
			}
		}
	}

	return stepResult{
		row:        Row{Timestamp: ts, Pressure: pressure, Flow: flow},
		effective:  effective,
		downstream: downstream,
	}
}
