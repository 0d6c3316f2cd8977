package algorithms

import (
	"strings"

	"github.com/dd0wney/cluso-hydrograph/pkg/network"
)

// Cycle represents a detected cycle as a sequence of node IDs. The edge from
// the last element back to the first closes the cycle.
type Cycle []string

func (c Cycle) String() string {
	if len(c) == 0 {
		return ""
	}
	return strings.Join(c, "->") + "->" + c[0]
}

type dfsFrame struct {
	id   string
	next int // index into Successors(id)
}

// FindCycle returns one cycle of the graph, if any, using DFS with three-color
// marking:
//   - white: unvisited
//   - gray: on the current DFS path
//   - black: all descendants explored
//
// Reaching a gray node closes a cycle. The DFS uses an explicit stack so deep
// risers do not grow the goroutine stack.
func FindCycle(g *network.Graph) (Cycle, bool) {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int, g.NodeCount())
	for _, start := range g.NodeIDs() {
		if color[start] != white {
			continue
		}

		stack := []dfsFrame{{id: start}}
		color[start] = gray

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			succ := g.Successors(top.id)
			if top.next >= len(succ) {
				color[top.id] = black
				stack = stack[:len(stack)-1]
				continue
			}

			neighbor := succ[top.next]
			top.next++

			switch color[neighbor] {
			case white:
				color[neighbor] = gray
				stack = append(stack, dfsFrame{id: neighbor})
			case gray:
				return extractCycle(stack, neighbor), true
			}
		}
	}
	return nil, false
}

// extractCycle walks the DFS path back to the gray node that closed the cycle.
func extractCycle(stack []dfsFrame, start string) Cycle {
	var cycle Cycle
	for i := len(stack) - 1; i >= 0; i-- {
		cycle = append(cycle, stack[i].id)
		if stack[i].id == start {
			break
		}
	}
	for i, j := 0, len(cycle)-1; i < j; i, j = i+1, j-1 {
		cycle[i], cycle[j] = cycle[j], cycle[i]
	}
	return cycle
}
