package algorithms

import (
	"github.com/dd0wney/cluso-hydrograph/pkg/network"
)

// IsDAG checks if the graph is a Directed Acyclic Graph
func IsDAG(g *network.Graph) bool {
	_, ok := FindCycle(g)
	return !ok
}

// TopologicalSort returns node IDs in topological order using Kahn's algorithm.
// For every edge u->v, u comes before v. Ties are broken by node insertion
// order so the result is deterministic. Returns an error wrapping
// network.ErrCyclicGraph when the graph contains a cycle.
func TopologicalSort(g *network.Graph) ([]string, error) {
	ids := g.NodeIDs()
	inDegree := make(map[string]int, len(ids))
	for _, id := range ids {
		inDegree[id] = g.InDegree(id)
	}

	queue := make([]string, 0, len(ids))
	for _, id := range ids {
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	sorted := make([]string, 0, len(ids))
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		sorted = append(sorted, current)

		for _, next := range g.Successors(current) {
			inDegree[next]--
			if inDegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}

	if len(sorted) != len(ids) {
		b := network.NewError("TopologicalSort").Cause(network.ErrCyclicGraph)
		if cycle, ok := FindCycle(g); ok {
			b = b.Context("cycle " + cycle.String())
		}
		return nil, b.Build()
	}

	return sorted, nil
}

// ReachableFrom returns the nodes reachable from root (root included) in
// breadth-first discovery order. Successors are visited in edge insertion
// order and each node is reported once.
func ReachableFrom(g *network.Graph, root string) ([]string, error) {
	if !g.HasNode(root) {
		return nil, network.NewError("ReachableFrom").Node(root).Cause(network.ErrNodeNotFound).Build()
	}

	visited := map[string]bool{root: true}
	order := []string{root}
	for i := 0; i < len(order); i++ {
		for _, next := range g.Successors(order[i]) {
			if !visited[next] {
				visited[next] = true
				order = append(order, next)
			}
		}
	}
	return order, nil
}

// ReverseTopologicalFrom returns the nodes reachable from root ordered so
// that every node appears after all of its reachable successors. Processing
// the result front to back is a post-order over the sub-DAG below root.
func ReverseTopologicalFrom(g *network.Graph, root string) ([]string, error) {
	reachable, err := ReachableFrom(g, root)
	if err != nil {
		return nil, err
	}
	inSub := make(map[string]bool, len(reachable))
	for _, id := range reachable {
		inSub[id] = true
	}

	sorted, err := TopologicalSort(g)
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(reachable))
	for i := len(sorted) - 1; i >= 0; i-- {
		if inSub[sorted[i]] {
			out = append(out, sorted[i])
		}
	}
	return out, nil
}

// Roots returns nodes with in-degree 0 in insertion order.
func Roots(g *network.Graph) []string {
	var roots []string
	for _, id := range g.NodeIDs() {
		if g.InDegree(id) == 0 {
			roots = append(roots, id)
		}
	}
	return roots
}

// IsConnected checks weak connectivity (edges treated as undirected).
func IsConnected(g *network.Graph) bool {
	ids := g.NodeIDs()
	if len(ids) <= 1 {
		return true
	}

	visited := map[string]bool{ids[0]: true}
	queue := []string{ids[0]}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		neighbors := append(append([]string{}, g.Successors(current)...), g.Predecessors(current)...)
		for _, n := range neighbors {
			if !visited[n] {
				visited[n] = true
				queue = append(queue, n)
			}
		}
	}
	return len(visited) == len(ids)
}
