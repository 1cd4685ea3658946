package workflow

import (
	"sort"
)

// DependencyGraph is the directed graph derived from step depends_on
// declarations. An edge A -> B means B depends on A (A must run first).
// The graph is built once during parsing and is read-only afterwards.
type DependencyGraph struct {
	// adjacency maps a step ID to the IDs of steps that depend on it.
	adjacency map[string][]string

	// inDegree counts incoming edges (dependencies) per step.
	inDegree map[string]int

	// outDegree counts outgoing edges (dependents) per step.
	outDegree map[string]int
}

// NewDependencyGraph builds the dependency graph for an ordered step list.
// Dangling depends_on references must be rejected before calling this.
func NewDependencyGraph(steps []*Step) *DependencyGraph {
	g := &DependencyGraph{
		adjacency: make(map[string][]string, len(steps)),
		inDegree:  make(map[string]int, len(steps)),
		outDegree: make(map[string]int, len(steps)),
	}

	for _, step := range steps {
		if _, ok := g.adjacency[step.ID]; !ok {
			g.adjacency[step.ID] = []string{}
		}
		g.inDegree[step.ID] += 0
		g.outDegree[step.ID] += 0
	}

	for _, step := range steps {
		for _, depID := range step.DependsOn {
			g.adjacency[depID] = append(g.adjacency[depID], step.ID)
			g.inDegree[step.ID]++
			g.outDegree[depID]++
		}
	}

	return g
}

// Connections returns the total degree (in + out) of a step. This is the
// topology signal used to derive protocol coupling for vulnerabilities that
// do not carry an explicit coupling factor.
func (g *DependencyGraph) Connections(stepID string) int {
	return g.inDegree[stepID] + g.outDegree[stepID]
}

// MaxConnections returns the highest total degree across all steps.
// Returns 0 for an empty graph.
func (g *DependencyGraph) MaxConnections() int {
	max := 0
	for id := range g.adjacency {
		if c := g.Connections(id); c > max {
			max = c
		}
	}
	return max
}

// Size returns the number of nodes in the graph.
func (g *DependencyGraph) Size() int {
	return len(g.adjacency)
}

// DetectCycles uses depth-first search with color marking to find a
// dependency cycle. Colors: white (0) = unvisited, gray (1) = in-progress,
// black (2) = done. Returns the step IDs along the cycle path if one exists,
// otherwise an empty slice.
func (g *DependencyGraph) DetectCycles() []string {
	if len(g.adjacency) == 0 {
		return []string{}
	}

	color := make(map[string]int, len(g.adjacency))
	parent := make(map[string]string, len(g.adjacency))

	var dfs func(nodeID string) []string
	dfs = func(nodeID string) []string {
		color[nodeID] = 1

		for _, neighbor := range g.adjacency[nodeID] {
			if color[neighbor] == 0 {
				parent[neighbor] = nodeID
				if cycle := dfs(neighbor); cycle != nil {
					return cycle
				}
			} else if color[neighbor] == 1 {
				// Back edge found; reconstruct the cycle path.
				cycle := []string{neighbor}
				current := nodeID
				for current != neighbor {
					cycle = append([]string{current}, cycle...)
					current = parent[current]
				}
				cycle = append([]string{neighbor}, cycle...)
				return cycle
			}
		}

		color[nodeID] = 2
		return nil
	}

	// Iterate roots in sorted order so the reported cycle is stable.
	roots := make([]string, 0, len(g.adjacency))
	for id := range g.adjacency {
		roots = append(roots, id)
	}
	sort.Strings(roots)

	for _, id := range roots {
		if color[id] == 0 {
			if cycle := dfs(id); cycle != nil {
				return cycle
			}
		}
	}

	return []string{}
}

// TopologicalSort orders step IDs using Kahn's algorithm (BFS with in-degree
// tracking). Ties are broken lexicographically so the order is deterministic.
// Returns nil if the graph contains a cycle.
func (g *DependencyGraph) TopologicalSort() []string {
	inDegree := make(map[string]int, len(g.adjacency))
	for id := range g.adjacency {
		inDegree[id] = g.inDegree[id]
	}

	queue := []string{}
	for id, degree := range inDegree {
		if degree == 0 {
			queue = append(queue, id)
		}
	}
	sort.Strings(queue)

	result := make([]string, 0, len(g.adjacency))
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		result = append(result, current)

		ready := []string{}
		for _, neighbor := range g.adjacency[current] {
			inDegree[neighbor]--
			if inDegree[neighbor] == 0 {
				ready = append(ready, neighbor)
			}
		}
		sort.Strings(ready)
		queue = append(queue, ready...)
	}

	if len(result) != len(g.adjacency) {
		return nil
	}

	return result
}

// EntryPoints returns step IDs with no dependencies, sorted.
func (g *DependencyGraph) EntryPoints() []string {
	entries := []string{}
	for id := range g.adjacency {
		if g.inDegree[id] == 0 {
			entries = append(entries, id)
		}
	}
	sort.Strings(entries)
	return entries
}

// ExitPoints returns step IDs no other step depends on, sorted.
func (g *DependencyGraph) ExitPoints() []string {
	exits := []string{}
	for id := range g.adjacency {
		if g.outDegree[id] == 0 {
			exits = append(exits, id)
		}
	}
	sort.Strings(exits)
	return exits
}
