package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSteps(deps map[string][]string, order ...string) []*Step {
	steps := make([]*Step, 0, len(order))
	for _, id := range order {
		steps = append(steps, &Step{ID: id, DependsOn: deps[id]})
	}
	return steps
}

// TestGraphDegrees tests connection counting used for coupling derivation
func TestGraphDegrees(t *testing.T) {
	// fan-in: a and b feed c, c feeds d
	g := NewDependencyGraph(buildSteps(map[string][]string{
		"c": {"a", "b"},
		"d": {"c"},
	}, "a", "b", "c", "d"))

	assert.Equal(t, 4, g.Size())
	assert.Equal(t, 1, g.Connections("a"))
	assert.Equal(t, 1, g.Connections("b"))
	assert.Equal(t, 3, g.Connections("c"))
	assert.Equal(t, 1, g.Connections("d"))
	assert.Equal(t, 3, g.MaxConnections())
	assert.Equal(t, 0, g.Connections("nonexistent"))
}

// TestGraphNoEdges tests an all-independent step set
func TestGraphNoEdges(t *testing.T) {
	g := NewDependencyGraph(buildSteps(nil, "a", "b", "c"))

	assert.Equal(t, 0, g.MaxConnections())
	assert.Empty(t, g.DetectCycles())
	assert.Equal(t, []string{"a", "b", "c"}, g.TopologicalSort())
	assert.Equal(t, []string{"a", "b", "c"}, g.EntryPoints())
	assert.Equal(t, []string{"a", "b", "c"}, g.ExitPoints())
}

// TestGraphEmpty tests the zero-step graph
func TestGraphEmpty(t *testing.T) {
	g := NewDependencyGraph(nil)

	assert.Equal(t, 0, g.Size())
	assert.Equal(t, 0, g.MaxConnections())
	assert.Empty(t, g.DetectCycles())
	assert.Empty(t, g.TopologicalSort())
}

// TestDetectCycles tests cycle detection and path reconstruction
func TestDetectCycles(t *testing.T) {
	tests := []struct {
		name     string
		deps     map[string][]string
		order    []string
		cyclic   bool
		involved []string
	}{
		{
			name:   "linear chain",
			deps:   map[string][]string{"b": {"a"}, "c": {"b"}},
			order:  []string{"a", "b", "c"},
			cyclic: false,
		},
		{
			name:     "self loop",
			deps:     map[string][]string{"a": {"a"}},
			order:    []string{"a"},
			cyclic:   true,
			involved: []string{"a"},
		},
		{
			name:     "two-node cycle",
			deps:     map[string][]string{"a": {"b"}, "b": {"a"}},
			order:    []string{"a", "b"},
			cyclic:   true,
			involved: []string{"a", "b"},
		},
		{
			name: "cycle behind a clean prefix",
			deps: map[string][]string{
				"b": {"a"},
				"c": {"b", "e"},
				"d": {"c"},
				"e": {"d"},
			},
			order:    []string{"a", "b", "c", "d", "e"},
			cyclic:   true,
			involved: []string{"c", "d", "e"},
		},
		{
			name:   "diamond is acyclic",
			deps:   map[string][]string{"b": {"a"}, "c": {"a"}, "d": {"b", "c"}},
			order:  []string{"a", "b", "c", "d"},
			cyclic: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewDependencyGraph(buildSteps(tt.deps, tt.order...))
			cycle := g.DetectCycles()

			if !tt.cyclic {
				assert.Empty(t, cycle)
				return
			}

			require.NotEmpty(t, cycle)
			assert.Equal(t, cycle[0], cycle[len(cycle)-1])
			for _, id := range tt.involved {
				assert.Contains(t, cycle, id)
			}
		})
	}
}

// TestTopologicalSort tests Kahn ordering with lexicographic tie-breaking
func TestTopologicalSort(t *testing.T) {
	g := NewDependencyGraph(buildSteps(map[string][]string{
		"d": {"b", "c"},
		"b": {"a"},
		"c": {"a"},
	}, "d", "c", "b", "a"))

	order := g.TopologicalSort()
	assert.Equal(t, []string{"a", "b", "c", "d"}, order)
}

// TestTopologicalSortCyclic tests that sorting a cyclic graph returns nil
func TestTopologicalSortCyclic(t *testing.T) {
	g := NewDependencyGraph(buildSteps(map[string][]string{
		"a": {"b"},
		"b": {"a"},
	}, "a", "b"))

	assert.Nil(t, g.TopologicalSort())
}

// TestEntryAndExitPoints tests boundary node identification
func TestEntryAndExitPoints(t *testing.T) {
	g := NewDependencyGraph(buildSteps(map[string][]string{
		"mid":  {"in1", "in2"},
		"out1": {"mid"},
		"out2": {"mid"},
	}, "in1", "in2", "mid", "out1", "out2"))

	assert.Equal(t, []string{"in1", "in2"}, g.EntryPoints())
	assert.Equal(t, []string{"out1", "out2"}, g.ExitPoints())
}
