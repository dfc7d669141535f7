package reduction

import (
	"testing"

	"github.com/12rambau/pytfa/pkg/graph"
	"github.com/12rambau/pytfa/pkg/model"
)

// chainGraph builds a graph for the reactions given as (id, reactant, product)
func chainGraph(t *testing.T, edges [][3]string) *graph.MetaboliteGraph {
	t.Helper()
	n := model.NewNetwork("test")
	for _, e := range edges {
		n.AddMetabolite(&model.Metabolite{ID: e[1]})
		n.AddMetabolite(&model.Metabolite{ID: e[2]})
		n.AddReaction(&model.Reaction{
			ID:          e[0],
			Metabolites: map[string]float64{e[1]: -1, e[2]: 1},
		})
	}
	g, err := graph.Build(n, graph.NewIgnoredSpecies(nil, nil, nil))
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return g
}

func admitAll(node string, step int, explored map[string]bool) bool {
	return !explored[node]
}

func TestBoundedBFSDepthZero(t *testing.T) {
	g := chainGraph(t, [][3]string{{"R1", "A", "B"}})

	frontier, ancestors := boundedBFS(g, "A", 0, admitAll)
	if len(frontier) != 1 || !frontier["A"] {
		t.Errorf("Depth 0 frontier should be {A}, got %v", frontier)
	}
	if len(ancestors) != 0 {
		t.Errorf("Depth 0 should record no ancestors, got %v", ancestors)
	}
}

func TestBoundedBFSFrontierAtExactDepth(t *testing.T) {
	g := chainGraph(t, [][3]string{
		{"R1", "A", "B"},
		{"R2", "B", "C"},
		{"R3", "C", "D"},
	})

	frontier, ancestors := boundedBFS(g, "A", 2, admitAll)
	if len(frontier) != 1 || !frontier["C"] {
		t.Errorf("Expected frontier {C} at depth 2, got %v", frontier)
	}
	if got := ancestors["C"]; len(got) != 1 || got[0] != "B" {
		t.Errorf("Expected ancestors[C] = [B], got %v", got)
	}
	if got := ancestors["B"]; len(got) != 1 || got[0] != "A" {
		t.Errorf("Expected ancestors[B] = [A], got %v", got)
	}
}

func TestBoundedBFSRecordsConvergingAncestors(t *testing.T) {
	// Diamond: A->B1->D and A->B2->D
	g := chainGraph(t, [][3]string{
		{"R1", "A", "B1"},
		{"R2", "A", "B2"},
		{"R3", "B1", "D"},
		{"R4", "B2", "D"},
	})

	frontier, ancestors := boundedBFS(g, "A", 2, admitAll)
	if len(frontier) != 1 || !frontier["D"] {
		t.Errorf("Expected frontier {D}, got %v", frontier)
	}
	if got := ancestors["D"]; len(got) != 2 {
		t.Errorf("Expected two ancestors for D, got %v", got)
	}
}

func TestBoundedBFSDoesNotRevisitExplored(t *testing.T) {
	// Cycle A->B->A; explored nodes must not re-enter the frontier
	g := chainGraph(t, [][3]string{
		{"R1", "A", "B"},
		{"R2", "B", "A"},
	})

	frontier, _ := boundedBFS(g, "A", 2, admitAll)
	if len(frontier) != 0 {
		t.Errorf("Expected empty frontier after exhausting the cycle, got %v", frontier)
	}
}
