package reduction

import (
	"errors"
	"testing"

	"github.com/12rambau/pytfa/pkg/model"
)

type testReaction struct {
	id        string
	subsystem string
	stoich    map[string]float64
}

func testNetwork(t *testing.T, reactions []testReaction) *model.Network {
	t.Helper()
	n := model.NewNetwork("test")
	for _, r := range reactions {
		for metID := range r.stoich {
			n.AddMetabolite(&model.Metabolite{ID: metID})
		}
	}
	for _, r := range reactions {
		n.AddReaction(&model.Reaction{
			ID:          r.id,
			Subsystem:   r.subsystem,
			Metabolites: r.stoich,
		})
	}
	return n
}

// chainNetwork is the A->B->C->D scenario: subsystem X touches only A,
// subsystem Y touches only D, and three untagged reactions form the chain.
func chainNetwork(t *testing.T) *model.Network {
	return testNetwork(t, []testReaction{
		{id: "XIN", subsystem: "X", stoich: map[string]float64{"A": 1}},
		{id: "YOUT", subsystem: "Y", stoich: map[string]float64{"D": -1}},
		{id: "RAB", stoich: map[string]float64{"A": -1, "B": 1}},
		{id: "RBC", stoich: map[string]float64{"B": -1, "C": 1}},
		{id: "RCD", stoich: map[string]float64{"C": -1, "D": 1}},
	})
}

func TestChainScenario(t *testing.T) {
	n := chainNetwork(t)
	r, err := NewReducer(n, Params{
		CoreSubsystems: []string{"X", "Y"},
		Depth:          3,
	})
	if err != nil {
		t.Fatalf("NewReducer() error = %v", err)
	}
	if _, err := r.Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	// Depths 0..2 must yield nothing for (X, Y)
	for k := 0; k < 3; k++ {
		if paths := r.PairPaths("X", "Y", k); len(paths) != 0 {
			t.Errorf("Expected no (X,Y) paths at depth %d, got %v", k, paths)
		}
	}

	paths := r.PairPaths("X", "Y", 3)
	if len(paths) != 1 || !pathEquals(paths[0], "A", "B", "C", "D") {
		t.Fatalf("Expected single path (A,B,C,D) at depth 3, got %v", paths)
	}

	mets := r.IntermediateMetabolites("X", "Y", 3)
	if len(mets) != 2 || mets[0] != "B" || mets[1] != "C" {
		t.Errorf("Expected intermediate metabolites [B C], got %v", mets)
	}

	rxns := r.IntermediateReactions("X", "Y", 3)
	if len(rxns) != 3 || rxns[0] != "RAB" || rxns[1] != "RBC" || rxns[2] != "RCD" {
		t.Errorf("Expected intermediate reactions [RAB RBC RCD], got %v", rxns)
	}

	if d, ok := r.MinDistance("X", "Y"); !ok || d != 3 {
		t.Errorf("Expected min distance 3, got %d (defined=%v)", d, ok)
	}
}

func TestDepthZeroRules(t *testing.T) {
	n := chainNetwork(t)
	r, err := NewReducer(n, Params{
		CoreSubsystems: []string{"X", "Y"},
		Depth:          1,
	})
	if err != nil {
		t.Fatalf("NewReducer() error = %v", err)
	}
	if _, err := r.Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	// (i, i, 0) holds one single-node path per subsystem metabolite
	paths := r.PairPaths("X", "X", 0)
	if len(paths) != 1 || !pathEquals(paths[0], "A") {
		t.Errorf("Expected (X,X,0) = {(A)}, got %v", paths)
	}

	// (i, j, 0) with i != j is empty
	if paths := r.PairPaths("X", "Y", 0); len(paths) != 0 {
		t.Errorf("Expected empty (X,Y,0), got %v", paths)
	}

	// Single-node paths have no edges and no interior nodes
	if rxns := r.IntermediateReactions("X", "X", 0); len(rxns) != 0 {
		t.Errorf("Expected no intermediate reactions at depth 0, got %v", rxns)
	}
	if mets := r.IntermediateMetabolites("X", "X", 0); len(mets) != 0 {
		t.Errorf("Expected no intermediate metabolites at depth 0, got %v", mets)
	}

	if d, ok := r.MinDistance("X", "X"); !ok || d != 0 {
		t.Errorf("Expected min distance (X,X) = 0, got %d (defined=%v)", d, ok)
	}
	if _, ok := r.MinDistance("X", "Y"); ok {
		t.Error("Expected undefined min distance for (X,Y) within horizon 1")
	}
}

func TestTiedPathsAllEnumerated(t *testing.T) {
	// Diamond between the subsystems: A->B1->D and A->B2->D
	n := testNetwork(t, []testReaction{
		{id: "XIN", subsystem: "X", stoich: map[string]float64{"A": 1}},
		{id: "YOUT", subsystem: "Y", stoich: map[string]float64{"D": -1}},
		{id: "R1", stoich: map[string]float64{"A": -1, "B1": 1}},
		{id: "R2", stoich: map[string]float64{"A": -1, "B2": 1}},
		{id: "R3", stoich: map[string]float64{"B1": -1, "D": 1}},
		{id: "R4", stoich: map[string]float64{"B2": -1, "D": 1}},
	})

	r, err := NewReducer(n, Params{
		CoreSubsystems: []string{"X", "Y"},
		Depth:          2,
	})
	if err != nil {
		t.Fatalf("NewReducer() error = %v", err)
	}
	if _, err := r.Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	paths := r.PairPaths("X", "Y", 2)
	if len(paths) != 2 {
		t.Fatalf("Expected both tied paths, got %v", paths)
	}

	mets := r.IntermediateMetabolites("X", "Y", 2)
	if len(mets) != 2 || mets[0] != "B1" || mets[1] != "B2" {
		t.Errorf("Expected intermediate metabolites [B1 B2], got %v", mets)
	}
}

func TestNoEarlyArrivalInDestination(t *testing.T) {
	// D is reachable in 2 steps; a depth-3 search must not pass through it
	n := testNetwork(t, []testReaction{
		{id: "XIN", subsystem: "X", stoich: map[string]float64{"A": 1}},
		{id: "YOUT", subsystem: "Y", stoich: map[string]float64{"D": -1}},
		{id: "R1", stoich: map[string]float64{"A": -1, "B": 1}},
		{id: "R2", stoich: map[string]float64{"B": -1, "D": 1}},
		{id: "R3", stoich: map[string]float64{"D": -1, "E": 1}},
		{id: "R4", stoich: map[string]float64{"E": -1, "D": 1}},
	})

	r, err := NewReducer(n, Params{
		CoreSubsystems: []string{"X", "Y"},
		Depth:          3,
	})
	if err != nil {
		t.Fatalf("NewReducer() error = %v", err)
	}
	if _, err := r.Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if paths := r.PairPaths("X", "Y", 2); len(paths) != 1 {
		t.Errorf("Expected the direct depth-2 path, got %v", paths)
	}
	// At depth 3, the only way to D re-enters it early, which is forbidden
	if paths := r.PairPaths("X", "Y", 3); len(paths) != 0 {
		t.Errorf("Expected no depth-3 paths through the destination, got %v", paths)
	}
	if d, _ := r.MinDistance("X", "Y"); d != 2 {
		t.Errorf("Expected min distance 2, got %d", d)
	}
}

func TestExtracellularSearch(t *testing.T) {
	// E_e is extracellular, one step from X's metabolite A
	n := testNetwork(t, []testReaction{
		{id: "XIN", subsystem: "X", stoich: map[string]float64{"A": 1}},
		{id: "UPTAKE", stoich: map[string]float64{"E_e": -1, "A": 1}},
	})

	r, err := NewReducer(n, Params{
		CoreSubsystems:     []string{"X"},
		Extracellular:      []string{"E_e"},
		Depth:              1,
		ExtracellularDepth: 1,
	})
	if err != nil {
		t.Fatalf("NewReducer() error = %v", err)
	}
	result, err := r.Run()
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	// E_e is not in X, so depth 0 is empty
	if paths := r.ExtracellularPaths("X", 0); len(paths) != 0 {
		t.Errorf("Expected empty extracellular depth-0 set, got %v", paths)
	}

	paths := r.ExtracellularPaths("X", 1)
	if len(paths) != 1 || !pathEquals(paths[0], "E_e", "A") {
		t.Fatalf("Expected path (E_e,A), got %v", paths)
	}

	// The uptake reaction is retained and the extracellular species kept
	if _, ok := result.Network.Reactions["UPTAKE"]; !ok {
		t.Error("UPTAKE reaction traversed by an extracellular path must be kept")
	}
	for _, id := range result.RemovedMetabolites {
		if id == "E_e" {
			t.Error("Extracellular metabolites are always kept")
		}
	}
}

func TestPruningPartitionProperty(t *testing.T) {
	n := chainNetwork(t)
	// Add a disconnected reaction that nothing retains
	n.AddMetabolite(&model.Metabolite{ID: "Z1"})
	n.AddMetabolite(&model.Metabolite{ID: "Z2"})
	n.AddReaction(&model.Reaction{
		ID:          "RZ",
		Metabolites: map[string]float64{"Z1": -1, "Z2": 1},
	})

	r, err := NewReducer(n, Params{
		CoreSubsystems: []string{"X", "Y"},
		Depth:          3,
	})
	if err != nil {
		t.Fatalf("NewReducer() error = %v", err)
	}
	result, err := r.Run()
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	// Kept and removed reactions partition the original reaction set
	seen := make(map[string]int)
	for _, id := range result.KeptReactions {
		seen[id]++
	}
	for _, id := range result.RemovedReactions {
		seen[id]++
	}
	for _, id := range n.ReactionIDs() {
		if seen[id] != 1 {
			t.Errorf("Reaction %s appears %d times across kept+removed, want exactly 1", id, seen[id])
		}
	}
	if len(seen) != len(n.Reactions) {
		t.Errorf("Kept+removed cover %d reactions, want %d", len(seen), len(n.Reactions))
	}

	if _, ok := result.Network.Reactions["RZ"]; ok {
		t.Error("Disconnected reaction RZ should be pruned")
	}
	if _, ok := result.Network.Reactions["RAB"]; !ok {
		t.Error("Path reaction RAB should be kept")
	}
	// Orphan cascade removes the disconnected metabolites
	if _, ok := result.Network.Metabolites["Z1"]; ok {
		t.Error("Orphaned metabolite Z1 should be cascaded away")
	}

	// The original network is never mutated
	if _, ok := n.Reactions["RZ"]; !ok {
		t.Error("Pruning must operate on a working copy")
	}
}

func TestIgnoredSpeciesKeptByCascadeOnly(t *testing.T) {
	// A cofactor participates in a core reaction: it is listed as removable
	// (no rule retains it) but survives because the reaction survives.
	n := testNetwork(t, []testReaction{
		{id: "XR", subsystem: "X", stoich: map[string]float64{"A": -1, "B": 1, "atp_c": -1}},
	})

	r, err := NewReducer(n, Params{
		CoreSubsystems: []string{"X"},
		CofactorPairs:  []string{"atp_c"},
		Depth:          0,
	})
	if err != nil {
		t.Fatalf("NewReducer() error = %v", err)
	}
	result, err := r.Run()
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	found := false
	for _, id := range result.RemovedMetabolites {
		if id == "atp_c" {
			found = true
		}
	}
	if !found {
		t.Error("Cofactor should appear in the computed to-remove set")
	}
	if _, ok := result.Network.Metabolites["atp_c"]; !ok {
		t.Error("Cofactor referenced by a kept reaction must survive (metabolite removal is not applied directly)")
	}
}

func TestEmptySubsystemIsNotFatal(t *testing.T) {
	n := chainNetwork(t)
	r, err := NewReducer(n, Params{
		CoreSubsystems: []string{"X", "Y", "DoesNotExist"},
		Depth:          1,
	})
	if err != nil {
		t.Fatalf("NewReducer() error = %v", err)
	}
	if _, err := r.Run(); err != nil {
		t.Fatalf("Run() with empty subsystem error = %v", err)
	}

	if paths := r.PairPaths("DoesNotExist", "X", 1); len(paths) != 0 {
		t.Errorf("Empty subsystem should produce no paths, got %v", paths)
	}
	if _, ok := r.MinDistance("X", "DoesNotExist"); ok {
		t.Error("Distance to an empty subsystem must stay undefined")
	}
}

func TestRunPathBudget(t *testing.T) {
	// Wide diamond with three tied paths and a budget of two
	n := testNetwork(t, []testReaction{
		{id: "XIN", subsystem: "X", stoich: map[string]float64{"A": 1}},
		{id: "YOUT", subsystem: "Y", stoich: map[string]float64{"D": -1}},
		{id: "R1", stoich: map[string]float64{"A": -1, "B1": 1}},
		{id: "R2", stoich: map[string]float64{"A": -1, "B2": 1}},
		{id: "R3", stoich: map[string]float64{"A": -1, "B3": 1}},
		{id: "R4", stoich: map[string]float64{"B1": -1, "D": 1}},
		{id: "R5", stoich: map[string]float64{"B2": -1, "D": 1}},
		{id: "R6", stoich: map[string]float64{"B3": -1, "D": 1}},
	})

	r, err := NewReducer(n, Params{
		CoreSubsystems: []string{"X", "Y"},
		Depth:          2,
		MaxPaths:       2,
	})
	if err != nil {
		t.Fatalf("NewReducer() error = %v", err)
	}

	_, err = r.Run()
	if err == nil {
		t.Fatal("Expected path budget error")
	}
	if !errors.Is(err, ErrPathBudget) {
		t.Errorf("Expected ErrPathBudget, got %v", err)
	}
}

func TestNegativeDepthRejected(t *testing.T) {
	n := chainNetwork(t)
	if _, err := NewReducer(n, Params{CoreSubsystems: []string{"X"}, Depth: -1}); err == nil {
		t.Error("Expected error for negative depth")
	}
}
