package reduction

import (
	"fmt"

	"github.com/12rambau/pytfa/pkg/graph"
	"github.com/12rambau/pytfa/pkg/logging"
	"github.com/12rambau/pytfa/pkg/model"
)

// Params configures a network reduction run
type Params struct {
	// CoreSubsystems are the subsystems whose reactions and metabolites are
	// always retained by the pruner
	CoreSubsystems []string

	// Subsystems are the subsystem names searched pairwise. When empty, the
	// core subsystems are searched.
	Subsystems []string

	// CarbonUptake is carried through for downstream consumers; the graph
	// algorithm itself does not use it
	CarbonUptake float64

	// Species excluded from the metabolite graph
	CofactorPairs    []string
	SmallMetabolites []string
	Inorganics       []string

	// Depth is the maximum inter-subsystem search depth d
	Depth int

	// Extracellular lists the extracellular metabolite IDs
	Extracellular []string

	// ExtracellularDepth is the maximum extracellular search depth n
	ExtracellularDepth int

	// MaxPaths bounds the number of paths enumerated per search; 0 disables
	// the budget
	MaxPaths int
}

// SubsystemNames returns the searched subsystem list, defaulting to the core
func (p Params) SubsystemNames() []string {
	if len(p.Subsystems) > 0 {
		return p.Subsystems
	}
	return p.CoreSubsystems
}

// Reducer runs the subnetwork-extraction algorithm: it searches shortest
// connecting paths between every ordered pair of subsystems and between the
// extracellular compartment and each subsystem, then prunes everything the
// searches did not retain.
type Reducer struct {
	network *model.Network
	graph   *graph.MetaboliteGraph
	params  Params

	subsystemReactions   map[string]map[string]bool
	subsystemMetabolites map[string]map[string]bool
	extracellular        map[string]bool

	pairCells map[PairKey][]*cell // indexed by depth 0..d
	extCells  map[string][]*cell  // indexed by depth 0..n

	minDistance map[PairKey]int
}

// NewReducer builds the metabolite graph and the per-subsystem reaction and
// metabolite sets for a network
func NewReducer(network *model.Network, params Params) (*Reducer, error) {
	if params.Depth < 0 || params.ExtracellularDepth < 0 {
		return nil, fmt.Errorf("search depths must be non-negative, got d=%d n=%d",
			params.Depth, params.ExtracellularDepth)
	}

	ignored := graph.NewIgnoredSpecies(params.CofactorPairs, params.SmallMetabolites, params.Inorganics)
	g, err := graph.Build(network, ignored)
	if err != nil {
		return nil, fmt.Errorf("building metabolite graph: %w", err)
	}
	logging.Debug("built metabolite graph",
		"nodes", len(g.Nodes()), "edges", g.EdgeCount())

	r := &Reducer{
		network:              network,
		graph:                g,
		params:               params,
		subsystemReactions:   make(map[string]map[string]bool),
		subsystemMetabolites: make(map[string]map[string]bool),
		extracellular:        make(map[string]bool),
		pairCells:            make(map[PairKey][]*cell),
		extCells:             make(map[string][]*cell),
		minDistance:          make(map[PairKey]int),
	}

	for _, metID := range params.Extracellular {
		r.extracellular[metID] = true
	}

	// Subsystem sets are needed for every searched subsystem and for every
	// core subsystem referenced by the pruner
	for _, name := range params.SubsystemNames() {
		r.extractSubsystem(name, ignored)
	}
	for _, name := range params.CoreSubsystems {
		r.extractSubsystem(name, ignored)
	}

	for _, i := range params.SubsystemNames() {
		for _, j := range params.SubsystemNames() {
			r.pairCells[PairKey{From: i, To: j}] = newCells(params.Depth)
		}
		r.extCells[i] = newCells(params.ExtracellularDepth)
	}

	return r, nil
}

// extractSubsystem fills the reaction and metabolite ID sets for a subsystem.
// A name matching no reaction yields empty sets; that is a normal outcome.
func (r *Reducer) extractSubsystem(name string, ignored *graph.IgnoredSpecies) {
	if _, done := r.subsystemReactions[name]; done {
		return
	}

	reactions := make(map[string]bool)
	metabolites := make(map[string]bool)
	for _, rxn := range r.network.Reactions {
		if rxn.Subsystem != name {
			continue
		}
		reactions[rxn.ID] = true
		for metID := range rxn.Metabolites {
			if ignored.Contains(metID) {
				continue
			}
			metabolites[metID] = true
		}
	}

	if len(reactions) == 0 {
		logging.Warn("subsystem matches no reactions", "subsystem", name)
	}
	r.subsystemReactions[name] = reactions
	r.subsystemMetabolites[name] = metabolites
}

// Run performs the full reduction and returns the reduced network together
// with the diagnostic sets
func (r *Reducer) Run() (*Result, error) {
	if err := r.runBetweenAllSubsystems(); err != nil {
		return nil, err
	}
	if err := r.runExtracellular(); err != nil {
		return nil, err
	}
	r.computeMinDistances()
	return r.prune(), nil
}

// runBetweenAllSubsystems searches every ordered subsystem pair, including
// pairs of a subsystem with itself, at every depth from 0 to d
func (r *Reducer) runBetweenAllSubsystems() error {
	names := r.params.SubsystemNames()
	for _, i := range names {
		for _, j := range names {
			key := PairKey{From: i, To: j}
			for k := 0; k <= r.params.Depth; k++ {
				starts := setToSlice(r.subsystemMetabolites[i])
				admit := r.pairAdmit(i, j, k)
				err := r.search(starts, k, admit, r.subsystemMetabolites[j], r.pairCells[key][k])
				if err != nil {
					return fmt.Errorf("searching %s -> %s at depth %d: %w", i, j, k, err)
				}
			}
			logging.Debug("searched subsystem pair", "from", i, "to", j,
				"paths", r.pairPathCount(key))
		}
	}
	return nil
}

// runExtracellular searches from every extracellular metabolite towards each
// subsystem at every depth from 0 to n
func (r *Reducer) runExtracellular() error {
	starts := setToSlice(r.extracellular)
	for _, name := range r.params.SubsystemNames() {
		for k := 0; k <= r.params.ExtracellularDepth; k++ {
			admit := r.extracellularAdmit(name, k)
			err := r.search(starts, k, admit, r.subsystemMetabolites[name], r.extCells[name][k])
			if err != nil {
				return fmt.Errorf("searching extracellular -> %s at depth %d: %w", name, k, err)
			}
		}
	}
	return nil
}

// search runs one BFS per start node and accumulates the enumerated paths and
// their intermediate reactions and metabolites into the target cell
func (r *Reducer) search(starts []string, depth int, admit admitFunc, destination map[string]bool, out *cell) error {
	for _, start := range starts {
		if !r.graph.HasNode(start) {
			continue
		}

		frontier, ancestors := boundedBFS(r.graph, start, depth, admit)

		// Depth 0 skips the expansion loop entirely: the start node only
		// counts when it is itself a destination member
		if depth == 0 && !destination[start] {
			frontier = nil
		}

		enum := newPathEnumerator(r.params.MaxPaths)
		for _, node := range setToSlice(frontier) {
			paths, err := enum.allPaths(node, start, ancestors)
			if err != nil {
				return err
			}
			for _, p := range paths {
				out.paths.Add(p)
			}
			if err := r.recordIntermediates(paths, out); err != nil {
				return err
			}
		}
	}
	return nil
}

// recordIntermediates adds every traversed edge's reaction and every interior
// node of the given paths to the cell
func (r *Reducer) recordIntermediates(paths []Path, out *cell) error {
	for _, path := range paths {
		for i := 0; i < len(path)-1; i++ {
			rxnID, ok := r.graph.ReactionTag(path[i], path[i+1])
			if !ok {
				return fmt.Errorf("no reaction tagged on edge %s -> %s", path[i], path[i+1])
			}
			out.reactions[rxnID] = true
			if i > 0 {
				out.metabolites[path[i]] = true
			}
		}
	}
	return nil
}

// computeMinDistances records, per ordered pair, the smallest depth with a
// non-empty path set. Pairs without any path up to d stay undefined.
func (r *Reducer) computeMinDistances() {
	for key, cells := range r.pairCells {
		for k, c := range cells {
			if len(c.paths) > 0 {
				r.minDistance[key] = k
				break
			}
		}
	}
}

// MinDistance returns the minimum path length between two subsystems; ok is
// false when no path exists within the search horizon
func (r *Reducer) MinDistance(from, to string) (int, bool) {
	d, ok := r.minDistance[PairKey{From: from, To: to}]
	return d, ok
}

// PairPaths returns the paths of exactly length depth between two subsystems
func (r *Reducer) PairPaths(from, to string, depth int) []Path {
	cells, ok := r.pairCells[PairKey{From: from, To: to}]
	if !ok || depth < 0 || depth >= len(cells) {
		return nil
	}
	return cells[depth].paths.Paths()
}

// ExtracellularPaths returns the paths of exactly length depth from the
// extracellular compartment to a subsystem
func (r *Reducer) ExtracellularPaths(subsystem string, depth int) []Path {
	cells, ok := r.extCells[subsystem]
	if !ok || depth < 0 || depth >= len(cells) {
		return nil
	}
	return cells[depth].paths.Paths()
}

// IntermediateReactions returns the reactions traversed by the paths between
// two subsystems at the given depth
func (r *Reducer) IntermediateReactions(from, to string, depth int) []string {
	cells, ok := r.pairCells[PairKey{From: from, To: to}]
	if !ok || depth < 0 || depth >= len(cells) {
		return nil
	}
	return setToSlice(cells[depth].reactions)
}

// IntermediateMetabolites returns the interior path nodes between two
// subsystems at the given depth
func (r *Reducer) IntermediateMetabolites(from, to string, depth int) []string {
	cells, ok := r.pairCells[PairKey{From: from, To: to}]
	if !ok || depth < 0 || depth >= len(cells) {
		return nil
	}
	return setToSlice(cells[depth].metabolites)
}

// SubsystemMetabolites returns the metabolite IDs touched by a subsystem's
// reactions, ignorable species excluded
func (r *Reducer) SubsystemMetabolites(name string) []string {
	return setToSlice(r.subsystemMetabolites[name])
}

// SubsystemReactions returns the reaction IDs tagged with a subsystem
func (r *Reducer) SubsystemReactions(name string) []string {
	return setToSlice(r.subsystemReactions[name])
}

func (r *Reducer) pairPathCount(key PairKey) int {
	total := 0
	for _, c := range r.pairCells[key] {
		total += len(c.paths)
	}
	return total
}
