package graph

import (
	"fmt"
	"sort"

	"github.com/12rambau/pytfa/pkg/model"
	"gonum.org/v1/gonum/graph/simple"
)

// IgnoredSpecies holds the metabolite identifiers excluded from the graph:
// cofactor pairs, small metabolites and inorganics. They carry no pathway
// information and would otherwise connect everything to everything.
type IgnoredSpecies struct {
	CofactorPairs    map[string]bool
	SmallMetabolites map[string]bool
	Inorganics       map[string]bool
}

// NewIgnoredSpecies builds the exclusion sets from identifier lists
func NewIgnoredSpecies(cofactorPairs, smallMetabolites, inorganics []string) *IgnoredSpecies {
	return &IgnoredSpecies{
		CofactorPairs:    toSet(cofactorPairs),
		SmallMetabolites: toSet(smallMetabolites),
		Inorganics:       toSet(inorganics),
	}
}

// Contains reports whether the metabolite is in any exclusion set
func (ig *IgnoredSpecies) Contains(metaboliteID string) bool {
	return ig.CofactorPairs[metaboliteID] ||
		ig.SmallMetabolites[metaboliteID] ||
		ig.Inorganics[metaboliteID]
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// MetaboliteGraph is the directed reactant-to-product graph of a network.
// Nodes are metabolite IDs; an edge (a, b) means some reaction consumes a
// and produces b, and carries that reaction's ID as a tag.
type MetaboliteGraph struct {
	graph  *simple.DirectedGraph
	ids    map[string]int64  // metabolite ID -> graph node ID
	names  map[int64]string  // graph node ID -> metabolite ID
	tags   map[[2]string]string // (from, to) -> reaction ID
	nextID int64
}

// NewMetaboliteGraph creates an empty metabolite graph
func NewMetaboliteGraph() *MetaboliteGraph {
	return &MetaboliteGraph{
		graph: simple.NewDirectedGraph(),
		ids:   make(map[string]int64),
		names: make(map[int64]string),
		tags:  make(map[[2]string]string),
	}
}

// Build constructs the graph for a network, skipping ignored species.
// Every retained reactant of a reaction is connected to every retained
// product. When two reactions induce the same edge, the later reaction's
// tag overwrites the earlier one.
func Build(network *model.Network, ignored *IgnoredSpecies) (*MetaboliteGraph, error) {
	g := NewMetaboliteGraph()

	for _, rxnID := range network.ReactionIDs() {
		rxn := network.Reactions[rxnID]

		var reactants, products []string
		for metID, coeff := range rxn.Metabolites {
			if _, ok := network.Metabolites[metID]; !ok {
				return nil, fmt.Errorf("reaction %s references unknown metabolite %s", rxn.ID, metID)
			}
			if ignored.Contains(metID) {
				continue
			}
			g.addNode(metID)
			if coeff < 0 {
				reactants = append(reactants, metID)
			} else if coeff > 0 {
				products = append(products, metID)
			}
		}

		sort.Strings(reactants)
		sort.Strings(products)
		for _, reactant := range reactants {
			for _, product := range products {
				g.addEdge(reactant, product, rxn.ID)
			}
		}
	}

	return g, nil
}

func (g *MetaboliteGraph) addNode(metaboliteID string) {
	if _, exists := g.ids[metaboliteID]; exists {
		return
	}
	g.ids[metaboliteID] = g.nextID
	g.names[g.nextID] = metaboliteID
	g.graph.AddNode(simple.Node(g.nextID))
	g.nextID++
}

func (g *MetaboliteGraph) addEdge(from, to, reactionID string) {
	if from == to {
		return
	}
	fromID := g.ids[from]
	toID := g.ids[to]
	if !g.graph.HasEdgeFromTo(fromID, toID) {
		g.graph.SetEdge(g.graph.NewEdge(g.graph.Node(fromID), g.graph.Node(toID)))
	}
	// Last writer wins when multiple reactions share the edge
	g.tags[[2]string{from, to}] = reactionID
}

// HasNode reports whether the metabolite is a node in the graph
func (g *MetaboliteGraph) HasNode(metaboliteID string) bool {
	_, ok := g.ids[metaboliteID]
	return ok
}

// Successors returns the metabolites reachable from the given one in one step
func (g *MetaboliteGraph) Successors(metaboliteID string) []string {
	id, ok := g.ids[metaboliteID]
	if !ok {
		return nil
	}

	var successors []string
	iter := g.graph.From(id)
	for iter.Next() {
		successors = append(successors, g.names[iter.Node().ID()])
	}
	sort.Strings(successors)
	return successors
}

// ReactionTag returns the reaction ID tagged on the edge (from, to)
func (g *MetaboliteGraph) ReactionTag(from, to string) (string, bool) {
	tag, ok := g.tags[[2]string{from, to}]
	return tag, ok
}

// Nodes returns all metabolite IDs present in the graph
func (g *MetaboliteGraph) Nodes() []string {
	nodes := make([]string, 0, len(g.ids))
	for id := range g.ids {
		nodes = append(nodes, id)
	}
	sort.Strings(nodes)
	return nodes
}

// EdgeCount returns the number of edges in the graph
func (g *MetaboliteGraph) EdgeCount() int {
	return len(g.tags)
}
