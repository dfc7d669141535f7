package reduction

import (
	"sort"
	"strings"
)

// Path is an ordered sequence of metabolite IDs from source to destination,
// both endpoints included. Its length in edges is len(p)-1.
type Path []string

// Key returns a canonical string form usable as a set key
func (p Path) Key() string {
	return strings.Join(p, "\x1f")
}

// PathSet is a set of paths keyed by their canonical form
type PathSet map[string]Path

// Add inserts a path into the set
func (ps PathSet) Add(p Path) {
	ps[p.Key()] = p
}

// Paths returns the paths in deterministic order
func (ps PathSet) Paths() []Path {
	keys := make([]string, 0, len(ps))
	for k := range ps {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	paths := make([]Path, 0, len(keys))
	for _, k := range keys {
		paths = append(paths, ps[k])
	}
	return paths
}

// PairKey identifies an ordered pair of subsystems
type PairKey struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// cell accumulates the search results for one (pair, depth) or
// (subsystem, depth) combination
type cell struct {
	paths       PathSet
	reactions   map[string]bool // reaction IDs of edges traversed by any path
	metabolites map[string]bool // interior path nodes, endpoints excluded
}

func newCell() *cell {
	return &cell{
		paths:       make(PathSet),
		reactions:   make(map[string]bool),
		metabolites: make(map[string]bool),
	}
}

// newCells allocates one cell per depth 0..depth
func newCells(depth int) []*cell {
	cells := make([]*cell, depth+1)
	for i := range cells {
		cells[i] = newCell()
	}
	return cells
}

func setToSlice(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
