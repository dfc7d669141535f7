package reduction

import (
	"github.com/12rambau/pytfa/pkg/graph"
)

// admitFunc decides whether a candidate node may join the next frontier.
// step is the index of the current expansion round (0-based), explored is
// the set of nodes reached in previous rounds.
type admitFunc func(node string, step int, explored map[string]bool) bool

// boundedBFS expands frontier by frontier from start for exactly depth steps.
// It returns the final frontier and the ancestors map: for every node reached
// during the search, the list of frontier nodes that discovered it in the
// immediately preceding step. A node collects several ancestors when multiple
// equal-length paths converge on it.
func boundedBFS(g *graph.MetaboliteGraph, start string, depth int, admit admitFunc) (map[string]bool, map[string][]string) {
	frontier := map[string]bool{start: true}
	explored := map[string]bool{start: true}
	ancestors := make(map[string][]string)

	for step := 0; step < depth; step++ {
		next := make(map[string]bool)
		for _, current := range setToSlice(frontier) {
			for _, successor := range g.Successors(current) {
				if !admit(successor, step, explored) {
					continue
				}
				next[successor] = true
				ancestors[successor] = append(ancestors[successor], current)
			}
		}
		// explored grows only between rounds, so two frontier nodes may both
		// discover the same successor within one round
		for node := range next {
			explored[node] = true
		}
		frontier = next
	}

	return frontier, ancestors
}

// pairAdmit is the admission rule for subsystem-to-subsystem searches:
// never revisit explored nodes, never re-enter the source subsystem (unless
// searching within a single subsystem), and only land in the destination
// subsystem on the final step.
func (r *Reducer) pairAdmit(subsystemI, subsystemJ string, depth int) admitFunc {
	source := r.subsystemMetabolites[subsystemI]
	destination := r.subsystemMetabolites[subsystemJ]

	return func(node string, step int, explored map[string]bool) bool {
		if explored[node] {
			return false
		}
		if subsystemI != subsystemJ && source[node] {
			return false
		}
		if step < depth-1 && destination[node] {
			return false
		}
		if step == depth-1 && !destination[node] {
			return false
		}
		return true
	}
}

// extracellularAdmit is the admission rule for searches starting from the
// extracellular compartment: never re-enter the extracellular set, and only
// land in the destination subsystem on the final step.
func (r *Reducer) extracellularAdmit(subsystem string, depth int) admitFunc {
	destination := r.subsystemMetabolites[subsystem]

	return func(node string, step int, explored map[string]bool) bool {
		if explored[node] {
			return false
		}
		if r.extracellular[node] {
			return false
		}
		if step < depth-1 && destination[node] {
			return false
		}
		if step == depth-1 && !destination[node] {
			return false
		}
		return true
	}
}
