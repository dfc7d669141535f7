package reduction

import (
	"errors"
	"fmt"
)

// ErrPathBudget is reported when path enumeration would produce more paths
// than the configured budget allows. The number of tied shortest paths can
// grow exponentially with graph branching, so runs against dense networks
// should set a budget rather than risk unbounded memory use.
var ErrPathBudget = errors.New("path enumeration budget exceeded")

// pathEnumerator reconstructs all minimal-length paths from an ancestors map.
// The memo is shared across destinations of one BFS run so sub-paths reached
// from several frontier nodes are computed once. A fresh enumerator must be
// created for every BFS run; ancestors maps are never comparable across runs.
type pathEnumerator struct {
	memo   map[string][]Path
	budget int // maximum number of paths to materialize, 0 means unlimited
	count  int
}

func newPathEnumerator(budget int) *pathEnumerator {
	return &pathEnumerator{
		memo:   make(map[string][]Path),
		budget: budget,
	}
}

// allPaths returns every distinct path from source to destination consistent
// with the ancestors map
func (e *pathEnumerator) allPaths(destination, source string, ancestors map[string][]string) ([]Path, error) {
	if destination == source {
		if _, ok := e.memo[destination]; !ok {
			e.memo[destination] = []Path{{source}}
			e.count++
		}
		return e.memo[destination], nil
	}

	if paths, ok := e.memo[destination]; ok {
		return paths, nil
	}

	var paths []Path
	for _, ancestor := range ancestors[destination] {
		subPaths, err := e.allPaths(ancestor, source, ancestors)
		if err != nil {
			return nil, err
		}
		for _, sub := range subPaths {
			if e.budget > 0 && e.count >= e.budget {
				return nil, fmt.Errorf("%w: more than %d paths", ErrPathBudget, e.budget)
			}
			extended := make(Path, len(sub)+1)
			copy(extended, sub)
			extended[len(sub)] = destination
			paths = append(paths, extended)
			e.count++
		}
	}

	e.memo[destination] = paths
	return paths, nil
}
