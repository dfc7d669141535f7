package reduction

import (
	"github.com/12rambau/pytfa/pkg/logging"
	"github.com/12rambau/pytfa/pkg/model"
)

// Result is the outcome of a reduction run
type Result struct {
	// Network is the reduced working copy of the input network
	Network *model.Network `json:"-"`

	// RemovedReactions lists the reactions pruned from the working copy
	RemovedReactions []string `json:"removed_reactions"`

	// RemovedMetabolites lists the metabolites not retained by any rule.
	// They are not removed directly; metabolites only disappear from the
	// working copy when the reaction removal orphans them.
	RemovedMetabolites []string `json:"removed_metabolites"`

	// KeptReactions lists the reactions surviving the pruning
	KeptReactions []string `json:"kept_reactions"`

	// MinDistances maps each ordered subsystem pair to the smallest depth at
	// which a connecting path exists; pairs without one are absent
	MinDistances map[PairKey]int `json:"-"`
}

// prune computes the to-remove sets by subtracting everything retained by the
// searches and the core subsystems, then applies the reaction removal to a
// working copy of the network
func (r *Reducer) prune() *Result {
	toRemoveReactions := make(map[string]bool, len(r.network.Reactions))
	for id := range r.network.Reactions {
		toRemoveReactions[id] = true
	}
	toRemoveMetabolites := make(map[string]bool, len(r.network.Metabolites))
	for id := range r.network.Metabolites {
		toRemoveMetabolites[id] = true
	}

	// Core subsystem reactions and metabolites are always kept
	for _, name := range r.params.CoreSubsystems {
		for id := range r.subsystemReactions[name] {
			delete(toRemoveReactions, id)
		}
		for id := range r.subsystemMetabolites[name] {
			delete(toRemoveMetabolites, id)
		}
	}

	// Keep everything traversed by an inter-subsystem path
	for _, cells := range r.pairCells {
		for _, c := range cells {
			for id := range c.reactions {
				delete(toRemoveReactions, id)
			}
			for id := range c.metabolites {
				delete(toRemoveMetabolites, id)
			}
		}
	}

	// Extracellular species are kept regardless of path involvement
	for id := range r.extracellular {
		delete(toRemoveMetabolites, id)
	}

	// Keep everything traversed by an extracellular path
	for _, cells := range r.extCells {
		for _, c := range cells {
			for id := range c.reactions {
				delete(toRemoveReactions, id)
			}
			for id := range c.metabolites {
				delete(toRemoveMetabolites, id)
			}
		}
	}

	removedReactions := setToSlice(toRemoveReactions)
	removedMetabolites := setToSlice(toRemoveMetabolites)

	working := r.network.Copy()
	working.Name = r.network.Name + "_reduced"
	working.RemoveReactions(removedReactions, true)

	kept := working.ReactionIDs()
	logging.Info("pruned network",
		"kept_reactions", len(kept),
		"removed_reactions", len(removedReactions),
		"metabolites", len(working.Metabolites))

	minDistances := make(map[PairKey]int, len(r.minDistance))
	for k, v := range r.minDistance {
		minDistances[k] = v
	}

	return &Result{
		Network:            working,
		RemovedReactions:   removedReactions,
		RemovedMetabolites: removedMetabolites,
		KeptReactions:      kept,
		MinDistances:       minDistances,
	}
}
