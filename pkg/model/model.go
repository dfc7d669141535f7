package model

import (
	"fmt"
	"sort"
)

// Metabolite represents a chemical species in the network
type Metabolite struct {
	ID          string `json:"id"`          // Unique identifier (e.g., "glc_D_c")
	Name        string `json:"name"`        // Human-readable name
	Formula     string `json:"formula"`     // Chemical formula (e.g., "C6H12O6")
	Compartment string `json:"compartment"` // Compartment tag (e.g., "c", "e")
}

// Reaction represents a biochemical reaction with its stoichiometry
type Reaction struct {
	ID         string             `json:"id"`        // Unique identifier (e.g., "PGI")
	Name       string             `json:"name"`      // Human-readable name
	Subsystem  string             `json:"subsystem"` // Subsystem tag (e.g., "Glycolysis")
	LowerBound float64            `json:"lower_bound"`
	UpperBound float64            `json:"upper_bound"`

	// Metabolites maps metabolite ID to its stoichiometric coefficient.
	// Negative coefficients are reactants, positive are products.
	Metabolites map[string]float64 `json:"metabolites"`
}

// Reactants returns the IDs of metabolites consumed by the reaction
func (r *Reaction) Reactants() []string {
	var ids []string
	for id, coeff := range r.Metabolites {
		if coeff < 0 {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Products returns the IDs of metabolites produced by the reaction
func (r *Reaction) Products() []string {
	var ids []string
	for id, coeff := range r.Metabolites {
		if coeff > 0 {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Network represents a metabolic reaction network
type Network struct {
	Name        string                 `json:"name"`
	Reactions   map[string]*Reaction   `json:"reactions"`
	Metabolites map[string]*Metabolite `json:"metabolites"`
}

// NewNetwork creates an empty network
func NewNetwork(name string) *Network {
	return &Network{
		Name:        name,
		Reactions:   make(map[string]*Reaction),
		Metabolites: make(map[string]*Metabolite),
	}
}

// AddMetabolite registers a metabolite in the network
func (n *Network) AddMetabolite(m *Metabolite) {
	n.Metabolites[m.ID] = m
}

// AddReaction registers a reaction in the network
func (n *Network) AddReaction(r *Reaction) {
	if r.Metabolites == nil {
		r.Metabolites = make(map[string]float64)
	}
	n.Reactions[r.ID] = r
}

// Validate checks referential integrity: every metabolite referenced by a
// reaction's stoichiometry must be registered in the network
func (n *Network) Validate() error {
	for _, rxn := range n.Reactions {
		for metID := range rxn.Metabolites {
			if _, ok := n.Metabolites[metID]; !ok {
				return fmt.Errorf("reaction %s references unknown metabolite %s", rxn.ID, metID)
			}
		}
	}
	return nil
}

// Copy returns a deep copy of the network
func (n *Network) Copy() *Network {
	cp := NewNetwork(n.Name)
	for id, met := range n.Metabolites {
		m := *met
		cp.Metabolites[id] = &m
	}
	for id, rxn := range n.Reactions {
		r := *rxn
		r.Metabolites = make(map[string]float64, len(rxn.Metabolites))
		for metID, coeff := range rxn.Metabolites {
			r.Metabolites[metID] = coeff
		}
		cp.Reactions[id] = &r
	}
	return cp
}

// RemoveReactions deletes the given reactions from the network. When cascade
// is true, metabolites left without any referencing reaction are removed too.
func (n *Network) RemoveReactions(ids []string, cascade bool) {
	for _, id := range ids {
		delete(n.Reactions, id)
	}

	if !cascade {
		return
	}

	referenced := make(map[string]bool)
	for _, rxn := range n.Reactions {
		for metID := range rxn.Metabolites {
			referenced[metID] = true
		}
	}
	for metID := range n.Metabolites {
		if !referenced[metID] {
			delete(n.Metabolites, metID)
		}
	}
}

// ReactionIDs returns all reaction identifiers in the network
func (n *Network) ReactionIDs() []string {
	ids := make([]string, 0, len(n.Reactions))
	for id := range n.Reactions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// MetaboliteIDs returns all metabolite identifiers in the network
func (n *Network) MetaboliteIDs() []string {
	ids := make([]string, 0, len(n.Metabolites))
	for id := range n.Metabolites {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
