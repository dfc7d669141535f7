// Package modelio reads and writes metabolic models in the COBRA JSON
// interchange format, the de-facto exchange format for genome-scale models.
package modelio

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/12rambau/pytfa/pkg/model"
)

type jsonMetabolite struct {
	ID          string `json:"id"`
	Name        string `json:"name,omitempty"`
	Formula     string `json:"formula,omitempty"`
	Compartment string `json:"compartment,omitempty"`
}

type jsonReaction struct {
	ID          string             `json:"id"`
	Name        string             `json:"name,omitempty"`
	Subsystem   string             `json:"subsystem,omitempty"`
	LowerBound  float64            `json:"lower_bound"`
	UpperBound  float64            `json:"upper_bound"`
	Metabolites map[string]float64 `json:"metabolites"`
}

type jsonModel struct {
	ID          string           `json:"id"`
	Metabolites []jsonMetabolite `json:"metabolites"`
	Reactions   []jsonReaction   `json:"reactions"`
}

// Load reads a COBRA JSON model file into a Network and validates its
// referential integrity
func Load(path string) (*model.Network, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading model file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a COBRA JSON model from raw bytes
func Parse(data []byte) (*model.Network, error) {
	var jm jsonModel
	if err := json.Unmarshal(data, &jm); err != nil {
		return nil, fmt.Errorf("decoding model: %w", err)
	}

	n := model.NewNetwork(jm.ID)
	for _, met := range jm.Metabolites {
		if met.ID == "" {
			return nil, fmt.Errorf("metabolite without id in model")
		}
		n.AddMetabolite(&model.Metabolite{
			ID:          met.ID,
			Name:        met.Name,
			Formula:     met.Formula,
			Compartment: met.Compartment,
		})
	}
	for _, rxn := range jm.Reactions {
		if rxn.ID == "" {
			return nil, fmt.Errorf("reaction without id in model")
		}
		n.AddReaction(&model.Reaction{
			ID:          rxn.ID,
			Name:        rxn.Name,
			Subsystem:   rxn.Subsystem,
			LowerBound:  rxn.LowerBound,
			UpperBound:  rxn.UpperBound,
			Metabolites: rxn.Metabolites,
		})
	}

	if err := n.Validate(); err != nil {
		return nil, fmt.Errorf("model integrity: %w", err)
	}
	return n, nil
}

// Save writes a Network to a COBRA JSON model file
func Save(path string, n *model.Network) error {
	data, err := Marshal(n)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing model file: %w", err)
	}
	return nil
}

// Marshal encodes a Network as COBRA JSON with deterministic ordering
func Marshal(n *model.Network) ([]byte, error) {
	jm := jsonModel{
		ID:          n.Name,
		Metabolites: make([]jsonMetabolite, 0, len(n.Metabolites)),
		Reactions:   make([]jsonReaction, 0, len(n.Reactions)),
	}

	for _, id := range n.MetaboliteIDs() {
		met := n.Metabolites[id]
		jm.Metabolites = append(jm.Metabolites, jsonMetabolite{
			ID:          met.ID,
			Name:        met.Name,
			Formula:     met.Formula,
			Compartment: met.Compartment,
		})
	}
	for _, id := range n.ReactionIDs() {
		rxn := n.Reactions[id]
		jm.Reactions = append(jm.Reactions, jsonReaction{
			ID:          rxn.ID,
			Name:        rxn.Name,
			Subsystem:   rxn.Subsystem,
			LowerBound:  rxn.LowerBound,
			UpperBound:  rxn.UpperBound,
			Metabolites: rxn.Metabolites,
		})
	}

	data, err := json.MarshalIndent(jm, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding model: %w", err)
	}
	return data, nil
}
