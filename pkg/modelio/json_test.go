package modelio

import (
	"os"
	"path/filepath"
	"testing"
)

const smallModel = `{
  "id": "toy",
  "metabolites": [
    {"id": "glc_c", "name": "Glucose", "compartment": "c"},
    {"id": "g6p_c", "name": "Glucose-6-phosphate", "compartment": "c"}
  ],
  "reactions": [
    {
      "id": "HEX1",
      "name": "Hexokinase",
      "subsystem": "Glycolysis",
      "lower_bound": 0,
      "upper_bound": 1000,
      "metabolites": {"glc_c": -1, "g6p_c": 1}
    }
  ]
}`

func TestParse(t *testing.T) {
	n, err := Parse([]byte(smallModel))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if n.Name != "toy" {
		t.Errorf("Expected model id toy, got %s", n.Name)
	}
	if len(n.Metabolites) != 2 || len(n.Reactions) != 1 {
		t.Fatalf("Expected 2 metabolites and 1 reaction, got %d and %d",
			len(n.Metabolites), len(n.Reactions))
	}

	rxn := n.Reactions["HEX1"]
	if rxn.Subsystem != "Glycolysis" {
		t.Errorf("Expected subsystem Glycolysis, got %s", rxn.Subsystem)
	}
	if rxn.Metabolites["glc_c"] != -1 || rxn.Metabolites["g6p_c"] != 1 {
		t.Errorf("Unexpected stoichiometry: %v", rxn.Metabolites)
	}
}

func TestParseRejectsBrokenReferences(t *testing.T) {
	broken := `{
  "id": "broken",
  "metabolites": [{"id": "a"}],
  "reactions": [{"id": "R", "metabolites": {"a": -1, "ghost": 1}}]
}`

	if _, err := Parse([]byte(broken)); err == nil {
		t.Error("Expected integrity error for reaction referencing unknown metabolite")
	}
}

func TestLoadSaveRoundTrip(t *testing.T) {
	n, err := Parse([]byte(smallModel))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	path := filepath.Join(t.TempDir(), "model.json")
	if err := Save(path, n); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if loaded.Name != n.Name {
		t.Errorf("Round trip changed model name: %s != %s", loaded.Name, n.Name)
	}
	if len(loaded.Reactions) != len(n.Reactions) {
		t.Errorf("Round trip changed reaction count")
	}
	if loaded.Reactions["HEX1"].Metabolites["glc_c"] != -1 {
		t.Errorf("Round trip changed stoichiometry")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(os.TempDir(), "does-not-exist.json")); err == nil {
		t.Error("Expected error for missing file")
	}
}
