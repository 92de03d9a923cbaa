// Package scenario loads scripted-exam descriptions from YAML or JSON
// files, validates them against a JSON schema and turns them into a bank
// and a simulator.Config.
package scenario

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/danyuchn/GMAT-score-report-analysis-sub002/internal/bank"
	"github.com/danyuchn/GMAT-score-report-analysis-sub002/internal/irt"
	"github.com/danyuchn/GMAT-score-report-analysis-sub002/internal/simulator"
)

// Scenario is a decoded scenario file.
type Scenario struct {
	Name           string    `json:"name"`
	Bank           BankSpec  `json:"bank"`
	InitialTheta   float64   `json:"initial_theta"`
	Bounds         []float64 `json:"bounds,omitempty"`
	TotalQuestions int       `json:"total_questions"`
	WrongPositions []int     `json:"wrong_positions,omitempty"`
	ForceCorrect   []int     `json:"force_correct,omitempty"`
	ForceIncorrect []int     `json:"force_incorrect,omitempty"`
}

// BankSpec says where the items come from: exactly one of Generate or
// Items is set.
type BankSpec struct {
	Generate *GenerateSpec `json:"generate,omitempty"`
	Items    []bank.Item   `json:"items,omitempty"`
}

// GenerateSpec requests a synthetic bank.
type GenerateSpec struct {
	Count int   `json:"count"`
	Seed  int64 `json:"seed"`
}

// Load reads and parses a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

// Parse decodes YAML or JSON scenario data and validates it against
// Definition.
func Parse(data []byte) (*Scenario, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("parse scenario: empty document")
	}

	// Round-trip through JSON so the validator and the typed decode see
	// the same plain values.
	jsonBytes, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	var doc any
	if err := json.Unmarshal(jsonBytes, &doc); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}

	schema, err := compiledSchema()
	if err != nil {
		return nil, fmt.Errorf("compile scenario schema: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("scenario schema validation failed: %w", err)
	}

	var sc Scenario
	if err := json.Unmarshal(jsonBytes, &sc); err != nil {
		return nil, fmt.Errorf("decode scenario: %w", err)
	}
	return &sc, nil
}

// BuildBank creates the item bank the scenario describes.
func (s *Scenario) BuildBank() (*bank.Bank, error) {
	if s.Bank.Generate != nil {
		return bank.Generate(s.Bank.Generate.Count, s.Bank.Generate.Seed)
	}
	return bank.New(s.Bank.Items)
}

// RunConfig converts the scenario into a simulator.Config. defaultBounds
// applies when the file does not set bounds.
func (s *Scenario) RunConfig(defaultBounds irt.Bounds) simulator.Config {
	bounds := defaultBounds
	if len(s.Bounds) == 2 {
		bounds = irt.Bounds{Min: s.Bounds[0], Max: s.Bounds[1]}
	}
	return simulator.Config{
		InitialTheta:   s.InitialTheta,
		Bounds:         bounds,
		TotalQuestions: s.TotalQuestions,
		WrongPositions: s.WrongPositions,
		ForceCorrect:   s.ForceCorrect,
		ForceIncorrect: s.ForceIncorrect,
	}
}
