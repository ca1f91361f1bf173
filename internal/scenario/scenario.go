// Package scenario reads weapon catalogs and fire scenarios from YAML and
// turns unit and board specs into rules objects.
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/freeeve/salvo/internal/model"
)

// ErrInvalid marks a document or spec that cannot be turned into rules objects.
var ErrInvalid = errors.New("invalid scenario")

// Catalog is a weapon catalog document.
type Catalog struct {
	Weapons []model.WeaponRecord `yaml:"weapons"`
}

// Scenario is one shooter, a board, and the targets it may fire at.
type Scenario struct {
	Name              string `yaml:"name"`
	Description       string `yaml:"description,omitempty"`
	model.PlanRequest `yaml:",inline"`
}

// DecodeCatalog reads a catalog document. Unknown fields are rejected.
func DecodeCatalog(r io.Reader) (*Catalog, error) {
	var c Catalog
	if err := decodeStrict(r, &c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	for i, w := range c.Weapons {
		if w.Name == "" {
			return nil, fmt.Errorf("%w: weapon %d has no name", ErrInvalid, i)
		}
		if _, err := w.WeaponType(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
		}
	}
	return &c, nil
}

// LoadCatalog reads a catalog file.
func LoadCatalog(path string) (*Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return DecodeCatalog(bytes.NewReader(b))
}

// Decode reads a scenario document. Unknown fields are rejected.
func Decode(r io.Reader) (*Scenario, error) {
	var s Scenario
	if err := decodeStrict(r, &s); err != nil {
		return nil, fmt.Errorf("decode scenario: %w", err)
	}
	if s.Board == nil {
		return nil, fmt.Errorf("%w: %q has no board", ErrInvalid, s.Name)
	}
	if err := ValidateTargets(s.Targets); err != nil {
		return nil, fmt.Errorf("%q: %w", s.Name, err)
	}
	return &s, nil
}

// ValidateTargets checks that there is at least one target and that every
// target has a unique, non-empty ID.
func ValidateTargets(targets []model.PlanTarget) error {
	if len(targets) == 0 {
		return fmt.Errorf("%w: no targets", ErrInvalid)
	}
	seen := make(map[string]bool, len(targets))
	for _, t := range targets {
		if t.ID == "" || seen[t.ID] {
			return fmt.Errorf("%w: missing or duplicate target id %q", ErrInvalid, t.ID)
		}
		seen[t.ID] = true
	}
	return nil
}

// Load reads a scenario file.
func Load(path string) (*Scenario, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(bytes.NewReader(b))
}

func decodeStrict(r io.Reader, v any) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty document", ErrInvalid)
		}
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}
