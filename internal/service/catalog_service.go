package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/freeeve/salvo/internal/model"
	"github.com/freeeve/salvo/internal/repository"
	"github.com/freeeve/salvo/pkg/combat"
)

// CatalogService resolves weapon names against the stored catalog, falling
// back to the built-in weapons for names the store does not know.
type CatalogService struct {
	repo    repository.WeaponRepository
	builtin *combat.Catalog
}

// NewCatalogService creates a CatalogService. A nil repo serves only the
// built-in weapons.
func NewCatalogService(repo repository.WeaponRepository) *CatalogService {
	return &CatalogService{repo: repo, builtin: combat.NewCatalog(combat.StandardWeapons())}
}

// Resolve finds a weapon type by display or internal name.
func (s *CatalogService) Resolve(ctx context.Context, name string) (*combat.WeaponType, error) {
	if s.repo != nil {
		rec, err := s.repo.FindByName(ctx, name)
		if err != nil {
			return nil, err
		}
		if rec != nil {
			return rec.WeaponType()
		}
	}
	if w, ok := s.builtin.Lookup(name); ok {
		return w, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownWeapon, name)
}

// Get returns the catalog record for a weapon.
func (s *CatalogService) Get(ctx context.Context, name string) (*model.WeaponRecord, error) {
	w, err := s.Resolve(ctx, name)
	if err != nil {
		return nil, err
	}
	rec := model.WeaponRecordFrom(w)
	return &rec, nil
}

// List returns the stored catalog merged over the built-in weapons, by name.
func (s *CatalogService) List(ctx context.Context) ([]model.WeaponRecord, error) {
	byName := make(map[string]model.WeaponRecord)
	for _, w := range combat.StandardWeapons() {
		byName[w.Name] = model.WeaponRecordFrom(w)
	}
	if s.repo != nil {
		stored, err := s.repo.List(ctx)
		if err != nil {
			return nil, err
		}
		for _, rec := range stored {
			byName[rec.Name] = rec
		}
	}
	out := make([]model.WeaponRecord, 0, len(byName))
	for _, rec := range byName {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// resolverFor returns a resolver that memoizes lookups for one request.
func (s *CatalogService) resolverFor(ctx context.Context) func(string) (*combat.WeaponType, error) {
	seen := make(map[string]*combat.WeaponType)
	return func(name string) (*combat.WeaponType, error) {
		if w, ok := seen[name]; ok {
			return w, nil
		}
		w, err := s.Resolve(ctx, name)
		if err != nil {
			return nil, err
		}
		seen[name] = w
		return w, nil
	}
}
