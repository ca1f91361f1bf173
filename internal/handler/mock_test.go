package handler

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/freeeve/salvo/internal/model"
)

var errRepoDown = errors.New("repo down")

type mockWeaponRepo struct {
	weapons map[string]model.WeaponRecord
	err     error
}

func newMockWeaponRepo(recs ...model.WeaponRecord) *mockWeaponRepo {
	m := &mockWeaponRepo{weapons: make(map[string]model.WeaponRecord)}
	for _, r := range recs {
		m.weapons[strings.ToLower(r.Name)] = r
	}
	return m
}

func (m *mockWeaponRepo) FindByName(_ context.Context, name string) (*model.WeaponRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	r, ok := m.weapons[strings.ToLower(name)]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (m *mockWeaponRepo) List(_ context.Context) ([]model.WeaponRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []model.WeaponRecord
	for _, r := range m.weapons {
		out = append(out, r)
	}
	return out, nil
}

func (m *mockWeaponRepo) Upsert(_ context.Context, w model.WeaponRecord) error {
	m.weapons[strings.ToLower(w.Name)] = w
	return nil
}

// memStore stands in for Redis as both the estimate cache and the board store.
type memStore struct {
	mu        sync.Mutex
	estimates map[string]model.EstimateResult
	boards    map[string]model.BoardSpec
}

func newMemStore() *memStore {
	return &memStore{
		estimates: make(map[string]model.EstimateResult),
		boards:    make(map[string]model.BoardSpec),
	}
}

func (m *memStore) GetEstimate(_ context.Context, digest string) (*model.EstimateResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.estimates[digest]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (m *memStore) SetEstimate(_ context.Context, digest string, result *model.EstimateResult, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.estimates[digest] = *result
	return nil
}

func (m *memStore) SetBoard(_ context.Context, gameID string, board *model.BoardSpec) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.boards[gameID] = *board
	return nil
}

func (m *memStore) GetBoard(_ context.Context, gameID string) (*model.BoardSpec, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.boards[gameID]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (m *memStore) DeleteBoard(_ context.Context, gameID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.boards, gameID)
	return nil
}
