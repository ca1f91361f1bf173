package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/freeeve/salvo/internal/model"
)

var errStoreDown = errors.New("store down")

type mockWeaponRepo struct {
	weapons map[string]model.WeaponRecord
	lookups int
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
	m.lookups++
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

type mockEstimateCache struct {
	entries map[string]model.EstimateResult
	ttls    map[string]time.Duration
	getErr  error
	setErr  error
}

func newMockEstimateCache() *mockEstimateCache {
	return &mockEstimateCache{
		entries: make(map[string]model.EstimateResult),
		ttls:    make(map[string]time.Duration),
	}
}

func (m *mockEstimateCache) GetEstimate(_ context.Context, digest string) (*model.EstimateResult, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	r, ok := m.entries[digest]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (m *mockEstimateCache) SetEstimate(_ context.Context, digest string, result *model.EstimateResult, ttl time.Duration) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.entries[digest] = *result
	m.ttls[digest] = ttl
	return nil
}

type mockBoardStore struct {
	boards map[string]*model.BoardSpec
}

func newMockBoardStore() *mockBoardStore {
	return &mockBoardStore{boards: make(map[string]*model.BoardSpec)}
}

func (m *mockBoardStore) SetBoard(_ context.Context, gameID string, board *model.BoardSpec) error {
	m.boards[gameID] = board
	return nil
}

func (m *mockBoardStore) GetBoard(_ context.Context, gameID string) (*model.BoardSpec, error) {
	return m.boards[gameID], nil
}

func (m *mockBoardStore) DeleteBoard(_ context.Context, gameID string) error {
	delete(m.boards, gameID)
	return nil
}

type recordedEvent struct {
	gameID    string
	eventType string
	data      any
}

type recordingBroadcaster struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (b *recordingBroadcaster) BroadcastGameEvent(gameID, eventType string, data any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, recordedEvent{gameID, eventType, data})
}
