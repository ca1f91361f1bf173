package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/freeeve/salvo/internal/auth"
	"github.com/freeeve/salvo/internal/handler"
	"github.com/freeeve/salvo/internal/model"
	"github.com/freeeve/salvo/internal/service"
	"github.com/freeeve/salvo/pkg/combat"
)

type boards struct {
	mu sync.Mutex
	m  map[string]model.BoardSpec
}

func (b *boards) SetBoard(_ context.Context, id string, spec *model.BoardSpec) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.m[id] = *spec
	return nil
}

func (b *boards) GetBoard(_ context.Context, id string) (*model.BoardSpec, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	spec, ok := b.m[id]
	if !ok {
		return nil, nil
	}
	return &spec, nil
}

func (b *boards) DeleteBoard(_ context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.m, id)
	return nil
}

// newServer wires the real handlers the way cmd/server does, minus storage.
func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	jwtMgr := auth.NewJWTManager("client-test")
	hub := handler.NewHub()
	store := &boards{m: make(map[string]model.BoardSpec)}
	catalog := service.NewCatalogService(nil)
	svc := service.NewEstimateService(catalog, store, nil, hub, service.EstimateOptions{})

	est := handler.NewEstimateHandler(svc)
	bh := handler.NewBoardHandler(service.NewBoardService(store))
	wh := handler.NewWeaponHandler(catalog)

	api := http.NewServeMux()
	api.HandleFunc("POST /estimates", est.Estimate)
	api.HandleFunc("POST /plans", est.Plan)
	api.HandleFunc("GET /weapons", wh.ListWeapons)
	api.HandleFunc("PUT /games/{id}/board", bh.PutBoard)

	mux := http.NewServeMux()
	ah := handler.NewAuthHandler(jwtMgr, map[string]string{"princess": "s3cret"}, true)
	mux.HandleFunc("GET /auth/dev", ah.DevLogin)
	mux.HandleFunc("POST /auth/token", ah.Token)
	mux.Handle("/api/v1/", http.StripPrefix("/api/v1", auth.Middleware(jwtMgr)(api)))
	mux.HandleFunc("GET /api/v1/ws", handler.NewWSHandler(hub, jwtMgr).ServeWS)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func board() *model.BoardSpec {
	return &model.BoardSpec{Width: 16, Height: 17, Hexes: []model.HexSpec{{X: 4, Y: 4, Terrain: map[string]int{"woods": 1}}}}
}

func shooter() model.UnitSpec {
	return model.UnitSpec{ID: "hbk", Type: "mech", Position: combat.Coords{X: 6, Y: 6},
		Weapons: []model.MountSpec{{Weapon: "Machine Gun"}, {Weapon: "Medium Laser"}}}
}

func rifles(id string, x, y int) model.UnitSpec {
	return model.UnitSpec{ID: id, Type: "infantry", Troopers: 28, Position: combat.Coords{X: x, Y: y}}
}

func TestClientRequiresLogin(t *testing.T) {
	c := New("princess", newServer(t).URL)
	_, err := c.Weapons(context.Background())

	var se *StatusError
	require.True(t, errors.As(err, &se))
	require.Equal(t, http.StatusUnauthorized, se.Status)
}

func TestClientEstimateAndPlan(t *testing.T) {
	ctx := context.Background()
	c := New("princess", newServer(t).URL)
	require.NoError(t, c.Login(ctx))

	weapons, err := c.Weapons(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, weapons)

	res, err := c.Estimate(ctx, model.EstimateRequest{Board: board(), Shooter: shooter(), Target: rifles("r", 7, 7), Range: 1})
	require.NoError(t, err)
	require.InDelta(t, 16, res.Total, 1e-9)
	require.Equal(t, "infantry", res.FireControl)

	require.NoError(t, c.PutBoard(ctx, "g1", board()))
	plan, err := c.Plan(ctx, model.PlanRequest{
		GameID:  "g1",
		Shooter: shooter(),
		Targets: []model.PlanTarget{
			{ID: "woods", Unit: rifles("woods", 4, 4), Range: 1},
			{ID: "open", Unit: rifles("open", 7, 7), Range: 1},
		},
	})
	require.NoError(t, err)
	require.Len(t, plan.Ranked, 2)
	require.Equal(t, "open", plan.Ranked[0].ID)
	require.Equal(t, "woods", plan.Ranked[1].ID)
}

func TestClientCredentialsLogin(t *testing.T) {
	ctx := context.Background()
	url := newServer(t).URL

	c := New("princess", url)
	require.NoError(t, c.LoginClientCredentials(ctx, "s3cret"))
	weapons, err := c.Weapons(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, weapons)

	bad := New("princess", url)
	require.Error(t, bad.LoginClientCredentials(ctx, "wrong"))
	_, err = bad.Weapons(ctx)
	var se *StatusError
	require.True(t, errors.As(err, &se))
	require.Equal(t, http.StatusUnauthorized, se.Status)
}

func TestClientBadRequest(t *testing.T) {
	ctx := context.Background()
	c := New("princess", newServer(t).URL)
	require.NoError(t, c.Login(ctx))

	_, err := c.Estimate(ctx, model.EstimateRequest{Board: board(), Shooter: shooter(), Target: rifles("r", 40, 40), Range: 1})
	var se *StatusError
	require.True(t, errors.As(err, &se))
	require.Equal(t, http.StatusBadRequest, se.Status)
	require.Contains(t, se.Body, "invalid")
}

func TestClientReceivesPlanReady(t *testing.T) {
	ctx := context.Background()
	c := New("watcher", newServer(t).URL)
	require.NoError(t, c.Login(ctx))
	require.NoError(t, c.ConnectWS(ctx))
	defer c.CloseWS()

	next := func() WSEvent {
		select {
		case ev, ok := <-c.Events():
			require.True(t, ok, "events channel closed")
			return ev
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for event")
		}
		return WSEvent{}
	}

	require.Equal(t, "connected", next().Type)
	require.NoError(t, c.SubscribeGame("g7"))
	require.Equal(t, "subscribed", next().Type)

	_, err := c.Plan(ctx, model.PlanRequest{
		GameID:  "g7",
		Board:   board(),
		Shooter: shooter(),
		Targets: []model.PlanTarget{{ID: "open", Unit: rifles("open", 7, 7), Range: 1}},
	})
	require.NoError(t, err)

	ev := next()
	require.Equal(t, service.EventPlanReady, ev.Type)
	require.Equal(t, "g7", ev.GameID)
	var plan model.PlanResult
	require.NoError(t, json.Unmarshal(ev.Data, &plan))
	require.Equal(t, "hbk", plan.ShooterID)
	require.Len(t, plan.Ranked, 1)
}
