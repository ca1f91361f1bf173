//go:build integration

package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/freeeve/salvo/internal/model"
	"github.com/freeeve/salvo/internal/repository/postgres"
	redisrepo "github.com/freeeve/salvo/internal/repository/redis"
	"github.com/freeeve/salvo/internal/testutil"
)

// testEnv holds shared test infrastructure.
type testEnv struct {
	db      *sql.DB
	rdb     *goredis.Client
	weapons *postgres.WeaponRepo
	redis   *redisrepo.Client
}

// setupEnv connects per test; SetupDB and SetupRedis close their clients in
// t.Cleanup.
func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.SetupDB(t)
	rdb := testutil.SetupRedis(t)
	env := &testEnv{
		db:      db,
		rdb:     rdb,
		weapons: postgres.NewWeaponRepo(db),
		redis:   redisrepo.NewClientFromPool(rdb),
	}
	testutil.CleanupDB(t, env.db)
	testutil.CleanupRedis(t, env.rdb)
	return env
}

func TestIntegrationEstimateUsesStoresAndCache(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()

	if err := e.weapons.Upsert(ctx, model.WeaponRecord{
		Name: "Heavy Rifle", Ranges: [5]int{0, 3, 6, 9, 12}, Damage: 9, InfantryDamageClass: "direct_fire",
	}); err != nil {
		t.Fatalf("upsert weapon: %v", err)
	}

	boards := NewBoardService(e.redis)
	if err := boards.SetBoard(ctx, "g1", testBoard()); err != nil {
		t.Fatalf("set board: %v", err)
	}

	svc := NewEstimateService(NewCatalogService(e.weapons), e.redis, e.redis, nil, EstimateOptions{CacheTTL: time.Minute})
	req := model.EstimateRequest{
		GameID:  "g1",
		Shooter: testShooter("heavy rifle", "Machine Gun"),
		Target:  rifles(7, 7),
		Range:   1,
	}

	res, err := svc.Estimate(ctx, req)
	if err != nil {
		t.Fatalf("Estimate: %v", err)
	}
	// heavy rifle: 2 x ceil(0.9) = 2; machine gun: 2 x 7 = 14.
	if !almostEqual(res.Total, 16) || res.Cached {
		t.Fatalf("unexpected first estimate: %+v", res)
	}

	again, err := svc.Estimate(ctx, req)
	if err != nil {
		t.Fatalf("Estimate again: %v", err)
	}
	if !again.Cached || !almostEqual(again.Total, 16) {
		t.Fatalf("expected cached estimate, got %+v", again)
	}

	keys, err := e.rdb.Keys(ctx, "estimate:*").Result()
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if len(keys) != 1 {
		t.Fatalf("expected 1 cached estimate key, got %v", keys)
	}
}
