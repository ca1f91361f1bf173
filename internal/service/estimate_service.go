package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/freeeve/salvo/internal/bot"
	"github.com/freeeve/salvo/internal/model"
	"github.com/freeeve/salvo/internal/repository"
	"github.com/freeeve/salvo/internal/scenario"
	"github.com/freeeve/salvo/pkg/combat"
)

// EventPlanReady is broadcast to a game's subscribers when a plan completes.
const EventPlanReady = "plan_ready"

// EstimateOptions holds the server-side defaults for estimates and plans.
type EstimateOptions struct {
	CacheTTL        time.Duration
	PlannerWorkers  int
	UseExtremeRange bool
	UseLOSRange     bool
}

// EstimateService answers damage estimate and fire plan requests.
type EstimateService struct {
	catalog     *CatalogService
	boards      repository.BoardStore
	cache       repository.EstimateCache
	broadcaster Broadcaster
	rules       bot.Rules
	opts        EstimateOptions
}

// NewEstimateService creates an EstimateService. cache and boards may be nil;
// without a board store, requests must carry their board inline.
func NewEstimateService(catalog *CatalogService, boards repository.BoardStore, cache repository.EstimateCache, broadcaster Broadcaster, opts EstimateOptions) *EstimateService {
	if broadcaster == nil {
		broadcaster = NoopBroadcaster{}
	}
	return &EstimateService{
		catalog:     catalog,
		boards:      boards,
		cache:       cache,
		broadcaster: broadcaster,
		rules:       bot.StandardRules{},
		opts:        opts,
	}
}

// cacheKey is the normalized form of an estimate request that is hashed.
type cacheKey struct {
	Board   *model.BoardSpec `json:"board"`
	Shooter model.UnitSpec   `json:"shooter"`
	Target  model.UnitSpec   `json:"target"`
	Range   int              `json:"range"`
	Extreme bool             `json:"extreme"`
	LOS     bool             `json:"los"`
}

func digest(k cacheKey) (string, error) {
	data, err := json.Marshal(k)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// Estimate computes the most damage the shooter can do to the target.
func (s *EstimateService) Estimate(ctx context.Context, req model.EstimateRequest) (*model.EstimateResult, error) {
	extreme, los := s.toggles(req.UseExtremeRange, req.UseLOSRange)
	boardSpec, err := s.resolveBoard(ctx, req.GameID, req.Board)
	if err != nil {
		return nil, err
	}

	key, err := digest(cacheKey{Board: boardSpec, Shooter: req.Shooter, Target: req.Target, Range: req.Range, Extreme: extreme, LOS: los})
	if err != nil {
		return nil, fmt.Errorf("digest request: %w", err)
	}
	if s.cache != nil {
		cached, err := s.cache.GetEstimate(ctx, key)
		if err != nil {
			log.Warn().Err(err).Str("digest", key).Msg("Estimate cache read failed")
		} else if cached != nil {
			cached.Cached = true
			return cached, nil
		}
	}

	board, err := scenario.BuildBoard(boardSpec)
	if err != nil {
		return nil, invalid(err)
	}
	resolve := s.catalog.resolverFor(ctx)
	shooter, err := scenario.BuildUnit(req.Shooter, resolve)
	if err != nil {
		return nil, invalid(err)
	}
	path, err := scenario.TargetPath(req.Target, resolve)
	if err != nil {
		return nil, invalid(err)
	}

	fc := bot.FireControlFor(shooter, path.Unit, board, s.rules)
	est, err := fc.EstimateDamage(shooter, path, req.Range, extreme, los)
	if err != nil {
		return nil, invalid(err)
	}
	res := toEstimateResult(est)

	if s.cache != nil {
		if err := s.cache.SetEstimate(ctx, key, res, s.opts.CacheTTL); err != nil {
			log.Warn().Err(err).Str("digest", key).Msg("Estimate cache write failed")
		}
	}
	return res, nil
}

// Plan ranks the shooter's targets by expected damage and notifies the
// game's subscribers.
func (s *EstimateService) Plan(ctx context.Context, req model.PlanRequest) (*model.PlanResult, error) {
	if err := scenario.ValidateTargets(req.Targets); err != nil {
		return nil, invalid(err)
	}
	extreme, los := s.toggles(req.UseExtremeRange, req.UseLOSRange)
	boardSpec, err := s.resolveBoard(ctx, req.GameID, req.Board)
	if err != nil {
		return nil, err
	}
	board, err := scenario.BuildBoard(boardSpec)
	if err != nil {
		return nil, invalid(err)
	}
	resolve := s.catalog.resolverFor(ctx)
	shooter, err := scenario.BuildUnit(req.Shooter, resolve)
	if err != nil {
		return nil, invalid(err)
	}

	res := &model.PlanResult{GameID: req.GameID, ShooterID: req.Shooter.ID, Ranked: []model.PlanEntry{}}
	options := make([]bot.FireOption, 0, len(req.Targets))
	for _, t := range req.Targets {
		path, err := scenario.TargetPath(t.Unit, resolve)
		if err != nil {
			res.Rejected = append(res.Rejected, model.PlanRejection{ID: t.ID, Error: err.Error()})
			continue
		}
		options = append(options, bot.FireOption{
			ID:              t.ID,
			Path:            path,
			Range:           t.Range,
			TargetNumber:    t.TargetNumber,
			UseExtremeRange: extreme,
			UseLOSRange:     los,
		})
	}

	plan, err := bot.NewPlanner(board, s.rules, s.opts.PlannerWorkers).Plan(ctx, shooter, options)
	if err != nil {
		return nil, err
	}
	for _, so := range plan.Ranked {
		res.Ranked = append(res.Ranked, model.PlanEntry{
			ID:             so.Option.ID,
			ExpectedDamage: so.ExpectedDamage,
			HitProbability: so.HitProbability,
			Estimate:       *toEstimateResult(so.Estimate),
		})
	}
	for _, ro := range plan.Rejected {
		res.Rejected = append(res.Rejected, model.PlanRejection{ID: ro.Option.ID, Error: ro.Err.Error()})
	}

	if req.GameID != "" {
		s.broadcaster.BroadcastGameEvent(req.GameID, EventPlanReady, res)
	}
	log.Debug().Str("shooter", req.Shooter.ID).Int("ranked", len(res.Ranked)).Int("rejected", len(res.Rejected)).Msg("Plan computed")
	return res, nil
}

func (s *EstimateService) toggles(extreme, los *bool) (bool, bool) {
	e, l := s.opts.UseExtremeRange, s.opts.UseLOSRange
	if extreme != nil {
		e = *extreme
	}
	if los != nil {
		l = *los
	}
	return e, l
}

// resolveBoard prefers an inline board over the game's stored one.
func (s *EstimateService) resolveBoard(ctx context.Context, gameID string, inline *model.BoardSpec) (*model.BoardSpec, error) {
	if inline != nil {
		return inline, nil
	}
	if gameID == "" {
		return nil, fmt.Errorf("%w: board or game_id required", ErrInvalidRequest)
	}
	if s.boards == nil {
		return nil, fmt.Errorf("%w: game %s", ErrBoardNotFound, gameID)
	}
	board, err := s.boards.GetBoard(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if board == nil {
		return nil, fmt.Errorf("%w: game %s", ErrBoardNotFound, gameID)
	}
	return board, nil
}

// invalid marks rules-level input errors as bad requests. Unknown weapons
// keep their own sentinel.
func invalid(err error) error {
	switch {
	case errors.Is(err, ErrUnknownWeapon):
		return err
	case errors.Is(err, scenario.ErrInvalid),
		errors.Is(err, bot.ErrInvalidTargetPath),
		errors.Is(err, bot.ErrInvalidRange),
		errors.Is(err, bot.ErrNilShooter):
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	return err
}

func toEstimateResult(est bot.DamageEstimate) *model.EstimateResult {
	res := &model.EstimateResult{
		FireControl:    est.FireControl,
		Total:          est.Total,
		General:        est.General,
		InfantryWeapon: est.InfantryWeapon,
		Weapons:        make([]model.WeaponDamageResult, 0, len(est.Weapons)),
	}
	for _, wd := range est.Weapons {
		line := model.WeaponDamageResult{
			Weapon:   wd.Weapon,
			Location: wd.Location,
			Regime:   wd.Regime.String(),
			Damage:   wd.Damage,
			Skipped:  wd.Skipped,
		}
		if wd.Skipped == "" || wd.Bracket == combat.RangeOut {
			line.Bracket = wd.Bracket.String()
		}
		res.Weapons = append(res.Weapons, line)
	}
	return res
}
