package bot

import (
	"context"
	"errors"
	"runtime"
	"sort"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/freeeve/salvo/pkg/combat"
)

// FireOption is one candidate shot: a target's resolved path, the range to
// it, and the to-hit target number. A zero TargetNumber leaves the estimate
// unweighted.
type FireOption struct {
	ID              string
	Path            combat.MovePath
	Range           int
	TargetNumber    int
	UseExtremeRange bool
	UseLOSRange     bool
}

// ScoredOption is a FireOption with its estimate and expected damage.
type ScoredOption struct {
	Option         FireOption
	Estimate       DamageEstimate
	HitProbability float64
	ExpectedDamage float64
}

// RejectedOption is a FireOption whose estimate failed.
type RejectedOption struct {
	Option FireOption
	Err    error
}

// FirePlan ranks the options of one shooter, best first.
type FirePlan struct {
	Ranked   []ScoredOption
	Rejected []RejectedOption
}

// Best returns the top-ranked option, or false when nothing could be scored.
func (p *FirePlan) Best() (ScoredOption, bool) {
	if len(p.Ranked) == 0 {
		return ScoredOption{}, false
	}
	return p.Ranked[0], true
}

// Planner scores fire options against a board. Each option is an
// independent estimate, so options are evaluated in parallel.
type Planner struct {
	board   combat.Board
	rules   Rules
	workers int
}

// NewPlanner creates a Planner. workers <= 0 uses GOMAXPROCS.
func NewPlanner(board combat.Board, rules Rules, workers int) *Planner {
	if rules == nil {
		rules = StandardRules{}
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Planner{board: board, rules: rules, workers: workers}
}

// Plan estimates every option for shooter and ranks them by expected damage,
// then raw damage, then option ID. Options with invalid input are rejected
// rather than failing the plan; only cancellation aborts it.
func (p *Planner) Plan(ctx context.Context, shooter combat.Armed, options []FireOption) (*FirePlan, error) {
	if shooter == nil {
		return nil, ErrNilShooter
	}

	scored := make([]*ScoredOption, len(options))
	failed := make([]error, len(options))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, opt := range options {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			var target combat.Entity
			if opt.Path != nil {
				target = opt.Path.Entity()
			}
			fc := FireControlFor(shooter, target, p.board, p.rules)
			est, err := fc.EstimateDamage(shooter, opt.Path, opt.Range, opt.UseExtremeRange, opt.UseLOSRange)
			if err != nil {
				failed[i] = err
				return nil
			}
			hit := combat.HitProbability(opt.TargetNumber)
			scored[i] = &ScoredOption{
				Option:         opt,
				Estimate:       est,
				HitProbability: hit,
				ExpectedDamage: est.Total * hit,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	plan := &FirePlan{}
	for i := range options {
		switch {
		case scored[i] != nil:
			plan.Ranked = append(plan.Ranked, *scored[i])
		case failed[i] != nil:
			plan.Rejected = append(plan.Rejected, RejectedOption{Option: options[i], Err: failed[i]})
			if !errors.Is(failed[i], ErrInvalidTargetPath) && !errors.Is(failed[i], ErrInvalidRange) {
				log.Warn().Err(failed[i]).Str("option", options[i].ID).Msg("Fire option failed")
			}
		}
	}
	sort.SliceStable(plan.Ranked, func(i, j int) bool {
		a, b := plan.Ranked[i], plan.Ranked[j]
		if a.ExpectedDamage != b.ExpectedDamage {
			return a.ExpectedDamage > b.ExpectedDamage
		}
		if a.Estimate.Total != b.Estimate.Total {
			return a.Estimate.Total > b.Estimate.Total
		}
		return a.Option.ID < b.Option.ID
	})

	log.Debug().Int("options", len(options)).Int("ranked", len(plan.Ranked)).Int("rejected", len(plan.Rejected)).Msg("Fire plan complete")
	return plan, nil
}
