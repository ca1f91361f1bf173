package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/freeeve/salvo/internal/bot"
	"github.com/freeeve/salvo/internal/client"
	"github.com/freeeve/salvo/internal/model"
	"github.com/freeeve/salvo/internal/scenario"
	"github.com/freeeve/salvo/pkg/combat"
)

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	var (
		scenarioPath string
		catalogPath  string
		workers      int
		extreme      bool
		los          bool
		jsonOut      bool
		verbose      bool
		serverURL    string
		clientName   string
		clientSecret string
	)

	flag.StringVar(&scenarioPath, "scenario", "", "Scenario YAML file (required)")
	flag.StringVar(&catalogPath, "catalog", "", "Extra weapon catalog YAML, merged over the built-in weapons")
	flag.IntVar(&workers, "workers", 0, "Planner concurrency (0 = GOMAXPROCS)")
	flag.BoolVar(&extreme, "extreme", false, "Use extreme range (overrides the scenario)")
	flag.BoolVar(&los, "los", false, "Use LOS range (overrides the scenario)")
	flag.BoolVar(&jsonOut, "json", false, "Output the plan as JSON")
	flag.BoolVar(&verbose, "v", false, "Debug logging")
	flag.StringVar(&serverURL, "server", "", "Plan on a salvo server instead of locally")
	flag.StringVar(&clientName, "name", "firecalc", "Client ID for -server")
	flag.StringVar(&clientSecret, "secret", os.Getenv("SALVO_CLIENT_SECRET"), "Client secret for -server (empty = dev login)")
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	if scenarioPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	sc, err := scenario.Load(scenarioPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", scenarioPath).Msg("Failed to load scenario")
	}

	weapons := combat.StandardWeapons()
	if catalogPath != "" {
		cat, err := scenario.LoadCatalog(catalogPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", catalogPath).Msg("Failed to load catalog")
		}
		for _, rec := range cat.Weapons {
			w, err := rec.WeaponType()
			if err != nil {
				log.Fatal().Err(err).Str("path", catalogPath).Msg("Invalid catalog weapon")
			}
			weapons = append(weapons, w)
		}
	}
	// Later entries win, so catalog weapons shadow built-ins of the same name.
	resolve := scenario.CatalogResolver(combat.NewCatalog(weapons))

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "extreme":
			sc.UseExtremeRange = &extreme
		case "los":
			sc.UseLOSRange = &los
		}
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if serverURL != "" {
		planRemote(ctx, serverURL, clientName, clientSecret, sc, jsonOut)
		return
	}

	board, err := scenario.BuildBoard(sc.Board)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid board")
	}
	shooter, err := scenario.BuildUnit(sc.Shooter, resolve)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid shooter")
	}

	var rejected []model.PlanRejection
	options := make([]bot.FireOption, 0, len(sc.Targets))
	for _, t := range sc.Targets {
		path, err := scenario.TargetPath(t.Unit, resolve)
		if err != nil {
			rejected = append(rejected, model.PlanRejection{ID: t.ID, Error: err.Error()})
			continue
		}
		options = append(options, bot.FireOption{
			ID:              t.ID,
			Path:            path,
			Range:           t.Range,
			TargetNumber:    t.TargetNumber,
			UseExtremeRange: sc.UseExtremeRange != nil && *sc.UseExtremeRange,
			UseLOSRange:     sc.UseLOSRange != nil && *sc.UseLOSRange,
		})
	}

	plan, err := bot.NewPlanner(board, nil, workers).Plan(ctx, shooter, options)
	if err != nil {
		log.Fatal().Err(err).Msg("Planning failed")
	}
	for _, ro := range plan.Rejected {
		rejected = append(rejected, model.PlanRejection{ID: ro.Option.ID, Error: ro.Err.Error()})
	}

	if jsonOut {
		writeJSON(sc, plan, rejected)
		return
	}
	printTable(sc, plan, rejected)
}

// planRemote sends the scenario to a server. Weapons are resolved against
// the server's catalog, so -catalog does not apply.
func planRemote(ctx context.Context, serverURL, name, secret string, sc *scenario.Scenario, jsonOut bool) {
	c := client.New(name, serverURL)
	login := c.Login
	if secret != "" {
		login = func(ctx context.Context) error { return c.LoginClientCredentials(ctx, secret) }
	}
	if err := login(ctx); err != nil {
		log.Fatal().Err(err).Str("server", serverURL).Msg("Login failed")
	}
	res, err := c.Plan(ctx, sc.PlanRequest)
	if err != nil {
		log.Fatal().Err(err).Msg("Remote planning failed")
	}

	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			log.Fatal().Err(err).Msg("Failed to write JSON")
		}
		return
	}

	fmt.Printf("Scenario %q, shooter %s (planned on %s)\n\n", sc.Name, res.ShooterID, serverURL)
	fmt.Printf("  %-4s %-14s %9s %7s %6s  %s\n", "RANK", "TARGET", "EXPECTED", "TOTAL", "HIT%", "FIRE CONTROL")
	for i, e := range res.Ranked {
		fmt.Printf("  %-4d %-14s %9.2f %7.2f %5.1f%%  %s\n",
			i+1, e.ID, e.ExpectedDamage, e.Estimate.Total, e.HitProbability*100, e.Estimate.FireControl)
	}
	if len(res.Rejected) > 0 {
		fmt.Printf("\nRejected:\n")
		for _, r := range res.Rejected {
			fmt.Printf("  %-14s %s\n", r.ID, r.Error)
		}
	}
}

type jsonEntry struct {
	ID             string       `json:"id"`
	ExpectedDamage float64      `json:"expected_damage"`
	HitProbability float64      `json:"hit_probability"`
	FireControl    string       `json:"fire_control"`
	Total          float64      `json:"total"`
	General        float64      `json:"general"`
	InfantryWeapon float64      `json:"infantry_weapon"`
	Weapons        []jsonWeapon `json:"weapons"`
}

type jsonWeapon struct {
	Weapon  string  `json:"weapon"`
	Bracket string  `json:"bracket"`
	Regime  string  `json:"regime"`
	Damage  float64 `json:"damage"`
	Skipped string  `json:"skipped,omitempty"`
}

func writeJSON(sc *scenario.Scenario, plan *bot.FirePlan, rejected []model.PlanRejection) {
	out := struct {
		Scenario string                `json:"scenario"`
		Shooter  string                `json:"shooter"`
		Ranked   []jsonEntry           `json:"ranked"`
		Rejected []model.PlanRejection `json:"rejected,omitempty"`
	}{Scenario: sc.Name, Shooter: sc.Shooter.ID, Ranked: []jsonEntry{}, Rejected: rejected}

	for _, so := range plan.Ranked {
		e := jsonEntry{
			ID:             so.Option.ID,
			ExpectedDamage: so.ExpectedDamage,
			HitProbability: so.HitProbability,
			FireControl:    so.Estimate.FireControl,
			Total:          so.Estimate.Total,
			General:        so.Estimate.General,
			InfantryWeapon: so.Estimate.InfantryWeapon,
		}
		for _, wd := range so.Estimate.Weapons {
			e.Weapons = append(e.Weapons, jsonWeapon{
				Weapon:  wd.Weapon,
				Bracket: wd.Bracket.String(),
				Regime:  wd.Regime.String(),
				Damage:  wd.Damage,
				Skipped: wd.Skipped,
			})
		}
		out.Ranked = append(out.Ranked, e)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Fatal().Err(err).Msg("Failed to write JSON")
	}
}

func printTable(sc *scenario.Scenario, plan *bot.FirePlan, rejected []model.PlanRejection) {
	fmt.Printf("Scenario %q, shooter %s\n\n", sc.Name, sc.Shooter.ID)
	fmt.Printf("  %-4s %-14s %9s %7s %6s  %s\n", "RANK", "TARGET", "EXPECTED", "TOTAL", "HIT%", "FIRE CONTROL")
	for i, so := range plan.Ranked {
		fmt.Printf("  %-4d %-14s %9.2f %7.2f %5.1f%%  %s\n",
			i+1, so.Option.ID, so.ExpectedDamage, so.Estimate.Total, so.HitProbability*100, so.Estimate.FireControl)
		for _, wd := range so.Estimate.Weapons {
			if wd.Skipped != "" {
				fmt.Printf("         %-22s skipped: %s\n", wd.Weapon, wd.Skipped)
				continue
			}
			fmt.Printf("         %-22s %-8s %-18s %6.2f\n", wd.Weapon, wd.Bracket, wd.Regime, wd.Damage)
		}
	}
	if len(rejected) > 0 {
		fmt.Printf("\nRejected:\n")
		for _, r := range rejected {
			fmt.Printf("  %-14s %s\n", r.ID, r.Error)
		}
	}
}
