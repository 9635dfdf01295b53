package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pterm/pterm"
	"golang.org/x/sync/errgroup"

	engine "github.com/getzen/rookre/engine"
	"github.com/getzen/rookre/service/internal/game"
	"github.com/getzen/rookre/service/internal/store"
)

type tableSummary struct {
	id        uuid.UUID
	hands     int
	made      int
	scores    []int
	fallbacks int
	elapsed   time.Duration
}

func runSimulate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("simulate", flag.ExitOnError)
	cfgPath := fs.String("config", "", "YAML config file (default $ROOKRE_CONFIG)")
	tables := fs.Int("tables", 4, "tables to run concurrently")
	hands := fs.Int("hands", 10, "hands per table")
	fs.Parse(args)

	cfg, logger := loadConfig(*cfgPath)
	rec, err := openRecorder(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer rec.Close()

	logger.Infof("Simulating %d tables of %d hands.", *tables, *hands)
	summaries := make([]tableSummary, *tables)
	g, gctx := errgroup.WithContext(ctx)
	for i := range *tables {
		g.Go(func() error {
			ac := cfg.Agent()
			ac.Seed += uint64(i) * 104729
			tbl, err := game.NewTable(cfg.Seed+uint64(i), cfg.Game, cfg.BotsOnly(), ac, logger)
			if err != nil {
				return err
			}
			tbl.Pacing = game.Pacing{}
			tbl.MaxHands = *hands

			sum := &summaries[i]
			sum.id = tbl.ID
			tbl.OnHandEnd = func(id uuid.UUID, r engine.HandResult, scores []int) {
				sum.hands++
				if r.Made {
					sum.made++
				}
				if err := rec.RecordHand(gctx, store.NewHandRecord(id, r, scores)); err != nil {
					logger.WithError(err).WithField("table", id).Warnf("Table %s: recording hand %d failed.", id, r.Hand)
				}
			}

			start := time.Now()
			if err := tbl.Run(gctx, time.Millisecond); err != nil {
				return fmt.Errorf("table %s: %w", tbl.ID, err)
			}
			sum.elapsed = time.Since(start)
			sum.scores = tbl.Scores()
			tbl.Mu.Lock()
			sum.fallbacks = tbl.BotFallbacks
			tbl.Mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	printSummary(summaries)
	return nil
}

func printSummary(summaries []tableSummary) {
	data := pterm.TableData{{"Table", "Hands", "Made", "Scores", "Fallbacks", "Time"}}
	var hands, made int
	for _, s := range summaries {
		hands += s.hands
		made += s.made
		data = append(data, []string{
			s.id.String()[:8],
			fmt.Sprint(s.hands),
			fmt.Sprint(s.made),
			fmt.Sprint(s.scores),
			fmt.Sprint(s.fallbacks),
			s.elapsed.Round(time.Millisecond).String(),
		})
	}
	pterm.DefaultSection.Println("Simulation")
	pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(data).Render()
	if hands > 0 {
		pterm.Success.Printfln("%d hands, makers made %d (%.1f%%).", hands, made, 100*float64(made)/float64(hands))
	} else {
		pterm.Warning.Println("No hands were scored.")
	}
}
