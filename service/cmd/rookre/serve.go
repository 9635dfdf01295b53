package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"
	"golang.org/x/sync/errgroup"

	engine "github.com/getzen/rookre/engine"
	"github.com/getzen/rookre/service/internal/feed"
	"github.com/getzen/rookre/service/internal/game"
	"github.com/getzen/rookre/service/internal/store"
)

func runServe(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	cfgPath := fs.String("config", "", "YAML config file (default $ROOKRE_CONFIG)")
	seat := fs.Int("seat", 0, "human seat, or -1 to watch bots only")
	fs.Parse(args)

	cfg, logger := loadConfig(*cfgPath)
	rec, err := openRecorder(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer rec.Close()

	controllers := cfg.Controllers(*seat)
	if *seat < 0 {
		controllers = cfg.BotsOnly()
	}
	tbl, err := game.NewTable(cfg.Seed, cfg.Game, controllers, cfg.Agent(), logger)
	if err != nil {
		return err
	}
	tbl.Pacing = cfg.Pacing

	humanSeat := game.Spectator
	if *seat >= 0 && *seat < len(controllers) {
		humanSeat = *seat
	}
	hub := feed.NewHub(tbl, humanSeat, logger)
	tbl.BroadcastFn = hub.Broadcast
	tbl.BroadcastToSeatFn = hub.SendToSeat
	tbl.OnHandEnd = func(id uuid.UUID, r engine.HandResult, scores []int) {
		if err := rec.RecordHand(ctx, store.NewHandRecord(id, r, scores)); err != nil {
			logger.WithError(err).WithField("table", id).Warnf("Table %s: recording hand %d failed.", id, r.Hand)
		}
	}

	mux := http.NewServeMux()
	mux.Handle("/ws", hub)
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"table":   tbl.ID,
			"hands":   tbl.HandsPlayed(),
			"done":    tbl.Done(),
			"clients": hub.Clients(),
		})
	})
	srv := &http.Server{Addr: cfg.Server.Addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	pterm.DefaultBigText.WithLetters(
		putils.LettersFromStringWithStyle("Rook", pterm.FgRed.ToStyle()),
		putils.LettersFromStringWithStyle("re", pterm.FgDarkGray.ToStyle()),
	).Render()
	pterm.Info.Printfln("Table %s listening on %s (human seat %d).", tbl.ID, cfg.Server.Addr, humanSeat)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := tbl.Run(gctx, cfg.Server.TickInterval)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
