// Command rookre runs bot tables in bulk or serves one table to a websocket
// client.
//
//	rookre simulate -tables 8 -hands 20
//	rookre serve -seat 0
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/getzen/rookre/service/internal/config"
	"github.com/getzen/rookre/service/internal/store"
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s <simulate|serve> [flags]\n", os.Args[0])
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch os.Args[1] {
	case "simulate":
		err = runSimulate(ctx, os.Args[2:])
	case "serve":
		err = runServe(ctx, os.Args[2:])
	default:
		usage()
	}
	if err != nil {
		logrus.WithError(err).Fatal("rookre failed")
	}
}

// loadConfig is fatal on failure: no table is created from a bad config.
func loadConfig(path string) (config.Config, *logrus.Logger) {
	cfg, err := config.Load(path)
	if err != nil {
		logrus.WithError(err).Fatal("Invalid configuration.")
	}
	return cfg, cfg.Logger()
}

// openRecorder returns a recorder writing to every configured backend, or to
// memory when none is configured.
func openRecorder(ctx context.Context, cfg config.Config, log *logrus.Logger) (store.Recorder, error) {
	var recs store.Multi
	if cfg.Store.DatabaseURL != "" {
		pg, err := store.OpenPostgres(ctx, cfg.Store.DatabaseURL)
		if err != nil {
			return nil, err
		}
		log.Info("Recording hands to postgres.")
		recs = append(recs, pg)
	}
	if cfg.Store.RedisURL != "" {
		rd, err := store.OpenRedis(ctx, cfg.Store.RedisURL, cfg.Store.RecentHands)
		if err != nil {
			recs.Close()
			return nil, err
		}
		log.Info("Recording hands to redis.")
		recs = append(recs, rd)
	}
	if len(recs) == 0 {
		return store.NewMemory(), nil
	}
	return recs, nil
}
