// internal/store/postgres.go
package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createHands = `
CREATE TABLE IF NOT EXISTS hands (
	id               UUID PRIMARY KEY,
	table_id         UUID NOT NULL,
	hand             INT NOT NULL,
	maker            INT NOT NULL,
	trump            TEXT NOT NULL,
	made             BOOLEAN NOT NULL,
	nest_winner      INT NOT NULL,
	nest_to_makers   BOOLEAN NOT NULL,
	makers_points    INT NOT NULL,
	defenders_points INT NOT NULL,
	makers_score     INT NOT NULL,
	defenders_score  INT NOT NULL,
	scores           INT[] NOT NULL,
	recorded_at      TIMESTAMPTZ NOT NULL
)`

const insertHand = `
INSERT INTO hands (id, table_id, hand, maker, trump, made, nest_winner, nest_to_makers,
	makers_points, defenders_points, makers_score, defenders_score, scores, recorded_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

// Postgres writes one row per hand.
type Postgres struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects to url and creates the hands table if needed.
func OpenPostgres(ctx context.Context, url string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, createHands); err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating hands table: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

func (p *Postgres) RecordHand(ctx context.Context, rec HandRecord) error {
	scores := make([]int32, len(rec.Scores))
	for i, s := range rec.Scores {
		scores[i] = int32(s)
	}
	_, err := p.pool.Exec(ctx, insertHand,
		rec.ID, rec.TableID, rec.Hand, rec.Maker, rec.Trump, rec.Made, rec.NestWinner, rec.NestToMakers,
		rec.MakersPoints, rec.DefendersPoints, rec.MakersScore, rec.DefendersScore, scores, rec.At)
	if err != nil {
		return fmt.Errorf("inserting hand %d of table %s: %w", rec.Hand, rec.TableID, err)
	}
	return nil
}

// HandsForTable returns the recorded hands of a table in hand order.
func (p *Postgres) HandsForTable(ctx context.Context, tableID uuid.UUID) ([]HandRecord, error) {
	rows, err := p.pool.Query(ctx, `
SELECT id, table_id, hand, maker, trump, made, nest_winner, nest_to_makers, makers_points,
	defenders_points, makers_score, defenders_score, scores, recorded_at
FROM hands WHERE table_id = $1 ORDER BY hand`, tableID)
	if err != nil {
		return nil, fmt.Errorf("querying hands: %w", err)
	}
	defer rows.Close()

	var out []HandRecord
	for rows.Next() {
		var rec HandRecord
		var scores []int32
		if err := rows.Scan(&rec.ID, &rec.TableID, &rec.Hand, &rec.Maker, &rec.Trump, &rec.Made,
			&rec.NestWinner, &rec.NestToMakers, &rec.MakersPoints, &rec.DefendersPoints, &rec.MakersScore,
			&rec.DefendersScore, &scores, &rec.At); err != nil {
			return nil, fmt.Errorf("scanning hand: %w", err)
		}
		rec.Scores = make([]int, len(scores))
		for i, s := range scores {
			rec.Scores[i] = int(s)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}
