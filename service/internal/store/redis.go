// internal/store/redis.go
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const (
	statsKey  = "rookre:stats"
	recentKey = "rookre:hands:recent"
)

// Stats are the running totals kept in Redis.
type Stats struct {
	Hands     int64 `json:"hands"`
	Made      int64 `json:"made"`
	Set       int64 `json:"set"`
	NestTaken int64 `json:"nestTakenByMakers"`
}

// Redis keeps aggregate counters and a capped list of recent hands.
type Redis struct {
	client *redis.Client
	recent int64
}

// OpenRedis connects to url. recent caps the recent-hand list; values below
// one keep a single hand.
func OpenRedis(ctx context.Context, url string, recent int) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return &Redis{client: client, recent: int64(max(recent, 1))}, nil
}

func (r *Redis) RecordHand(ctx context.Context, rec HandRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding hand: %w", err)
	}
	outcome := "set"
	if rec.Made {
		outcome = "made"
	}

	pipe := r.client.TxPipeline()
	pipe.HIncrBy(ctx, statsKey, "hands", 1)
	pipe.HIncrBy(ctx, statsKey, outcome, 1)
	if rec.NestToMakers {
		pipe.HIncrBy(ctx, statsKey, "nestTakenByMakers", 1)
	}
	pipe.LPush(ctx, recentKey, data)
	pipe.LTrim(ctx, recentKey, 0, r.recent-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("recording hand %d of table %s: %w", rec.Hand, rec.TableID, err)
	}
	return nil
}

// Stats reads the running totals.
func (r *Redis) Stats(ctx context.Context) (Stats, error) {
	vals, err := r.client.HGetAll(ctx, statsKey).Result()
	if err != nil {
		return Stats{}, fmt.Errorf("reading stats: %w", err)
	}
	field := func(name string) int64 {
		n, _ := strconv.ParseInt(vals[name], 10, 64)
		return n
	}
	return Stats{
		Hands:     field("hands"),
		Made:      field("made"),
		Set:       field("set"),
		NestTaken: field("nestTakenByMakers"),
	}, nil
}

// Recent returns the latest recorded hands, newest first.
func (r *Redis) Recent(ctx context.Context) ([]HandRecord, error) {
	raw, err := r.client.LRange(ctx, recentKey, 0, r.recent-1).Result()
	if err != nil {
		return nil, fmt.Errorf("reading recent hands: %w", err)
	}
	out := make([]HandRecord, 0, len(raw))
	for _, s := range raw {
		var rec HandRecord
		if err := json.Unmarshal([]byte(s), &rec); err != nil {
			return nil, fmt.Errorf("decoding hand: %w", err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// Reset deletes the counters and the recent list.
func (r *Redis) Reset(ctx context.Context) error {
	return r.client.Del(ctx, statsKey, recentKey).Err()
}

func (r *Redis) Close() error { return r.client.Close() }
