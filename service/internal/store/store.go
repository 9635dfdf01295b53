// Package store records scored hands. Postgres keeps every hand, Redis keeps
// running totals and a capped list of recent hands, and Memory serves tests
// and runs with no backend configured.
package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	engine "github.com/getzen/rookre/engine"
)

// HandRecord is one scored hand as persisted.
type HandRecord struct {
	ID              uuid.UUID `json:"id"`
	TableID         uuid.UUID `json:"tableId"`
	Hand            int       `json:"hand"`
	Maker           int       `json:"maker"`
	Trump           string    `json:"trump"`
	Made            bool      `json:"made"`
	NestWinner      int       `json:"nestWinner"`
	NestToMakers    bool      `json:"nestToMakers"`
	MakersPoints    int       `json:"makersPoints"`
	DefendersPoints int       `json:"defendersPoints"`
	MakersScore     int       `json:"makersScore"`
	DefendersScore  int       `json:"defendersScore"`
	Scores          []int     `json:"scores"`
	At              time.Time `json:"at"`
}

// NewHandRecord builds a record from a scored hand.
func NewHandRecord(tableID uuid.UUID, r engine.HandResult, scores []int) HandRecord {
	return HandRecord{
		ID:              uuid.New(),
		TableID:         tableID,
		Hand:            r.Hand,
		Maker:           r.Maker,
		Trump:           r.Trump.String(),
		Made:            r.Made,
		NestWinner:      r.NestWinner,
		NestToMakers:    r.NestSide == engine.Maker,
		MakersPoints:    int(r.MakersPoints),
		DefendersPoints: int(r.DefendersPoints),
		MakersScore:     int(r.MakersScore),
		DefendersScore:  int(r.DefendersScore),
		Scores:          append([]int(nil), scores...),
		At:              time.Now().UTC(),
	}
}

// Recorder persists hand records.
type Recorder interface {
	RecordHand(ctx context.Context, rec HandRecord) error
	Close() error
}

// Memory keeps records in a slice.
type Memory struct {
	mu      sync.Mutex
	records []HandRecord
}

func NewMemory() *Memory { return &Memory{} }

func (m *Memory) RecordHand(_ context.Context, rec HandRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, rec)
	return nil
}

// Records returns a copy of everything recorded.
func (m *Memory) Records() []HandRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]HandRecord(nil), m.records...)
}

func (m *Memory) Close() error { return nil }

// Multi fans each record out to several recorders.
type Multi []Recorder

func (ms Multi) RecordHand(ctx context.Context, rec HandRecord) error {
	var errs []error
	for _, r := range ms {
		if err := r.RecordHand(ctx, rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (ms Multi) Close() error {
	var errs []error
	for _, r := range ms {
		errs = append(errs, r.Close())
	}
	return errors.Join(errs...)
}
