// Package journal persists outcome records in an append-only WAL so a
// run can be replayed or inspected after the process exits. The ledger
// itself stays purely in-memory; the journal is an outcome sink, not a
// recovery source.
package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/gowal"
	"github.com/vadiminshakov/paperbroker/internal/domain"
	"github.com/vadiminshakov/paperbroker/pkg/retrier"
)

const (
	// DefaultDir is the on-disk location of the outcome journal.
	DefaultDir = "./wal/outcomes"

	segmentThreshold = 1000
	maxSegments      = 100

	outcomeKeyPrefix = "outcome_"
)

// WALStore persists outcome records in a WAL.
type WALStore struct {
	wal     *gowal.Wal
	retrier *retrier.Retrier
	mu      sync.RWMutex
}

// NewWALStore initializes a WAL-backed outcome journal in dir.
func NewWALStore(dir string) (*WALStore, error) {
	if dir == "" {
		dir = DefaultDir
	}

	cfg := gowal.Config{
		Dir:              dir,
		Prefix:           "outcome_",
		SegmentThreshold: segmentThreshold,
		MaxSegments:      maxSegments,
		IsInSyncDiskMode: true,
	}

	wal, err := gowal.NewWAL(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "init outcome WAL")
	}

	return &WALStore{wal: wal, retrier: retrier.New()}, nil
}

// Publish appends the outcome record to the journal. Transient write
// failures are retried with backoff; a record that still cannot be
// written is reported to the dispatcher, which logs and moves on.
func (s *WALStore) Publish(ctx context.Context, outcome domain.Outcome) error {
	if s == nil || s.wal == nil {
		return errors.New("outcome journal is not initialized")
	}
	if outcome.ID == "" {
		return errors.New("outcome id is required")
	}

	payload, err := json.Marshal(outcome)
	if err != nil {
		return errors.Wrap(err, "marshal outcome record")
	}

	key := fmt.Sprintf("%s%s", outcomeKeyPrefix, outcome.ID)

	return s.retrier.Do(ctx, func(ctx context.Context) error {
		s.mu.Lock()
		defer s.mu.Unlock()

		nextIndex := s.wal.CurrentIndex() + 1
		return s.wal.Write(nextIndex, key, payload)
	})
}

// OutcomesAfter returns all outcome records written after the given WAL index.
func (s *WALStore) OutcomesAfter(index uint64) ([]domain.Outcome, error) {
	if s == nil || s.wal == nil {
		return nil, errors.New("outcome journal is not initialized")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	current := s.wal.CurrentIndex()
	if current <= index {
		return nil, nil
	}

	records := make([]domain.Outcome, 0, current-index)
	for idx := index + 1; idx <= current; idx++ {
		key, payload, getErr := s.wal.Get(idx)
		if getErr != nil || !strings.HasPrefix(key, outcomeKeyPrefix) {
			continue
		}
		var outcome domain.Outcome
		if err := json.Unmarshal(payload, &outcome); err != nil {
			return nil, errors.Wrap(err, "decode outcome record")
		}
		records = append(records, outcome)
	}

	return records, nil
}

// CurrentIndex returns the latest WAL index stored.
func (s *WALStore) CurrentIndex() uint64 {
	if s == nil || s.wal == nil {
		return 0
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.wal.CurrentIndex()
}

// Close closes the underlying WAL.
func (s *WALStore) Close() error {
	if s == nil || s.wal == nil {
		return errors.New("outcome journal is not initialized")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.wal.Close()
}
