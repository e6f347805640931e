package records

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/fhuszti/image-optimiser-go/internal/model"
)

var ErrClosed = errors.New("records store is closed")

var (
	recPrefix   = []byte("rec:")
	recUpper    = []byte("rec;")
	cursorKey   = []byte("meta:bulk_cursor")
	openBackoff = 25 * time.Millisecond
	openTimeout = 5 * time.Second
)

// Store is the bounded optimisation log, newest first. The api, the worker
// and the bulk command all write to it, so the pebble directory is opened
// for each operation and released straight after.
type Store struct {
	path string
	max  int

	mu     sync.Mutex
	closed bool
	seq    atomic.Uint32
	pid    uint32
}

func Open(path string, max int) (*Store, error) {
	if max < 1 {
		max = 1
	}
	s := &Store{path: path, max: max, pid: uint32(os.Getpid())}
	// fail fast on an unusable path
	err := s.with(context.Background(), func(*pebble.DB) error { return nil })
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Append writes rec and evicts the oldest entries beyond the bound.
func (s *Store) Append(ctx context.Context, rec model.Record) error {
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	key := s.key(rec.Timestamp)

	return s.with(ctx, func(db *pebble.DB) error {
		if err := db.Set(key, data, pebble.Sync); err != nil {
			return fmt.Errorf("store record: %w", err)
		}
		return s.evict(db)
	})
}

// List returns up to limit records, most recent first. limit <= 0 means all.
func (s *Store) List(ctx context.Context, limit int) ([]model.Record, error) {
	var out []model.Record
	err := s.with(ctx, func(db *pebble.DB) error {
		iter, err := db.NewIter(&pebble.IterOptions{LowerBound: recPrefix, UpperBound: recUpper})
		if err != nil {
			return err
		}
		defer iter.Close()

		for iter.Last(); iter.Valid(); iter.Prev() {
			var rec model.Record
			if err := json.Unmarshal(iter.Value(), &rec); err != nil {
				continue
			}
			out = append(out, rec)
			if limit > 0 && len(out) >= limit {
				break
			}
		}
		return iter.Error()
	})
	return out, err
}

// Cursor returns the persisted bulk offset, 0 when none was saved.
func (s *Store) Cursor(ctx context.Context) (int, error) {
	var n int
	err := s.with(ctx, func(db *pebble.DB) error {
		val, closer, err := db.Get(cursorKey)
		if errors.Is(err, pebble.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		defer closer.Close()
		n, err = strconv.Atoi(string(val))
		return err
	})
	return n, err
}

func (s *Store) SetCursor(ctx context.Context, n int) error {
	return s.with(ctx, func(db *pebble.DB) error {
		return db.Set(cursorKey, []byte(strconv.Itoa(n)), pebble.Sync)
	})
}

func (s *Store) evict(db *pebble.DB) error {
	iter, err := db.NewIter(&pebble.IterOptions{LowerBound: recPrefix, UpperBound: recUpper})
	if err != nil {
		return err
	}
	defer iter.Close()

	var keys [][]byte
	for iter.First(); iter.Valid(); iter.Next() {
		keys = append(keys, append([]byte(nil), iter.Key()...))
	}
	if err := iter.Error(); err != nil {
		return err
	}
	if len(keys) <= s.max {
		return nil
	}

	b := db.NewBatch()
	defer b.Close()
	for _, k := range keys[:len(keys)-s.max] {
		if err := b.Delete(k, nil); err != nil {
			return err
		}
	}
	return b.Commit(pebble.Sync)
}

// key orders records by time, then by writer and sequence.
func (s *Store) key(ts time.Time) []byte {
	k := make([]byte, 0, len(recPrefix)+16)
	k = append(k, recPrefix...)
	k = binary.BigEndian.AppendUint64(k, uint64(ts.UnixNano()))
	k = binary.BigEndian.AppendUint32(k, s.pid)
	return binary.BigEndian.AppendUint32(k, s.seq.Add(1))
}

// with opens the database, waiting for another process to release it.
func (s *Store) with(ctx context.Context, fn func(*pebble.DB) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	deadline := time.Now().Add(openTimeout)
	for {
		db, err := pebble.Open(s.path, pebbleOptions())
		if err == nil {
			fnErr := fn(db)
			if cErr := db.Close(); cErr != nil && fnErr == nil {
				fnErr = cErr
			}
			return fnErr
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("open records store %s: %w", s.path, err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(openBackoff):
		}
	}
}
