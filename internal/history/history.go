// Package history keeps the most recent injected dictations.
package history

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/emmett/voxtype/internal/logger"
)

// DefaultLimit is how many entries are kept
const DefaultLimit = 50

var prefix = []byte("h/")

// Entry is one injected dictation
type Entry struct {
	ID    string    `json:"id"`
	Time  time.Time `json:"time"`
	Text  string    `json:"text"`
	Raw   string    `json:"raw"`
	Mode  string    `json:"mode"`
	Model string    `json:"model"`
}

// Store persists entries in badger, newest first, capped at a limit
type Store struct {
	db    *badger.DB
	limit int
}

// Open opens or creates a store under dir
func Open(dir string, limit int) (*Store, error) {
	return open(badger.DefaultOptions(dir), limit)
}

// OpenInMemory opens a store that is discarded on Close
func OpenInMemory(limit int) (*Store, error) {
	return open(badger.DefaultOptions("").WithInMemory(true), limit)
}

func open(opts badger.Options, limit int) (*Store, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	db, err := badger.Open(opts.WithLogger(badgerLogger{logger.Named("history")}))
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	return &Store{db: db, limit: limit}, nil
}

// key orders entries by time, ties broken by ID
func key(e Entry) []byte {
	k := make([]byte, 0, len(prefix)+8+len(e.ID))
	k = append(k, prefix...)
	k = binary.BigEndian.AppendUint64(k, uint64(e.Time.UnixNano()))
	return append(k, e.ID...)
}

// Record stores e and trims the oldest entries beyond the limit
func (s *Store) Record(e Entry) error {
	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	val, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to encode history entry: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(key(e), val); err != nil {
			return err
		}
		return s.trim(txn)
	})
}

func (s *Store) trim(txn *badger.Txn) error {
	it := txn.NewIterator(badger.IteratorOptions{Prefix: prefix, Reverse: true})
	var stale [][]byte
	n := 0
	for it.Seek(seekLast()); it.ValidForPrefix(prefix); it.Next() {
		n++
		if n > s.limit {
			stale = append(stale, it.Item().KeyCopy(nil))
		}
	}
	it.Close()
	for _, k := range stale {
		if err := txn.Delete(k); err != nil {
			return err
		}
	}
	return nil
}

func seekLast() []byte { return append(append([]byte{}, prefix...), 0xFF) }

// Recent returns up to n entries, newest first
func (s *Store) Recent(n int) ([]Entry, error) {
	var out []Entry
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.Reverse = true
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(seekLast()); it.ValidForPrefix(prefix) && len(out) < n; it.Next() {
			var e Entry
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &e)
			}); err != nil {
				return err
			}
			out = append(out, e)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	return out, nil
}

// Close closes the database
func (s *Store) Close() error { return s.db.Close() }

// badgerLogger routes badger's own logging into zerolog
type badgerLogger struct{ log *logger.Logger }

func (b badgerLogger) Errorf(f string, a ...any)   { b.log.Error().Msgf(f, a...) }
func (b badgerLogger) Warningf(f string, a ...any) { b.log.Warn().Msgf(f, a...) }
func (b badgerLogger) Infof(f string, a ...any)    { b.log.Debug().Msgf(f, a...) }
func (b badgerLogger) Debugf(f string, a ...any)   { b.log.Trace().Msgf(f, a...) }
