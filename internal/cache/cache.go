// Package cache persists extracted video metrics between runs so unchanged
// files are not decoded again.
package cache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/five82/vidsift/internal/analysis"
	"github.com/five82/vidsift/internal/config"
	"github.com/five82/vidsift/internal/validation"
)

const metricsKeyPrefix = "metrics:"

// Key identifies one measurement: the file as it was on disk plus every
// parameter that changes the metrics.
type Key struct {
	Path    string
	Size    int64
	ModTime int64 // unix nanoseconds
	Motion  bool

	Sampling config.Sampling
	Params   config.Motion
	MaxWidth int
	Hash     bool
}

// KeyFor stats path and builds its cache key.
func KeyFor(path string, sampling config.Sampling, motionEnabled bool, opts analysis.Options) (Key, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Key{}, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return Key{}, err
	}
	return Key{
		Path:     abs,
		Size:     info.Size(),
		ModTime:  info.ModTime().UnixNano(),
		Motion:   motionEnabled,
		Sampling: sampling,
		Params:   opts.Motion,
		MaxWidth: opts.MaxWidth,
		Hash:     opts.FrameHash,
	}, nil
}

func (k Key) bytes() []byte {
	parts := []string{
		k.Path,
		strconv.FormatInt(k.Size, 10),
		strconv.FormatInt(k.ModTime, 10),
		strconv.FormatBool(k.Motion),
		strconv.Itoa(k.Sampling.NumFrames),
		strconv.Itoa(k.Sampling.Stride),
		strconv.Itoa(k.Params.DiffThreshold),
		strconv.FormatFloat(k.Params.MinChangeRatio, 'g', -1, 64),
		strconv.FormatFloat(k.Params.MinActiveFraction, 'g', -1, 64),
		strconv.Itoa(k.MaxWidth),
		strconv.FormatBool(k.Hash),
	}
	return []byte(metricsKeyPrefix + strings.Join(parts, "|"))
}

// Entry is a cached measurement.
type Entry struct {
	Metrics analysis.VideoMetrics `json:"metrics"`
	Issues  []validation.Reason   `json:"issues,omitempty"`
	Skipped int                   `json:"skipped"`
	Opened  bool                  `json:"opened"`
}

// Store is a badger-backed metrics cache.
type Store struct {
	db *badger.DB
}

// Open opens or creates a cache in dir.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create cache dir %s: %w", dir, err)
	}
	db, err := badger.Open(badger.DefaultOptions(dir).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("open cache %s: %w", dir, err)
	}
	return &Store{db: db}, nil
}

// OpenInMemory opens a cache that is discarded on Close.
func OpenInMemory() (*Store, error) {
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("open in-memory cache: %w", err)
	}
	return &Store{db: db}, nil
}

// Get returns the entry stored under key, if any.
func (s *Store) Get(key Key) (*Entry, bool, error) {
	var entry Entry
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key.bytes())
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &entry)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get cached metrics: %w", err)
	}
	return &entry, true, nil
}

// Put stores entry under key.
func (s *Store) Put(key Key, entry *Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal cached metrics: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key.bytes(), data)
	})
}

// Len returns the number of cached measurements.
func (s *Store) Len() (int, error) {
	n := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(metricsKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			n++
		}
		return nil
	})
	return n, err
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
