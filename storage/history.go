package storage

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

var historyBucket = []byte("search_history")

// HistoryStore records completed searches in a local BoltDB file.
type HistoryStore struct {
	db *bolt.DB
}

type HistoryEntry struct {
	Query          string    `json:"query"`
	TotalResults   int       `json:"total_results"`
	ProcessingTime float64   `json:"processing_time"`
	At             time.Time `json:"at"`
}

// OpenHistory opens (or creates) the history database at the given path.
func OpenHistory(path string) (*HistoryStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory for history db: %w", err)
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open history db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(historyBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create bucket: %w", err)
	}

	return &HistoryStore{db: db}, nil
}

// Record appends a search to the history. Keys are the bucket sequence number
// so a reverse cursor walk yields newest-first order.
func (s *HistoryStore) Record(entry HistoryEntry) error {
	if entry.At.IsZero() {
		entry.At = time.Now()
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(historyBucket)

		seq, err := b.NextSequence()
		if err != nil {
			return err
		}

		key := make([]byte, 8)
		binary.BigEndian.PutUint64(key, seq)

		value, err := json.Marshal(entry)
		if err != nil {
			return err
		}
		return b.Put(key, value)
	})
}

// Recent returns up to limit entries, newest first.
func (s *HistoryStore) Recent(limit int) ([]HistoryEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	entries := make([]HistoryEntry, 0, limit)
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(historyBucket).Cursor()
		for k, v := c.Last(); k != nil && len(entries) < limit; k, v = c.Prev() {
			var entry HistoryEntry
			if err := json.Unmarshal(v, &entry); err != nil {
				continue
			}
			entries = append(entries, entry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *HistoryStore) Close() error {
	return s.db.Close()
}
