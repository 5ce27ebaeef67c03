package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stockdeck/stockdeck/internal/database"
)

// SQLite is a Store over a single sqlite database. Every committed
// write re-reads the collection and fans the full snapshot out to all
// live subscribers, each on its own delivery goroutine. Pending
// deliveries coalesce so a slow subscriber only ever sees the newest
// snapshot.
type SQLite struct {
	db  *sql.DB
	log *zap.Logger

	mu     sync.Mutex
	subs   map[string]map[int]*subscriber // collection -> sub id -> sub
	nextID int
}

type subscriber struct {
	snapshots  chan Snapshot
	done       chan struct{}
	closeOnce  sync.Once
	onSnapshot func(Snapshot)
	onError    func(error)
}

// NewSQLite wraps an open, migrated database.
func NewSQLite(db *sql.DB, log *zap.Logger) *SQLite {
	if log == nil {
		log = zap.NewNop()
	}
	return &SQLite{
		db:   db,
		log:  log,
		subs: make(map[string]map[int]*subscriber),
	}
}

func (s *SQLite) Subscribe(collection string, onSnapshot func(Snapshot), onError func(error)) func() {
	sub := &subscriber{
		snapshots:  make(chan Snapshot, 1),
		done:       make(chan struct{}),
		onSnapshot: onSnapshot,
		onError:    onError,
	}

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	if s.subs[collection] == nil {
		s.subs[collection] = make(map[int]*subscriber)
	}
	s.subs[collection][id] = sub
	s.mu.Unlock()

	go sub.deliver()

	snap, err := s.readCollection(collection)
	if err != nil {
		s.log.Error("initial snapshot read failed",
			zap.String("collection", collection), zap.Error(err))
		sub.fail(err)
	} else {
		sub.push(snap)
	}

	return func() {
		sub.closeOnce.Do(func() { close(sub.done) })
		s.mu.Lock()
		delete(s.subs[collection], id)
		s.mu.Unlock()
	}
}

func (s *SQLite) Create(string) (string, error) {
	return uuid.NewString(), nil
}

func (s *SQLite) Write(collection, key string, fields map[string]any) error {
	if key == "" {
		return fmt.Errorf("write %s: empty key", collection)
	}
	err := database.WithTx(s.db, func(tx *sql.Tx) error {
		merged := fields
		var existing string
		row := tx.QueryRow(`SELECT fields FROM records WHERE collection = ? AND key = ?`, collection, key)
		switch err := row.Scan(&existing); err {
		case nil:
			var current map[string]any
			if err := json.Unmarshal([]byte(existing), &current); err != nil {
				return fmt.Errorf("decode record %s/%s: %w", collection, key, err)
			}
			for k, v := range fields {
				current[k] = v
			}
			merged = current
		case sql.ErrNoRows:
			// fresh record, insert below
		default:
			return err
		}

		doc, err := json.Marshal(merged)
		if err != nil {
			return fmt.Errorf("encode record %s/%s: %w", collection, key, err)
		}
		_, err = tx.Exec(`
	INSERT INTO records(collection, key, fields, seq)
	VALUES (?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM records WHERE collection = ?))
	ON CONFLICT(collection, key) DO UPDATE SET fields = excluded.fields;
	`, collection, key, string(doc), collection)
		return err
	})
	if err != nil {
		return err
	}
	s.broadcast(collection)
	return nil
}

func (s *SQLite) Delete(collection, key string) error {
	if _, err := s.db.Exec(`DELETE FROM records WHERE collection = ? AND key = ?`, collection, key); err != nil {
		return err
	}
	s.broadcast(collection)
	return nil
}

// Close cancels every live subscription.
func (s *SQLite) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, subs := range s.subs {
		for id, sub := range subs {
			sub.closeOnce.Do(func() { close(sub.done) })
			delete(subs, id)
		}
	}
}

func (s *SQLite) broadcast(collection string) {
	s.mu.Lock()
	targets := make([]*subscriber, 0, len(s.subs[collection]))
	for _, sub := range s.subs[collection] {
		targets = append(targets, sub)
	}
	s.mu.Unlock()
	if len(targets) == 0 {
		return
	}

	snap, err := s.readCollection(collection)
	if err != nil {
		s.log.Error("snapshot read failed",
			zap.String("collection", collection), zap.Error(err))
		for _, sub := range targets {
			sub.fail(err)
		}
		return
	}
	for _, sub := range targets {
		sub.push(snap)
	}
}

func (s *SQLite) readCollection(collection string) (Snapshot, error) {
	rows, err := s.db.Query(`SELECT key, fields FROM records WHERE collection = ? ORDER BY seq`, collection)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snap Snapshot
	for rows.Next() {
		var key, doc string
		if err := rows.Scan(&key, &doc); err != nil {
			return nil, err
		}
		var fields map[string]any
		if err := json.Unmarshal([]byte(doc), &fields); err != nil {
			return nil, fmt.Errorf("decode record %s/%s: %w", collection, key, err)
		}
		snap = append(snap, Entry{Key: key, Fields: fields})
	}
	return snap, rows.Err()
}

// deliver pumps coalesced snapshots to the callback until the
// subscription is cancelled.
func (sub *subscriber) deliver() {
	for {
		select {
		case <-sub.done:
			return
		case snap := <-sub.snapshots:
			select {
			case <-sub.done:
				return
			default:
			}
			sub.onSnapshot(snap)
		}
	}
}

// push queues a snapshot, replacing any undelivered one.
func (sub *subscriber) push(snap Snapshot) {
	for {
		select {
		case sub.snapshots <- snap:
			return
		default:
			select {
			case <-sub.snapshots:
			default:
			}
		}
	}
}

func (sub *subscriber) fail(err error) {
	if sub.onError == nil {
		return
	}
	select {
	case <-sub.done:
	default:
		sub.onError(err)
	}
}
