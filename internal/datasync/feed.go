// Package datasync keeps entity tables fed from the record store. A
// Feed owns at most one live store subscription, scoped to the
// authenticated merchant, and re-establishes it whenever the signed-in
// user changes.
package datasync

import (
	"sync"

	"go.uber.org/zap"

	"github.com/stockdeck/stockdeck/internal/auth"
	"github.com/stockdeck/stockdeck/internal/model"
	"github.com/stockdeck/stockdeck/internal/store"
)

// Decode maps a store entry onto an entity record. The store key is
// the record id.
type Decode func(key string, fields map[string]any) model.Record

// Feed mirrors one collection for the current merchant. Records are
// filtered client-side to the owner's merchantId, in snapshot order.
type Feed struct {
	authsvc    auth.Service
	records    store.Store
	collection string
	decode     Decode
	log        *zap.Logger

	mu        sync.Mutex
	owner     string
	current   []model.Record
	loading   bool
	unsub     func()
	unsubAuth func()
	notify    func()
	closed    bool
}

func NewFeed(authsvc auth.Service, records store.Store, collection string, decode Decode, log *zap.Logger) *Feed {
	if log == nil {
		log = zap.NewNop()
	}
	f := &Feed{
		authsvc:    authsvc,
		records:    records,
		collection: collection,
		decode:     decode,
		log:        log,
	}
	// Fires immediately with the current identity, so the feed is
	// live (or deliberately empty) as soon as it is constructed.
	f.unsubAuth = authsvc.OnAuthStateChange(f.setOwner)
	return f
}

// OnChange registers the UI callback invoked after every state change.
// The callback runs off the caller's goroutine; bridge it to the
// program with Send.
func (f *Feed) OnChange(fn func()) {
	f.mu.Lock()
	f.notify = fn
	f.mu.Unlock()
}

// Records returns the merchant's records from the latest snapshot, in
// snapshot order. Nil when signed out or before the first snapshot.
func (f *Feed) Records() []model.Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

// Loading reports whether a subscription is live but the first
// snapshot has not arrived yet.
func (f *Feed) Loading() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loading
}

// Close tears down the subscription and the auth listener.
func (f *Feed) Close() {
	f.mu.Lock()
	unsubAuth := f.unsubAuth
	unsub := f.unsub
	f.unsubAuth = nil
	f.unsub = nil
	f.current = nil
	f.loading = false
	f.closed = true
	f.mu.Unlock()

	if unsubAuth != nil {
		unsubAuth()
	}
	if unsub != nil {
		unsub()
	}
}

// setOwner reacts to auth-state changes: the prior subscription is
// torn down first so records from one merchant can never survive into
// another's session.
func (f *Feed) setOwner(uid string) {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	prev := f.unsub
	f.unsub = nil
	f.owner = uid
	f.current = nil
	f.loading = uid != ""
	notify := f.notify
	f.mu.Unlock()

	if prev != nil {
		prev()
	}
	if uid == "" {
		if notify != nil {
			notify()
		}
		return
	}

	unsub := f.records.Subscribe(f.collection,
		func(snap store.Snapshot) { f.apply(uid, snap) },
		func(err error) { f.fail(uid, err) },
	)

	f.mu.Lock()
	if f.owner != uid || f.closed {
		// Owner moved on while we were subscribing.
		f.mu.Unlock()
		unsub()
		return
	}
	f.unsub = unsub
	f.mu.Unlock()
	if notify != nil {
		notify()
	}
}

func (f *Feed) apply(owner string, snap store.Snapshot) {
	mine := make([]model.Record, 0, len(snap))
	for _, entry := range snap {
		if model.AsString(entry.Fields["merchantId"]) != owner {
			continue
		}
		mine = append(mine, f.decode(entry.Key, entry.Fields))
	}

	f.mu.Lock()
	if f.owner != owner || f.closed {
		f.mu.Unlock()
		return
	}
	f.current = mine
	f.loading = false
	notify := f.notify
	f.mu.Unlock()

	if notify != nil {
		notify()
	}
}

// fail keeps the last-known records; stale data beats an empty table.
func (f *Feed) fail(owner string, err error) {
	f.mu.Lock()
	if f.owner != owner || f.closed {
		f.mu.Unlock()
		return
	}
	f.loading = false
	notify := f.notify
	f.mu.Unlock()

	f.log.Error("feed subscription error",
		zap.String("collection", f.collection),
		zap.Error(err))
	if notify != nil {
		notify()
	}
}
