// Package store defines the realtime record-store capability: flat
// keyed collections, push-delivered whole-collection snapshots, and
// upsert-merge writes. Consumers depend on the Store interface only;
// the sqlite backend in this package is one implementation.
package store

// Entry is one record inside a snapshot: its store key plus its flat
// field map.
type Entry struct {
	Key    string
	Fields map[string]any
}

// Snapshot is a complete point-in-time view of one collection. Entry
// order is the store's key-iteration order (insertion order for the
// sqlite backend) and is stable across snapshots.
type Snapshot []Entry

// Store is the remote-database capability. Subscriptions are push
// based: the callback receives the entire collection on every change,
// not a diff, and the last snapshot always wins.
type Store interface {
	// Subscribe registers onSnapshot for collection and delivers an
	// initial snapshot. onError is invoked for delivery failures; the
	// subscription stays registered afterwards. The returned function
	// cancels the subscription and is safe to call more than once.
	Subscribe(collection string, onSnapshot func(Snapshot), onError func(error)) (unsubscribe func())

	// Create reserves a fresh record key. No record exists until the
	// first Write against the key.
	Create(collection string) (string, error)

	// Write upserts fields into the record at collection/key, merging
	// with any existing fields.
	Write(collection, key string, fields map[string]any) error

	// Delete removes the record at collection/key. Deleting an absent
	// record is not an error.
	Delete(collection, key string) error
}
