// Package namestore is the durable key-value store for operator-assigned
// custom device names, keyed by Serial and surviving reconnects (spec.md §3
// "Ownership", §6 "Persistent state"). Grounded on the teacher's
// pkg/store/metadata/badger transaction style.
package namestore

import (
	badger "github.com/dgraph-io/badger/v4"

	"github.com/arcadefleet/hub/pkg/device"
)

// Store is a Badger-backed map from device.Serial to an operator-assigned
// display name. Writes flush synchronously so a custom name survives a
// crash immediately after it is set.
type Store struct {
	db *badger.DB
}

// Open opens (or creates) a Badger database at dir. Pass "" for an
// in-memory store, useful for tests and the CLI's local-dev mode.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = opts.WithInMemory(true)
	} else {
		opts = opts.WithSyncWrites(true)
	}
	opts = opts.WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func key(serial device.Serial) []byte {
	return []byte("name:" + serial.String())
}

// Set records name against serial, overwriting any prior value. The write
// is committed (and, for an on-disk store, fsynced via the SyncWrites option
// Open sets) before returning.
func (s *Store) Set(serial device.Serial, name string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key(serial), []byte(name))
	})
}

// Get returns the custom name for serial, or ("", false) if none is set.
func (s *Store) Get(serial device.Serial) (string, bool) {
	var name string
	found := false
	_ = s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key(serial))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			name = string(val)
			found = true
			return nil
		})
	})
	return name, found
}

// Delete removes the custom name for serial. Deleting an absent key is a
// no-op, matching the idempotent-delete property in spec.md §8.
func (s *Store) Delete(serial device.Serial) error {
	return s.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete(key(serial))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		return err
	})
}
