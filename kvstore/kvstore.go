// Package kvstore is the C1 KV store adapter (spec §4.1): the only
// component in this module that performs disk I/O. Every other package
// talks to the store only through the narrow Store capability interface
// defined here, never through a concrete database type — this is the
// composition-over-inheritance redesign spec §9 calls for ("Nested
// inheritance of the KV-wrapper... should become composition: the journal
// *holds* a store handle via a narrow KVStore capability interface").
//
// Grounded on timestampvm/singleton_state.go and timestampvm/block_state.go,
// both of which hold a bare avalanchego/database.Database and drive it with
// Get/Put/Delete/Has; this package narrows that same interface instead of
// inventing a new storage abstraction.
package kvstore

import (
	"errors"

	"github.com/ava-labs/avalanchego/database"
)

// ErrNotFound mirrors avalanchego/database.ErrNotFound so callers outside
// this package don't need to import avalanchego directly just to compare
// against the miss sentinel.
var ErrNotFound = database.ErrNotFound

// Entry is one key/value pair yielded by a prefix iteration.
type Entry struct {
	Key   []byte
	Value []byte
}

// BatchOp is a single operation queued into an atomic batch. Erase set
// means "erase this key"; otherwise Value is written, and a nil Value
// stores an empty value (spec §4.1: "write_batch(ops) -> ok/err").
type BatchOp struct {
	Key   []byte
	Value []byte
	Erase bool
}

// Store is the C1 capability every other package in this module depends
// on: point read/write/erase, an atomic batch, and bytewise prefix
// iteration. An avalanchego/database.Database satisfies it through Wrap.
type Store interface {
	// Read returns the value stored at key, or (nil, false, nil) if absent.
	Read(key []byte) ([]byte, bool, error)
	// Write stores value at key.
	Write(key, value []byte) error
	// Erase removes key; erasing an absent key is not an error.
	Erase(key []byte) error
	// WriteBatch applies every op atomically.
	WriteBatch(ops []BatchOp) error
	// IterFrom returns entries with the given prefix in bytewise key order,
	// starting at the first key >= prefix. The returned Iterator must be
	// released by the caller.
	IterFrom(prefix []byte) Iterator
}

// Iterator walks entries in bytewise key order, all sharing the iterated
// prefix. Mirrors avalanchego/database.Iterator's Next/Key/Value/Error/
// Release shape so the adapter below is a thin pass-through.
type Iterator interface {
	Next() bool
	Key() []byte
	Value() []byte
	Error() error
	Release()
}

// dbStore adapts an avalanchego/database.Database to Store.
type dbStore struct {
	db database.Database
}

// Wrap narrows an avalanchego/database.Database down to the Store
// capability. Any avalanchego database backend (memdb, leveldb, a
// prefixdb-namespaced view of either) satisfies database.Database and can
// be wrapped here.
func Wrap(db database.Database) Store {
	return &dbStore{db: db}
}

func (s *dbStore) Read(key []byte) ([]byte, bool, error) {
	v, err := s.db.Get(key)
	if errors.Is(err, database.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func (s *dbStore) Write(key, value []byte) error {
	return s.db.Put(key, value)
}

func (s *dbStore) Erase(key []byte) error {
	return s.db.Delete(key)
}

func (s *dbStore) WriteBatch(ops []BatchOp) error {
	b := s.db.NewBatch()
	for _, op := range ops {
		if op.Erase {
			if err := b.Delete(op.Key); err != nil {
				return err
			}
			continue
		}
		if err := b.Put(op.Key, op.Value); err != nil {
			return err
		}
	}
	return b.Write()
}

func (s *dbStore) IterFrom(prefix []byte) Iterator {
	return s.db.NewIteratorWithPrefix(prefix)
}
