// Package store persists the training state of named runs in BadgerDB so
// that an interrupted run can resume where it stopped.
package store

import (
	"encoding/json"
	"os"

	"gomoku/trainer"

	"github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"
)

const statePrefix = "state/"

type Store struct {
	db *badger.DB
}

// Open opens the database in dir, creating it if needed.
func Open(dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.New("state directory is required")
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, errors.Wrapf(err, "create state directory %s", dir)
	}
	opts := badger.DefaultOptions(dir).
		WithSyncWrites(true).
		WithNumVersionsToKeep(1).
		WithLogger(nil)
	return open(opts)
}

// OpenInMemory opens a database that is never written to disk.
func OpenInMemory() (*Store, error) {
	return open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
}

func open(opts badger.Options) (*Store, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrap(err, "open badger database")
	}
	return &Store{db: db}, nil
}

func (s *Store) SaveState(run string, state trainer.State) error {
	value, err := json.Marshal(state)
	if err != nil {
		return errors.Wrap(err, "encode training state")
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(statePrefix+run), value)
	})
	return errors.Wrapf(err, "save training state of run %q", run)
}

func (s *Store) LoadState(run string) (trainer.State, bool, error) {
	var state trainer.State
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(statePrefix + run))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &state)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return trainer.State{}, false, nil
	}
	if err != nil {
		return trainer.State{}, false, errors.Wrapf(err, "load training state of run %q", run)
	}
	return state, true, nil
}

// DeleteState forgets a run so that it starts over.
func (s *Store) DeleteState(run string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(statePrefix + run))
	})
	return errors.Wrapf(err, "delete training state of run %q", run)
}

func (s *Store) Close() error {
	return s.db.Close()
}
