package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v3"
	log "github.com/sirupsen/logrus"
)

var badgerSessionKey = []byte("session::current")

// BadgerStore keeps the session in a local on-device badger database.
type BadgerStore struct {
	db *badger.DB
}

func NewBadgerStore(dir string) (*BadgerStore, error) {
	return OpenBadgerStore(badger.DefaultOptions(dir).WithLogger(nil))
}

// OpenBadgerStore allows custom options, e.g. in-memory for tests.
func OpenBadgerStore(opts badger.Options) (*BadgerStore, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger session store: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

func (s *BadgerStore) Load(_ context.Context) (*StoredSession, error) {
	var raw []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(badgerSessionKey)
		if err != nil {
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	session := &StoredSession{}
	if err := json.Unmarshal(raw, session); err != nil {
		return nil, fmt.Errorf("decode stored session: %w", err)
	}
	return session, nil
}

func (s *BadgerStore) Save(_ context.Context, session StoredSession) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(badgerSessionKey, raw)
	}); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	log.Debugln("badger store: session saved")
	return nil
}

func (s *BadgerStore) Clear(_ context.Context) error {
	if err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(badgerSessionKey)
	}); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}
