// Package storage keeps per-user client state (wallet address, bank account,
// data-consent flags) in a small key-value file.
//
// Availability is probed once with Open. The resulting Capability is passed
// explicitly to NewAccessor; an Accessor built without a capability turns
// every call into a no-op that reports false instead of failing.
package storage

import (
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"
)

// Fixed client-state keys
const (
	KeyWallet        = "aitopia_wallet"
	KeyBankAccount   = "aitopia_bank_account"
	KeyAccountHolder = "aitopia_account_holder"
	KeyBankName      = "aitopia_bank_name"
	KeyConsents      = "aitopia_mydata_consents"
)

const probeKey = "__storage_test__"

// ErrUnavailable is returned by Open when the store cannot be used.
var ErrUnavailable = errors.New("client state storage unavailable")

// Capability is a probed, writable store handle.
type Capability struct {
	db *bolt.DB
}

// Open opens the store at path and verifies a write/delete round trip.
// Any failure is reported as ErrUnavailable wrapping the cause.
func Open(path string) (*Capability, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(ErrUnavailable, err.Error())
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, errors.Wrap(ErrUnavailable, err.Error())
	}
	err = db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(probeKey))
		if err != nil {
			return err
		}
		if err := b.Put([]byte(probeKey), []byte("test")); err != nil {
			return err
		}
		if err := b.Delete([]byte(probeKey)); err != nil {
			return err
		}
		return tx.DeleteBucket([]byte(probeKey))
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(ErrUnavailable, err.Error())
	}
	return &Capability{db: db}, nil
}

// Close releases the underlying file.
func (c *Capability) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Accessor reads and writes namespaced keys. It never returns errors:
// Get reports presence, Set and Remove report whether the change was stored.
type Accessor struct {
	cap *Capability
}

// NewAccessor wraps a capability; nil yields an accessor where every call no-ops.
func NewAccessor(c *Capability) *Accessor {
	return &Accessor{cap: c}
}

// Available reports whether writes can be persisted.
func (a *Accessor) Available() bool {
	return a != nil && a.cap != nil && a.cap.db != nil
}

func (a *Accessor) Get(ns, key string) (string, bool) {
	if !a.Available() || ns == "" {
		return "", false
	}
	var (
		val   string
		found bool
	)
	err := a.cap.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(ns))
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			val, found = string(v), true
		}
		return nil
	})
	if err != nil {
		zap.L().Warn("client state read failed", zap.String("key", key), zap.Error(err))
		return "", false
	}
	return val, found
}

func (a *Accessor) Set(ns, key, value string) bool {
	if !a.Available() || ns == "" {
		return false
	}
	err := a.cap.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(ns))
		if err != nil {
			return err
		}
		return b.Put([]byte(key), []byte(value))
	})
	if err != nil {
		zap.L().Warn("client state write failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (a *Accessor) Remove(ns, key string) bool {
	if !a.Available() || ns == "" {
		return false
	}
	err := a.cap.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(ns))
		if b == nil {
			return nil
		}
		return b.Delete([]byte(key))
	})
	if err != nil {
		zap.L().Warn("client state delete failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}
