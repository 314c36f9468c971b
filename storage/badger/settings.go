package badger

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/quaerolabs/quaero/core"
	"github.com/quaerolabs/quaero/storage"
)

// Settings implements storage.Settings for BadgerDB, persisting the active
// mode across invocations.
type Settings struct {
	backend *Backend
}

var _ storage.Settings = (*Settings)(nil)

// NewSettings creates a new settings store over the backend.
func NewSettings(backend *Backend) *Settings {
	return &Settings{backend: backend}
}

// Mode returns the persisted mode, with false when none has been set.
func (s *Settings) Mode(ctx context.Context) (core.Mode, bool, error) {
	var raw string
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get([]byte(modeSettingKey))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			raw = string(val)
			return nil
		})
	}, false)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	mode, err := core.ParseMode(raw)
	if err != nil {
		// A corrupt value is treated as unset rather than wedging startup.
		return "", false, nil
	}
	return mode, true, nil
}

// SetMode persists the mode.
func (s *Settings) SetMode(ctx context.Context, mode core.Mode) error {
	return s.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set([]byte(modeSettingKey), []byte(mode)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}
