// Package persistence stores checkpoints in the platform's user data
// directory through gdata.
package persistence

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"

	"github.com/quasilyte/gdata"

	"github.com/younwookim/duskfall/internal/application/sim"
)

// ErrNoCheckpoint is returned when a slot has never been saved or was cleared.
var ErrNoCheckpoint = errors.New("no checkpoint")

const keyPrefix = "checkpoint_"

// Store is the item API gdata.Manager provides.
type Store interface {
	SaveItem(key string, data []byte) error
	LoadItem(key string) ([]byte, error)
}

// CheckpointStore saves one checkpoint per slot.
type CheckpointStore struct {
	store Store
}

// Open creates a store backed by gdata under appName.
func Open(appName string) (*CheckpointStore, error) {
	m, err := gdata.Open(gdata.Config{
		AppName: appName,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open save data: %w", err)
	}
	return NewCheckpointStore(m), nil
}

// NewCheckpointStore wraps an item store.
func NewCheckpointStore(s Store) *CheckpointStore {
	return &CheckpointStore{store: s}
}

// Save writes cp to slot.
func (c *CheckpointStore) Save(slot string, cp *sim.Checkpoint) error {
	if cp == nil {
		return fmt.Errorf("failed to save checkpoint %s: nil checkpoint", slot)
	}
	data, err := json.Marshal(cp)
	if err != nil {
		return fmt.Errorf("failed to encode checkpoint %s: %w", slot, err)
	}
	if err := c.store.SaveItem(keyPrefix+slot, data); err != nil {
		return fmt.Errorf("failed to save checkpoint %s: %w", slot, err)
	}
	return nil
}

// Load reads the checkpoint in slot.
func (c *CheckpointStore) Load(slot string) (*sim.Checkpoint, error) {
	data, err := c.store.LoadItem(keyPrefix + slot)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load checkpoint %s: %w", slot, ErrNoCheckpoint)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load checkpoint %s: %w", slot, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("failed to load checkpoint %s: %w", slot, ErrNoCheckpoint)
	}

	var cp sim.Checkpoint
	if err := json.Unmarshal(data, &cp); err != nil {
		return nil, fmt.Errorf("failed to parse checkpoint %s: %w", slot, err)
	}
	return &cp, nil
}

// Clear empties slot.
func (c *CheckpointStore) Clear(slot string) error {
	if err := c.store.SaveItem(keyPrefix+slot, nil); err != nil {
		return fmt.Errorf("failed to clear checkpoint %s: %w", slot, err)
	}
	return nil
}
