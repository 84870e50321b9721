// Package store persists progression state per save slot.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lawnchairsociety/staminaxp/internal/progression"
)

// ErrNotFound is returned when a slot has no saved progression yet.
var ErrNotFound = errors.New("progression state not found")

// ErrInvalidSlot is returned for slot ids that cannot name a save.
var ErrInvalidSlot = errors.New("invalid save slot id")

// Store loads and saves progression state keyed by save-slot id.
type Store interface {
	// Load returns ErrNotFound when the slot has never been saved.
	Load(ctx context.Context, slotID string) (*progression.State, error)
	Save(ctx context.Context, slotID string, state *progression.State) error
	// Slots lists every slot with saved state, sorted.
	Slots(ctx context.Context) ([]string, error)
	Close() error
}

// ValidateSlot checks that a slot id is usable as a single path element
// and as a database key.
func ValidateSlot(slotID string) error {
	switch {
	case strings.TrimSpace(slotID) == "":
		return fmt.Errorf("%w: empty", ErrInvalidSlot)
	case slotID == "." || slotID == "..":
		return fmt.Errorf("%w: %q", ErrInvalidSlot, slotID)
	case strings.ContainsAny(slotID, `/\`):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidSlot, slotID)
	}
	return nil
}
