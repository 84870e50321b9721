// Package buff keeps the host's stamina status effect in line with the
// player's progression state.
package buff

import (
	"fmt"

	"github.com/lawnchairsociety/staminaxp/internal/progression"
)

// EffectID identifies this system's buff. The host replaces an existing
// effect with the same id instead of stacking a second one.
const EffectID = "lawnchairsociety.staminaxp/level-bonus"

// Effect durations understood by the host
const (
	DurationEndless = -2 // until the day rolls over
	DurationRemove  = 0  // clear immediately
)

// Effect is one status-effect call sent to the host.
type Effect struct {
	ID          string
	DisplayName string
	Icon        string
	Magnitude   int
	Duration    int
}

// Sink is the host's status-effect surface.
type Sink interface {
	// SetEffect installs the effect, replacing any effect with the same ID.
	SetEffect(effect Effect) error
}

// Synchronizer applies the stamina bonus derived from progression state.
type Synchronizer struct {
	sink        Sink
	displayName string
	icon        string
}

// NewSynchronizer creates a synchronizer that reports to sink.
func NewSynchronizer(sink Sink, displayName, icon string) *Synchronizer {
	return &Synchronizer{
		sink:        sink,
		displayName: displayName,
		icon:        icon,
	}
}

// ComputeBonus returns the stamina bonus the state currently grants.
func ComputeBonus(s *progression.State) int {
	return s.Bonus()
}

// Apply sets the buff to the state's bonus until the end of the day and
// returns the bonus. Calling it again replaces the previous effect.
func (b *Synchronizer) Apply(s *progression.State) (int, error) {
	bonus := ComputeBonus(s)

	err := b.sink.SetEffect(Effect{
		ID:          EffectID,
		DisplayName: b.displayName,
		Icon:        b.icon,
		Magnitude:   bonus,
		Duration:    DurationEndless,
	})
	if err != nil {
		return bonus, fmt.Errorf("failed to apply stamina buff: %w", err)
	}

	return bonus, nil
}

// Remove clears the buff with a zero-magnitude, zero-duration effect.
func (b *Synchronizer) Remove() error {
	err := b.sink.SetEffect(Effect{
		ID:          EffectID,
		DisplayName: b.displayName,
		Icon:        b.icon,
		Magnitude:   0,
		Duration:    DurationRemove,
	})
	if err != nil {
		return fmt.Errorf("failed to remove stamina buff: %w", err)
	}
	return nil
}
