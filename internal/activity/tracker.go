// Package activity turns per-tick player observations into discrete
// experience-granting events.
package activity

import (
	"github.com/lawnchairsociety/staminaxp/internal/config"
	"github.com/lawnchairsociety/staminaxp/internal/gametime"
)

// Observation is the host's read-only snapshot of the player for one tick.
type Observation struct {
	IsEating    bool
	IsUsingTool bool
	Stamina     float64
	Health      int
	TimeOfDay   int
	MaxStamina  int
}

// IsExhausted reports whether the player has run out of stamina.
func (o Observation) IsExhausted() bool {
	return o.Stamina <= 0
}

// ShouldPassOut reports whether the host is about to make the player collapse.
func (o Observation) ShouldPassOut() bool {
	return o.Stamina <= 0 || o.Health <= 0 || gametime.IsPastBedtime(o.TimeOfDay)
}

// Tracker deduplicates recurring signals within a day.
// The zero value is ready to use.
type Tracker struct {
	wasExhausted     bool
	wasCollapsed     bool
	hasRecentToolExp bool
	wasEating        bool
}

// NewTracker creates a tracker with all flags cleared
func NewTracker() *Tracker {
	return &Tracker{}
}

// OnTick processes one tick of observations and returns the activities that
// earned experience this tick. oneSecond is the host's once-per-second pulse.
func (t *Tracker) OnTick(oneSecond bool, obs Observation) []config.Activity {
	var grants []config.Activity

	// Tool experience is throttled to once per second of use
	if oneSecond && t.hasRecentToolExp {
		t.hasRecentToolExp = false
	}

	// Eating pays out when the meal finishes, not while food is held
	if t.wasEating && !obs.IsEating {
		grants = append(grants, config.ActivityEating)
	}
	t.wasEating = obs.IsEating

	if obs.IsUsingTool && !t.hasRecentToolExp {
		t.hasRecentToolExp = true
		grants = append(grants, config.ActivityToolUse)
	}

	if obs.IsExhausted() && !t.wasExhausted {
		t.wasExhausted = true
		grants = append(grants, config.ActivityExhaustion)
	}

	if obs.ShouldPassOut() && !t.wasCollapsed {
		t.wasCollapsed = true
		grants = append(grants, config.ActivityCollapsing)
	}

	return grants
}

// ResetForNewDay clears every flag. Called when a session is loaded.
func (t *Tracker) ResetForNewDay() {
	t.wasExhausted = false
	t.wasCollapsed = false
	t.hasRecentToolExp = false
	t.wasEating = false
}

// ResetForSave clears the once-per-day flags before the day is saved.
// Eating and tool flags describe an action in progress and carry over.
func (t *Tracker) ResetForSave() {
	t.wasExhausted = false
	t.wasCollapsed = false
}

// Flags returns the current flag values, for diagnostics.
func (t *Tracker) Flags() (exhausted, collapsed, recentTool, eating bool) {
	return t.wasExhausted, t.wasCollapsed, t.hasRecentToolExp, t.wasEating
}
