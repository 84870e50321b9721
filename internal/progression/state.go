// Package progression holds the persistent per-slot leveling record.
package progression

import "github.com/lawnchairsociety/staminaxp/internal/config"

// State is the persisted progression record for one save slot.
// JSON keys match the record format written by earlier releases.
type State struct {
	CurrentExp     int `json:"currentExp" db:"current_exp"`
	ExpToNextLevel int `json:"expToNextLevel" db:"exp_to_next_level"`
	CurrentLevel   int `json:"currentLevel" db:"current_level"`

	// BaseStaminaBonus is a legacy flat bonus independent of level.
	BaseStaminaBonus int `json:"baseStaminaBonus" db:"base_stamina_bonus"`

	// CurrentLevelStaminaBonus accumulates per level-up so it survives config changes.
	CurrentLevelStaminaBonus int `json:"currentLevelStaminaBonus" db:"current_level_stamina_bonus"`

	// OriginalMaxStamina is captured once per era (between resets).
	OriginalMaxStamina int `json:"originalMaxStamina" db:"original_max_stamina"`

	// NightlyStamina is the absolute "baseline + bonus" snapshot.
	// Older saves stored only this value.
	NightlyStamina int `json:"nightlyStamina" db:"nightly_stamina"`

	// ClearModEffects requests a reset on the next load.
	ClearModEffects bool `json:"clearModEffects" db:"clear_mod_effects"`
}

// NewState returns fresh state seeded from the config.
func NewState(cfg *config.ProgressionConfig) *State {
	s := &State{}
	s.Reset(cfg)
	return s
}

// Reset returns every progression field to its configured starting value
// and starts a new era: the baseline is cleared and recaptured on the
// next tick, after the old bonus has been removed.
func (s *State) Reset(cfg *config.ProgressionConfig) {
	s.CurrentExp = cfg.InitialExp
	s.ExpToNextLevel = cfg.InitialExpToNextLevel
	s.CurrentLevel = 0
	s.BaseStaminaBonus = 0
	s.CurrentLevelStaminaBonus = 0
	s.OriginalMaxStamina = 0
	s.NightlyStamina = 0
	s.ClearModEffects = false
}

// CaptureOriginalMaxStamina records the baseline the first time it is seen.
// Returns true if this call set it.
func (s *State) CaptureOriginalMaxStamina(maxStamina int) bool {
	if s.OriginalMaxStamina != 0 || maxStamina <= 0 {
		return false
	}
	s.OriginalMaxStamina = maxStamina
	return true
}

// Bonus returns the stamina bonus this state grants.
// A non-zero nightly snapshot wins over the additive fields.
func (s *State) Bonus() int {
	if s.NightlyStamina > 0 {
		return s.NightlyStamina - s.OriginalMaxStamina
	}
	return s.BaseStaminaBonus + s.CurrentLevelStaminaBonus
}

// MigrateNightly folds a nightly snapshot into the additive fields and
// clears it, so level-ups gained afterwards change the bonus. The snapshot's
// bonus is preserved by adjusting BaseStaminaBonus. Returns true if the
// additive fields had to change, which only happens for old-format saves.
// Does nothing until the baseline is known.
func (s *State) MigrateNightly() bool {
	if s.NightlyStamina <= 0 || s.OriginalMaxStamina <= 0 {
		return false
	}

	legacy := s.NightlyStamina - s.OriginalMaxStamina
	s.NightlyStamina = 0

	base := legacy - s.CurrentLevelStaminaBonus
	if base == s.BaseStaminaBonus {
		return false
	}
	s.BaseStaminaBonus = base
	return true
}

// Reconcile stores bonus back into the nightly snapshot so both
// representations agree before the state is persisted. Until the baseline
// is known the snapshot is left as is, so an old-format bonus survives
// until MigrateNightly can fold it.
func (s *State) Reconcile(bonus int) {
	if s.OriginalMaxStamina <= 0 {
		return
	}
	s.NightlyStamina = s.OriginalMaxStamina + bonus
}

// Consistent reports whether the nightly snapshot and the additive
// fields describe the same bonus.
func (s *State) Consistent() bool {
	if s.NightlyStamina == 0 {
		return true
	}
	return s.NightlyStamina-s.OriginalMaxStamina == s.BaseStaminaBonus+s.CurrentLevelStaminaBonus
}
