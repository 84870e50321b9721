// Package leveling turns accumulated experience into level-ups.
package leveling

import (
	"github.com/lawnchairsociety/staminaxp/internal/config"
	"github.com/lawnchairsociety/staminaxp/internal/progression"
)

// LevelUpInfo contains information about a level-up event
type LevelUpInfo struct {
	NewLevel      int
	StaminaGain   int
	NextThreshold int
}

// AddExp adds experience to the state. Levels are not rolled up here;
// that happens once per day in Rollup.
func AddExp(s *progression.State, delta int) {
	s.CurrentExp += delta
}

// Rollup converts accumulated experience into as many level-ups as it pays
// for, up to the level cap. Multi-level jumps are expected.
// Returns one entry per level gained, in order.
func Rollup(s *progression.State, cfg *config.ProgressionConfig) []LevelUpInfo {
	var levelUps []LevelUpInfo

	for s.CurrentLevel < cfg.MaxLevel && s.CurrentExp >= s.ExpToNextLevel {
		levelUps = append(levelUps, levelUp(s, cfg))
	}

	return levelUps
}

// levelUp advances the state one level and returns the level-up info
func levelUp(s *progression.State, cfg *config.ProgressionConfig) LevelUpInfo {
	s.CurrentLevel++
	s.CurrentExp -= s.ExpToNextLevel
	s.ExpToNextLevel = NextThreshold(s.ExpToNextLevel, cfg.ExpCurveMultiplier)
	s.CurrentLevelStaminaBonus += cfg.StaminaPerLevel

	return LevelUpInfo{
		NewLevel:      s.CurrentLevel,
		StaminaGain:   cfg.StaminaPerLevel,
		NextThreshold: s.ExpToNextLevel,
	}
}

// NextThreshold grows a level threshold by the curve multiplier.
// The result never shrinks below the current threshold.
func NextThreshold(current int, multiplier float64) int {
	next := int(float64(current) * multiplier)
	if next < current {
		return current
	}
	return next
}

// ExpRemaining returns how much more experience the next level needs.
// Zero at the level cap.
func ExpRemaining(s *progression.State, cfg *config.ProgressionConfig) int {
	if s.CurrentLevel >= cfg.MaxLevel {
		return 0
	}
	remaining := s.ExpToNextLevel - s.CurrentExp
	if remaining < 0 {
		return 0
	}
	return remaining
}
