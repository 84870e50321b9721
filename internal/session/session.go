// Package session drives progression for one loaded save slot in
// response to host lifecycle callbacks.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lawnchairsociety/staminaxp/internal/activity"
	"github.com/lawnchairsociety/staminaxp/internal/buff"
	"github.com/lawnchairsociety/staminaxp/internal/config"
	"github.com/lawnchairsociety/staminaxp/internal/leveling"
	"github.com/lawnchairsociety/staminaxp/internal/logger"
	"github.com/lawnchairsociety/staminaxp/internal/progression"
	"github.com/lawnchairsociety/staminaxp/internal/store"
)

// ErrNoSession is returned when a callback arrives before Load.
var ErrNoSession = errors.New("no active session")

// Phase is the lifecycle state of a Session
type Phase int

const (
	PhaseNoSession Phase = iota
	PhaseActive
)

// String returns the string representation of a Phase
func (p Phase) String() string {
	switch p {
	case PhaseNoSession:
		return "no_session"
	case PhaseActive:
		return "active"
	default:
		return "unknown"
	}
}

// Session owns the progression state and daily flags of one loaded slot.
// The host delivers callbacks serially; Session does no locking.
type Session struct {
	cfg     *config.ProgressionConfig
	store   store.Store
	buffs   *buff.Synchronizer
	tracker *activity.Tracker

	phase  Phase
	slotID string
	state  *progression.State
	log    *slog.Logger
}

// New creates a session in the NoSession phase.
func New(cfg *config.ProgressionConfig, st store.Store, sink buff.Sink) *Session {
	return &Session{
		cfg:     cfg,
		store:   st,
		buffs:   buff.NewSynchronizer(sink, cfg.BuffDisplayName, cfg.BuffIcon),
		tracker: activity.NewTracker(),
		phase:   PhaseNoSession,
		log:     logger.With(),
	}
}

// Phase returns the current lifecycle phase
func (s *Session) Phase() Phase {
	return s.phase
}

// SlotID returns the loaded save slot, or "" before Load
func (s *Session) SlotID() string {
	return s.slotID
}

// State returns a copy of the current progression state.
func (s *Session) State() (progression.State, error) {
	if s.phase != PhaseActive {
		return progression.State{}, ErrNoSession
	}
	return *s.state, nil
}

// Load starts a session for slotID: it reads saved state (or starts fresh),
// honors a pending reset request and applies the stamina buff.
func (s *Session) Load(ctx context.Context, slotID string, obs activity.Observation) error {
	s.tracker.ResetForNewDay()

	state, err := s.store.Load(ctx, slotID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		state = progression.NewState(s.cfg)
	case err != nil:
		return fmt.Errorf("failed to load slot %s: %w", slotID, err)
	}

	log := logger.With("slot", slotID)

	if state.CaptureOriginalMaxStamina(obs.MaxStamina) {
		log.Info("Captured baseline stamina", "max_stamina", state.OriginalMaxStamina)
	}

	if state.ClearModEffects {
		if err := s.buffs.Remove(); err != nil {
			return err
		}
		state.Reset(s.cfg)
		log.Info("Progression reset on request")
	}

	if state.MigrateNightly() {
		log.Info("Migrated nightly stamina snapshot",
			"base_stamina_bonus", state.BaseStaminaBonus,
			"level_stamina_bonus", state.CurrentLevelStaminaBonus)
	}

	bonus, err := s.buffs.Apply(state)
	if err != nil {
		return err
	}
	state.Reconcile(bonus)

	s.state = state
	s.slotID = slotID
	s.log = log
	s.phase = PhaseActive

	log.Info("Session loaded",
		"level", state.CurrentLevel,
		"exp", state.CurrentExp,
		"exp_to_next_level", state.ExpToNextLevel,
		"stamina_bonus", bonus)

	return nil
}

// Tick processes one host tick and returns the experience earned by it.
func (s *Session) Tick(oneSecond bool, obs activity.Observation) (int, error) {
	if s.phase != PhaseActive {
		return 0, ErrNoSession
	}

	if s.state.CaptureOriginalMaxStamina(obs.MaxStamina) {
		s.log.Info("Captured baseline stamina", "max_stamina", s.state.OriginalMaxStamina)
	}

	gained := 0
	for _, a := range s.tracker.OnTick(oneSecond, obs) {
		exp := s.cfg.RewardFor(a)
		leveling.AddExp(s.state, exp)
		gained += exp
		s.log.Debug("Experience gained", "activity", a.String(), "exp", exp, "total", s.state.CurrentExp)
	}

	return gained, nil
}

// PreSave closes out the day: it grants sleeping experience, rolls up
// levels, reapplies the buff and persists the state. The returned
// level-ups are for the host to announce. On error the in-memory state is
// left as it was before the call.
func (s *Session) PreSave(ctx context.Context, obs activity.Observation) ([]leveling.LevelUpInfo, error) {
	if s.phase != PhaseActive {
		return nil, ErrNoSession
	}

	s.tracker.ResetForSave()

	// Restored on failure so a repeated PreSave does not grant the day twice
	before := *s.state

	exp := s.cfg.RewardFor(config.ActivitySleeping)
	leveling.AddExp(s.state, exp)

	if s.state.CaptureOriginalMaxStamina(obs.MaxStamina) {
		s.log.Info("Captured baseline stamina", "max_stamina", s.state.OriginalMaxStamina)
	}

	// Fold any snapshot into the additive fields before levels change them
	s.state.MigrateNightly()

	levelUps := leveling.Rollup(s.state, s.cfg)
	for _, lu := range levelUps {
		s.log.Info("Level up", "level", lu.NewLevel, "stamina_gain", lu.StaminaGain, "next_threshold", lu.NextThreshold)
	}

	bonus, err := s.buffs.Apply(s.state)
	if err != nil {
		*s.state = before
		return nil, err
	}
	s.state.Reconcile(bonus)

	if err := s.store.Save(ctx, s.slotID, s.state); err != nil {
		*s.state = before
		return nil, fmt.Errorf("failed to save slot %s: %w", s.slotID, err)
	}

	s.log.Info("Day saved",
		"level", s.state.CurrentLevel,
		"exp", s.state.CurrentExp,
		"exp_to_next_level", s.state.ExpToNextLevel,
		"stamina_bonus", bonus)

	return levelUps, nil
}

// End discards the in-memory state. Whatever the last PreSave wrote stays.
func (s *Session) End() {
	if s.phase == PhaseActive {
		s.log.Info("Session ended")
	}
	s.phase = PhaseNoSession
	s.slotID = ""
	s.state = nil
	s.log = logger.With()
}
