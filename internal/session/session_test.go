package session

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/lawnchairsociety/staminaxp/internal/activity"
	"github.com/lawnchairsociety/staminaxp/internal/buff"
	"github.com/lawnchairsociety/staminaxp/internal/config"
	"github.com/lawnchairsociety/staminaxp/internal/progression"
	"github.com/lawnchairsociety/staminaxp/internal/store"
)

const slot = "Farm_42"

func testConfig() *config.ProgressionConfig {
	cfg := config.DefaultConfig()
	cfg.ExpForEating = 5
	cfg.ExpForToolUse = 1
	cfg.ExpForExhaustion = 10
	cfg.ExpForCollapsing = 20
	cfg.ExpForSleeping = 0
	cfg.ExpCurveMultiplier = 2
	cfg.MaxLevel = 5
	cfg.StaminaPerLevel = 3
	cfg.InitialExpToNextLevel = 12
	cfg.InitialExp = 0
	return cfg
}

func morning() activity.Observation {
	return activity.Observation{Stamina: 100, Health: 100, TimeOfDay: 600, MaxStamina: 100}
}

type fixture struct {
	cfg      *config.ProgressionConfig
	store    *store.FileStore
	registry *buff.Registry
	session  *Session
}

func newFixture(t *testing.T) *fixture {
	cfg := testConfig()
	fs := store.NewFileStore(filepath.Join(t.TempDir(), "saves"))
	reg := buff.NewRegistry()
	return &fixture{
		cfg:      cfg,
		store:    fs,
		registry: reg,
		session:  New(cfg, fs, reg),
	}
}

func (f *fixture) seed(t *testing.T, state *progression.State) {
	t.Helper()
	if err := f.store.Save(context.Background(), slot, state); err != nil {
		t.Fatalf("failed to seed state: %v", err)
	}
}

func TestCallbacksBeforeLoad(t *testing.T) {
	f := newFixture(t)

	if _, err := f.session.Tick(false, morning()); !errors.Is(err, ErrNoSession) {
		t.Errorf("Tick before Load: expected ErrNoSession, got %v", err)
	}
	if _, err := f.session.PreSave(context.Background(), morning()); !errors.Is(err, ErrNoSession) {
		t.Errorf("PreSave before Load: expected ErrNoSession, got %v", err)
	}
	if _, err := f.session.State(); !errors.Is(err, ErrNoSession) {
		t.Errorf("State before Load: expected ErrNoSession, got %v", err)
	}
	if f.session.Phase() != PhaseNoSession {
		t.Errorf("Phase = %s, want no_session", f.session.Phase())
	}
}

func TestLoadFreshSlot(t *testing.T) {
	f := newFixture(t)

	if err := f.session.Load(context.Background(), slot, morning()); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if f.session.Phase() != PhaseActive || f.session.SlotID() != slot {
		t.Errorf("expected active session for %s, got %s / %q", slot, f.session.Phase(), f.session.SlotID())
	}

	state, _ := f.session.State()
	if state.ExpToNextLevel != 12 || state.CurrentLevel != 0 {
		t.Errorf("expected fresh defaults, got %+v", state)
	}
	if state.OriginalMaxStamina != 100 {
		t.Errorf("OriginalMaxStamina = %d, want 100", state.OriginalMaxStamina)
	}

	effect, ok := f.registry.Get(buff.EffectID)
	if !ok {
		t.Fatal("expected buff to be applied on load")
	}
	if effect.Magnitude != 0 {
		t.Errorf("fresh slot buff magnitude = %d, want 0", effect.Magnitude)
	}
}

func TestEatingScenario(t *testing.T) {
	f := newFixture(t)
	f.seed(t, &progression.State{CurrentExp: 10, ExpToNextLevel: 12, OriginalMaxStamina: 100})
	ctx := context.Background()

	if err := f.session.Load(ctx, slot, morning()); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	eating := morning()
	eating.IsEating = true
	f.session.Tick(false, eating)
	f.session.Tick(false, eating)
	gained, err := f.session.Tick(false, morning())
	if err != nil {
		t.Fatalf("Tick returned error: %v", err)
	}
	if gained != 5 {
		t.Errorf("finishing a meal gained %d, want 5", gained)
	}

	state, _ := f.session.State()
	if state.CurrentExp != 15 || state.CurrentLevel != 0 {
		t.Errorf("expected 15 exp and no level before save, got %+v", state)
	}

	levelUps, err := f.session.PreSave(ctx, morning())
	if err != nil {
		t.Fatalf("PreSave returned error: %v", err)
	}
	if len(levelUps) != 1 || levelUps[0].NewLevel != 1 {
		t.Errorf("expected one level-up to 1, got %+v", levelUps)
	}

	state, _ = f.session.State()
	if state.CurrentLevel != 1 || state.CurrentExp != 3 || state.ExpToNextLevel != 24 || state.CurrentLevelStaminaBonus != 3 {
		t.Errorf("unexpected state after rollup: %+v", state)
	}
	if state.NightlyStamina != 103 {
		t.Errorf("NightlyStamina = %d, want 103", state.NightlyStamina)
	}
	if f.registry.TotalMagnitude() != 3 {
		t.Errorf("buff magnitude = %d, want 3", f.registry.TotalMagnitude())
	}

	saved, err := f.store.Load(ctx, slot)
	if err != nil {
		t.Fatalf("failed to load saved state: %v", err)
	}
	if *saved != state {
		t.Errorf("saved state %+v differs from session state %+v", saved, state)
	}
	if !saved.Consistent() {
		t.Error("saved bonus representations should agree")
	}
}

func TestBaselineCapturedOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	unknown := morning()
	unknown.MaxStamina = 0
	if err := f.session.Load(ctx, slot, unknown); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	first := morning()
	first.MaxStamina = 100
	f.session.Tick(false, first)

	later := morning()
	later.MaxStamina = 130
	f.session.Tick(false, later)

	state, _ := f.session.State()
	if state.OriginalMaxStamina != 100 {
		t.Errorf("OriginalMaxStamina = %d, want 100", state.OriginalMaxStamina)
	}

	if _, err := f.session.PreSave(ctx, later); err != nil {
		t.Fatalf("PreSave returned error: %v", err)
	}
	state, _ = f.session.State()
	if state.OriginalMaxStamina != 100 {
		t.Errorf("OriginalMaxStamina changed at save: %d", state.OriginalMaxStamina)
	}
}

func TestClearModEffectsOnLoad(t *testing.T) {
	f := newFixture(t)
	f.seed(t, &progression.State{
		CurrentExp:               7,
		ExpToNextLevel:           48,
		CurrentLevel:             2,
		BaseStaminaBonus:         4,
		CurrentLevelStaminaBonus: 6,
		OriginalMaxStamina:       100,
		NightlyStamina:           110,
		ClearModEffects:          true,
	})

	// A stale buff from before the reset
	f.registry.SetEffect(buff.Effect{ID: buff.EffectID, Magnitude: 10, Duration: buff.DurationEndless})
	callsBefore := f.registry.Calls()

	if err := f.session.Load(context.Background(), slot, morning()); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	state, _ := f.session.State()
	if state.CurrentLevel != 0 || state.CurrentExp != 0 || state.ExpToNextLevel != 12 {
		t.Errorf("leveling not reset: %+v", state)
	}
	if state.CurrentLevelStaminaBonus != 0 || state.BaseStaminaBonus != 0 {
		t.Errorf("bonuses not reset: %+v", state)
	}
	if state.ClearModEffects {
		t.Error("reset flag should be consumed")
	}
	if state.OriginalMaxStamina != 0 || state.NightlyStamina != 0 {
		t.Errorf("baseline and snapshot should start a new era, got %+v", state)
	}

	// Remove, then reapply with zero
	if f.registry.Calls()-callsBefore != 2 {
		t.Errorf("expected remove and apply calls, got %d", f.registry.Calls()-callsBefore)
	}
	if f.registry.TotalMagnitude() != 0 {
		t.Errorf("buff magnitude = %d, want 0", f.registry.TotalMagnitude())
	}

	// The host reports the baseline without the removed buff from here on
	after := morning()
	after.MaxStamina = 95
	f.session.Tick(false, after)
	state, _ = f.session.State()
	if state.OriginalMaxStamina != 95 {
		t.Errorf("OriginalMaxStamina = %d, want 95 recaptured after reset", state.OriginalMaxStamina)
	}
}

func TestLegacySnapshotWithoutBaseline(t *testing.T) {
	f := newFixture(t)
	f.seed(t, &progression.State{ExpToNextLevel: 12, NightlyStamina: 108})
	ctx := context.Background()

	unknown := morning()
	unknown.MaxStamina = 0
	if err := f.session.Load(ctx, slot, unknown); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	state, _ := f.session.State()
	if state.NightlyStamina != 108 {
		t.Fatalf("NightlyStamina = %d, want snapshot kept until the baseline is seen", state.NightlyStamina)
	}

	f.session.Tick(false, morning())
	if _, err := f.session.PreSave(ctx, morning()); err != nil {
		t.Fatalf("PreSave returned error: %v", err)
	}

	if f.registry.TotalMagnitude() != 8 {
		t.Errorf("bonus = %d, want legacy bonus 8", f.registry.TotalMagnitude())
	}

	saved, err := f.store.Load(ctx, slot)
	if err != nil {
		t.Fatalf("failed to load saved state: %v", err)
	}
	if saved.OriginalMaxStamina != 100 || saved.BaseStaminaBonus != 8 || saved.NightlyStamina != 108 {
		t.Errorf("unexpected saved state %+v", saved)
	}
	if !saved.Consistent() {
		t.Error("saved bonus representations should agree")
	}
}

func TestLegacySnapshotKeepsBonusAndLevels(t *testing.T) {
	f := newFixture(t)
	// Older saves stored only the absolute stamina
	f.seed(t, &progression.State{
		CurrentExp:         20,
		ExpToNextLevel:     12,
		OriginalMaxStamina: 100,
		NightlyStamina:     108,
	})
	ctx := context.Background()

	if err := f.session.Load(ctx, slot, morning()); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if f.registry.TotalMagnitude() != 8 {
		t.Errorf("legacy bonus = %d, want 8", f.registry.TotalMagnitude())
	}

	if _, err := f.session.PreSave(ctx, morning()); err != nil {
		t.Fatalf("PreSave returned error: %v", err)
	}

	// The level gained on top of the legacy bonus is not lost
	if f.registry.TotalMagnitude() != 11 {
		t.Errorf("bonus after level-up = %d, want 11", f.registry.TotalMagnitude())
	}

	saved, _ := f.store.Load(ctx, slot)
	if saved.NightlyStamina != 111 || !saved.Consistent() {
		t.Errorf("unexpected saved state %+v", saved)
	}
}

func TestReloadReappliesSameBonus(t *testing.T) {
	f := newFixture(t)
	f.seed(t, &progression.State{CurrentExp: 30, ExpToNextLevel: 12, OriginalMaxStamina: 100})
	ctx := context.Background()

	f.session.Load(ctx, slot, morning())
	f.session.PreSave(ctx, morning())
	before := f.registry.TotalMagnitude()
	f.session.End()

	if f.session.Phase() != PhaseNoSession {
		t.Errorf("Phase after End = %s, want no_session", f.session.Phase())
	}

	f.registry.EndDay()
	if err := f.session.Load(ctx, slot, morning()); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if f.registry.TotalMagnitude() != before {
		t.Errorf("bonus after reload = %d, want %d", f.registry.TotalMagnitude(), before)
	}
	if len(f.registry.Active()) != 1 {
		t.Errorf("expected one active effect, got %d", len(f.registry.Active()))
	}
}

func TestDailyFlagsAcrossSave(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.session.Load(ctx, slot, morning())

	tired := morning()
	tired.Stamina = 0

	gained, _ := f.session.Tick(false, tired)
	if gained != 30 {
		t.Errorf("exhaustion and collapse gained %d, want 30", gained)
	}
	gained, _ = f.session.Tick(false, tired)
	if gained != 0 {
		t.Errorf("repeated exhaustion gained %d, want 0", gained)
	}

	// A new day may collapse again once the day has been saved
	f.session.PreSave(ctx, morning())
	gained, _ = f.session.Tick(false, tired)
	if gained != 30 {
		t.Errorf("exhaustion after save gained %d, want 30", gained)
	}
}

func TestSleepingExperience(t *testing.T) {
	f := newFixture(t)
	f.cfg.ExpForSleeping = 12
	ctx := context.Background()

	f.session.Load(ctx, slot, morning())
	levelUps, err := f.session.PreSave(ctx, morning())
	if err != nil {
		t.Fatalf("PreSave returned error: %v", err)
	}
	if len(levelUps) != 1 {
		t.Errorf("expected sleeping exp to pay for one level, got %d", len(levelUps))
	}
}

type failingStore struct {
	store.Store
	loadErr error
	saveErr error
}

func (s failingStore) Load(ctx context.Context, slotID string) (*progression.State, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return nil, store.ErrNotFound
}

func (s failingStore) Save(ctx context.Context, slotID string, state *progression.State) error {
	return s.saveErr
}

type failingSink struct{}

func (failingSink) SetEffect(buff.Effect) error { return errors.New("host busy") }

func TestLoadStoreError(t *testing.T) {
	diskErr := errors.New("disk on fire")
	s := New(testConfig(), failingStore{loadErr: diskErr}, buff.NewRegistry())

	err := s.Load(context.Background(), slot, morning())
	if !errors.Is(err, diskErr) {
		t.Errorf("expected wrapped store error, got %v", err)
	}
	if s.Phase() != PhaseNoSession {
		t.Error("failed load should not start a session")
	}
}

func TestPreSaveStoreError(t *testing.T) {
	diskErr := errors.New("disk full")
	s := New(testConfig(), failingStore{saveErr: diskErr}, buff.NewRegistry())
	ctx := context.Background()

	if err := s.Load(ctx, slot, morning()); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if _, err := s.PreSave(ctx, morning()); !errors.Is(err, diskErr) {
		t.Errorf("expected wrapped save error, got %v", err)
	}
	if s.Phase() != PhaseActive {
		t.Error("save failure should leave the session active")
	}
}

func TestPreSaveFailureKeepsState(t *testing.T) {
	cfg := testConfig()
	cfg.ExpForSleeping = 7
	s := New(cfg, failingStore{saveErr: errors.New("disk full")}, buff.NewRegistry())
	ctx := context.Background()

	if err := s.Load(ctx, slot, morning()); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	before, _ := s.State()

	for i := 0; i < 2; i++ {
		levelUps, err := s.PreSave(ctx, morning())
		if err == nil {
			t.Fatal("expected save error")
		}
		if levelUps != nil {
			t.Errorf("failed save returned level-ups %+v", levelUps)
		}
	}

	after, _ := s.State()
	if after != before {
		t.Errorf("state after failed saves = %+v, want %+v", after, before)
	}
}

func TestLoadSinkError(t *testing.T) {
	s := New(testConfig(), failingStore{}, failingSink{})

	if err := s.Load(context.Background(), slot, morning()); err == nil {
		t.Error("expected sink error from Load")
	}
}
