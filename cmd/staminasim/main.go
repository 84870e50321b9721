// staminasim plays a scenario of in-game days against a save slot and
// prints the progression after each day.
//
// Usage:
//
//	go run ./cmd/staminasim -scenario data/scenarios/first_week.yaml
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/lawnchairsociety/staminaxp/internal/activity"
	"github.com/lawnchairsociety/staminaxp/internal/buff"
	"github.com/lawnchairsociety/staminaxp/internal/config"
	"github.com/lawnchairsociety/staminaxp/internal/gametime"
	"github.com/lawnchairsociety/staminaxp/internal/leveling"
	"github.com/lawnchairsociety/staminaxp/internal/logger"
	"github.com/lawnchairsociety/staminaxp/internal/session"
	"github.com/lawnchairsociety/staminaxp/internal/store"
)

func main() {
	rt, err := config.LoadRuntime()
	if err != nil {
		log.Fatalf("Failed to read environment: %v", err)
	}

	configFile := flag.String("config", rt.ProgressionPath, "Path to progression config YAML file")
	loggingConfig := flag.String("logging", rt.LoggingPath, "Path to logging config YAML file")
	scenarioFile := flag.String("scenario", "data/scenarios/first_week.yaml", "Path to scenario YAML file")
	slotFlag := flag.String("slot", "", "Save slot (overrides the scenario's slot)")
	flag.Parse()

	logConfig, _ := logger.LoadConfig(*loggingConfig)
	logger.Initialize(logConfig)

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load progression config: %v", err)
	}

	scenario, err := LoadScenario(*scenarioFile)
	if err != nil {
		log.Fatalf("Failed to load scenario: %v", err)
	}

	slotID := scenario.Slot
	if *slotFlag != "" {
		slotID = *slotFlag
	}
	if err := store.ValidateSlot(slotID); err != nil {
		log.Fatalf("Invalid slot %q: %v", slotID, err)
	}

	st, err := store.Open(rt)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer st.Close()

	logger.Info("Simulation starting", "slot", slotID, "store", rt.Store, "days", len(scenario.Days))

	registry := buff.NewRegistry()
	sess := session.New(cfg, st, registry)
	clock := gametime.NewGameClock()
	ctx := context.Background()

	for i, day := range scenario.Days {
		if i > 0 {
			clock.StartNewDay()
			registry.EndDay()
		}

		levelUps, err := playDay(ctx, sess, registry, clock, scenario.MaxStamina, slotID, day)
		if err != nil {
			log.Fatalf("Day %d failed: %v", clock.GetDay(), err)
		}

		printDay(clock, day, registry, sess, levelUps)
		sess.End()
	}
}

// playDay runs one day: load at dawn, the scenario's ticks, then save
// unless the day ends by quitting.
func playDay(ctx context.Context, sess *session.Session, registry *buff.Registry, clock *gametime.GameClock,
	baseStamina int, slotID string, day Day) ([]leveling.LevelUpInfo, error) {

	// The host's max stamina includes whatever buff is active
	maxStamina := func() int {
		return baseStamina + registry.TotalMagnitude()
	}

	dawn := activity.Observation{Stamina: float64(maxStamina()), Health: 100, TimeOfDay: clock.GetTime(), MaxStamina: maxStamina()}
	if err := sess.Load(ctx, slotID, dawn); err != nil {
		return nil, err
	}

	tick := 0
	var last activity.Observation
	for _, step := range day.Steps {
		for n := 0; n < step.Ticks; n++ {
			tick++
			last = step.Observation(clock.GetTime(), maxStamina())
			if _, err := sess.Tick(tick%TicksPerSecond == 0, last); err != nil {
				return nil, err
			}
		}
		for m := 0; m < step.Minutes; m += gametime.MinutesPerStep {
			clock.Advance()
		}
	}

	if day.Quit {
		return nil, nil
	}

	last.TimeOfDay = clock.GetTime()
	last.MaxStamina = maxStamina()
	return sess.PreSave(ctx, last)
}

func printDay(clock *gametime.GameClock, day Day, registry *buff.Registry, sess *session.Session, levelUps []leveling.LevelUpInfo) {
	name := day.Name
	if name == "" {
		name = "-"
	}

	state, err := sess.State()
	if err != nil {
		fmt.Printf("Day %d (%s): no session\n", clock.GetDay(), name)
		return
	}

	status := "saved"
	if day.Quit {
		status = "quit without saving"
	}

	fmt.Printf("Day %d (%s), ended %s, %s\n", clock.GetDay(), name, gametime.Format(clock.GetTime()), status)
	fmt.Printf("  level %d, exp %d/%d\n", state.CurrentLevel, state.CurrentExp, state.ExpToNextLevel)
	for _, lu := range levelUps {
		fmt.Printf("  Stamina level up! Level %d, +%d max stamina\n", lu.NewLevel, lu.StaminaGain)
	}
	for _, effect := range registry.Active() {
		fmt.Printf("  effect %s (%s): %+d stamina\n", effect.ID, effect.DisplayName, effect.Magnitude)
	}
}
