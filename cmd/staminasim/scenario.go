package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lawnchairsociety/staminaxp/internal/activity"
)

// TicksPerSecond matches the host's update rate
const TicksPerSecond = 60

// Scenario describes a run of simulated days for one save slot.
type Scenario struct {
	Slot       string `yaml:"slot"`
	MaxStamina int    `yaml:"max_stamina"`
	Days       []Day  `yaml:"days"`
}

// Day is one in-game day. Steps run in order from 6:00 AM.
type Day struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`

	// Quit ends the day without saving, like closing the game.
	Quit bool `yaml:"quit"`
}

// Step holds the player's condition for a number of ticks.
type Step struct {
	Ticks   int      `yaml:"ticks"`
	Eating  bool     `yaml:"eating"`
	Tool    bool     `yaml:"tool"`
	Stamina *float64 `yaml:"stamina"`
	Health  *int     `yaml:"health"`

	// Minutes of game time that pass once the step is done
	Minutes int `yaml:"minutes"`
}

// LoadScenario reads a scenario file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse scenario YAML: %w", err)
	}

	if s.MaxStamina <= 0 {
		s.MaxStamina = 270
	}
	for i, day := range s.Days {
		for j, step := range day.Steps {
			if step.Ticks <= 0 {
				s.Days[i].Steps[j].Ticks = 1
			}
		}
	}

	return &s, nil
}

// Observation builds the tick snapshot for this step
func (st Step) Observation(timeOfDay, maxStamina int) activity.Observation {
	obs := activity.Observation{
		IsEating:    st.Eating,
		IsUsingTool: st.Tool,
		Stamina:     float64(maxStamina),
		Health:      100,
		TimeOfDay:   timeOfDay,
		MaxStamina:  maxStamina,
	}
	if st.Stamina != nil {
		obs.Stamina = *st.Stamina
	}
	if st.Health != nil {
		obs.Health = *st.Health
	}
	return obs
}
