package gametime

import "fmt"

// Host time is encoded as HHMM with base-60 minutes, and hours keep
// counting past midnight: 2400 is midnight, 2600 is 2:00 AM.
const (
	DayStart    = 600
	Midnight    = 2400
	PassOutTime = 2600

	MinutesPerStep = 10
)

// GameClock tracks the host's time of day for a single simulated day.
// It is driven by one goroutine at a time, like the host loop it stands in for.
type GameClock struct {
	timeOfDay int
	day       int
}

func NewGameClock() *GameClock {
	return &GameClock{
		timeOfDay: DayStart,
		day:       1,
	}
}

// GetTime returns the current encoded time of day
func (gc *GameClock) GetTime() int {
	return gc.timeOfDay
}

// GetDay returns the current day number, starting at 1
func (gc *GameClock) GetDay() int {
	return gc.day
}

// Advance moves the clock forward one step (10 in-game minutes)
// and returns the new time. It does not move past PassOutTime.
func (gc *GameClock) Advance() int {
	if gc.timeOfDay >= PassOutTime {
		return gc.timeOfDay
	}
	gc.timeOfDay = AddMinutes(gc.timeOfDay, MinutesPerStep)
	return gc.timeOfDay
}

// StartNewDay rolls the clock to the morning of the next day
func (gc *GameClock) StartNewDay() {
	gc.day++
	gc.timeOfDay = DayStart
}

// IsPastBedtime returns true once the player would be forced to pass out
func (gc *GameClock) IsPastBedtime() bool {
	return IsPastBedtime(gc.timeOfDay)
}

// IsPastBedtime reports whether an encoded time has reached 2:00 AM.
func IsPastBedtime(timeOfDay int) bool {
	return timeOfDay >= PassOutTime
}

// AddMinutes adds minutes to an encoded time, carrying into hours.
func AddMinutes(timeOfDay, minutes int) int {
	hours := timeOfDay / 100
	mins := timeOfDay%100 + minutes
	hours += mins / 60
	mins %= 60
	return hours*100 + mins
}

// Format returns a 12-hour string such as "6:00 AM" or "2:00 AM".
func Format(timeOfDay int) string {
	hours := (timeOfDay / 100) % 24
	mins := timeOfDay % 100

	period := "AM"
	if hours >= 12 {
		period = "PM"
	}

	display := hours % 12
	if display == 0 {
		display = 12
	}

	return fmt.Sprintf("%d:%02d %s", display, mins, period)
}
