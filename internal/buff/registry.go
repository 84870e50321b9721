package buff

import (
	"sort"
	"sync"
)

// Registry is an in-memory Sink holding the active effects by id.
// It stands in for the host in the simulator and tests.
type Registry struct {
	effects map[string]Effect
	calls   int
	mu      sync.RWMutex
}

// NewRegistry creates an empty effect registry
func NewRegistry() *Registry {
	return &Registry{
		effects: make(map[string]Effect),
	}
}

// SetEffect replaces the effect with the same id. A zero duration removes it.
func (r *Registry) SetEffect(effect Effect) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls++
	if effect.Duration == DurationRemove {
		delete(r.effects, effect.ID)
		return nil
	}
	r.effects[effect.ID] = effect
	return nil
}

// Get returns the active effect with the given id
func (r *Registry) Get(id string) (Effect, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	effect, ok := r.effects[id]
	return effect, ok
}

// Active returns all active effects sorted by id
func (r *Registry) Active() []Effect {
	r.mu.RLock()
	defer r.mu.RUnlock()

	effects := make([]Effect, 0, len(r.effects))
	for _, effect := range r.effects {
		effects = append(effects, effect)
	}
	sort.Slice(effects, func(i, j int) bool {
		return effects[i].ID < effects[j].ID
	})
	return effects
}

// TotalMagnitude sums the magnitude of every active effect
func (r *Registry) TotalMagnitude() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := 0
	for _, effect := range r.effects {
		total += effect.Magnitude
	}
	return total
}

// Calls returns how many SetEffect calls have been made
func (r *Registry) Calls() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.calls
}

// EndDay drops every endless effect, as the host does at day rollover
func (r *Registry) EndDay() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, effect := range r.effects {
		if effect.Duration == DurationEndless {
			delete(r.effects, id)
		}
	}
}
