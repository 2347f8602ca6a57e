package dashboard

import (
	"sync"

	"github.com/LeonardoBeccarini/sdcc_dashboard/internal/model"
	"github.com/LeonardoBeccarini/sdcc_dashboard/internal/model/entities"
)

// Store owns the single SensorState of the process.
// All access goes through the mutex; toggles are never lost.
type Store struct {
	mu    sync.Mutex
	state model.SensorState
	seq   uint64 // number of toggles applied so far
}

// NewStore creates the store with the initial readings.
func NewStore() *Store {
	return &Store{state: entities.InitialSensorState()}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() model.SensorState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state // Chart is an array, copied by value
}

// Pump returns the current pump flag.
func (s *Store) Pump() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Pump
}

// TogglePump flips the pump flag and returns the new value together with the
// sequence number of this toggle.
func (s *Store) TogglePump() (bool, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Pump = !s.state.Pump
	s.seq++
	return s.state.Pump, s.seq
}
