package messages

import (
	"time"

	"github.com/LeonardoBeccarini/sdcc_dashboard/internal/model/entities"
)

// PumpStateChangeEvent is published after every pump toggle.
type PumpStateChangeEvent struct {
	EventID   string             `json:"event_id"`
	Seq       uint64             `json:"seq"` // toggle counter, strictly increasing per process
	Pump      bool               `json:"pump"`
	NewState  entities.PumpState `json:"new_state"`
	Source    string             `json:"source"` // "http" | "mqtt"
	Timestamp time.Time          `json:"timestamp"`
}
