package dashboard

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/LeonardoBeccarini/sdcc_dashboard/internal/model"
	"github.com/LeonardoBeccarini/sdcc_dashboard/internal/model/entities"
)

// Toggle sources, recorded in metrics and events.
const (
	SourceHTTP = "http"
	SourceMQTT = "mqtt"
)

// PumpNotifier is told about every pump state change.
type PumpNotifier interface {
	NotifyPumpChange(ctx context.Context, evt model.PumpStateChangeEvent) error
}

// Service ties the state store to metrics and the optional notifier.
type Service struct {
	store    *Store
	metrics  *Metrics
	notifier PumpNotifier
	now      func() time.Time
}

// NewService creates a Service. metrics and notifier may be nil.
func NewService(store *Store, metrics *Metrics, notifier PumpNotifier) *Service {
	if store == nil {
		store = NewStore()
	}
	svc := &Service{store: store, metrics: metrics, notifier: notifier, now: time.Now}
	svc.metrics.setPump(store.Pump())
	return svc
}

// State returns a copy of the current sensor state.
func (s *Service) State() model.SensorState {
	return s.store.Snapshot()
}

// TogglePump flips the pump and returns its new value. Notification errors
// are logged and counted; they never undo the toggle.
func (s *Service) TogglePump(ctx context.Context, source string) bool {
	on, seq := s.store.TogglePump()

	s.metrics.toggled(source, on)
	log.Info().Bool("pump", on).Uint64("seq", seq).Str("source", source).Msg("pump toggled")

	if s.notifier != nil {
		evt := model.PumpStateChangeEvent{
			EventID:   uuid.NewString(),
			Seq:       seq,
			Pump:      on,
			NewState:  entities.PumpStateFromBool(on),
			Source:    source,
			Timestamp: s.now().UTC(),
		}
		// the toggle is already applied, so a client going away must not
		// drop its event
		if err := s.notifier.NotifyPumpChange(context.WithoutCancel(ctx), evt); err != nil {
			s.metrics.published(false)
			log.Warn().Err(err).Uint64("seq", seq).Msg("pump state event not published")
		} else {
			s.metrics.published(true)
		}
	}
	return on
}
