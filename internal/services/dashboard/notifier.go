package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"

	"github.com/LeonardoBeccarini/sdcc_dashboard/internal/model"
	"github.com/LeonardoBeccarini/sdcc_dashboard/pkg/rabbitmq"
)

// ErrNotifierUnavailable is returned while the breaker is open.
var ErrNotifierUnavailable = errors.New("pump notifier unavailable")

// BreakerConfig configures the breaker in front of the broker.
type BreakerConfig struct {
	Name     string
	Fails    int           // consecutive failures before opening
	OpenFor  time.Duration // time spent open before a half-open trial request
	Interval time.Duration // closed-state counter reset period
}

func newBreaker(cfg BreakerConfig) *gobreaker.CircuitBreaker {
	fails := cfg.Fails
	if fails < 1 {
		fails = 1
	}
	name := cfg.Name
	if name == "" {
		name = "pump-events"
	}
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:     name,
		Interval: cfg.Interval,
		Timeout:  cfg.OpenFor,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= uint32(fails)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("breaker state changed")
		},
	})
}

// MQTTNotifier publishes pump state change events as retained QoS1 messages.
// Publishes are serialized and an event older than the last published one is
// dropped, so the retained message always carries the newest state.
type MQTTNotifier struct {
	publisher rabbitmq.IPublisher
	breaker   *gobreaker.CircuitBreaker

	mu      sync.Mutex
	lastSeq uint64 // highest Seq handed to the broker
}

// NewMQTTNotifier wraps publisher with a breaker configured by cfg.
func NewMQTTNotifier(publisher rabbitmq.IPublisher, cfg BreakerConfig) *MQTTNotifier {
	return &MQTTNotifier{publisher: publisher, breaker: newBreaker(cfg)}
}

// NotifyPumpChange publishes evt. While the breaker is open the event is
// dropped and ErrNotifierUnavailable is returned. An event superseded by a
// newer one already published is skipped without error.
//
// ctx is only checked before publishing; the wait for the broker ack is
// bounded by the publisher timeout.
func (n *MQTTNotifier) NotifyPumpChange(ctx context.Context, evt model.PumpStateChangeEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal pump event: %w", err)
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if evt.Seq <= n.lastSeq {
		log.Debug().Uint64("seq", evt.Seq).Uint64("last_seq", n.lastSeq).Msg("stale pump event skipped")
		return nil
	}

	_, err = n.breaker.Execute(func() (interface{}, error) {
		return nil, n.publisher.PublishMessageQos(1, true, payload)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %v", ErrNotifierUnavailable, err)
	}
	if err != nil {
		return err
	}
	n.lastSeq = evt.Seq
	return nil
}

// BreakerState reports the breaker state ("closed", "half-open", "open").
func (n *MQTTNotifier) BreakerState() string {
	return n.breaker.State().String()
}
