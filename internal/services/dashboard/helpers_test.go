package dashboard

import (
	"context"
	"errors"
	"sync"

	"github.com/LeonardoBeccarini/sdcc_dashboard/internal/model"
)

// fakeMessage implements mqtt.Message.
type fakeMessage struct {
	topic   string
	payload []byte
}

func (m fakeMessage) Duplicate() bool   { return false }
func (m fakeMessage) Qos() byte         { return 1 }
func (m fakeMessage) Retained() bool    { return false }
func (m fakeMessage) Topic() string     { return m.topic }
func (m fakeMessage) MessageID() uint16 { return 1 }
func (m fakeMessage) Payload() []byte   { return m.payload }
func (m fakeMessage) Ack()              {}

// recordingNotifier keeps every event it is handed.
type recordingNotifier struct {
	mu     sync.Mutex
	events []model.PumpStateChangeEvent
	err    error
}

func (n *recordingNotifier) NotifyPumpChange(_ context.Context, evt model.PumpStateChangeEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, evt)
	return n.err
}

func (n *recordingNotifier) Events() []model.PumpStateChangeEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]model.PumpStateChangeEvent(nil), n.events...)
}

var errBroker = errors.New("broker down")

// fakePublisher implements rabbitmq.IPublisher.
type fakePublisher struct {
	mu       sync.Mutex
	payloads [][]byte
	qos      []byte
	retained []bool
	err      error
}

func (p *fakePublisher) PublishMessage(message interface{}) error {
	return p.PublishMessageQos(0, false, message)
}

func (p *fakePublisher) PublishMessageQos(qos byte, retained bool, message interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	switch m := message.(type) {
	case []byte:
		p.payloads = append(p.payloads, m)
	case string:
		p.payloads = append(p.payloads, []byte(m))
	}
	p.qos = append(p.qos, qos)
	p.retained = append(p.retained, retained)
	return nil
}

func (p *fakePublisher) Topic() string { return "event/pumpState" }

func (p *fakePublisher) setErr(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

func (p *fakePublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.payloads)
}
