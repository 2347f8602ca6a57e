package rabbitmq

import (
	"errors"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"
)

// IPublisher publishes messages on a fixed topic.
type IPublisher interface {
	PublishMessage(message interface{}) error
	PublishMessageQos(qos byte, retained bool, message interface{}) error
	Topic() string
}

// ErrPublishTimeout is returned when the broker does not acknowledge in time.
var ErrPublishTimeout = errors.New("publish timed out")

const defaultPublishTimeout = 5 * time.Second

// Publisher publishes on one topic through a shared MQTT client.
type Publisher struct {
	client  mqtt.Client
	topic   string
	timeout time.Duration
}

// NewPublisher creates a Publisher using the shared MQTT client.
func NewPublisher(client mqtt.Client, topic string) *Publisher {
	return &Publisher{
		client:  client,
		topic:   topic,
		timeout: defaultPublishTimeout,
	}
}

// SetTimeout bounds how long a publish waits for the broker.
func (p *Publisher) SetTimeout(d time.Duration) {
	if d > 0 {
		p.timeout = d
	}
}

func (p *Publisher) Topic() string { return p.topic }

// PublishMessage publishes with QoS 0, not retained.
func (p *Publisher) PublishMessage(message interface{}) error {
	return p.PublishMessageQos(0, false, message)
}

// PublishMessageQos publishes a string or []byte payload and waits for the
// broker acknowledgement matching qos.
func (p *Publisher) PublishMessageQos(qos byte, retained bool, message interface{}) error {
	switch message.(type) {
	case string, []byte:
	default:
		return fmt.Errorf("invalid message format %T, expected string or []byte", message)
	}

	token := p.client.Publish(p.topic, qos, retained, message)
	if !token.WaitTimeout(p.timeout) {
		return fmt.Errorf("%w: topic %s after %s", ErrPublishTimeout, p.topic, p.timeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to publish message to %s: %w", p.topic, err)
	}

	log.Debug().Str("topic", p.topic).Uint8("qos", qos).Bool("retained", retained).Msg("message published")
	return nil
}
