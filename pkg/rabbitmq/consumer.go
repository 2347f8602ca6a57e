package rabbitmq

import (
	"context"
	"fmt"
	"strings"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"
)

// MessageHandler processes one message received on topic.
type MessageHandler func(topic string, message mqtt.Message) error

// IConsumer subscribes to a topic and dispatches messages to a handler.
type IConsumer interface {
	ConsumeMessage(ctx context.Context) error
	SetHandler(handler MessageHandler)
}

// Consumer holds the client and topic for one subscription.
type Consumer struct {
	client  mqtt.Client
	handler MessageHandler
	topic   string
}

// NewConsumer creates a Consumer using the shared MQTT client.
func NewConsumer(client mqtt.Client, topic string, handler MessageHandler) *Consumer {
	return &Consumer{
		client:  client,
		topic:   topic,
		handler: handler,
	}
}

func (c *Consumer) SetHandler(handler MessageHandler) {
	c.handler = handler
}

// commands must not be lost, everything else is best effort
func qosFor(topic string) byte {
	t := strings.TrimSpace(topic)
	if strings.HasPrefix(t, "pump/command") ||
		strings.HasPrefix(t, "event/pumpState") {
		return 1
	}
	return 0
}

// ConsumeMessage subscribes and blocks until ctx is cancelled, then
// unsubscribes. It returns early with an error if the subscription fails.
func (c *Consumer) ConsumeMessage(ctx context.Context) error {
	token := c.client.Subscribe(c.topic, qosFor(c.topic), func(_ mqtt.Client, message mqtt.Message) {
		if c.handler == nil {
			log.Warn().Str("topic", c.topic).Msg("no handler set")
			return
		}
		if err := c.handler(c.topic, message); err != nil {
			log.Error().Err(err).Str("topic", message.Topic()).Msg("error handling message")
		}
	})
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("subscribe to %s: %w", c.topic, token.Error())
	}

	log.Info().Str("topic", c.topic).Msg("subscribed")

	<-ctx.Done()

	if c.client.IsConnectionOpen() {
		c.client.Unsubscribe(c.topic).Wait()
	}
	return nil
}
