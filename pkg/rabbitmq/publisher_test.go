package rabbitmq

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublisher_PublishMessageQos(t *testing.T) {
	client := newFakeClient()
	p := NewPublisher(client, "event/pumpState")

	require.NoError(t, p.PublishMessageQos(1, true, []byte(`{"pump":true}`)))
	require.NoError(t, p.PublishMessage("plain"))

	require.Len(t, client.published, 2)
	assert.Equal(t, published{"event/pumpState", 1, true, []byte(`{"pump":true}`)}, client.published[0])
	assert.Equal(t, published{"event/pumpState", 0, false, "plain"}, client.published[1])
	assert.Equal(t, "event/pumpState", p.Topic())
}

func TestPublisher_RejectsOtherPayloads(t *testing.T) {
	client := newFakeClient()
	p := NewPublisher(client, "t")

	err := p.PublishMessage(map[string]int{"a": 1})
	assert.Error(t, err)
	assert.Empty(t, client.published)
}

func TestPublisher_BrokerError(t *testing.T) {
	brokerErr := errors.New("not authorized")
	client := newFakeClient()
	client.publishToken = completedToken(brokerErr)
	p := NewPublisher(client, "t")

	err := p.PublishMessage("x")
	assert.ErrorIs(t, err, brokerErr)
}

func TestPublisher_Timeout(t *testing.T) {
	client := newFakeClient()
	client.publishToken = pendingToken()
	p := NewPublisher(client, "t")
	p.SetTimeout(20 * time.Millisecond)

	err := p.PublishMessage("x")
	assert.ErrorIs(t, err, ErrPublishTimeout)
}

func TestRabbitMQConfig_BrokerURL(t *testing.T) {
	cfg := &RabbitMQConfig{Host: "rabbitmq", Port: 1883}
	assert.Equal(t, "tcp://rabbitmq:1883", cfg.BrokerURL())
}
