package events

import (
	"context"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_SelectsImplementation(t *testing.T) {
	t.Parallel()

	assert.IsType(t, Nop{}, New(nil, "product_events"))

	p := New([]string{"kafka-1:9092", "kafka-2:9092"}, "product_events")
	kp, ok := p.(*KafkaPublisher)
	require.True(t, ok)
	assert.Equal(t, "product_events", kp.writer.Topic)
	assert.Equal(t, "kafka-1:9092,kafka-2:9092", kp.writer.Addr.String())
	assert.IsType(t, &kafka.Hash{}, kp.writer.Balancer)
	require.NoError(t, kp.Close())
}

func TestNop(t *testing.T) {
	t.Parallel()

	var p Publisher = Nop{}
	require.NoError(t, p.Publish(context.Background(), "k", map[string]string{"type": "x"}))
	require.NoError(t, p.Close())
}

func TestKafkaPublisher_RejectsUnmarshalableEvent(t *testing.T) {
	t.Parallel()

	p := NewKafkaPublisher([]string{"127.0.0.1:1"}, "product_events")
	t.Cleanup(func() { _ = p.Close() })

	err := p.Publish(context.Background(), "k", make(chan int))
	require.ErrorContains(t, err, "marshal event")
}
