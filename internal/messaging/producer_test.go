package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/joao-fontenele/storefront/internal/domain"
)

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error { return nil }

func TestProducer_Publish(t *testing.T) {
	otel.SetTracerProvider(sdktrace.NewTracerProvider())
	otel.SetTextMapPropagator(propagation.TraceContext{})

	t.Run("writes keyed event with trace headers", func(t *testing.T) {
		w := &fakeWriter{}
		p := &Producer{writer: w, topic: "storefront.events"}

		event := domain.NewStorefrontEvent(domain.EventOrderStatusUpdated, "42")
		event.Status = domain.OrderStatusPaid
		require.NoError(t, p.Publish(context.Background(), event))

		require.Len(t, w.msgs, 1)
		msg := w.msgs[0]
		assert.Equal(t, "42", string(msg.Key))

		carrier := headerCarrier{msg: &msg}
		assert.Equal(t, string(domain.EventOrderStatusUpdated), carrier.Get("event-type"))
		assert.NotEmpty(t, carrier.Get("traceparent"))

		var decoded domain.StorefrontEvent
		require.NoError(t, json.Unmarshal(msg.Value, &decoded))
		assert.Equal(t, event.ID, decoded.ID)
		assert.Equal(t, domain.OrderStatusPaid, decoded.Status)
	})

	t.Run("wraps writer errors", func(t *testing.T) {
		boom := errors.New("broker down")
		p := &Producer{writer: &fakeWriter{err: boom}, topic: "storefront.events"}

		err := p.Publish(context.Background(), domain.NewStorefrontEvent(domain.EventOrderDeleted, "1"))
		assert.ErrorIs(t, err, boom)
	})
}

func TestHeaderCarrier_SetOverwrites(t *testing.T) {
	msg := kafka.Message{}
	c := headerCarrier{msg: &msg}

	c.Set("a", "1")
	c.Set("a", "2")
	c.Set("b", "3")

	assert.Equal(t, "2", c.Get("a"))
	assert.Equal(t, []string{"a", "b"}, c.Keys())
	assert.Equal(t, "", c.Get("missing"))
}
