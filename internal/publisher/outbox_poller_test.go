package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/nexus-commerce/storefront/internal/orders"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSource struct {
	events       []*orders.OutboxEvent
	fetchErr     error
	markErr      error
	processedIDs []int
}

func (m *mockSource) GetUnprocessedEvents(context.Context, int) ([]*orders.OutboxEvent, error) {
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	events := m.events
	m.events = nil
	return events, nil
}

func (m *mockSource) MarkEventAsProcessed(_ context.Context, id int) error {
	if m.markErr != nil {
		return m.markErr
	}
	m.processedIDs = append(m.processedIDs, id)
	return nil
}

type mockWriter struct {
	messages []kafka.Message
	err      error
}

func (m *mockWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if m.err != nil {
		return m.err
	}
	m.messages = append(m.messages, msgs...)
	return nil
}

func (m *mockWriter) Close() error { return nil }

func newEvent(id int) *orders.OutboxEvent {
	return &orders.OutboxEvent{
		ID:          id,
		AggregateID: "order-123",
		EventType:   "OrderPlaced",
		Payload:     json.RawMessage(`{"order_id":"order-123","user_id":"user-456"}`),
		CreatedAt:   time.Now(),
	}
}

func TestProcessUnpublishedEvents_PublishesAndMarks(t *testing.T) {
	source := &mockSource{events: []*orders.OutboxEvent{newEvent(1), newEvent(2)}}
	writer := &mockWriter{}
	poller := &OutboxPoller{eventTick: time.Second, batchSize: 100, source: source, writer: writer}

	poller.processUnpublishedEvents(context.Background())

	require.Len(t, writer.messages, 2)
	assert.Equal(t, "order-123", string(writer.messages[0].Key))
	assert.JSONEq(t, `{"order_id":"order-123","user_id":"user-456"}`, string(writer.messages[0].Value))

	require.Len(t, writer.messages[0].Headers, 1)
	assert.Equal(t, "event_type", writer.messages[0].Headers[0].Key)
	assert.Equal(t, "OrderPlaced", string(writer.messages[0].Headers[0].Value))

	assert.Equal(t, []int{1, 2}, source.processedIDs)
}

func TestProcessUnpublishedEvents_FetchError(t *testing.T) {
	source := &mockSource{fetchErr: errors.New("database connection error")}
	writer := &mockWriter{}
	poller := &OutboxPoller{eventTick: time.Second, batchSize: 100, source: source, writer: writer}

	// Should not panic, just log and return.
	poller.processUnpublishedEvents(context.Background())

	assert.Empty(t, writer.messages)
}

func TestProcessUnpublishedEvents_PublishErrorLeavesEventUnmarked(t *testing.T) {
	source := &mockSource{events: []*orders.OutboxEvent{newEvent(1)}}
	writer := &mockWriter{err: errors.New("broker unreachable")}
	poller := &OutboxPoller{eventTick: time.Second, batchSize: 100, source: source, writer: writer}

	poller.processUnpublishedEvents(context.Background())

	assert.Empty(t, source.processedIDs)
}

func TestProcessUnpublishedEvents_MarkErrorDoesNotStopBatch(t *testing.T) {
	source := &mockSource{
		events:  []*orders.OutboxEvent{newEvent(1), newEvent(2)},
		markErr: errors.New("database deadlock"),
	}
	writer := &mockWriter{}
	poller := &OutboxPoller{eventTick: time.Second, batchSize: 100, source: source, writer: writer}

	poller.processUnpublishedEvents(context.Background())

	// Both events still published even though marking failed.
	assert.Len(t, writer.messages, 2)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	source := &mockSource{}
	writer := &mockWriter{}
	poller := &OutboxPoller{eventTick: 10 * time.Millisecond, batchSize: 100, source: source, writer: writer}

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		poller.Run(ctx)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("poller did not stop after context cancellation")
	}
}
