package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/praxis/backend/internal/domain/shared"
)

type testEvent struct {
	shared.BaseDomainEvent
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "TestAggregate", uuid.New(), uuid.New()),
	}
}

type recordingHandler struct {
	mu         sync.Mutex
	eventTypes []string
	received   []shared.DomainEvent
	failWith   error
}

func (h *recordingHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.received = append(h.received, event)
	return h.failWith
}

func (h *recordingHandler) EventTypes() []string {
	return h.eventTypes
}

func (h *recordingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.received)
}

type panickingHandler struct{}

func (h *panickingHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	panic("handler exploded")
}

func (h *panickingHandler) EventTypes() []string {
	return []string{"order.sent"}
}

// newRunningBus returns a bus that has been started and accepts events
func newRunningBus(t *testing.T) *InMemoryEventBus {
	t.Helper()
	bus := NewInMemoryEventBus(zap.NewNop())
	require.NoError(t, bus.Start(context.Background()))
	return bus
}

func TestInMemoryEventBus_PublishDeliversToSubscribedHandler(t *testing.T) {
	bus := newRunningBus(t)
	handler := &recordingHandler{eventTypes: []string{"order.sent"}}
	bus.Subscribe(handler)

	err := bus.Publish(context.Background(), newTestEvent("order.sent"))

	require.NoError(t, err)
	assert.Equal(t, 1, handler.count())
}

func TestInMemoryEventBus_PublishSkipsUnrelatedEventTypes(t *testing.T) {
	bus := newRunningBus(t)
	handler := &recordingHandler{eventTypes: []string{"order.sent"}}
	bus.Subscribe(handler)

	err := bus.Publish(context.Background(), newTestEvent("receipt.confirmed"))

	require.NoError(t, err)
	assert.Equal(t, 0, handler.count())
}

func TestInMemoryEventBus_WildcardHandlerReceivesAllEvents(t *testing.T) {
	bus := newRunningBus(t)
	handler := &recordingHandler{}
	bus.Subscribe(handler)

	err := bus.Publish(context.Background(),
		newTestEvent("order.sent"),
		newTestEvent("receipt.confirmed"),
	)

	require.NoError(t, err)
	assert.Equal(t, 2, handler.count())
}

func TestInMemoryEventBus_ExplicitTypesOverrideHandlerDeclaration(t *testing.T) {
	bus := newRunningBus(t)
	handler := &recordingHandler{eventTypes: []string{"order.sent"}}
	bus.Subscribe(handler, "receipt.confirmed")

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("order.sent")))
	require.NoError(t, bus.Publish(context.Background(), newTestEvent("receipt.confirmed")))

	assert.Equal(t, 1, handler.count())
}

func TestInMemoryEventBus_HandlerErrorDoesNotStopDelivery(t *testing.T) {
	bus := newRunningBus(t)
	failing := &recordingHandler{eventTypes: []string{"order.sent"}, failWith: errors.New("boom")}
	healthy := &recordingHandler{eventTypes: []string{"order.sent"}}
	bus.Subscribe(failing)
	bus.Subscribe(healthy)

	err := bus.Publish(context.Background(), newTestEvent("order.sent"))

	require.NoError(t, err)
	assert.Equal(t, 1, failing.count())
	assert.Equal(t, 1, healthy.count())
}

func TestInMemoryEventBus_HandlerPanicIsContained(t *testing.T) {
	bus := newRunningBus(t)
	healthy := &recordingHandler{eventTypes: []string{"order.sent"}}
	bus.Subscribe(&panickingHandler{})
	bus.Subscribe(healthy)

	err := bus.Publish(context.Background(), newTestEvent("order.sent"))

	require.NoError(t, err)
	assert.Equal(t, 1, healthy.count())
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := newRunningBus(t)
	handler := &recordingHandler{eventTypes: []string{"order.sent"}}
	bus.Subscribe(handler)
	bus.Unsubscribe(handler)

	err := bus.Publish(context.Background(), newTestEvent("order.sent"))

	require.NoError(t, err)
	assert.Equal(t, 0, handler.count())
}

func TestInMemoryEventBus_DropsEventsOutsideLifecycle(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &recordingHandler{eventTypes: []string{"order.sent"}}
	bus.Subscribe(handler)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("order.sent")))
	assert.Equal(t, 0, handler.count(), "events before Start are dropped")

	require.NoError(t, bus.Start(context.Background()))
	require.NoError(t, bus.Publish(context.Background(), newTestEvent("order.sent")))
	assert.Equal(t, 1, handler.count())

	require.NoError(t, bus.Stop(context.Background()))
	require.NoError(t, bus.Publish(context.Background(), newTestEvent("order.sent")))
	assert.Equal(t, 1, handler.count(), "events after Stop are dropped")
}
