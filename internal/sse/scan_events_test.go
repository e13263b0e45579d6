package sse

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ms-checkin/internal/models"
)

func TestSubscribeAndPublish(t *testing.T) {
	emitter := NewScanEventEmitter()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := emitter.Subscribe(ctx, 30)
	assert.Equal(t, 1, emitter.SubscriberCount(30))

	published := models.ScanEvent{
		TicketID:   40,
		AttendeeID: 20,
		EventID:    30,
		StatusCode: models.StatusEntry,
		ActionCode: models.ActionCheckedIn,
		OccurredAt: time.Now(),
	}
	emitter.Publish(published)

	select {
	case got := <-events:
		assert.Equal(t, published.TicketID, got.TicketID)
		assert.Equal(t, models.StatusEntry, got.StatusCode)
	case <-time.After(time.Second):
		t.Fatal("expected a scan event on the feed")
	}
}

func TestPublishIsScopedToEvent(t *testing.T) {
	emitter := NewScanEventEmitter()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	feedA := emitter.Subscribe(ctx, 30)
	feedB := emitter.Subscribe(ctx, 31)

	emitter.Publish(models.ScanEvent{TicketID: 40, EventID: 30, StatusCode: models.StatusEntry})

	select {
	case <-feedA:
	case <-time.After(time.Second):
		t.Fatal("subscriber of event 30 should receive the scan")
	}

	select {
	case <-feedB:
		t.Fatal("subscriber of event 31 must not receive event 30's scan")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestUnsubscribeOnContextCancel(t *testing.T) {
	emitter := NewScanEventEmitter()
	ctx, cancel := context.WithCancel(context.Background())

	events := emitter.Subscribe(ctx, 30)
	require.Equal(t, 1, emitter.SubscriberCount(30))

	cancel()

	// The channel closes once the removal goroutine runs
	assert.Eventually(t, func() bool {
		return emitter.SubscriberCount(30) == 0
	}, time.Second, 10*time.Millisecond)

	_, open := <-events
	assert.False(t, open, "the feed channel should be closed after unsubscribe")
}

func TestPublishSkipsSlowClients(t *testing.T) {
	emitter := NewScanEventEmitter()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	emitter.Subscribe(ctx, 30)

	// Fill the buffer past capacity without reading; Publish must not block
	done := make(chan struct{})
	go func() {
		for i := 0; i < 50; i++ {
			emitter.Publish(models.ScanEvent{TicketID: int64(i), EventID: 30})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a slow subscriber")
	}
}
