package sse

import (
	"context"
	"sync"

	"ms-checkin/internal/models"
)

// ScanEventEmitter fans successful check actions out to venue
// dashboards subscribed per event.
type ScanEventEmitter struct {
	clients     map[int64][]chan models.ScanEvent
	clientMutex sync.RWMutex
}

func NewScanEventEmitter() *ScanEventEmitter {
	return &ScanEventEmitter{
		clients: make(map[int64][]chan models.ScanEvent),
	}
}

// Subscribe adds a client to the event's scan feed. The subscription
// is removed when ctx is done.
func (e *ScanEventEmitter) Subscribe(ctx context.Context, eventID int64) chan models.ScanEvent {
	clientChan := make(chan models.ScanEvent, 10)

	e.clientMutex.Lock()
	e.clients[eventID] = append(e.clients[eventID], clientChan)
	e.clientMutex.Unlock()

	go func() {
		<-ctx.Done()
		e.removeClient(eventID, clientChan)
	}()

	return clientChan
}

// Publish delivers the scan to every subscriber of its event. Slow
// clients are skipped rather than blocking the scan path.
func (e *ScanEventEmitter) Publish(event models.ScanEvent) {
	e.clientMutex.RLock()
	defer e.clientMutex.RUnlock()

	for _, clientChan := range e.clients[event.EventID] {
		select {
		case clientChan <- event:
		default:
		}
	}
}

func (e *ScanEventEmitter) removeClient(eventID int64, clientChan chan models.ScanEvent) {
	e.clientMutex.Lock()
	defer e.clientMutex.Unlock()

	channels := e.clients[eventID]
	for i, ch := range channels {
		if ch == clientChan {
			e.clients[eventID] = append(channels[:i], channels[i+1:]...)
			close(ch)
			break
		}
	}
	if len(e.clients[eventID]) == 0 {
		delete(e.clients, eventID)
	}
}

// SubscriberCount is used by tests and the health endpoint.
func (e *ScanEventEmitter) SubscriberCount(eventID int64) int {
	e.clientMutex.RLock()
	defer e.clientMutex.RUnlock()
	return len(e.clients[eventID])
}
