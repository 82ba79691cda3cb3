package usecase

import (
	"context"
	"sync"

	"firebase-web/internal/shared/logger"
	"firebase-web/internal/web/domain/model"
)

// RecordPublisher receives every record batch written for a subscription.
type RecordPublisher interface {
	Publish(ctx context.Context, batch model.RecordBatch)
}

// RecordBroadcaster fans record batches out to live stream listeners of a path.
type RecordBroadcaster interface {
	RecordPublisher
	// Subscribe registers ch to receive the batches of path. subscriberID is unique per connection.
	Subscribe(subscriberID, path string, ch chan<- model.RecordBatch)
	// Unsubscribe stops the delivery to subscriberID. The caller owns and closes the channel.
	Unsubscribe(subscriberID, path string)
	// Listeners returns the number of listeners of path.
	Listeners(path string) int
}

type recordBroadcaster struct {
	mu        sync.RWMutex
	listeners map[string]map[string]chan<- model.RecordBatch
	log       logger.Logger
}

// NewRecordBroadcaster creates an empty broadcaster.
func NewRecordBroadcaster(log logger.Logger) RecordBroadcaster {
	return &recordBroadcaster{
		listeners: make(map[string]map[string]chan<- model.RecordBatch),
		log:       log.WithComponent("record-broadcaster"),
	}
}

func (b *recordBroadcaster) Subscribe(subscriberID, path string, ch chan<- model.RecordBatch) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.listeners[path]; !ok {
		b.listeners[path] = make(map[string]chan<- model.RecordBatch)
	}
	if _, ok := b.listeners[path][subscriberID]; ok {
		b.log.Warnf("Listener %s already registered for %s, replacing it", subscriberID, path)
	}
	b.listeners[path][subscriberID] = ch
}

func (b *recordBroadcaster) Unsubscribe(subscriberID, path string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subscribers, ok := b.listeners[path]
	if !ok {
		return
	}
	delete(subscribers, subscriberID)
	if len(subscribers) == 0 {
		delete(b.listeners, path)
	}
}

func (b *recordBroadcaster) Listeners(path string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners[path])
}

// Publish never blocks: a listener whose channel is full misses the batch.
func (b *recordBroadcaster) Publish(ctx context.Context, batch model.RecordBatch) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for subscriberID, ch := range b.listeners[batch.Path] {
		select {
		case ch <- batch:
		default:
			b.log.WithContext(ctx).Warnf("Dropped record batch for listener %s of %s", subscriberID, batch.Path)
		}
	}
}
