package bus

import (
	"context"
	"sync"

	"github.com/yungbote/contentflow-backend/internal/realtime"
)

type Bus interface {
	Publish(ctx context.Context, ev realtime.Event) error
	StartForwarder(ctx context.Context, onEvent func(ev realtime.Event)) error
	Close() error
}

// memoryBus delivers in-process. It backs local runs without redis and tests.
type memoryBus struct {
	mu       sync.RWMutex
	handlers []func(realtime.Event)
}

func NewMemoryBus() Bus {
	return &memoryBus{}
}

func (b *memoryBus) Publish(_ context.Context, ev realtime.Event) error {
	b.mu.RLock()
	hs := append([]func(realtime.Event){}, b.handlers...)
	b.mu.RUnlock()
	for _, h := range hs {
		h(ev)
	}
	return nil
}

func (b *memoryBus) StartForwarder(_ context.Context, onEvent func(ev realtime.Event)) error {
	if onEvent == nil {
		return errNilCallback
	}
	b.mu.Lock()
	b.handlers = append(b.handlers, onEvent)
	b.mu.Unlock()
	return nil
}

func (b *memoryBus) Close() error { return nil }
