package testutil

import (
	"context"
	"sync"

	"github.com/questx-lab/xpbot/pkg/pubsub"
)

type PublishedPack struct {
	Topic string
	Pack  *pubsub.Pack
}

// MockPublisher records every published pack unless PublishFunc is set.
type MockPublisher struct {
	PublishFunc func(context.Context, string, *pubsub.Pack) error

	mutex sync.Mutex
	packs []PublishedPack
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, pack *pubsub.Pack) error {
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, topic, pack)
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.packs = append(m.packs, PublishedPack{Topic: topic, Pack: pack})
	return nil
}

func (m *MockPublisher) Packs() []PublishedPack {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	result := make([]PublishedPack, len(m.packs))
	copy(result, m.packs)
	return result
}
