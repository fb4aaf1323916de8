package network

import (
	"sync"
)

// MemoryPubSub is a process-local transport used for tests and single-process demos.
type MemoryPubSub struct {
	mu     sync.RWMutex
	nextID int
	closed bool
	subs   map[string]map[int]chan Message
}

func NewMemoryPubSub() *MemoryPubSub {
	return &MemoryPubSub{subs: make(map[string]map[int]chan Message)}
}

func (m *MemoryPubSub) Publish(topic string, payload []byte) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return ErrClosed
	}
	for _, ch := range m.subs[topic] {
		msg := Message{Topic: topic, Payload: append([]byte(nil), payload...)}
		select {
		case ch <- msg:
		default:
			// Non-blocking send to avoid one slow subscriber stalling all publishers.
		}
	}
	return nil
}

func (m *MemoryPubSub) Subscribe(topic string) (<-chan Message, func(), error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, nil, ErrClosed
	}
	if _, ok := m.subs[topic]; !ok {
		m.subs[topic] = make(map[int]chan Message)
	}
	id := m.nextID
	m.nextID++
	ch := make(chan Message, 64)
	m.subs[topic][id] = ch

	cancel := func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if subsByTopic, ok := m.subs[topic]; ok {
			if sub, exists := subsByTopic[id]; exists {
				delete(subsByTopic, id)
				close(sub)
			}
			if len(subsByTopic) == 0 {
				delete(m.subs, topic)
			}
		}
	}
	return ch, cancel, nil
}

// Subscribers reports how many live subscriptions exist for topic.
func (m *MemoryPubSub) Subscribers(topic string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.subs[topic])
}

// Close closes every subscription channel. Further use returns ErrClosed.
func (m *MemoryPubSub) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	for topic, subsByTopic := range m.subs {
		for id, ch := range subsByTopic {
			delete(subsByTopic, id)
			close(ch)
		}
		delete(m.subs, topic)
	}
	return nil
}

// Shared wraps a MemoryPubSub so that several owners can Close it without
// tearing down the bus for the others.
func (m *MemoryPubSub) Shared() Transport {
	return sharedMemory{m}
}

type sharedMemory struct {
	*MemoryPubSub
}

func (sharedMemory) Close() error { return nil }
