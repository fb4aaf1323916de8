package network

import "errors"

// ErrClosed is returned by transports used after Close.
var ErrClosed = errors.New("transport closed")

// Message is the transport envelope handed to subscribers.
type Message struct {
	Topic   string
	Payload []byte
}

// PubSub is a minimal interface for broadcast-style communication.
type PubSub interface {
	Publish(topic string, payload []byte) error
	Subscribe(topic string) (<-chan Message, func(), error)
}

// Transport is a PubSub that owns resources released by Close.
type Transport interface {
	PubSub
	Close() error
}
