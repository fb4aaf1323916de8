package network

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
)

// NATSOptions configures the NATS transport.
type NATSOptions struct {
	URL            string
	Name           string
	ConnectTimeout time.Duration
	Logger         *slog.Logger
}

// NATSPubSub relays topics as NATS subjects through a broker.
type NATSPubSub struct {
	conn *nats.Conn
	log  *slog.Logger
}

func NewNATSPubSub(opts NATSOptions) (*NATSPubSub, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	url := opts.URL
	if url == "" {
		url = nats.DefaultURL
	}
	natsOpts := []nats.Option{
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("nats reconnected", "url", c.ConnectedUrl())
		}),
	}
	if opts.Name != "" {
		natsOpts = append(natsOpts, nats.Name(opts.Name))
	}
	if opts.ConnectTimeout > 0 {
		natsOpts = append(natsOpts, nats.Timeout(opts.ConnectTimeout))
	}
	conn, err := nats.Connect(url, natsOpts...)
	if err != nil {
		return nil, fmt.Errorf("connect nats %s: %w", url, err)
	}
	return &NATSPubSub{conn: conn, log: logger}, nil
}

func (n *NATSPubSub) Publish(topic string, payload []byte) error {
	if n.conn.IsClosed() {
		return ErrClosed
	}
	return n.conn.Publish(topic, payload)
}

func (n *NATSPubSub) Subscribe(topic string) (<-chan Message, func(), error) {
	if n.conn.IsClosed() {
		return nil, nil, ErrClosed
	}
	out := make(chan Message, 64)
	var (
		mu     sync.Mutex
		closed bool
	)
	sub, err := n.conn.Subscribe(topic, func(m *nats.Msg) {
		mu.Lock()
		defer mu.Unlock()
		if closed {
			return
		}
		select {
		case out <- Message{Topic: topic, Payload: append([]byte(nil), m.Data...)}:
		default:
			n.log.Debug("subscriber queue full, message dropped", "topic", topic)
		}
	})
	if err != nil {
		return nil, nil, fmt.Errorf("subscribe %q: %w", topic, err)
	}
	cancel := func() {
		mu.Lock()
		defer mu.Unlock()
		if closed {
			return
		}
		closed = true
		_ = sub.Unsubscribe()
		close(out)
	}
	return out, cancel, nil
}

func (n *NATSPubSub) Close() error {
	n.conn.Close()
	return nil
}
