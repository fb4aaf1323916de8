package application

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luluche1/rticonnextdds-getting-started/internal/config"
)

func TestTransportOpenerMemorySharesBus(t *testing.T) {
	cfg := config.Default()
	cfg.Transport.Kind = config.KindMemory
	open, err := TransportOpener(cfg, slog.New(slog.DiscardHandler))
	require.NoError(t, err)

	a, err := open(context.Background(), 0)
	require.NoError(t, err)
	b, err := open(context.Background(), 0)
	require.NoError(t, err)

	ch, cancel, err := b.Subscribe("t")
	require.NoError(t, err)
	defer cancel()
	require.NoError(t, a.Publish("t", []byte("hi")))

	select {
	case msg := <-ch:
		assert.Equal(t, []byte("hi"), msg.Payload)
	case <-time.After(5 * time.Second):
		t.Fatal("message not delivered")
	}

	// Closing one participant's view keeps the bus open for the other.
	require.NoError(t, a.Close())
	require.NoError(t, b.Publish("t", []byte("still open")))
}

func TestTransportOpenerNATSConnectFailure(t *testing.T) {
	cfg := config.Default()
	cfg.Transport.Kind = config.KindNATS
	cfg.Transport.NATS.URL = "nats://127.0.0.1:1"
	cfg.Transport.NATS.ConnectTimeout = 200 * time.Millisecond
	open, err := TransportOpener(cfg, slog.New(slog.DiscardHandler))
	require.NoError(t, err)

	tr, err := open(context.Background(), 3)
	require.Error(t, err)
	assert.Nil(t, tr)
}

func TestTransportOpenerUnknownKind(t *testing.T) {
	cfg := config.Default()
	cfg.Transport.Kind = "carrier-pigeon"
	_, err := TransportOpener(cfg, slog.New(slog.DiscardHandler))
	assert.ErrorContains(t, err, `unknown transport kind "carrier-pigeon"`)
}
