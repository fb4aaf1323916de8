package application

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/luluche1/rticonnextdds-getting-started/internal/config"
	"github.com/luluche1/rticonnextdds-getting-started/internal/core/network"
	"github.com/luluche1/rticonnextdds-getting-started/internal/dds"
)

type testEnv struct {
	*Env
	out *bytes.Buffer
	err *bytes.Buffer
}

func fastConfig() *config.Config {
	cfg := config.Default()
	cfg.Transport.Kind = config.KindMemory
	cfg.Loop.SendPeriod = time.Millisecond
	cfg.Loop.WaitTimeout = 20 * time.Millisecond
	return cfg
}

func memoryOpener(t *testing.T) dds.Opener {
	t.Helper()
	bus := network.NewMemoryPubSub()
	t.Cleanup(func() { _ = bus.Close() })
	return func(context.Context, uint32) (network.Transport, error) {
		return bus.Shared(), nil
	}
}

func newTestEnv(t *testing.T, args Arguments) *testEnv {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)
	te := &testEnv{out: &bytes.Buffer{}, err: &bytes.Buffer{}}
	te.Env = &Env{
		Args:     args,
		Factory:  dds.NewParticipantFactory(memoryOpener(t), dds.FactoryOptions{Logger: logger}),
		Shutdown: NewShutdown(),
		Config:   fastConfig(),
		Logger:   logger,
		Out:      te.out,
		Err:      te.err,
	}
	return te
}
