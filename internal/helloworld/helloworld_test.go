package helloworld

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luluche1/rticonnextdds-getting-started/internal/application"
	"github.com/luluche1/rticonnextdds-getting-started/internal/config"
	"github.com/luluche1/rticonnextdds-getting-started/internal/core/network"
)

type program struct {
	status int
	out    bytes.Buffer
	err    bytes.Buffer
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Transport.Kind = config.KindMemory
	cfg.Loop.SendPeriod = 5 * time.Millisecond
	cfg.Loop.WaitTimeout = 50 * time.Millisecond
	return cfg
}

func sharedBus(t *testing.T) func(context.Context, uint32) (network.Transport, error) {
	t.Helper()
	bus := network.NewMemoryPubSub()
	t.Cleanup(func() { _ = bus.Close() })
	return func(context.Context, uint32) (network.Transport, error) {
		return bus.Shared(), nil
	}
}

func run(p *program, role application.Role, fn application.RunFunc, open func(context.Context, uint32) (network.Transport, error), shutdown *application.Shutdown, args ...string) {
	p.status = application.Main(application.MainConfig{
		Name:     "hello_world",
		Parser:   application.ParserOptions{Role: role},
		Run:      fn,
		Args:     args,
		Stdout:   &p.out,
		Stderr:   &p.err,
		Config:   testConfig(),
		Opener:   open,
		Shutdown: shutdown,
	})
}

func TestPublisherWritesSampleCount(t *testing.T) {
	var pub program
	run(&pub, application.RolePublisher, RunPublisher, sharedBus(t), application.NewShutdown(), "-s", "2")

	assert.Equal(t, 0, pub.status)
	assert.Equal(t, "Writing HelloMessage, count 0\nWriting HelloMessage, count 1\nshutting down\n", pub.out.String())
	assert.Empty(t, pub.err.String())
}

func TestPublisherAndSubscriberExchange(t *testing.T) {
	open := sharedBus(t)

	var sub program
	subDone := make(chan struct{})
	go func() {
		defer close(subDone)
		run(&sub, application.RoleSubscriber, RunSubscriber, open, application.NewShutdown(), "-s", "3", "-d", "2")
	}()

	var pub program
	pubShutdown := application.NewShutdown()
	pubDone := make(chan struct{})
	go func() {
		defer close(pubDone)
		run(&pub, application.RolePublisher, RunPublisher, open, pubShutdown, "-d", "2")
	}()

	select {
	case <-subDone:
	case <-time.After(10 * time.Second):
		pubShutdown.Stop()
		t.Fatal("subscriber did not receive 3 samples")
	}
	pubShutdown.Stop()
	<-pubDone

	require.Equal(t, 0, sub.status, sub.err.String())
	assert.Equal(t, 3, strings.Count(sub.out.String(), `   msg: "Hello world! `))
	assert.True(t, strings.HasSuffix(sub.out.String(), "shutting down\n"))

	require.Equal(t, 0, pub.status, pub.err.String())
	assert.Contains(t, pub.out.String(), "Writing HelloMessage, count 0\n")
	assert.Contains(t, pub.out.String(), "preparing to shut down...\nshutting down\n")
}

func TestSubscriberStopsOnShutdown(t *testing.T) {
	shutdown := application.NewShutdown()
	go func() {
		time.Sleep(150 * time.Millisecond)
		shutdown.Stop()
	}()

	var sub program
	run(&sub, application.RoleSubscriber, RunSubscriber, sharedBus(t), shutdown)

	assert.Equal(t, 0, sub.status)
	assert.Contains(t, sub.out.String(), "Wait timed out after 0.05 seconds.\n")
	assert.True(t, strings.HasSuffix(sub.out.String(), "preparing to shut down...\nshutting down\n"))
}

func TestPrintData(t *testing.T) {
	var out bytes.Buffer
	PrintData(&out, HelloMessage{Msg: "Hello world! 3"})
	assert.Equal(t, "   msg: \"Hello world! 3\"\n", out.String())
}
