package application

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShutdownStopsOnce(t *testing.T) {
	s := NewShutdown()
	require.True(t, s.Running())

	assert.True(t, s.Stop())
	assert.False(t, s.Stop())
	assert.False(t, s.Running())

	select {
	case <-s.Done():
	default:
		t.Fatal("done channel still open after stop")
	}
	for range 3 {
		s.Stop()
		assert.False(t, s.Running())
	}
}

func TestShutdownSleepWakesEarly(t *testing.T) {
	s := NewShutdown()
	assert.True(t, s.Sleep(time.Millisecond))

	go func() {
		time.Sleep(20 * time.Millisecond)
		s.Stop()
	}()
	start := time.Now()
	assert.False(t, s.Sleep(time.Minute))
	assert.Less(t, time.Since(start), 10*time.Second)
}

func TestShutdownContext(t *testing.T) {
	s := NewShutdown()
	ctx, cancel := s.Context(context.Background())
	defer cancel()
	require.NoError(t, ctx.Err())

	s.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("context not cancelled by stop")
	}

	// Cancelling the child does not stop the token.
	s2 := NewShutdown()
	_, cancel2 := s2.Context(context.Background())
	cancel2()
	assert.True(t, s2.Running())
}

func TestShutdownReport(t *testing.T) {
	var out bytes.Buffer
	s := NewShutdown()

	s.Report(&out)
	assert.Empty(t, out.String())

	s.Stop()
	s.Report(&out)
	s.Report(&out)
	assert.Equal(t, "preparing to shut down...\n", out.String())
}

func TestSetupSignalHandlersRelease(t *testing.T) {
	s := NewShutdown()
	release := SetupSignalHandlers(s)
	release()
	release()
	assert.True(t, s.Running())
}
