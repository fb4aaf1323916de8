//go:build unix

package application

import (
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSignalStopsShutdown(t *testing.T) {
	for _, sig := range []syscall.Signal{syscall.SIGTERM, syscall.SIGINT} {
		s := NewShutdown()
		release := SetupSignalHandlers(s)

		require.NoError(t, syscall.Kill(syscall.Getpid(), sig))
		select {
		case <-s.Done():
		case <-time.After(5 * time.Second):
			release()
			t.Fatalf("%v did not stop the token", sig)
		}
		require.False(t, s.Running())
		release()
	}
}
