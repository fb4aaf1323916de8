package application

import (
	"context"
	"io"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"
)

// Shutdown is the run loops' shared "keep running" flag. It starts running
// and can be stopped exactly once; it never runs again afterwards.
type Shutdown struct {
	stopped  atomic.Bool
	reported atomic.Bool
	once     sync.Once
	done     chan struct{}
}

func NewShutdown() *Shutdown {
	return &Shutdown{done: make(chan struct{})}
}

func (s *Shutdown) Running() bool { return !s.stopped.Load() }

// Stop marks the flag stopped. It reports whether this call was the one that
// stopped it.
func (s *Shutdown) Stop() bool {
	first := false
	s.once.Do(func() {
		s.stopped.Store(true)
		close(s.done)
		first = true
	})
	return first
}

// Done is closed once Stop has been called.
func (s *Shutdown) Done() <-chan struct{} { return s.done }

// Sleep waits for d or until stopped, and reports whether still running.
func (s *Shutdown) Sleep(d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-s.done:
	}
	return s.Running()
}

// Context returns a child of parent that is cancelled when s stops.
func (s *Shutdown) Context(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	go func() {
		select {
		case <-s.done:
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}

// Report writes the shutdown notice once, and only after a stop. Run loops
// call it where they observe the flag.
func (s *Shutdown) Report(w io.Writer) {
	if s.Running() || !s.reported.CompareAndSwap(false, true) {
		return
	}
	_, _ = io.WriteString(w, "preparing to shut down...\n")
}

// SetupSignalHandlers stops s on SIGINT or SIGTERM. The returned function
// deregisters the handlers.
func SetupSignalHandlers(s *Shutdown) (release func()) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	quit := make(chan struct{})
	go func() {
		select {
		case <-sigCh:
			s.Stop()
		case <-quit:
		}
	}()
	var once sync.Once
	return func() {
		once.Do(func() {
			signal.Stop(sigCh)
			close(quit)
		})
	}
}
