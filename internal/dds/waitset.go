package dds

import (
	"context"
	"sync"
	"time"
)

// StatusMask is a set of communication statuses.
type StatusMask uint32

const (
	DataAvailableStatus StatusMask = 1 << 10

	AllStatuses StatusMask = ^StatusMask(0)
)

// Condition is something a WaitSet can wait on.
type Condition interface {
	TriggerValue() bool
	attach(ws *WaitSet)
	detach(ws *WaitSet)
}

// StatusCondition is triggered while one of its enabled statuses is active on
// the owning entity. All statuses are enabled initially.
type StatusCondition struct {
	status func() StatusMask

	mu       sync.Mutex
	enabled  StatusMask
	waitsets map[*WaitSet]struct{}
}

func newStatusCondition(status func() StatusMask) *StatusCondition {
	return &StatusCondition{
		status:   status,
		enabled:  AllStatuses,
		waitsets: make(map[*WaitSet]struct{}),
	}
}

func (c *StatusCondition) SetEnabledStatuses(mask StatusMask) error {
	c.mu.Lock()
	c.enabled = mask
	c.mu.Unlock()
	c.signal()
	return nil
}

func (c *StatusCondition) EnabledStatuses() StatusMask {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enabled
}

func (c *StatusCondition) TriggerValue() bool {
	return c.status()&c.EnabledStatuses() != 0
}

func (c *StatusCondition) attach(ws *WaitSet) {
	c.mu.Lock()
	c.waitsets[ws] = struct{}{}
	c.mu.Unlock()
}

func (c *StatusCondition) detach(ws *WaitSet) {
	c.mu.Lock()
	delete(c.waitsets, ws)
	c.mu.Unlock()
}

// signal wakes attached waitsets so they re-evaluate trigger values.
func (c *StatusCondition) signal() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for ws := range c.waitsets {
		ws.wake()
	}
}

// WaitSet blocks until one of its attached conditions triggers.
type WaitSet struct {
	mu         sync.Mutex
	conditions []Condition
	wakeCh     chan struct{}
}

func NewWaitSet() *WaitSet {
	return &WaitSet{wakeCh: make(chan struct{}, 1)}
}

func (ws *WaitSet) AttachCondition(c Condition) error {
	if c == nil {
		return opError("attach_condition", RetcodeBadParameter, nil)
	}
	ws.mu.Lock()
	for _, existing := range ws.conditions {
		if existing == c {
			ws.mu.Unlock()
			return nil
		}
	}
	ws.conditions = append(ws.conditions, c)
	ws.mu.Unlock()
	c.attach(ws)
	ws.wake()
	return nil
}

func (ws *WaitSet) DetachCondition(c Condition) error {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	for i, existing := range ws.conditions {
		if existing == c {
			ws.conditions = append(ws.conditions[:i], ws.conditions[i+1:]...)
			c.detach(ws)
			return nil
		}
	}
	return opError("detach_condition", RetcodePreconditionNotMet, nil)
}

// Wait returns the triggered conditions. It fails with ErrTimeout when none
// triggered within timeout, or with the context's error when ctx ends first.
func (ws *WaitSet) Wait(ctx context.Context, timeout time.Duration) ([]Condition, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		if active := ws.active(); len(active) > 0 {
			return active, nil
		}
		select {
		case <-ws.wakeCh:
		case <-timer.C:
			if active := ws.active(); len(active) > 0 {
				return active, nil
			}
			return nil, ErrTimeout
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func (ws *WaitSet) active() []Condition {
	ws.mu.Lock()
	conditions := append([]Condition(nil), ws.conditions...)
	ws.mu.Unlock()
	var out []Condition
	for _, c := range conditions {
		if c.TriggerValue() {
			out = append(out, c)
		}
	}
	return out
}

func (ws *WaitSet) wake() {
	select {
	case ws.wakeCh <- struct{}{}:
	default:
	}
}
