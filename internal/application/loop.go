package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/luluche1/rticonnextdds-getting-started/internal/dds"
)

// WriteLoop calls write with count 0, 1, ... sleeping the send period after
// each call, until the sample count is reached or shutdown is requested. A
// write error ends the loop.
func WriteLoop(env *Env, write func(count uint32) error) error {
	limit := env.Args.SampleCount
	for count := uint32(0); env.Shutdown.Running() && (limit == 0 || count < limit); count++ {
		if err := write(count); err != nil {
			return err
		}
		if !env.Shutdown.Sleep(env.Config.Loop.SendPeriod) {
			break
		}
	}
	env.Shutdown.Report(env.Out)
	return nil
}

// ReadLoop waits for data on reader and hands every valid sample to handle
// until the sample count is reached, shutdown is requested or ctx ends.
func ReadLoop[T any](ctx context.Context, env *Env, reader *dds.DataReader[T], handle func(T)) error {
	cond := reader.StatusCondition()
	if err := cond.SetEnabledStatuses(dds.DataAvailableStatus); err != nil {
		return err
	}
	ws := dds.NewWaitSet()
	if err := ws.AttachCondition(cond); err != nil {
		return err
	}
	defer func() { _ = ws.DetachCondition(cond) }()

	timeout := env.Config.Loop.WaitTimeout
	limit := env.Args.SampleCount
	var received uint32
	for env.Shutdown.Running() && (limit == 0 || received < limit) {
		if _, err := ws.Wait(ctx, timeout); err != nil {
			if errors.Is(err, dds.ErrTimeout) {
				_, _ = fmt.Fprintf(env.Out, "Wait timed out after %g seconds.\n", timeout.Seconds())
				continue
			}
			if ctx.Err() != nil {
				break
			}
			_, _ = fmt.Fprintf(env.Err, "wait returned error: %s\n", dds.CodeOf(err))
			return err
		}

		if reader.StatusChanges()&dds.DataAvailableStatus == 0 {
			continue
		}
		samples, err := reader.Take()
		if errors.Is(err, dds.ErrNoData) {
			continue
		}
		if err != nil {
			return err
		}
		for _, s := range samples {
			if !s.Info.ValidData {
				_, _ = fmt.Fprintln(env.Out, "Received instance state notification")
				continue
			}
			handle(s.Data)
			received++
		}
	}
	env.Shutdown.Report(env.Out)
	return nil
}
