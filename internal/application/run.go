// Package application holds the plumbing shared by every example program:
// argument parsing, the shutdown token, logging, transport selection and the
// publisher and subscriber loops.
package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/luluche1/rticonnextdds-getting-started/internal/config"
	"github.com/luluche1/rticonnextdds-getting-started/internal/dds"
)

// Env is what a run function gets to work with.
type Env struct {
	Args     Arguments
	Factory  *dds.ParticipantFactory
	Shutdown *Shutdown
	Config   *config.Config
	Logger   *slog.Logger
	Out      io.Writer
	Err      io.Writer

	// MetricsAddr is where the Prometheus endpoint listens, empty when
	// metrics are disabled.
	MetricsAddr string
}

// RunFunc is the body of one example program.
type RunFunc func(ctx context.Context, env *Env) error

// Teardown prints message, then deletes p's entities and p itself. Every
// failure is reported on Err and included in the result. A nil p only prints.
func (e *Env) Teardown(p *dds.DomainParticipant, message string) error {
	_, _ = fmt.Fprintln(e.Out, message)
	if p == nil {
		return nil
	}
	var errs []error
	if err := p.DeleteContainedEntities(); err != nil {
		errs = append(errs, e.report(err))
	}
	if err := e.Factory.DeleteParticipant(p); err != nil {
		errs = append(errs, e.report(err))
	}
	return errors.Join(errs...)
}

// Abort tears p down after a failed operation and returns err together with
// any teardown failures.
func (e *Env) Abort(p *dds.DomainParticipant, err error) error {
	message := "error"
	if op := dds.OpOf(err); op != "" {
		message = op + " error"
	}
	return errors.Join(err, e.Teardown(p, message))
}

func (e *Env) report(err error) error {
	op := dds.OpOf(err)
	if op == "" {
		op = "teardown"
	}
	_, _ = fmt.Fprintf(e.Err, "%s error %s\n", op, dds.CodeOf(err))
	e.Logger.Debug("teardown step failed", "op", op, "error", err)
	return err
}

// MainConfig describes one example program. Config, Opener and Shutdown are
// optional; when nil they come from the profile file, the profile's
// transport and process signals respectively.
type MainConfig struct {
	Name   string
	Parser ParserOptions
	Run    RunFunc
	// Args are the tokens after the program name.
	Args   []string
	Stdout io.Writer
	Stderr io.Writer

	Config   *config.Config
	Opener   dds.Opener
	Shutdown *Shutdown
}

// Main runs an example program and returns its exit status.
func Main(mc MainConfig) int {
	stdout, stderr := mc.Stdout, mc.Stderr
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	args := ParseArguments(mc.Args, mc.Parser, stdout)
	switch args.ParseResult {
	case ParseExit:
		return 0
	case ParseFailure:
		return 1
	}

	shutdown := mc.Shutdown
	if shutdown == nil {
		shutdown = NewShutdown()
		release := SetupSignalHandlers(shutdown)
		defer release()
	}

	logger := NewLogger(args.Verbosity, stderr).With("app", mc.Name)

	cfg := mc.Config
	if cfg == nil {
		loaded, err := config.Load(config.Path())
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "%s: %v\n", mc.Name, err)
			return 1
		}
		cfg = loaded
	}

	open := mc.Opener
	if open == nil {
		var err error
		open, err = TransportOpener(cfg, logger)
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "%s: %v\n", mc.Name, err)
			return 1
		}
	}

	factory := dds.NewParticipantFactory(open, dds.FactoryOptions{
		Logger:         logger,
		HistoryDepth:   cfg.Reader.HistoryDepth,
		AnnouncePeriod: cfg.Discovery.AnnouncePeriod,
	})

	var metricsAddr string
	if cfg.Metrics.ListenAddr != "" {
		addr, stop, err := startMetricsServer(cfg.Metrics, factory.Gatherer(), logger)
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "%s: %v\n", mc.Name, err)
			return 1
		}
		defer stop()
		metricsAddr = addr
	}

	ctx, cancel := shutdown.Context(context.Background())
	defer cancel()

	env := &Env{
		Args:     args,
		Factory:  factory,
		Shutdown: shutdown,
		Config:   cfg,
		Logger:   logger,
		Out:      stdout,
		Err:      stderr,

		MetricsAddr: metricsAddr,
	}

	status := 0
	if err := mc.Run(ctx, env); err != nil {
		_, _ = fmt.Fprintf(stderr, "%s: %v\n", mc.Name, err)
		status = 1
	}
	if err := factory.Finalize(); err != nil {
		_, _ = fmt.Fprintf(stderr, "finalize_instance error %s\n", dds.CodeOf(err))
		status = 1
	}
	return status
}
