// Package dds is a small Data Distribution Service style entity layer over a
// broadcast transport.
//
// It provides the entity model the getting-started examples are written
// against: a participant factory, domain participants, registered types,
// topics, publishers with typed data writers, subscribers with typed data
// readers, status conditions and waitsets. Samples travel as JSON envelopes
// over a network.Transport, one transport topic per DDS topic and domain.
// Participants discover each other through a builtin announcement topic.
//
// Wire compatibility with RTPS, QoS policies and reliable delivery are not
// provided.
package dds

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/luluche1/rticonnextdds-getting-started/internal/core/network"
)

const defaultHistoryDepth = 256

// Opener connects a new participant to the transport that carries its domain.
type Opener func(ctx context.Context, domainID uint32) (network.Transport, error)

type FactoryOptions struct {
	Logger *slog.Logger
	// HistoryDepth bounds each reader's queue of untaken samples.
	HistoryDepth int
	// AnnouncePeriod is how often participants re-announce themselves.
	// Remotes silent for three periods are forgotten.
	AnnouncePeriod time.Duration
}

// ParticipantFactory creates and deletes domain participants.
type ParticipantFactory struct {
	open     Opener
	log      *slog.Logger
	depth    int
	announce time.Duration

	mu           sync.Mutex
	participants map[*DomainParticipant]struct{}
	finalized    bool
}

func NewParticipantFactory(open Opener, opts FactoryOptions) *ParticipantFactory {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	depth := opts.HistoryDepth
	if depth <= 0 {
		depth = defaultHistoryDepth
	}
	return &ParticipantFactory{
		open:         open,
		log:          logger,
		depth:        depth,
		announce:     opts.AnnouncePeriod,
		participants: make(map[*DomainParticipant]struct{}),
	}
}

// CreateParticipant joins domainID. The participant announces itself to the
// domain before it is returned.
func (f *ParticipantFactory) CreateParticipant(ctx context.Context, domainID uint32) (*DomainParticipant, error) {
	const op = "create_participant"
	f.mu.Lock()
	finalized := f.finalized
	f.mu.Unlock()
	if finalized {
		return nil, opError(op, RetcodePreconditionNotMet, ErrEntityDeleted)
	}
	if f.open == nil {
		return nil, opError(op, RetcodeNotEnabled, nil)
	}
	transport, err := f.open(ctx, domainID)
	if err != nil {
		return nil, opError(op, RetcodeError, err)
	}

	guid := uuid.NewString()
	p := &DomainParticipant{
		factory:   f,
		domainID:  domainID,
		guid:      guid,
		transport: transport,
		log:       f.log.With("domain_id", domainID, "participant", guid[:8]),
		metrics:   newMetrics(domainID, guid),
		depth:     f.depth,
		types:     make(map[string]struct{}),
		topics:    make(map[string]*Topic),
	}
	p.discovery = newDiscovery(p, f.announce)
	if err := p.discovery.start(); err != nil {
		_ = transport.Close()
		return nil, opError(op, RetcodeError, err)
	}

	f.mu.Lock()
	f.participants[p] = struct{}{}
	f.mu.Unlock()
	p.log.Info("participant created")
	return p, nil
}

// DeleteParticipant releases p and its transport. Contained entities must be
// deleted first.
func (f *ParticipantFactory) DeleteParticipant(p *DomainParticipant) error {
	const op = "delete_participant"
	if p == nil {
		return opError(op, RetcodeBadParameter, nil)
	}
	f.mu.Lock()
	_, ok := f.participants[p]
	f.mu.Unlock()
	if !ok {
		if p.factory == f {
			return opError(op, RetcodeAlreadyDeleted, ErrEntityDeleted)
		}
		return opError(op, RetcodePreconditionNotMet, ErrForeignEntity)
	}
	if p.hasEntities() {
		return opError(op, RetcodePreconditionNotMet, ErrEntitiesRemaining)
	}

	f.mu.Lock()
	delete(f.participants, p)
	f.mu.Unlock()

	p.discovery.stop()
	p.markDeleted()
	if err := p.transport.Close(); err != nil {
		return opError(op, RetcodeError, err)
	}
	p.log.Info("participant deleted")
	return nil
}

// Participants reports the number of live participants.
func (f *ParticipantFactory) Participants() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.participants)
}

// Gatherer collects the metrics of every participant alive at scrape time.
func (f *ParticipantFactory) Gatherer() prometheus.Gatherer {
	return prometheus.GathererFunc(func() ([]*dto.MetricFamily, error) {
		f.mu.Lock()
		gs := make(prometheus.Gatherers, 0, len(f.participants))
		for p := range f.participants {
			gs = append(gs, p.metrics.registry)
		}
		f.mu.Unlock()
		return gs.Gather()
	})
}

// Finalize releases the factory. It fails while participants are alive.
func (f *ParticipantFactory) Finalize() error {
	const op = "finalize_instance"
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.participants) > 0 {
		return opError(op, RetcodePreconditionNotMet, ErrParticipantsRemain)
	}
	f.finalized = true
	return nil
}
