package dds

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/luluche1/rticonnextdds-getting-started/internal/core/network"
)

// DomainParticipant is the entry point to one domain. Typically there is one
// per application.
type DomainParticipant struct {
	factory   *ParticipantFactory
	domainID  uint32
	guid      string
	transport network.Transport
	log       *slog.Logger
	metrics   *metrics
	depth     int
	discovery *discovery

	mu          sync.Mutex
	deleted     bool
	types       map[string]struct{}
	topics      map[string]*Topic
	publishers  []*Publisher
	subscribers []*Subscriber
}

func (p *DomainParticipant) DomainID() uint32 { return p.domainID }

func (p *DomainParticipant) GUID() string { return p.guid }

// Registry exposes the participant's metrics.
func (p *DomainParticipant) Registry() *prometheus.Registry { return p.metrics.registry }

// RemoteParticipants lists the GUIDs of participants discovered in the domain.
func (p *DomainParticipant) RemoteParticipants() []string {
	return p.discovery.participants()
}

// RegisterType makes typeName available to CreateTopic. Registering the same
// name twice is a no-op.
func (p *DomainParticipant) RegisterType(typeName string) error {
	const op = "register_type"
	if typeName == "" {
		return opError(op, RetcodeBadParameter, nil)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.deleted {
		return opError(op, RetcodeAlreadyDeleted, ErrEntityDeleted)
	}
	p.types[typeName] = struct{}{}
	return nil
}

// CreateTopic returns the topic called name carrying typeName. Asking again
// for an existing topic with the same type returns the existing topic.
func (p *DomainParticipant) CreateTopic(name, typeName string) (*Topic, error) {
	const op = "create_topic"
	if name == "" {
		return nil, opError(op, RetcodeBadParameter, nil)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.deleted {
		return nil, opError(op, RetcodeAlreadyDeleted, ErrEntityDeleted)
	}
	if _, ok := p.types[typeName]; !ok {
		return nil, opError(op, RetcodePreconditionNotMet, ErrTypeNotRegistered)
	}
	if t, ok := p.topics[name]; ok {
		if t.typeName != typeName {
			return nil, opError(op, RetcodePreconditionNotMet, ErrTopicTypeMismatch)
		}
		return t, nil
	}
	t := &Topic{
		participant: p,
		name:        name,
		typeName:    typeName,
		wire:        dataTopic(p.domainID, name),
	}
	p.topics[name] = t
	return t, nil
}

func (p *DomainParticipant) CreatePublisher() (*Publisher, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.deleted {
		return nil, opError("create_publisher", RetcodeAlreadyDeleted, ErrEntityDeleted)
	}
	pub := &Publisher{participant: p}
	p.publishers = append(p.publishers, pub)
	return pub, nil
}

func (p *DomainParticipant) CreateSubscriber() (*Subscriber, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.deleted {
		return nil, opError("create_subscriber", RetcodeAlreadyDeleted, ErrEntityDeleted)
	}
	sub := &Subscriber{participant: p}
	p.subscribers = append(p.subscribers, sub)
	return sub, nil
}

// DeleteContainedEntities deletes every writer, reader, publisher, subscriber
// and topic created from p. Writers announce the end of their instances on
// the way out.
func (p *DomainParticipant) DeleteContainedEntities() error {
	const op = "delete_contained_entities"
	p.mu.Lock()
	if p.deleted {
		p.mu.Unlock()
		return opError(op, RetcodeAlreadyDeleted, ErrEntityDeleted)
	}
	pubs := p.publishers
	subs := p.subscribers
	p.publishers = nil
	p.subscribers = nil
	p.topics = make(map[string]*Topic)
	p.mu.Unlock()

	var errs []error
	for _, pub := range pubs {
		errs = append(errs, pub.deleteContained())
	}
	for _, sub := range subs {
		errs = append(errs, sub.deleteContained())
	}
	if err := errors.Join(errs...); err != nil {
		return opError(op, RetcodeError, err)
	}
	return nil
}

// endpoints snapshots the local writers and readers for discovery.
func (p *DomainParticipant) endpoints() []endpointInfo {
	p.mu.Lock()
	pubs := append([]*Publisher(nil), p.publishers...)
	subs := append([]*Subscriber(nil), p.subscribers...)
	p.mu.Unlock()

	var out []endpointInfo
	for _, pub := range pubs {
		out = append(out, pub.endpoints()...)
	}
	for _, sub := range subs {
		out = append(out, sub.endpoints()...)
	}
	return out
}

func (p *DomainParticipant) hasEntities() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.publishers) > 0 || len(p.subscribers) > 0 || len(p.topics) > 0
}

func (p *DomainParticipant) markDeleted() {
	p.mu.Lock()
	p.deleted = true
	p.mu.Unlock()
}

func (p *DomainParticipant) isDeleted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.deleted
}

// Topic is a named, typed channel within a domain.
type Topic struct {
	participant *DomainParticipant
	name        string
	typeName    string
	wire        string
}

func (t *Topic) Name() string { return t.name }

func (t *Topic) TypeName() string { return t.typeName }
