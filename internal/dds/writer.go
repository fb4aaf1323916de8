package dds

import (
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

const (
	kindWriter = "writer"
	kindReader = "reader"
)

// endpoint is a writer or reader as seen by its parent.
type endpoint interface {
	info() endpointInfo
	close() error
}

// Publisher groups data writers.
type Publisher struct {
	participant *DomainParticipant

	mu      sync.Mutex
	writers []endpoint
}

func (pub *Publisher) add(e endpoint) {
	pub.mu.Lock()
	pub.writers = append(pub.writers, e)
	pub.mu.Unlock()
}

func (pub *Publisher) remove(e endpoint) bool {
	pub.mu.Lock()
	defer pub.mu.Unlock()
	for i, w := range pub.writers {
		if w == e {
			pub.writers = append(pub.writers[:i], pub.writers[i+1:]...)
			return true
		}
	}
	return false
}

func (pub *Publisher) endpoints() []endpointInfo {
	pub.mu.Lock()
	defer pub.mu.Unlock()
	out := make([]endpointInfo, 0, len(pub.writers))
	for _, w := range pub.writers {
		out = append(out, w.info())
	}
	return out
}

func (pub *Publisher) deleteContained() error {
	pub.mu.Lock()
	writers := pub.writers
	pub.writers = nil
	pub.mu.Unlock()
	var errs []error
	for _, w := range writers {
		errs = append(errs, w.close())
	}
	return errors.Join(errs...)
}

// DataWriter publishes samples of T on one topic.
type DataWriter[T any] struct {
	publisher *Publisher
	topic     *Topic
	guid      string
	seq       atomic.Uint64
	closed    atomic.Bool
}

// CreateDataWriter attaches a writer for topic to pub. T must encode to JSON.
func CreateDataWriter[T any](pub *Publisher, topic *Topic) (*DataWriter[T], error) {
	const op = "create_datawriter"
	if pub == nil || topic == nil {
		return nil, opError(op, RetcodeBadParameter, nil)
	}
	p := pub.participant
	if topic.participant != p {
		return nil, opError(op, RetcodePreconditionNotMet, ErrForeignEntity)
	}
	if p.isDeleted() {
		return nil, opError(op, RetcodeAlreadyDeleted, ErrEntityDeleted)
	}
	w := &DataWriter[T]{publisher: pub, topic: topic, guid: uuid.NewString()}
	pub.add(w)
	p.discovery.announceEndpoint(w.info())
	p.log.Info("data writer created", "topic", topic.name, "type", topic.typeName)
	return w, nil
}

func (w *DataWriter[T]) Topic() *Topic { return w.topic }

func (w *DataWriter[T]) GUID() string { return w.guid }

// MatchedSubscriptions counts remote readers discovered on the same topic and type.
func (w *DataWriter[T]) MatchedSubscriptions() int {
	return w.publisher.participant.discovery.matched(kindReader, w.topic)
}

// Write publishes one sample.
func (w *DataWriter[T]) Write(sample T) error {
	const op = "write"
	if w.closed.Load() {
		return opError(op, RetcodeAlreadyDeleted, ErrEntityDeleted)
	}
	data, err := json.Marshal(sample)
	if err != nil {
		return opError(op, RetcodeBadParameter, err)
	}
	if err := w.publish(true, data); err != nil {
		return opError(op, RetcodeError, err)
	}
	p := w.publisher.participant
	p.metrics.written.WithLabelValues(w.topic.name).Inc()
	p.log.Debug("sample written", "topic", w.topic.name, "sequence_number", w.seq.Load())
	return nil
}

// Close unregisters the writer's instance and removes it from its publisher.
func (w *DataWriter[T]) Close() error {
	if !w.publisher.remove(w) {
		return opError("delete_datawriter", RetcodeAlreadyDeleted, ErrEntityDeleted)
	}
	return w.close()
}

func (w *DataWriter[T]) close() error {
	if !w.closed.CompareAndSwap(false, true) {
		return nil
	}
	p := w.publisher.participant
	p.discovery.removeEndpoint(w.info())
	if err := w.publish(false, nil); err != nil {
		return opError("unregister_instance", RetcodeError, err)
	}
	return nil
}

func (w *DataWriter[T]) publish(valid bool, data []byte) error {
	env := envelope{
		Topic:           w.topic.name,
		TypeName:        w.topic.typeName,
		WriterGUID:      w.guid,
		Sequence:        w.seq.Add(1),
		SourceTimestamp: time.Now().UTC(),
		ValidData:       valid,
		Data:            data,
	}
	b, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return w.publisher.participant.transport.Publish(w.topic.wire, b)
}

func (w *DataWriter[T]) info() endpointInfo {
	return endpointInfo{GUID: w.guid, Kind: kindWriter, Topic: w.topic.name, TypeName: w.topic.typeName}
}
