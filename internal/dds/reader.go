package dds

import (
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/luluche1/rticonnextdds-getting-started/internal/core/network"
)

// Subscriber groups data readers.
type Subscriber struct {
	participant *DomainParticipant

	mu      sync.Mutex
	readers []endpoint
}

func (sub *Subscriber) add(e endpoint) {
	sub.mu.Lock()
	sub.readers = append(sub.readers, e)
	sub.mu.Unlock()
}

func (sub *Subscriber) remove(e endpoint) bool {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	for i, r := range sub.readers {
		if r == e {
			sub.readers = append(sub.readers[:i], sub.readers[i+1:]...)
			return true
		}
	}
	return false
}

func (sub *Subscriber) endpoints() []endpointInfo {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	out := make([]endpointInfo, 0, len(sub.readers))
	for _, r := range sub.readers {
		out = append(out, r.info())
	}
	return out
}

func (sub *Subscriber) deleteContained() error {
	sub.mu.Lock()
	readers := sub.readers
	sub.readers = nil
	sub.mu.Unlock()
	var errs []error
	for _, r := range readers {
		errs = append(errs, r.close())
	}
	return errors.Join(errs...)
}

// SampleInfo describes a taken sample. Samples with ValidData false carry no
// data; they report that the writer's instance went away.
type SampleInfo struct {
	ValidData          bool
	WriterGUID         string
	SequenceNumber     uint64
	SourceTimestamp    time.Time
	ReceptionTimestamp time.Time
}

type Sample[T any] struct {
	Data T
	Info SampleInfo
}

// DataReader receives samples of T on one topic into a bounded history.
type DataReader[T any] struct {
	subscriber *Subscriber
	topic      *Topic
	guid       string
	depth      int
	cond       *StatusCondition

	cancel func()
	done   chan struct{}
	closed atomic.Bool

	mu    sync.Mutex
	queue []Sample[T]
}

// CreateDataReader attaches a reader for topic to sub and starts receiving.
func CreateDataReader[T any](sub *Subscriber, topic *Topic) (*DataReader[T], error) {
	const op = "create_datareader"
	if sub == nil || topic == nil {
		return nil, opError(op, RetcodeBadParameter, nil)
	}
	p := sub.participant
	if topic.participant != p {
		return nil, opError(op, RetcodePreconditionNotMet, ErrForeignEntity)
	}
	if p.isDeleted() {
		return nil, opError(op, RetcodeAlreadyDeleted, ErrEntityDeleted)
	}
	ch, cancel, err := p.transport.Subscribe(topic.wire)
	if err != nil {
		return nil, opError(op, RetcodeError, err)
	}
	r := &DataReader[T]{
		subscriber: sub,
		topic:      topic,
		guid:       uuid.NewString(),
		depth:      p.depth,
		cancel:     cancel,
		done:       make(chan struct{}),
	}
	r.cond = newStatusCondition(r.status)
	sub.add(r)
	go r.receive(ch)
	p.discovery.announceEndpoint(r.info())
	p.log.Info("data reader created", "topic", topic.name, "type", topic.typeName)
	return r, nil
}

func (r *DataReader[T]) Topic() *Topic { return r.topic }

func (r *DataReader[T]) GUID() string { return r.guid }

// StatusCondition triggers while an enabled status is active on the reader.
func (r *DataReader[T]) StatusCondition() *StatusCondition { return r.cond }

// StatusChanges reports the statuses currently active on the reader.
func (r *DataReader[T]) StatusChanges() StatusMask { return r.status() }

// MatchedPublications counts remote writers discovered on the same topic and type.
func (r *DataReader[T]) MatchedPublications() int {
	return r.subscriber.participant.discovery.matched(kindWriter, r.topic)
}

// Take removes and returns every queued sample, oldest first.
func (r *DataReader[T]) Take() ([]Sample[T], error) {
	const op = "take"
	if r.closed.Load() {
		return nil, opError(op, RetcodeAlreadyDeleted, ErrEntityDeleted)
	}
	r.mu.Lock()
	samples := r.queue
	r.queue = nil
	r.mu.Unlock()
	if len(samples) == 0 {
		return nil, ErrNoData
	}

	m := r.subscriber.participant.metrics
	for _, s := range samples {
		if s.Info.ValidData {
			m.taken.WithLabelValues(r.topic.name).Inc()
		} else {
			m.notifications.WithLabelValues(r.topic.name).Inc()
		}
	}
	return samples, nil
}

// Close stops the reader and removes it from its subscriber.
func (r *DataReader[T]) Close() error {
	if !r.subscriber.remove(r) {
		return opError("delete_datareader", RetcodeAlreadyDeleted, ErrEntityDeleted)
	}
	return r.close()
}

func (r *DataReader[T]) close() error {
	if !r.closed.CompareAndSwap(false, true) {
		return nil
	}
	r.subscriber.participant.discovery.removeEndpoint(r.info())
	r.cancel()
	<-r.done
	return nil
}

func (r *DataReader[T]) receive(ch <-chan network.Message) {
	defer close(r.done)
	p := r.subscriber.participant
	for msg := range ch {
		var env envelope
		if err := json.Unmarshal(msg.Payload, &env); err != nil {
			p.metrics.dropped.WithLabelValues(r.topic.name, dropDecode).Inc()
			p.log.Warn("discarding undecodable sample", "topic", r.topic.name, "error", err)
			continue
		}
		if env.Topic != r.topic.name || env.TypeName != r.topic.typeName {
			p.metrics.dropped.WithLabelValues(r.topic.name, dropTypeMismatch).Inc()
			p.log.Warn("discarding sample for another topic or type",
				"topic", r.topic.name, "sample_topic", env.Topic, "sample_type", env.TypeName)
			continue
		}
		s := Sample[T]{Info: SampleInfo{
			ValidData:          env.ValidData,
			WriterGUID:         env.WriterGUID,
			SequenceNumber:     env.Sequence,
			SourceTimestamp:    env.SourceTimestamp,
			ReceptionTimestamp: time.Now().UTC(),
		}}
		if env.ValidData {
			if err := json.Unmarshal(env.Data, &s.Data); err != nil {
				p.metrics.dropped.WithLabelValues(r.topic.name, dropDecode).Inc()
				p.log.Warn("discarding undecodable sample", "topic", r.topic.name, "error", err)
				continue
			}
		}
		r.enqueue(s)
		r.cond.signal()
	}
}

func (r *DataReader[T]) enqueue(s Sample[T]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queue = append(r.queue, s)
	if over := len(r.queue) - r.depth; over > 0 {
		r.queue = append(r.queue[:0], r.queue[over:]...)
		r.subscriber.participant.metrics.dropped.WithLabelValues(r.topic.name, dropHistoryFull).Add(float64(over))
	}
}

func (r *DataReader[T]) status() StatusMask {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.queue) > 0 {
		return DataAvailableStatus
	}
	return 0
}

func (r *DataReader[T]) info() endpointInfo {
	return endpointInfo{GUID: r.guid, Kind: kindReader, Topic: r.topic.name, TypeName: r.topic.typeName}
}
