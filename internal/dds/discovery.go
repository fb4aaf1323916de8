package dds

import (
	"encoding/json"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/luluche1/rticonnextdds-getting-started/internal/core/network"
)

const (
	defaultAnnouncePeriod = time.Second
	leaseFactor           = 3

	eventParticipantAnnounced = "participant_announced"
	eventParticipantRemoved   = "participant_removed"
	eventEndpointAnnounced    = "endpoint_announced"
	eventEndpointRemoved      = "endpoint_removed"
)

type endpointInfo struct {
	GUID     string `json:"guid"`
	Kind     string `json:"kind"`
	Topic    string `json:"topic"`
	TypeName string `json:"type_name"`
}

type announcement struct {
	Type        string        `json:"type"`
	Participant string        `json:"participant_guid"`
	DomainID    uint32        `json:"domain_id"`
	Endpoint    *endpointInfo `json:"endpoint,omitempty"`

	// Endpoints is the full set of the sender's endpoints on participant
	// announcements. It replaces what the receiver knew.
	Endpoints []endpointInfo `json:"endpoints,omitempty"`
	At        time.Time      `json:"at"`
}

type remoteParticipant struct {
	endpoints map[string]endpointInfo
	lastSeen  time.Time
}

// discovery keeps the participant's view of the rest of its domain in sync
// over the builtin topic. Participants re-announce themselves every period
// because a broadcast transport may drop announcements made before a peer
// subscribed; a remote that stays silent for a whole lease is forgotten.
type discovery struct {
	p      *DomainParticipant
	topic  string
	log    *slog.Logger
	period time.Duration
	lease  time.Duration

	mu     sync.RWMutex
	remote map[string]*remoteParticipant

	cancel   func()
	done     chan struct{}
	quit     chan struct{}
	tickDone chan struct{}
}

func newDiscovery(p *DomainParticipant, period time.Duration) *discovery {
	if period <= 0 {
		period = defaultAnnouncePeriod
	}
	return &discovery{
		p:        p,
		topic:    builtinTopic(p.domainID),
		log:      p.log,
		period:   period,
		lease:    leaseFactor * period,
		remote:   make(map[string]*remoteParticipant),
		done:     make(chan struct{}),
		quit:     make(chan struct{}),
		tickDone: make(chan struct{}),
	}
}

func (d *discovery) start() error {
	ch, cancel, err := d.p.transport.Subscribe(d.topic)
	if err != nil {
		return err
	}
	d.cancel = cancel
	go d.consume(ch)
	go d.tick()
	d.announceParticipant()
	return nil
}

// stop halts announcements and drains the consumer before saying goodbye so
// no answer to a late announcement can follow the removal.
func (d *discovery) stop() {
	close(d.quit)
	<-d.tickDone
	d.cancel()
	<-d.done
	d.publish(eventParticipantRemoved, nil)
}

func (d *discovery) tick() {
	defer close(d.tickDone)
	ticker := time.NewTicker(d.period)
	defer ticker.Stop()
	for {
		select {
		case <-d.quit:
			return
		case now := <-ticker.C:
			d.announceParticipant()
			d.expire(now)
		}
	}
}

func (d *discovery) announceParticipant() {
	b, _ := json.Marshal(announcement{
		Type:        eventParticipantAnnounced,
		Participant: d.p.guid,
		DomainID:    d.p.domainID,
		Endpoints:   d.p.endpoints(),
		At:          time.Now().UTC(),
	})
	if err := d.p.transport.Publish(d.topic, b); err != nil {
		d.log.Debug("discovery announcement failed", "type", eventParticipantAnnounced, "error", err)
	}
}

// expire forgets remotes whose lease ran out without an announcement.
func (d *discovery) expire(now time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for guid, rp := range d.remote {
		if now.Sub(rp.lastSeen) > d.lease {
			delete(d.remote, guid)
			d.log.Debug("remote participant lease expired", "remote", guid)
		}
	}
	d.p.metrics.remote.Set(float64(len(d.remote)))
}

func (d *discovery) announceEndpoint(info endpointInfo) {
	d.publish(eventEndpointAnnounced, &info)
}

func (d *discovery) removeEndpoint(info endpointInfo) {
	d.publish(eventEndpointRemoved, &info)
}

func (d *discovery) publish(eventType string, info *endpointInfo) {
	b, _ := json.Marshal(announcement{
		Type:        eventType,
		Participant: d.p.guid,
		DomainID:    d.p.domainID,
		Endpoint:    info,
		At:          time.Now().UTC(),
	})
	if err := d.p.transport.Publish(d.topic, b); err != nil {
		d.log.Debug("discovery announcement failed", "type", eventType, "error", err)
	}
}

func (d *discovery) consume(ch <-chan network.Message) {
	defer close(d.done)
	for msg := range ch {
		var evt announcement
		if err := json.Unmarshal(msg.Payload, &evt); err != nil {
			continue
		}
		if evt.Participant == d.p.guid || evt.DomainID != d.p.domainID {
			continue
		}
		switch evt.Type {
		case eventParticipantAnnounced:
			isNew := d.seen(evt.Participant, evt.Endpoints, true)
			if isNew {
				// Answer right away so the newcomer need not wait a period.
				d.announceParticipant()
			}
		case eventParticipantRemoved:
			d.mu.Lock()
			if _, ok := d.remote[evt.Participant]; ok {
				delete(d.remote, evt.Participant)
				d.p.metrics.remote.Set(float64(len(d.remote)))
				d.log.Debug("remote participant removed", "remote", evt.Participant)
			}
			d.mu.Unlock()
		case eventEndpointAnnounced:
			if evt.Endpoint == nil {
				continue
			}
			d.seen(evt.Participant, []endpointInfo{*evt.Endpoint}, false)
			d.log.Debug("remote endpoint discovered",
				"remote", evt.Participant, "kind", evt.Endpoint.Kind, "topic", evt.Endpoint.Topic)
		case eventEndpointRemoved:
			if evt.Endpoint == nil {
				continue
			}
			d.mu.Lock()
			if rp, ok := d.remote[evt.Participant]; ok {
				delete(rp.endpoints, evt.Endpoint.GUID)
			}
			d.mu.Unlock()
		}
	}
}

// seen records traffic from a remote participant and reports whether it was
// new. With replace set, eps is the remote's complete endpoint set.
func (d *discovery) seen(guid string, eps []endpointInfo, replace bool) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	rp, ok := d.remote[guid]
	if !ok {
		rp = &remoteParticipant{endpoints: make(map[string]endpointInfo)}
		d.remote[guid] = rp
		d.p.metrics.remote.Set(float64(len(d.remote)))
		d.log.Debug("remote participant discovered", "remote", guid)
	}
	rp.lastSeen = time.Now()
	if replace {
		clear(rp.endpoints)
	}
	for _, ep := range eps {
		rp.endpoints[ep.GUID] = ep
	}
	return !ok
}

func (d *discovery) matched(kind string, t *Topic) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	n := 0
	for _, rp := range d.remote {
		for _, ep := range rp.endpoints {
			if ep.Kind == kind && ep.Topic == t.name && ep.TypeName == t.typeName {
				n++
			}
		}
	}
	return n
}

func (d *discovery) participants() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]string, 0, len(d.remote))
	for guid := range d.remote {
		out = append(out, guid)
	}
	sort.Strings(out)
	return out
}
