package dds

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	dropDecode       = "decode"
	dropTypeMismatch = "type_mismatch"
	dropHistoryFull  = "history_full"
)

// metrics are registered on a registry owned by one participant. The
// participant label keeps them apart when the factory gathers all registries.
type metrics struct {
	registry *prometheus.Registry

	written       *prometheus.CounterVec
	taken         *prometheus.CounterVec
	notifications *prometheus.CounterVec
	dropped       *prometheus.CounterVec
	remote        prometheus.Gauge
}

func newMetrics(domainID uint32, participant string) *metrics {
	labels := prometheus.Labels{
		"domain_id":   strconv.FormatUint(uint64(domainID), 10),
		"participant": participant,
	}
	m := &metrics{
		registry: prometheus.NewRegistry(),
		written: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "dds_samples_written_total",
			Help:        "Samples published by data writers.",
			ConstLabels: labels,
		}, []string{"topic"}),
		taken: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "dds_samples_taken_total",
			Help:        "Valid samples taken from data readers.",
			ConstLabels: labels,
		}, []string{"topic"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "dds_instance_notifications_total",
			Help:        "Instance lifecycle samples taken from data readers.",
			ConstLabels: labels,
		}, []string{"topic"}),
		dropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "dds_samples_dropped_total",
			Help:        "Samples discarded by data readers before they could be taken.",
			ConstLabels: labels,
		}, []string{"topic", "reason"}),
		remote: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "dds_remote_participants",
			Help:        "Remote participants currently discovered in the domain.",
			ConstLabels: labels,
		}),
	}
	m.registry.MustRegister(m.written, m.taken, m.notifications, m.dropped, m.remote)
	return m
}
