package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProfile(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "getting_started.yaml")
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, KindLibp2p, cfg.Transport.Kind)
	assert.True(t, cfg.Transport.Libp2p.MDNSEnabled())
	assert.Equal(t, []string{"/ip4/0.0.0.0/tcp/0"}, cfg.Transport.Libp2p.ListenAddrs)
	assert.Equal(t, 256, cfg.Reader.HistoryDepth)
	assert.Equal(t, 4*time.Second, cfg.Loop.SendPeriod)
	assert.Equal(t, 4*time.Second, cfg.Loop.WaitTimeout)
	assert.Equal(t, time.Second, cfg.Discovery.AnnouncePeriod)
	assert.Equal(t, 500*time.Millisecond, cfg.Transport.Libp2p.Linger)
	assert.Empty(t, cfg.Metrics.ListenAddr)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestLoadMetricsAndDiscovery(t *testing.T) {
	path := writeProfile(t, `
discovery:
  announce_period: 250ms
metrics:
  listen_addr: 127.0.0.1:9464
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, cfg.Discovery.AnnouncePeriod)
	assert.Equal(t, "127.0.0.1:9464", cfg.Metrics.ListenAddr)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)

	_, err = Load(writeProfile(t, `metrics:
  path: metrics
`))
	assert.ErrorContains(t, err, "must start with /")

	_, err = Load(writeProfile(t, `discovery:
  announce_period: -1s
`))
	assert.ErrorContains(t, err, "must not be negative")
}

func TestLoadAppliesDefaultsToPartialFile(t *testing.T) {
	path := writeProfile(t, `
transport:
  kind: nats
  nats:
    url: nats://broker:4222
  libp2p:
    enable_mdns: false
loop:
  send_period: 10ms
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, KindNATS, cfg.Transport.Kind)
	assert.Equal(t, "nats://broker:4222", cfg.Transport.NATS.URL)
	assert.Equal(t, 2*time.Second, cfg.Transport.NATS.ConnectTimeout)
	assert.False(t, cfg.Transport.Libp2p.MDNSEnabled())
	assert.Equal(t, 10*time.Millisecond, cfg.Loop.SendPeriod)
	assert.Equal(t, 4*time.Second, cfg.Loop.WaitTimeout)
}

func TestLoadRejectsUnknownTransport(t *testing.T) {
	path := writeProfile(t, "transport:\n  kind: carrier-pigeon\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "carrier-pigeon")
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := writeProfile(t, "transport: [\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse")
}

func TestPathHonoursEnvironment(t *testing.T) {
	t.Setenv(EnvPath, "")
	assert.Equal(t, DefaultPath, Path())
	t.Setenv(EnvPath, "/etc/getting_started.yaml")
	assert.Equal(t, "/etc/getting_started.yaml", Path())
}
