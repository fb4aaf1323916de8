// Package config loads the transport profile shared by the example programs.
//
// The profile is a YAML file. A missing file is not an error: every field has
// a default that lets publisher and subscriber processes on one LAN find each
// other over libp2p with mDNS.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// EnvPath names the environment variable that overrides DefaultPath.
	EnvPath = "GETTING_STARTED_CONFIG"
	// DefaultPath is looked up in the working directory.
	DefaultPath = "getting_started.yaml"

	KindLibp2p = "libp2p"
	KindNATS   = "nats"
	KindMemory = "memory"
)

type Config struct {
	Transport TransportConfig `yaml:"transport"`
	Reader    ReaderConfig    `yaml:"reader"`
	Loop      LoopConfig      `yaml:"loop"`
	Discovery DiscoveryConfig `yaml:"discovery"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

type TransportConfig struct {
	Kind   string       `yaml:"kind"`
	Libp2p Libp2pConfig `yaml:"libp2p"`
	NATS   NATSConfig   `yaml:"nats"`
}

type Libp2pConfig struct {
	ListenAddrs     []string      `yaml:"listen_addrs"`
	Bootstrap       []string      `yaml:"bootstrap"`
	EnableMDNS      *bool         `yaml:"enable_mdns"`
	IdentityKeyFile string        `yaml:"identity_key_file"`
	ConnectTimeout  time.Duration `yaml:"connect_timeout"`

	// Linger keeps the host up briefly after teardown so the final
	// unregister and goodbye messages reach remote peers.
	Linger time.Duration `yaml:"linger"`
}

// MDNSEnabled defaults to true when the field is absent.
func (c Libp2pConfig) MDNSEnabled() bool {
	return c.EnableMDNS == nil || *c.EnableMDNS
}

type NATSConfig struct {
	URL            string        `yaml:"url"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
}

type ReaderConfig struct {
	HistoryDepth int `yaml:"history_depth"`
}

type DiscoveryConfig struct {
	AnnouncePeriod time.Duration `yaml:"announce_period"`
}

// MetricsConfig enables the Prometheus endpoint when ListenAddr is set.
type MetricsConfig struct {
	ListenAddr string `yaml:"listen_addr"`
	Path       string `yaml:"path"`
}

type LoopConfig struct {
	SendPeriod  time.Duration `yaml:"send_period"`
	WaitTimeout time.Duration `yaml:"wait_timeout"`
}

// Default returns the profile used when no file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Path resolves the profile location from the environment.
func Path() string {
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	return DefaultPath
}

func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Transport.Kind == "" {
		c.Transport.Kind = KindLibp2p
	}
	if len(c.Transport.Libp2p.ListenAddrs) == 0 {
		c.Transport.Libp2p.ListenAddrs = []string{"/ip4/0.0.0.0/tcp/0"}
	}
	if c.Transport.Libp2p.ConnectTimeout == 0 {
		c.Transport.Libp2p.ConnectTimeout = 5 * time.Second
	}
	if c.Transport.Libp2p.Linger == 0 {
		c.Transport.Libp2p.Linger = 500 * time.Millisecond
	}
	if c.Transport.NATS.URL == "" {
		c.Transport.NATS.URL = "nats://127.0.0.1:4222"
	}
	if c.Transport.NATS.ConnectTimeout == 0 {
		c.Transport.NATS.ConnectTimeout = 2 * time.Second
	}
	if c.Reader.HistoryDepth == 0 {
		c.Reader.HistoryDepth = 256
	}
	if c.Loop.SendPeriod == 0 {
		c.Loop.SendPeriod = 4 * time.Second
	}
	if c.Loop.WaitTimeout == 0 {
		c.Loop.WaitTimeout = 4 * time.Second
	}
	if c.Discovery.AnnouncePeriod == 0 {
		c.Discovery.AnnouncePeriod = time.Second
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
}

func (c *Config) validate() error {
	switch c.Transport.Kind {
	case KindLibp2p, KindNATS, KindMemory:
	default:
		return fmt.Errorf("transport.kind %q must be one of libp2p, nats, memory", c.Transport.Kind)
	}
	if c.Reader.HistoryDepth < 0 {
		return fmt.Errorf("reader.history_depth must be positive")
	}
	if c.Loop.SendPeriod < 0 || c.Loop.WaitTimeout < 0 {
		return fmt.Errorf("loop periods must not be negative")
	}
	if c.Discovery.AnnouncePeriod < 0 || c.Transport.Libp2p.Linger < 0 {
		return fmt.Errorf("discovery.announce_period and transport.libp2p.linger must not be negative")
	}
	if c.Metrics.Path[0] != '/' {
		return fmt.Errorf("metrics.path %q must start with /", c.Metrics.Path)
	}
	return nil
}
