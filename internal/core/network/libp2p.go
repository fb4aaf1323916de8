package network

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	libp2p "github.com/libp2p/go-libp2p"
	pubsub "github.com/libp2p/go-libp2p-pubsub"
	"github.com/libp2p/go-libp2p/core/crypto"
	"github.com/libp2p/go-libp2p/core/host"
	"github.com/libp2p/go-libp2p/core/peer"
	mdns "github.com/libp2p/go-libp2p/p2p/discovery/mdns"
	ma "github.com/multiformats/go-multiaddr"
	"golang.org/x/sync/errgroup"
)

const defaultListenAddr = "/ip4/0.0.0.0/tcp/0"

// Libp2pOptions configures the libp2p transport.
type Libp2pOptions struct {
	ListenAddrs     []string
	Bootstrap       []string
	Rendezvous      string
	EnableMDNS      bool
	IdentityKeyFile string
	ConnectTimeout  time.Duration

	// Linger delays Close so messages published just before it can still be
	// forwarded to peers.
	Linger time.Duration
	Logger *slog.Logger
}

// Libp2pPubSub provides gossip-based pubsub over libp2p. Peers on the same
// rendezvous string find each other through mDNS or the bootstrap list.
type Libp2pPubSub struct {
	ctx    context.Context
	cancel context.CancelFunc
	log    *slog.Logger
	linger time.Duration

	host host.Host
	ps   *pubsub.PubSub
	mdns mdns.Service

	mu     sync.Mutex
	closed bool
	topics map[string]*pubsub.Topic
}

func NewLibp2pPubSub(parent context.Context, opts Libp2pOptions) (*Libp2pPubSub, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	listenAddrs, err := parseMultiaddrs(opts.ListenAddrs)
	if err != nil {
		return nil, err
	}
	if len(listenAddrs) == 0 {
		a, _ := ma.NewMultiaddr(defaultListenAddr)
		listenAddrs = append(listenAddrs, a)
	}

	libp2pOpts := []libp2p.Option{libp2p.ListenAddrs(listenAddrs...)}
	if opts.IdentityKeyFile != "" {
		key, err := loadOrCreateIdentityKey(opts.IdentityKeyFile)
		if err != nil {
			return nil, fmt.Errorf("load identity key: %w", err)
		}
		libp2pOpts = append(libp2pOpts, libp2p.Identity(key))
	}

	h, err := libp2p.New(libp2pOpts...)
	if err != nil {
		return nil, fmt.Errorf("create host: %w", err)
	}

	ctx, cancel := context.WithCancel(parent)
	ps, err := pubsub.NewGossipSub(ctx, h)
	if err != nil {
		_ = h.Close()
		cancel()
		return nil, fmt.Errorf("create gossipsub: %w", err)
	}

	p := &Libp2pPubSub{
		ctx:    ctx,
		cancel: cancel,
		log:    logger.With("peer_id", h.ID().String()),
		linger: opts.Linger,
		host:   h,
		ps:     ps,
		topics: make(map[string]*pubsub.Topic),
	}

	if opts.EnableMDNS {
		service := mdns.NewMdnsService(h, opts.Rendezvous, &mdnsNotifee{host: h, log: p.log, timeout: opts.ConnectTimeout})
		if err := service.Start(); err != nil {
			p.log.Warn("mdns start failed", "rendezvous", opts.Rendezvous, "error", err)
		} else {
			p.mdns = service
		}
	}

	p.bootstrap(opts.Bootstrap, opts.ConnectTimeout)
	return p, nil
}

// bootstrap dials every configured peer concurrently and returns once all
// dials finished. Failures are logged; the host stays usable without them.
func (p *Libp2pPubSub) bootstrap(addrs []string, timeout time.Duration) {
	var g errgroup.Group
	for _, raw := range addrs {
		if raw == "" {
			continue
		}
		addr, err := ma.NewMultiaddr(raw)
		if err != nil {
			p.log.Warn("skip bootstrap addr", "addr", raw, "error", err)
			continue
		}
		info, err := peer.AddrInfoFromP2pAddr(addr)
		if err != nil {
			p.log.Warn("skip bootstrap addr", "addr", raw, "error", err)
			continue
		}
		g.Go(func() error {
			ctx, cancel := connectContext(p.ctx, timeout)
			defer cancel()
			if err := p.host.Connect(ctx, *info); err != nil {
				p.log.Warn("bootstrap connect failed", "peer", info.ID.String(), "error", err)
				return nil
			}
			p.log.Debug("connected bootstrap peer", "peer", info.ID.String())
			return nil
		})
	}
	_ = g.Wait()
}

func (p *Libp2pPubSub) Publish(topic string, payload []byte) error {
	t, err := p.getOrJoinTopic(topic)
	if err != nil {
		return err
	}
	return t.Publish(p.ctx, payload)
}

func (p *Libp2pPubSub) Subscribe(topic string) (<-chan Message, func(), error) {
	t, err := p.getOrJoinTopic(topic)
	if err != nil {
		return nil, nil, err
	}
	sub, err := t.Subscribe()
	if err != nil {
		return nil, nil, fmt.Errorf("subscribe %q: %w", topic, err)
	}

	out := make(chan Message, 64)
	subCtx, subCancel := context.WithCancel(p.ctx)
	go func() {
		defer close(out)
		for {
			msg, err := sub.Next(subCtx)
			if err != nil {
				return
			}
			select {
			case out <- Message{Topic: topic, Payload: append([]byte(nil), msg.Data...)}:
			default:
				p.log.Debug("subscriber queue full, message dropped", "topic", topic)
			}
		}
	}()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			subCancel()
			sub.Cancel()
		})
	}
	return out, cancel, nil
}

func (p *Libp2pPubSub) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	if p.linger > 0 && len(p.topics) > 0 {
		p.mu.Unlock()
		time.Sleep(p.linger)
		p.mu.Lock()
	}
	p.cancel()
	for name, t := range p.topics {
		if err := t.Close(); err != nil {
			p.log.Debug("topic close", "topic", name, "error", err)
		}
	}
	p.mu.Unlock()
	if p.mdns != nil {
		_ = p.mdns.Close()
	}
	return p.host.Close()
}

func (p *Libp2pPubSub) PeerID() string {
	return p.host.ID().String()
}

func (p *Libp2pPubSub) ListenAddrs() []string {
	out := make([]string, 0, len(p.host.Addrs()))
	for _, addr := range p.host.Addrs() {
		out = append(out, fmt.Sprintf("%s/p2p/%s", addr.String(), p.host.ID().String()))
	}
	return out
}

func (p *Libp2pPubSub) ConnectedPeers() []string {
	peers := p.host.Network().Peers()
	out := make([]string, 0, len(peers))
	for _, pid := range peers {
		out = append(out, pid.String())
	}
	return out
}

func (p *Libp2pPubSub) getOrJoinTopic(name string) (*pubsub.Topic, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil, ErrClosed
	}
	if t, ok := p.topics[name]; ok {
		return t, nil
	}
	t, err := p.ps.Join(name)
	if err != nil {
		return nil, fmt.Errorf("join topic %q: %w", name, err)
	}
	p.topics[name] = t
	return t, nil
}

type mdnsNotifee struct {
	host    host.Host
	log     *slog.Logger
	timeout time.Duration
}

func (n *mdnsNotifee) HandlePeerFound(info peer.AddrInfo) {
	if info.ID == n.host.ID() {
		return
	}
	ctx, cancel := connectContext(context.Background(), n.timeout)
	defer cancel()
	if err := n.host.Connect(ctx, info); err != nil {
		n.log.Debug("mdns connect failed", "peer", info.ID.String(), "error", err)
		return
	}
	n.log.Debug("mdns peer connected", "peer", info.ID.String())
}

func connectContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, timeout)
}

func parseMultiaddrs(raw []string) ([]ma.Multiaddr, error) {
	out := make([]ma.Multiaddr, 0, len(raw))
	for _, s := range raw {
		if s == "" {
			continue
		}
		a, err := ma.NewMultiaddr(s)
		if err != nil {
			return nil, fmt.Errorf("invalid listen multiaddr %q: %w", s, err)
		}
		out = append(out, a)
	}
	return out, nil
}

func loadOrCreateIdentityKey(path string) (crypto.PrivKey, error) {
	if b, err := os.ReadFile(path); err == nil && len(b) > 0 {
		key, err := crypto.UnmarshalPrivateKey(b)
		if err != nil {
			return nil, fmt.Errorf("unmarshal private key: %w", err)
		}
		return key, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir key dir: %w", err)
	}
	key, _, err := crypto.GenerateEd25519Key(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate ed25519 key: %w", err)
	}
	raw, err := crypto.MarshalPrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("marshal private key: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return nil, fmt.Errorf("write private key: %w", err)
	}
	return key, nil
}
