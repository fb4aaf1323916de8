package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/luluche1/rticonnextdds-getting-started/internal/config"
	"github.com/luluche1/rticonnextdds-getting-started/internal/core/network"
	"github.com/luluche1/rticonnextdds-getting-started/internal/dds"
)

// TransportOpener returns the dds.Opener selected by the transport profile.
func TransportOpener(cfg *config.Config, logger *slog.Logger) (dds.Opener, error) {
	t := cfg.Transport
	switch t.Kind {
	case config.KindMemory:
		bus := network.NewMemoryPubSub()
		return func(context.Context, uint32) (network.Transport, error) {
			return bus.Shared(), nil
		}, nil
	case config.KindNATS:
		return func(_ context.Context, domainID uint32) (network.Transport, error) {
			ps, err := network.NewNATSPubSub(network.NATSOptions{
				URL:            t.NATS.URL,
				Name:           fmt.Sprintf("getting-started-domain-%d", domainID),
				ConnectTimeout: t.NATS.ConnectTimeout,
				Logger:         logger,
			})
			if err != nil {
				return nil, err
			}
			return ps, nil
		}, nil
	case config.KindLibp2p:
		return func(ctx context.Context, domainID uint32) (network.Transport, error) {
			// The host must outlive run-loop cancellation so teardown can still publish.
			ps, err := network.NewLibp2pPubSub(context.WithoutCancel(ctx), network.Libp2pOptions{
				ListenAddrs:     t.Libp2p.ListenAddrs,
				Bootstrap:       t.Libp2p.Bootstrap,
				Rendezvous:      fmt.Sprintf("rti-getting-started-domain-%d", domainID),
				EnableMDNS:      t.Libp2p.MDNSEnabled(),
				IdentityKeyFile: t.Libp2p.IdentityKeyFile,
				ConnectTimeout:  t.Libp2p.ConnectTimeout,
				Linger:          t.Libp2p.Linger,
				Logger:          logger,
			})
			if err != nil {
				return nil, err
			}
			return ps, nil
		}, nil
	default:
		return nil, fmt.Errorf("unknown transport kind %q", t.Kind)
	}
}
