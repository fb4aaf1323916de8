package dds

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luluche1/rticonnextdds-getting-started/internal/core/network"
)

func newLibp2pTransport(t *testing.T, bootstrap []string) *network.Libp2pPubSub {
	t.Helper()
	tr, err := network.NewLibp2pPubSub(context.Background(), network.Libp2pOptions{
		ListenAddrs:    []string{"/ip4/127.0.0.1/tcp/0"},
		Bootstrap:      bootstrap,
		ConnectTimeout: 5 * time.Second,
		Linger:         300 * time.Millisecond,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = tr.Close() })
	return tr
}

func libp2pFactory(tr network.Transport) *ParticipantFactory {
	return NewParticipantFactory(func(context.Context, uint32) (network.Transport, error) {
		return tr, nil
	}, FactoryOptions{AnnouncePeriod: 100 * time.Millisecond})
}

func TestEntitiesAcrossLibp2pHosts(t *testing.T) {
	if testing.Short() {
		t.Skip("starts two libp2p hosts")
	}
	seed := newLibp2pTransport(t, nil)
	joiner := newLibp2pTransport(t, seed.ListenAddrs())

	fa := libp2pFactory(seed)
	fb := libp2pFactory(joiner)
	a := newParticipant(t, fa, 0)
	w := newWriter(t, a)
	b := newParticipant(t, fb, 0)
	r := newReader(t, b)

	require.Eventually(t, func() bool {
		return w.MatchedSubscriptions() == 1 && r.MatchedPublications() == 1 &&
			len(a.RemoteParticipants()) == 1 && len(b.RemoteParticipants()) == 1
	}, 20*time.Second, 50*time.Millisecond, "participants never discovered each other")
	assert.Equal(t, []string{b.GUID()}, a.RemoteParticipants())
	assert.Equal(t, []string{a.GUID()}, b.RemoteParticipants())

	var got []Sample[greeting]
	require.Eventually(t, func() bool {
		_ = w.Write(greeting{Msg: "over gossip"})
		if samples, err := r.Take(); err == nil {
			got = append(got, samples...)
		}
		return len(got) > 0
	}, 20*time.Second, 100*time.Millisecond, "no sample crossed hosts")
	assert.True(t, got[0].Info.ValidData)
	assert.Equal(t, "over gossip", got[0].Data.Msg)
	assert.Equal(t, w.GUID(), got[0].Info.WriterGUID)

	// Teardown on a must still reach b before a's host goes away.
	require.NoError(t, a.DeleteContainedEntities())
	require.NoError(t, fa.DeleteParticipant(a))

	notified := false
	require.Eventually(t, func() bool {
		if samples, err := r.Take(); err == nil {
			for _, s := range samples {
				if !s.Info.ValidData {
					notified = true
				}
			}
		}
		return notified && len(b.RemoteParticipants()) == 0
	}, 10*time.Second, 50*time.Millisecond, "instance notification or goodbye lost")
	assert.Equal(t, 0, r.MatchedPublications())
}
