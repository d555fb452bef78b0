package hub_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"smartbin"
	"smartbin/internal/hub"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSnapshot struct {
	bins []smartbin.Bin
	err  error
}

func (s staticSnapshot) ListAll(ctx context.Context) ([]smartbin.Bin, error) {
	return s.bins, s.err
}

func fleet(ids ...int) []smartbin.Bin {
	bins := make([]smartbin.Bin, 0, len(ids))
	for _, id := range ids {
		bins = append(bins, smartbin.Bin{BinID: id, Location: "Test Site", FillLevel: 50})
	}
	return bins
}

func TestHub_Connect_DeliversSnapshotFirst(t *testing.T) {
	h := hub.New(staticSnapshot{bins: fleet(1, 2, 3)}, nil)

	s, err := h.Connect(context.Background())
	require.NoError(t, err)
	defer h.Disconnect(s)

	ev := <-s.Events()
	assert.Equal(t, smartbin.EventInitialData, ev.Type)
	require.Len(t, ev.Bins, 3)
	assert.Equal(t, 1, ev.Bins[0].BinID)
	assert.Equal(t, 3, ev.Bins[2].BinID)
}

func TestHub_Connect_SnapshotFailureRejectsSession(t *testing.T) {
	h := hub.New(staticSnapshot{err: errors.New("store offline")}, nil)

	s, err := h.Connect(context.Background())
	require.Error(t, err)
	assert.Nil(t, s)
	assert.Equal(t, 0, h.SessionCount())
}

func TestHub_Broadcast_ReachesEverySession(t *testing.T) {
	h := hub.New(staticSnapshot{bins: fleet(1)}, nil)

	a, err := h.Connect(context.Background())
	require.NoError(t, err)
	b, err := h.Connect(context.Background())
	require.NoError(t, err)
	defer h.Disconnect(a)
	defer h.Disconnect(b)

	// Drain both snapshots first.
	<-a.Events()
	<-b.Events()

	h.Broadcast(smartbin.NewBinDeleted(1))

	for _, s := range []*hub.Session{a, b} {
		ev := <-s.Events()
		assert.Equal(t, smartbin.EventBinDeleted, ev.Type)
		assert.Equal(t, 1, ev.BinID)
	}
}

func TestHub_Disconnect_RemovesAndCloses(t *testing.T) {
	h := hub.New(staticSnapshot{}, nil)

	s, err := h.Connect(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, h.SessionCount())

	h.Disconnect(s)
	assert.Equal(t, 0, h.SessionCount())

	// Drain the snapshot, then the stream must report closed.
	<-s.Events()
	_, open := <-s.Events()
	assert.False(t, open)

	// Disconnecting twice is safe.
	h.Disconnect(s)
}

// racingSnapshot fires a concurrent broadcast while the connect-time
// snapshot is being read.
type racingSnapshot struct {
	h    *hub.Hub
	bins []smartbin.Bin
	ev   smartbin.ChangeEvent

	sent chan struct{}
}

func (s *racingSnapshot) ListAll(ctx context.Context) ([]smartbin.Bin, error) {
	go func() {
		s.h.Broadcast(s.ev)
		close(s.sent)
	}()
	// Let the broadcast run before the snapshot returns.
	time.Sleep(50 * time.Millisecond)
	return s.bins, nil
}

func TestHub_Connect_BroadcastDuringSnapshotStillDelivered(t *testing.T) {
	added := smartbin.Bin{BinID: 7, Location: "Loading Dock", FillLevel: 0}
	snap := &racingSnapshot{
		bins: fleet(1, 2),
		ev:   smartbin.NewBinAdded(added),
		sent: make(chan struct{}),
	}
	h := hub.New(snap, nil)
	snap.h = h

	s, err := h.Connect(context.Background())
	require.NoError(t, err)
	defer h.Disconnect(s)

	select {
	case <-snap.sent:
	case <-time.After(5 * time.Second):
		t.Fatal("concurrent broadcast never completed")
	}

	first := <-s.Events()
	require.Equal(t, smartbin.EventInitialData, first.Type)

	// Bin 7 must surface exactly once: either already in the snapshot or as
	// the bin_added event right after it.
	inSnapshot := false
	for _, b := range first.Bins {
		if b.BinID == 7 {
			inSnapshot = true
		}
	}
	if !inSnapshot {
		select {
		case ev := <-s.Events():
			require.Equal(t, smartbin.EventBinAdded, ev.Type)
			require.NotNil(t, ev.Bin)
			assert.Equal(t, 7, ev.Bin.BinID)
		case <-time.After(5 * time.Second):
			t.Fatal("bin 7 neither in the snapshot nor delivered afterward")
		}
	}
}

func TestHub_Broadcast_SkipsSaturatedSession(t *testing.T) {
	h := hub.New(staticSnapshot{}, nil)

	slow, err := h.Connect(context.Background())
	require.NoError(t, err)
	defer h.Disconnect(slow)

	// Nobody reads: fill the buffer past capacity. The loop must not block.
	for i := 0; i < 100; i++ {
		h.Broadcast(smartbin.NewFillLevelUpdate(1, i))
	}

	live, err := h.Connect(context.Background())
	require.NoError(t, err)
	defer h.Disconnect(live)

	<-live.Events() // snapshot
	h.Broadcast(smartbin.NewBinDeleted(9))
	ev := <-live.Events()
	assert.Equal(t, smartbin.EventBinDeleted, ev.Type)
}
