package preview

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tonekit/tonekit/internal/a11y"
	"github.com/tonekit/tonekit/internal/palette"
	"github.com/tonekit/tonekit/internal/store"
)

func TestService_InitialSnapshot(t *testing.T) {
	svc := NewService(store.New(nil, nil), time.Millisecond)
	defer svc.Close()

	snap := svc.Snapshot()
	assert.Equal(t, uint64(1), snap.Version)
	assert.Len(t, snap.Tree.Families, len(palette.DefaultFamilies()))
	for _, m := range palette.Modes {
		assert.Len(t, snap.Indicators[m], len(palette.DefaultFamilies())*(len(palette.Steps)-1))
	}
}

func TestService_FlushCoalescesMutations(t *testing.T) {
	st := store.New(nil, nil)
	svc := NewService(st, time.Hour)
	defer svc.Close()

	for i := 0; i < 5; i++ {
		_, err := st.SetBase("primary", palette.HSL{H: float64(200 + i), S: 50, L: 50})
		require.NoError(t, err)
	}
	assert.Equal(t, uint64(1), svc.Snapshot().Version)

	svc.Flush()
	snap := svc.Snapshot()
	assert.Equal(t, uint64(2), snap.Version)
	assert.Equal(t, 204.0, snap.Tree.Families[0].Family.H)

	svc.Flush()
	assert.Equal(t, uint64(2), svc.Snapshot().Version)
}

func TestService_FixShowsUpInSnapshot(t *testing.T) {
	st := store.New(nil, nil)
	svc := NewService(st, time.Hour)
	defer svc.Close()

	before := svc.Snapshot().Failing(palette.ModeLight)
	require.Greater(t, before, 0)

	_, err := a11y.NewCorrector(st).FixAll(palette.ModeLight)
	require.NoError(t, err)
	svc.Flush()

	assert.Equal(t, 0, svc.Snapshot().Failing(palette.ModeLight))
}

func TestService_RunBroadcasts(t *testing.T) {
	st := store.New(nil, nil)
	svc := NewService(st, 5*time.Millisecond)
	defer svc.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := svc.StreamEvents(ctx)
	go func() { _ = svc.Run(ctx) }()

	require.NoError(t, st.ResetOverrides())

	select {
	case ev := <-events:
		assert.Equal(t, EventPalette, ev.Type)
		assert.Equal(t, uint64(2), ev.Version)
		assert.Contains(t, ev.Failing, palette.ModeDark)
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
	}
}

func TestService_IndicatorOnlyPass(t *testing.T) {
	svc := NewService(store.New(nil, nil), time.Hour)
	defer svc.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := svc.StreamEvents(ctx)

	svc.RequestIndicators()
	svc.Flush()

	ev := <-events
	assert.Equal(t, EventIndicators, ev.Type)
}

func TestService_StreamClosesOnCancel(t *testing.T) {
	svc := NewService(store.New(nil, nil), time.Hour)
	defer svc.Close()

	ctx, cancel := context.WithCancel(context.Background())
	events := svc.StreamEvents(ctx)
	cancel()

	select {
	case _, ok := <-events:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("listener not closed")
	}
}
