// Package preview keeps a cached, regenerated view of the palette and fans
// change notifications out to live listeners.
package preview

import (
	"context"
	"sync"
	"time"

	"github.com/tonekit/tonekit/internal/a11y"
	"github.com/tonekit/tonekit/internal/palette"
	"github.com/tonekit/tonekit/internal/refresh"
	"github.com/tonekit/tonekit/internal/store"
	"github.com/tonekit/tonekit/internal/utils"
)

// Event types sent to listeners.
const (
	EventPalette    = "palette"
	EventIndicators = "indicators"
)

// Snapshot is one regeneration of the whole palette.
type Snapshot struct {
	Version    uint64                            `json:"version"`
	Generated  time.Time                         `json:"generated"`
	Tree       palette.Tree                      `json:"tree"`
	Indicators map[palette.Mode][]a11y.Indicator `json:"indicators"`
}

// Failing counts failing foregrounds in one mode.
func (s Snapshot) Failing(mode palette.Mode) int {
	n := 0
	for _, ind := range s.Indicators[mode] {
		if !ind.On.Passing() {
			n++
		}
		if !ind.OnAlt.Passing() {
			n++
		}
	}
	return n
}

// Event notifies listeners that a new snapshot is available.
type Event struct {
	Type    string               `json:"type"`
	Version uint64               `json:"version"`
	Failing map[palette.Mode]int `json:"failing"`
}

// Service regenerates snapshots on store changes, at most once per tick.
type Service struct {
	store     *store.Store
	coalescer *refresh.Coalescer
	interval  time.Duration

	snapMu sync.RWMutex
	snap   Snapshot

	listeners  []chan Event
	listenerMu sync.Mutex

	unsubscribe func()
}

// NewService builds the first snapshot and starts following st.
func NewService(st *store.Store, interval time.Duration) *Service {
	s := &Service{
		store:     st,
		coalescer: refresh.New(),
		interval:  interval,
	}
	s.rebuild(refresh.Flags{Regenerate: true, UpdateIndicators: true})
	s.unsubscribe = st.Subscribe(func(store.Event) {
		s.coalescer.Request(refresh.Flags{Regenerate: true, UpdateIndicators: true})
	})
	return s
}

// Snapshot returns the latest snapshot.
func (s *Service) Snapshot() Snapshot {
	s.snapMu.RLock()
	defer s.snapMu.RUnlock()
	return s.snap
}

// RequestIndicators schedules an indicator-only pass.
func (s *Service) RequestIndicators() {
	s.coalescer.Request(refresh.Flags{UpdateIndicators: true})
}

// Run processes pending refreshes until ctx is cancelled.
func (s *Service) Run(ctx context.Context) error {
	return s.coalescer.Run(ctx, s.interval, s.apply)
}

// Flush applies pending work immediately. Request handlers call it so the
// next read reflects their own mutation.
func (s *Service) Flush() {
	if f, ok := s.coalescer.Take(); ok {
		s.apply(f)
	}
}

func (s *Service) apply(f refresh.Flags) {
	snap := s.rebuild(f)
	ev := Event{Type: EventIndicators, Version: snap.Version, Failing: map[palette.Mode]int{}}
	if f.Regenerate {
		ev.Type = EventPalette
	}
	for _, m := range palette.Modes {
		ev.Failing[m] = snap.Failing(m)
	}
	utils.Debug("preview: snapshot v%d (%s)", snap.Version, ev.Type)
	s.broadcast(ev)
}

func (s *Service) rebuild(f refresh.Flags) Snapshot {
	s.snapMu.Lock()
	defer s.snapMu.Unlock()

	next := s.snap
	if f.Regenerate || next.Indicators == nil {
		next.Tree = s.store.Tree()
	}
	if f.UpdateIndicators || f.Regenerate || next.Indicators == nil {
		next.Indicators = make(map[palette.Mode][]a11y.Indicator, len(palette.Modes))
		for _, m := range palette.Modes {
			next.Indicators[m] = a11y.CheckTree(next.Tree, m)
		}
	}
	next.Version++
	next.Generated = time.Now()
	s.snap = next
	return next
}

func (s *Service) broadcast(ev Event) {
	s.listenerMu.Lock()
	defer s.listenerMu.Unlock()
	for _, ch := range s.listeners {
		select {
		case ch <- ev:
		default:
			// Slow listener; it will pick up the next version.
		}
	}
}

// StreamEvents returns a channel of snapshot events. The channel is closed
// when ctx is done or the service is closed.
func (s *Service) StreamEvents(ctx context.Context) <-chan Event {
	ch := make(chan Event, 16)

	s.listenerMu.Lock()
	s.listeners = append(s.listeners, ch)
	s.listenerMu.Unlock()

	go func() {
		<-ctx.Done()
		s.listenerMu.Lock()
		defer s.listenerMu.Unlock()
		for i, listener := range s.listeners {
			if listener == ch {
				s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
				close(ch)
				break
			}
		}
	}()
	return ch
}

// Close detaches from the store and closes every listener.
func (s *Service) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
	s.listenerMu.Lock()
	for _, ch := range s.listeners {
		close(ch)
	}
	s.listeners = nil
	s.listenerMu.Unlock()
}
