// Package screen runs the display-side synchronization loop: a bound
// category is polled on a fixed interval and the local playback state is
// reconciled against whatever the server reports.
package screen

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/oyarzun/hoteltv/screens"
	"github.com/oyarzun/hoteltv/store"
)

const DefaultPollInterval = 5 * time.Second

// Fetcher reads the current state row for a category.
type Fetcher interface {
	GetScreen(ctx context.Context, cat string) (*store.ScreenState, error)
}

// Rotator pushes a rotation change back to the server. Optional; only
// needed when the display offers a local rotate control.
type Rotator interface {
	SetRotation(ctx context.Context, cat string, degrees int) (*store.ScreenState, error)
}

// Display is the playback surface the loop reconciles. Implementations must
// tolerate repeated rotations but can assume ApplySource is only called
// when the source actually changed.
type Display interface {
	ApplySource(ref string) error
	ClearSource() error
	ApplyRotation(degrees int) error
}

type State int

const (
	StateInitializing State = iota
	StateWaiting
	StatePlaying
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateWaiting:
		return "waiting"
	case StatePlaying:
		return "playing"
	default:
		return "unknown"
	}
}

type Poller struct {
	fetcher  Fetcher
	rotator  Rotator
	display  Display
	interval time.Duration
}

func NewPoller(fetcher Fetcher, rotator Rotator, display Display, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{
		fetcher:  fetcher,
		rotator:  rotator,
		display:  display,
		interval: interval,
	}
}

// Subscription is the handle for one bound category. The loop keeps running
// until Stop is called; rebinding to another category requires stopping the
// old subscription first so two loops never poll at once.
type Subscription struct {
	poller   *Poller
	category string

	cancel context.CancelFunc
	done   chan struct{}

	mu              sync.Mutex
	state           State
	appliedRef      string
	appliedRotation int
	rotationKnown   bool
}

// Bind starts the polling loop for a category. The first fetch is issued
// immediately; subsequent fetches follow the fixed interval.
func (p *Poller) Bind(cat string) *Subscription {
	ctx, cancel := context.WithCancel(context.Background())
	sub := &Subscription{
		poller:   p,
		category: cat,
		cancel:   cancel,
		done:     make(chan struct{}),
		state:    StateInitializing,
	}
	go sub.run(ctx)
	return sub
}

func (s *Subscription) Category() string {
	return s.category
}

func (s *Subscription) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Stop cancels the loop and waits for the final tick to finish. After Stop
// returns no further fetches occur for this category.
func (s *Subscription) Stop() {
	s.cancel()
	<-s.done
}

// Rotate applies the rotation locally first so the guest-facing screen
// responds immediately, then pushes it to the server. A concurrent rotate
// from another client may overwrite it; the next poll tick settles the
// value either way.
func (s *Subscription) Rotate(ctx context.Context, degrees int) error {
	if s.poller.rotator == nil {
		return errors.New("no rotator configured")
	}
	normalized, err := screens.NormalizeRotation(degrees)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if err := s.poller.display.ApplyRotation(normalized); err != nil {
		s.mu.Unlock()
		return err
	}
	s.appliedRotation = normalized
	s.rotationKnown = true
	s.mu.Unlock()

	_, err = s.poller.rotator.SetRotation(ctx, s.category, normalized)
	return err
}

func (s *Subscription) run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.poller.interval)
	defer ticker.Stop()

	s.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

// tick fetches and reconciles once. Failures are logged and skipped; the
// loop never terminates on a bad fetch.
func (s *Subscription) tick(ctx context.Context) {
	fetchCtx, cancel := context.WithTimeout(ctx, s.poller.interval)
	state, err := s.poller.fetcher.GetScreen(fetchCtx, s.category)
	cancel()
	if err != nil {
		if ctx.Err() == nil {
			slog.Warn("fetch failed, retrying next tick", "category", s.category, "error", err)
		}
		return
	}

	s.reconcile(state)
}

func (s *Subscription) reconcile(remote *store.ScreenState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Rotation is independent of video changes and must not wait for one.
	if !s.rotationKnown || remote.RotationDegrees != s.appliedRotation {
		if err := s.poller.display.ApplyRotation(remote.RotationDegrees); err != nil {
			slog.Warn("unable to apply rotation", "category", s.category, "degrees", remote.RotationDegrees, "error", err)
		} else {
			s.appliedRotation = remote.RotationDegrees
			s.rotationKnown = true
		}
	}

	// Swap only on an actual reference change so an unchanged video is
	// never restarted mid-playback.
	if remote.VideoRef == s.appliedRef {
		if s.state == StateInitializing {
			if s.appliedRef == "" {
				s.state = StateWaiting
			} else {
				s.state = StatePlaying
			}
		}
		return
	}

	if remote.VideoRef == "" {
		if err := s.poller.display.ClearSource(); err != nil {
			slog.Warn("unable to clear display", "category", s.category, "error", err)
			return
		}
		s.appliedRef = ""
		s.state = StateWaiting
		slog.Info("video unassigned, display cleared", "category", s.category)
		return
	}

	if err := s.poller.display.ApplySource(remote.VideoRef); err != nil {
		slog.Warn("unable to swap video source", "category", s.category, "ref", remote.VideoRef, "error", err)
		return
	}
	s.appliedRef = remote.VideoRef
	s.state = StatePlaying
	slog.Info("video source swapped", "category", s.category, "ref", remote.VideoRef)
}
