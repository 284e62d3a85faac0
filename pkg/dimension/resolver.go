package dimension

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jonboulle/clockwork"

	"github.com/matzehuels/geomkit/pkg/geometry"
)

const (
	// FallbackHeight is used when neither the surface nor a parent has a height.
	FallbackHeight = 300.0

	// ParentHeightRatio is the share of the parent's height used as fallback.
	ParentHeightRatio = 0.8

	DefaultFrameDelay  = 16 * time.Millisecond
	DefaultPollDelay   = 10 * time.Millisecond
	DefaultDebounce    = 100 * time.Millisecond
	DefaultMaxAttempts = 100
)

// ErrNotRunning is returned by Notify when the run loop has exited.
var ErrNotRunning = errors.New("dimension: resolver not running")

// Surface is a drawing area measured by an external layout engine.
type Surface interface {
	// Measure returns the surface's own current size.
	Measure() geometry.Size
	// Parent returns the size of the enclosing container, if known.
	Parent() (geometry.Size, bool)
}

// Source identifies where a resize notification came from.
type Source int

const (
	// Element notifications report that the surface itself changed size.
	Element Source = iota
	// Viewport notifications report that the whole window changed size.
	Viewport
)

func (s Source) String() string {
	if s == Viewport {
		return "viewport"
	}
	return "element"
}

// Mode selects how the resolver reacts after the first measurement.
type Mode int

const (
	Continuous Mode = iota
	Settle
)

func (m Mode) String() string {
	if m == Settle {
		return "settle"
	}
	return "continuous"
}

// ModeFor maps the animationsEnabled chart option onto a resolver mode.
func ModeFor(animationsEnabled bool) Mode {
	if animationsEnabled {
		return Continuous
	}
	return Settle
}

// Option configures a Resolver.
type Option func(*Resolver)

func WithMode(m Mode) Option                { return func(r *Resolver) { r.mode = m } }
func WithClock(c clockwork.Clock) Option    { return func(r *Resolver) { r.clock = c } }
func WithLogger(l *log.Logger) Option       { return func(r *Resolver) { r.logger = l } }
func WithFrameDelay(d time.Duration) Option { return func(r *Resolver) { r.frameDelay = d } }
func WithPollDelay(d time.Duration) Option  { return func(r *Resolver) { r.pollDelay = d } }
func WithDebounce(d time.Duration) Option   { return func(r *Resolver) { r.debounce = d } }
func WithMaxAttempts(n int) Option          { return func(r *Resolver) { r.maxAttempts = n } }

// Resolver publishes stable sizes for a Surface.
type Resolver struct {
	surface Surface
	publish func(geometry.Size)

	mode        Mode
	clock       clockwork.Clock
	logger      *log.Logger
	frameDelay  time.Duration
	pollDelay   time.Duration
	debounce    time.Duration
	maxAttempts int

	requests chan request
	done     chan struct{}

	// Owned by the run loop.
	last geometry.Size
}

type request struct {
	source  Source
	handled chan struct{}
}

// New returns a resolver that calls publish from its run loop with each new
// stable size. publish must not call back into the resolver.
func New(s Surface, publish func(geometry.Size), opts ...Option) *Resolver {
	r := &Resolver{
		surface:     s,
		publish:     publish,
		mode:        Continuous,
		clock:       clockwork.NewRealClock(),
		logger:      log.New(io.Discard),
		frameDelay:  DefaultFrameDelay,
		pollDelay:   DefaultPollDelay,
		debounce:    DefaultDebounce,
		maxAttempts: DefaultMaxAttempts,
		requests:    make(chan request),
		done:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Mode returns the configured operating mode.
func (r *Resolver) Mode() Mode { return r.mode }

// Resolve measures the surface once, applying the height fallback. ok is
// false when the result is not publishable.
func Resolve(s Surface) (size geometry.Size, ok bool) {
	size = s.Measure()
	if size.Height == 0 {
		if p, has := s.Parent(); has && p.Height > 0 {
			size.Height = p.Height * ParentHeightRatio
		} else {
			size.Height = FallbackHeight
		}
	}
	return size, size.Width > 0 && size.Height > 0
}

// Run measures immediately and then serves notifications and timers until
// ctx is cancelled. Run must be called once.
func (r *Resolver) Run(ctx context.Context) error {
	defer close(r.done)

	var (
		frame, poll, debounce clockwork.Timer
		frameC, pollC, debC   <-chan time.Time
		attempts              int
	)
	defer func() {
		for _, t := range []clockwork.Timer{frame, poll, debounce} {
			if t != nil {
				t.Stop()
			}
		}
	}()

	r.measure("mount")
	if r.mode == Settle {
		frame = r.clock.NewTimer(r.frameDelay)
		frameC = frame.Chan()
	}

	// check re-measures during settling and schedules the next poll while
	// the surface itself still reports a zero axis.
	check := func(reason string) {
		r.measure(reason)
		raw := r.surface.Measure()
		if raw.Width > 0 && raw.Height > 0 {
			pollC = nil
			return
		}
		attempts++
		if attempts >= r.maxAttempts {
			r.logger.Debug("surface never resolved", "attempts", attempts)
			pollC = nil
			return
		}
		poll = r.clock.NewTimer(r.pollDelay)
		pollC = poll.Chan()
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-frameC:
			frameC = nil
			check("frame")

		case <-pollC:
			check("poll")

		case <-debC:
			debC = nil
			r.measure("viewport")

		case req := <-r.requests:
			switch {
			case r.mode == Continuous:
				r.measure(req.source.String())
			case req.source == Viewport:
				if debounce != nil {
					debounce.Stop()
				}
				debounce = r.clock.NewTimer(r.debounce)
				debC = debounce.Chan()
			}
			close(req.handled)
		}
	}
}

// Notify delivers a resize notification and returns once the run loop has
// handled it.
func (r *Resolver) Notify(ctx context.Context, src Source) error {
	req := request{source: src, handled: make(chan struct{})}
	select {
	case r.requests <- req:
	case <-r.done:
		return ErrNotRunning
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-req.handled:
		return nil
	case <-r.done:
		return ErrNotRunning
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Watch forwards notifications from ch until ch closes or ctx is cancelled.
func (r *Resolver) Watch(ctx context.Context, ch <-chan Source) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case src, ok := <-ch:
			if !ok {
				return nil
			}
			if err := r.Notify(ctx, src); err != nil {
				return err
			}
		}
	}
}

func (r *Resolver) measure(reason string) {
	size, ok := Resolve(r.surface)
	if !ok || size == r.last {
		return
	}
	r.last = size
	r.logger.Debug("resolved dimensions", "width", size.Width, "height", size.Height, "reason", reason, "mode", r.mode)
	r.publish(size)
}
