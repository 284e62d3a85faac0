package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

const spinnerInterval = 80 * time.Millisecond

// spinnerElapsedAfter is when the spinner starts showing elapsed time.
const spinnerElapsedAfter = 2 * time.Second

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner draws a one-line progress indicator on stderr while a layout or
// render runs. It ends on Stop or when its context is cancelled.
type Spinner struct {
	out     io.Writer
	msg     atomic.Pointer[string]
	ctx     context.Context
	cancel  context.CancelFunc
	running atomic.Bool
	done    chan struct{}
	stop    sync.Once
}

func newSpinnerWithContext(ctx context.Context, msg string) *Spinner {
	ctx, cancel := context.WithCancel(ctx)
	s := &Spinner{out: os.Stderr, ctx: ctx, cancel: cancel, done: make(chan struct{})}
	s.msg.Store(&msg)
	return s
}

// SetMessage replaces the text shown next to the spinner.
func (s *Spinner) SetMessage(msg string) { s.msg.Store(&msg) }

func (s *Spinner) Start() {
	if !s.running.CompareAndSwap(false, true) {
		return
	}
	go s.loop()
}

func (s *Spinner) loop() {
	defer close(s.done)
	tick := time.NewTicker(spinnerInterval)
	defer tick.Stop()

	start := time.Now()
	width := 0
	for frame := 0; ; frame++ {
		select {
		case <-s.ctx.Done():
			fmt.Fprintf(s.out, "\r%*s\r", width, "")
			return
		case <-tick.C:
		}
		line := *s.msg.Load()
		if d := time.Since(start); d >= spinnerElapsedAfter {
			line = fmt.Sprintf("%s (%ds)", line, int(d.Seconds()))
		}
		out := styleIconSpinner.Render(spinnerFrames[frame%len(spinnerFrames)]) + " " + StyleDim.Render(line)
		// Pad over the previous frame in case the message got shorter.
		n := len([]rune(line)) + 2
		fmt.Fprintf(s.out, "\r%s%*s", out, max(width-n, 0), "")
		width = max(width, n)
	}
}

// Stop ends the animation and clears the line. Calling it again, or on a
// spinner that never started, is a no-op.
func (s *Spinner) Stop() {
	s.stop.Do(func() {
		s.cancel()
		if s.running.Load() {
			<-s.done
		}
	})
}

func (s *Spinner) StopWithSuccess(msg string) {
	s.Stop()
	printSuccess("%s", msg)
}

func (s *Spinner) StopWithError(msg string) {
	s.Stop()
	printError("%s", msg)
}

// Cancelled reports whether the spinner's context has ended, through Stop
// or through its parent.
func (s *Spinner) Cancelled() bool { return s.ctx.Err() != nil }
