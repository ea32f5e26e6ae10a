package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

const (
	spinnerFrames = "⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏"
	spinnerTick   = 80 * time.Millisecond
)

// spinner animates a status line on w until it is stopped or ctx ends.
type spinner struct {
	w      io.Writer
	msg    string
	parent context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	once    sync.Once
	stopped chan struct{}
}

func startSpinner(ctx context.Context, w io.Writer, msg string) *spinner {
	inner, cancel := context.WithCancel(ctx)
	s := &spinner{w: w, msg: msg, parent: ctx, cancel: cancel, stopped: make(chan struct{})}
	go s.run(inner)
	return s
}

func (s *spinner) run(ctx context.Context) {
	defer close(s.stopped)
	t := time.NewTicker(spinnerTick)
	defer t.Stop()

	frames := []rune(spinnerFrames)
	for i := 0; ; i++ {
		select {
		case <-ctx.Done():
			s.clear()
			return
		case <-t.C:
			s.mu.Lock()
			fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(string(frames[i%len(frames)])), StyleDim.Render(s.msg))
			s.mu.Unlock()
		}
	}
}

func (s *spinner) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", len(s.msg)+4))
}

// stop ends the animation and clears the line. It may be called repeatedly.
func (s *spinner) stop() {
	s.once.Do(func() {
		s.cancel()
		<-s.stopped
	})
}

// fail stops the spinner and reports msg as an error.
func (s *spinner) fail(msg string) {
	s.stop()
	printError(s.w, "%s", msg)
}

// interrupted reports whether the spinner ended because its context did.
func (s *spinner) interrupted() bool { return s.parent.Err() != nil }
