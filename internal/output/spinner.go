package output

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

const spinnerInterval = 100 * time.Millisecond

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner redraws a single status line with the elapsed time until stopped.
// It is safe for concurrent use.
type Spinner struct {
	out io.Writer

	mu      sync.Mutex
	message string
	frame   int
	width   int
	started time.Time
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewSpinner creates a Spinner drawing on w, normally a terminal's stderr.
func NewSpinner(w io.Writer) *Spinner {
	return &Spinner{out: w}
}

// Start draws message and begins animating it. Starting a running spinner
// replaces its message and keeps the elapsed time.
func (s *Spinner) Start(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.message = message
	if s.cancel != nil {
		s.drawLocked()
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.started = time.Now()
	s.done = make(chan struct{})
	s.drawLocked()
	go s.run(ctx, s.done)
}

func (s *Spinner) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.mu.Lock()
			s.drawLocked()
			s.mu.Unlock()
		}
	}
}

// Stop ends the animation and erases the line. Stopping an idle spinner
// does nothing.
func (s *Spinner) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done

	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, "\r%s\r", strings.Repeat(" ", s.width))
	s.width = 0
}

func (s *Spinner) drawLocked() {
	line := fmt.Sprintf("%s %s (%s)", spinnerFrames[s.frame], s.message, time.Since(s.started).Truncate(time.Second))
	s.frame = (s.frame + 1) % len(spinnerFrames)

	pad := ""
	if n := len(line); n < s.width {
		pad = strings.Repeat(" ", s.width-n)
	} else {
		s.width = n
	}
	fmt.Fprintf(s.out, "\r%s%s", line, pad)
}
