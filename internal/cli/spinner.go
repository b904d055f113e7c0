package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Spinner display timing. A spinner shown for less than minDisplay flickers,
// so Stop holds it visible until the minimum has elapsed. maxDisplay bounds
// how long a stuck load may occupy the line; after that the spinner hides on
// its own while the load keeps running.
const (
	spinnerMinDisplay = 400 * time.Millisecond
	spinnerMaxDisplay = 5 * time.Second
)

// Spinner is a single-use progress indicator with a one-way lifecycle:
// Showing from Start until it hides, then Hidden forever. Hiding happens on
// Stop (no earlier than minDisplay after Start) or when maxDisplay elapses,
// whichever comes first.
type Spinner struct {
	message    string
	out        io.Writer
	minDisplay time.Duration
	maxDisplay time.Duration
	frames     []string

	mu       sync.Mutex
	started  time.Time
	hidden   bool
	stopOnce sync.Once
	done     chan struct{}
	stopped  chan struct{}
}

// newSpinner creates a new spinner with the given message, writing to stderr.
func newSpinner(message string) *Spinner {
	return &Spinner{
		message:    message,
		out:        os.Stderr,
		minDisplay: spinnerMinDisplay,
		maxDisplay: spinnerMaxDisplay,
		frames:     []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
		done:       make(chan struct{}),
		stopped:    make(chan struct{}),
	}
}

// Start begins the spinner animation.
func (s *Spinner) Start() {
	s.mu.Lock()
	s.started = time.Now()
	s.mu.Unlock()

	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()
		ceiling := time.NewTimer(s.maxDisplay)
		defer ceiling.Stop()

		i := 0
		for {
			select {
			case <-s.done:
				s.hide()
				return
			case <-ceiling.C:
				s.hide()
				return
			case <-ticker.C:
				s.mu.Lock()
				if !s.hidden {
					frame := s.frames[i%len(s.frames)]
					fmt.Fprintf(s.out, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(s.message))
				}
				s.mu.Unlock()
				i++
			}
		}
	}()
}

// Stop hides the spinner, waiting out the minimum display time first.
// It blocks until the line is cleared and is safe to call more than once.
func (s *Spinner) Stop() {
	s.mu.Lock()
	remaining := s.minDisplay - time.Since(s.started)
	alreadyHidden := s.hidden
	s.mu.Unlock()

	if remaining > 0 && !alreadyHidden {
		time.Sleep(remaining)
	}

	s.stopOnce.Do(func() { close(s.done) })
	<-s.stopped
}

// Hidden reports whether the spinner has left the screen.
func (s *Spinner) Hidden() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hidden
}

// hide clears the spinner line exactly once.
func (s *Spinner) hide() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hidden {
		return
	}
	s.hidden = true
	fmt.Fprintf(s.out, "\r%s\r", strings.Repeat(" ", len(s.message)+4))
}

// StopWithSuccess stops the spinner and shows a success message.
func (s *Spinner) StopWithSuccess(message string) {
	s.Stop()
	printSuccess("%s", message)
}

// StopWithError stops the spinner and shows an error message.
func (s *Spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}
