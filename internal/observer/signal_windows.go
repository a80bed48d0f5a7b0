//go:build windows

package observer

import (
	"os"
	"time"

	"golang.org/x/term"
)

// pollInterval is how often the console size is checked; windows has no SIGWINCH.
const pollInterval = 500 * time.Millisecond

// DefaultWindowSignal polls the console size and calls fn when it changes.
func DefaultWindowSignal(fn func()) func() {
	done := make(chan struct{})
	finished := make(chan struct{})

	go func() {
		defer close(finished)
		ticker := time.NewTicker(pollInterval)
		defer ticker.Stop()

		lastWidth, lastHeight, _ := term.GetSize(int(os.Stdout.Fd()))
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				width, height, err := term.GetSize(int(os.Stdout.Fd()))
				if err != nil {
					continue
				}
				if width != lastWidth || height != lastHeight {
					lastWidth, lastHeight = width, height
					fn()
				}
			}
		}
	}()

	return func() {
		close(done)
		<-finished
	}
}
