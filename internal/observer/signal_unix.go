//go:build !windows

package observer

import (
	"os"
	"os/signal"
	"syscall"
)

// DefaultWindowSignal delivers SIGWINCH to fn until stopped.
func DefaultWindowSignal(fn func()) func() {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGWINCH)
	done := make(chan struct{})
	finished := make(chan struct{})

	go func() {
		defer close(finished)
		for {
			select {
			case <-done:
				return
			case <-ch:
				fn()
			}
		}
	}()

	return func() {
		signal.Stop(ch)
		close(done)
		<-finished
	}
}
