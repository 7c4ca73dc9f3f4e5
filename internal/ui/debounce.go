package ui

import (
	"sync"
	"time"
)

// Debounce returns a function that delays fn until wait has passed without
// another call. Each call restarts the timer, so only the last call in a
// burst fires, with that call's argument.
func Debounce[T any](fn func(T), wait time.Duration) func(T) {
	var (
		mu    sync.Mutex
		timer *time.Timer
	)
	return func(arg T) {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(wait, func() { fn(arg) })
	}
}
