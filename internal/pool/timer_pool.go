// Package pool provides pooled timers for the polling and refresh loops,
// avoiding a timer allocation per retry wait.
package pool

import (
	"sync"
	"time"
)

var timerPool sync.Pool

// GetTimer returns a timer for the given duration d from the pool.
//
// Return the timer to the pool with PutTimer once its channel has been
// consumed or the timer is no longer needed.
func GetTimer(d time.Duration) *time.Timer {
	if v := timerPool.Get(); v != nil {
		t, _ := v.(*time.Timer) // the pool only ever holds *time.Timer
		if t.Reset(d) {
			// Timer was still active, drain the channel to avoid a stale fire.
			select {
			case <-t.C:
			default:
			}
		}
		return t
	}
	return time.NewTimer(d)
}

// PutTimer returns timer to the pool.
//
// t must not be accessed after returning it to the pool.
func PutTimer(t *time.Timer) {
	if !t.Stop() {
		// Drain t.C if the caller has not consumed the fire yet.
		select {
		case <-t.C:
		default:
		}
	}
	timerPool.Put(t)
}
