// Package schedule runs delayed and repeating callbacks that can be cancelled.
package schedule

import (
	"sync"
	"sync/atomic"
	"time"
)

// Task is a cancellation token for a scheduled callback. Cancel is idempotent and safe to
// call from inside the callback itself.
type Task interface {
	Cancel()
}

// Scheduler schedules callbacks.
type Scheduler interface {
	// After runs fn once after d.
	After(d time.Duration, fn func()) Task
	// Every runs fn every d until the task is cancelled. Calls never overlap.
	Every(d time.Duration, fn func()) Task
}

// System schedules on the wall clock.
type System struct{}

// NewSystem returns a wall-clock scheduler.
func NewSystem() *System {
	return &System{}
}

type onceTask struct {
	cancelled atomic.Bool
	timer     *time.Timer
}

func (t *onceTask) Cancel() {
	if t.cancelled.CompareAndSwap(false, true) {
		t.timer.Stop()
	}
}

// After implements Scheduler.
func (s *System) After(d time.Duration, fn func()) Task {
	t := &onceTask{}
	t.timer = time.AfterFunc(d, func() {
		if t.cancelled.Load() {
			return
		}
		fn()
	})
	return t
}

type repeatTask struct {
	once sync.Once
	done chan struct{}
}

func (t *repeatTask) Cancel() {
	t.once.Do(func() { close(t.done) })
}

// Every implements Scheduler.
func (s *System) Every(d time.Duration, fn func()) Task {
	t := &repeatTask{done: make(chan struct{})}
	go func() {
		ticker := time.NewTicker(d)
		defer ticker.Stop()
		for {
			select {
			case <-t.done:
				return
			case <-ticker.C:
				select {
				case <-t.done:
					return
				default:
				}
				fn()
			}
		}
	}()
	return t
}
