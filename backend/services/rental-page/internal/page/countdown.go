package page

import (
	"fmt"
	"sync"
	"time"

	"energyrental/backend/services/rental-page/internal/schedule"
	"energyrental/backend/services/rental-page/internal/view"
)

// Countdown shows the remaining rental time as M:SS, ticking once per second.
type Countdown struct {
	el    view.Styled
	sched schedule.Scheduler

	mu  sync.Mutex
	run *countdownRun
}

type countdownRun struct {
	remaining int
	task      schedule.Task
	done      bool
}

// NewCountdown binds a countdown to el; a nil el makes Start a no-op.
func NewCountdown(el view.Styled, sched schedule.Scheduler) *Countdown {
	return &Countdown{el: el, sched: sched}
}

// Start renders minutes as M:SS and begins ticking. Each tick removes one second and shows
// what will be left once the next tick fires, so 0:00 marks the last second and the tick
// that uses it up stops the timer, shows the expired text and switches to danger styling.
// Starting again replaces the running countdown.
func (c *Countdown) Start(minutes int) {
	if c.el == nil {
		return
	}
	if minutes < 0 {
		minutes = 0
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()

	run := &countdownRun{remaining: minutes * 60}
	c.run = run
	c.el.SetTone(view.ToneSuccess)
	c.el.SetText(FormatClock(run.remaining))
	run.task = c.sched.Every(time.Second, func() { c.tick(run) })
}

// Stop cancels the running countdown without rendering.
func (c *Countdown) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
}

// Remaining returns the seconds left and whether a countdown is running.
func (c *Countdown) Remaining() (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.run == nil || c.run.done {
		return 0, false
	}
	return c.run.remaining, true
}

func (c *Countdown) stopLocked() {
	if c.run == nil {
		return
	}
	c.run.done = true
	if c.run.task != nil {
		c.run.task.Cancel()
	}
	c.run = nil
}

func (c *Countdown) tick(run *countdownRun) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if run.done {
		return
	}
	run.remaining--
	if run.remaining <= 0 {
		run.remaining = 0
		run.done = true
		run.task.Cancel()
		c.el.SetText(MsgExpired)
		c.el.SetTone(view.ToneDanger)
		return
	}
	c.el.SetText(FormatClock(run.remaining - 1))
}

// FormatClock renders seconds as M:SS.
func FormatClock(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
