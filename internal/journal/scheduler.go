package journal

import "time"

// Timer is a scheduled task that can be cancelled before it fires.
type Timer interface {
	// Stop prevents the task from running. It reports false when the task
	// already fired or was stopped.
	Stop() bool
}

// Scheduler runs fn once after d has elapsed.
type Scheduler interface {
	Schedule(d time.Duration, fn func()) Timer
}

// TimeScheduler schedules on the runtime timer wheel.
type TimeScheduler struct{}

func (TimeScheduler) Schedule(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}
