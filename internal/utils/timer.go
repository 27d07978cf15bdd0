package utils

import "time"

// Timer measures wall-clock time from NewTimer (or Start) to Stop.
type Timer struct {
	startTime time.Time
	duration  time.Duration
}

func NewTimer() *Timer {
	return &Timer{startTime: time.Now()}
}

func (t *Timer) Start() {
	t.startTime = time.Now()
}

func (t *Timer) Stop() {
	t.duration = time.Since(t.startTime)
}

// GetDuration returns what the last Stop measured, or zero before any Stop.
func (t *Timer) GetDuration() time.Duration {
	return t.duration
}
