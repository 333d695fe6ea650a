package mytime

import (
	"sync"
	"time"
)

// Cancel stops a scheduled task. It reports false when the task already ran or was cancelled before.
type Cancel func() bool

// Scheduler runs a function once after a delay.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Cancel
}

type RealScheduler struct{}

func (s RealScheduler) AfterFunc(d time.Duration, f func()) Cancel {
	timer := time.AfterFunc(d, f)
	return timer.Stop
}

// FakeScheduler keeps tasks until the test fires them explicitly.
type FakeScheduler struct {
	sync.Mutex
	tasks []*fakeTask
}

type fakeTask struct {
	delay     time.Duration
	f         func()
	done      bool
	cancelled bool
}

func NewFakeScheduler() *FakeScheduler {
	return &FakeScheduler{}
}

func (s *FakeScheduler) AfterFunc(d time.Duration, f func()) Cancel {
	s.Lock()
	defer s.Unlock()

	task := &fakeTask{delay: d, f: f}
	s.tasks = append(s.tasks, task)

	return func() bool {
		s.Lock()
		defer s.Unlock()

		if task.done || task.cancelled {
			return false
		}
		task.cancelled = true
		return true
	}
}

// Pending returns the delays of tasks that are neither fired nor cancelled.
func (s *FakeScheduler) Pending() []time.Duration {
	s.Lock()
	defer s.Unlock()

	delays := []time.Duration{}
	for _, t := range s.tasks {
		if !t.done && !t.cancelled {
			delays = append(delays, t.delay)
		}
	}
	return delays
}

// FireAll runs every pending task and returns how many ran.
func (s *FakeScheduler) FireAll() int {
	s.Lock()
	toRun := []*fakeTask{}
	for _, t := range s.tasks {
		if !t.done && !t.cancelled {
			t.done = true
			toRun = append(toRun, t)
		}
	}
	s.Unlock()

	for _, t := range toRun {
		t.f()
	}
	return len(toRun)
}

// FireStale runs every task, including cancelled ones, to mimic a timer that fired while being stopped.
func (s *FakeScheduler) FireStale() int {
	s.Lock()
	toRun := []*fakeTask{}
	for _, t := range s.tasks {
		if !t.done {
			t.done = true
			toRun = append(toRun, t)
		}
	}
	s.Unlock()

	for _, t := range toRun {
		t.f()
	}
	return len(toRun)
}
