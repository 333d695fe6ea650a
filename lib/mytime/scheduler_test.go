package mytime

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRealScheduler(t *testing.T) {
	t.Run("Fires after delay", func(t *testing.T) {
		wg := sync.WaitGroup{}
		wg.Add(1)
		RealScheduler{}.AfterFunc(time.Millisecond, wg.Done)
		wg.Wait()
	})

	t.Run("Cancelled before delay", func(t *testing.T) {
		fired := make(chan struct{}, 1)
		cancel := RealScheduler{}.AfterFunc(time.Hour, func() { fired <- struct{}{} })
		assert.True(t, cancel())
		assert.False(t, cancel())
		assert.Len(t, fired, 0)
	})
}

func TestFakeScheduler(t *testing.T) {
	s := NewFakeScheduler()
	count := 0

	cancel := s.AfterFunc(2*time.Second, func() { count++ })
	s.AfterFunc(time.Second, func() { count += 10 })
	assert.Equal(t, []time.Duration{2 * time.Second, time.Second}, s.Pending())

	assert.True(t, cancel())
	assert.Equal(t, []time.Duration{time.Second}, s.Pending())

	assert.Equal(t, 1, s.FireAll())
	assert.Equal(t, 10, count)
	assert.Empty(t, s.Pending())
	assert.Equal(t, 0, s.FireAll())
}

func TestFakeSchedulerStale(t *testing.T) {
	s := NewFakeScheduler()
	count := 0

	cancel := s.AfterFunc(time.Second, func() { count++ })
	assert.True(t, cancel())

	assert.Equal(t, 1, s.FireStale())
	assert.Equal(t, 1, count)
	assert.False(t, cancel())
}
