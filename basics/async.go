package basics

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/specbasis/specbasis/framework"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const asyncDelay = time.Millisecond * 100

// DescribeAsync explains the ways a spec can wait for work done on other goroutines. Every spec
// is bounded by the run's default timeout, 5 seconds unless the configuration says otherwise; a
// spec still running after that fails with a timeout error.
func DescribeAsync(s *framework.Suite) {
	// ItAsync passes a done function to the spec. The spec is finished only when done is called,
	// which should happen after the asynchronous work is over and every expectation has been
	// checked. Calling done with an error fails the spec.
	s.ItAsync("(1) use a callback function to test asynchronous code", func(t *framework.T, done framework.Done) {
		time.AfterFunc(asyncDelay, func() {
			done(nil)
			// Use done(errors.New("msg")) to fail the spec from the callback if needed.
		})
	})

	// The usual Go way is to have the goroutine send its result on a channel and have the spec
	// wait for it. Selecting on t.Context().Done() as well keeps the spec from blocking forever;
	// the context is cancelled when the spec times out.
	s.It("(2) use channels to test asynchronous code", func(t *framework.T) {
		results := make(chan int, 1)
		go func() {
			time.Sleep(asyncDelay)
			results <- double(21)
		}()

		select {
		case v := <-results:
			assert.Equal(t, 42, v)
		case <-t.Context().Done():
			t.Fail("no result before the spec timed out")
		}
	})

	// When the code under test doesn't tell you it has finished, poll for the state you expect.
	// assert.Eventually checks the condition every tick until it holds or the wait runs out.
	s.It("(3) poll with assert.Eventually", func(t *framework.T) {
		var finished atomic.Bool
		go func() {
			time.Sleep(asyncDelay)
			finished.Store(true)
		}()

		assert.Eventually(t, finished.Load, time.Second, time.Millisecond*10)
	})

	// Another way to test code that waits is to not wait at all: give it a clock you control and
	// move that clock forward yourself. The code must take the clock as a dependency instead of
	// calling time.Now and time.After directly.
	s.It("(4) use a fake clock to wait a specific period of time", func(t *framework.T) {
		clock := newFakeClock(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))
		called := false
		clock.AfterFunc(asyncDelay, func() { called = true })
		assert.False(t, called)

		// wait
		clock.Advance(asyncDelay)

		assert.True(t, called)
	})

	// A goroutine can report a failure too, as long as it uses assert and not require: require
	// stops the spec by panicking, which only works on the spec's own goroutine.
	s.It("(5) collect errors from several goroutines", func(t *framework.T) {
		var wg sync.WaitGroup
		errs := make(chan error, 3)
		for i := 1; i <= 3; i++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				if double(n) != n*2 {
					errs <- errors.New("double is broken")
				}
			}(i)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}
	})
}

// fakeClock runs scheduled functions when Advance moves it past their time.
type fakeClock struct {
	now     time.Time
	pending []scheduledFunc
}

type scheduledFunc struct {
	at     time.Time
	action func()
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, action func()) {
	c.pending = append(c.pending, scheduledFunc{at: c.now.Add(d), action: action})
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
	var remaining []scheduledFunc
	for _, f := range c.pending {
		if f.at.After(c.now) {
			remaining = append(remaining, f)
		} else {
			f.action()
		}
	}
	c.pending = remaining
}
