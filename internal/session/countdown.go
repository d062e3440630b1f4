package session

import (
	"sync"
	"time"
)

type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type realTicker struct {
	t *time.Ticker
}

func NewTicker(d time.Duration) Ticker {
	return &realTicker{t: time.NewTicker(d)}
}

func (r *realTicker) C() <-chan time.Time { return r.t.C }
func (r *realTicker) Stop()               { r.t.Stop() }

// Countdown decrements once per tick until it reaches zero, then calls
// onExpire exactly once. Callbacks run on the countdown goroutine.
type Countdown struct {
	ticker   Ticker
	onTick   func(remaining int)
	onExpire func()

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

func StartCountdown(seconds int, ticker Ticker, onTick func(remaining int), onExpire func()) *Countdown {
	c := &Countdown{
		ticker:   ticker,
		onTick:   onTick,
		onExpire: onExpire,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go c.run(seconds)
	return c
}

func (c *Countdown) run(remaining int) {
	defer close(c.done)
	defer c.ticker.Stop()

	if remaining <= 0 {
		c.onExpire()
		return
	}

	for {
		select {
		case <-c.stop:
			return
		case <-c.ticker.C():
			remaining--
			if c.onTick != nil {
				c.onTick(remaining)
			}
			if remaining == 0 {
				c.onExpire()
				return
			}
		}
	}
}

// Stop cancels the countdown and waits for its goroutine to exit. It is safe
// to call more than once, but never from inside a callback.
func (c *Countdown) Stop() {
	c.stopOnce.Do(func() { close(c.stop) })
	<-c.done
}

func (c *Countdown) Done() <-chan struct{} {
	return c.done
}
