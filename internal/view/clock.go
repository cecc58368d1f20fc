package view

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

const defaultTick = time.Second

// StatusLine formats now in the IANA zone tz as
// "Current Local Time (<tz>): HH:MM:SS". For an unknown zone it returns the
// viewer-local fallback line together with the lookup error.
func StatusLine(now time.Time, tz string) (string, error) {
	if tz == "" {
		return "Current Local Time: " + now.Local().Format(time.TimeOnly), errors.New("empty timezone")
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return "Current Local Time: " + now.Local().Format(time.TimeOnly), err
	}
	return fmt.Sprintf("Current Local Time (%s): %s", tz, now.In(loc).Format(time.TimeOnly)), nil
}

// Clock rewrites a status line every tick for one timezone. At most one tick
// goroutine exists per Clock: Start cancels the running one first, and Stop
// returns only after it has exited, so no write happens after Stop.
type Clock struct {
	write    func(string)
	log      *slog.Logger
	interval time.Duration
	now      func() time.Time

	// mu is held across Start and Stop, including the wait for the tick
	// goroutine. The goroutine itself never takes it.
	mu   sync.Mutex
	zone string
	stop chan struct{}
	done chan struct{}
}

// ClockOption customises a Clock.
type ClockOption func(*Clock)

// WithTick sets the rewrite interval. The default is one second.
func WithTick(d time.Duration) ClockOption {
	return func(c *Clock) {
		if d > 0 {
			c.interval = d
		}
	}
}

// WithNow replaces the time source.
func WithNow(now func() time.Time) ClockOption {
	return func(c *Clock) {
		if now != nil {
			c.now = now
		}
	}
}

// NewClock returns a stopped Clock that reports through write.
func NewClock(write func(string), log *slog.Logger, opts ...ClockOption) *Clock {
	c := &Clock{write: write, log: log, interval: defaultTick, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start shows the time in tz immediately and then on every tick, replacing
// any clock already running.
func (c *Clock) Start(tz string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopLocked()

	stop := make(chan struct{})
	done := make(chan struct{})
	c.zone, c.stop, c.done = tz, stop, done

	warned := c.tick(tz, false)
	go c.run(tz, stop, done, warned)
}

// Stop cancels the running clock, if any, and waits for it to exit.
func (c *Clock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
}

// Zone reports the timezone of the running clock.
func (c *Clock) Zone() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.zone, c.stop != nil
}

func (c *Clock) stopLocked() {
	if c.stop == nil {
		return
	}
	close(c.stop)
	<-c.done
	c.zone, c.stop, c.done = "", nil, nil
}

func (c *Clock) run(tz string, stop <-chan struct{}, done chan<- struct{}, warned bool) {
	defer close(done)

	t := time.NewTicker(c.interval)
	defer t.Stop()

	for {
		select {
		case <-stop:
			return
		case <-t.C:
			// A tick and a stop can be ready together; stop wins.
			select {
			case <-stop:
				return
			default:
			}
			warned = c.tick(tz, warned)
		}
	}
}

// tick writes one status line and reports whether a bad zone has been logged.
func (c *Clock) tick(tz string, warned bool) bool {
	line, err := StatusLine(c.now(), tz)
	if err != nil && !warned {
		c.log.Warn("timezone formatting failed, using local time", "timezone", tz, "err", err)
		warned = true
	}
	c.write(line)
	return warned
}
