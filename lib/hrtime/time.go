package hrtime

import "time"

var goMonotonicBase = time.Now()

var GoMonotonicClock Clock = goMonotonicClock{}

// goMonotonicClock relies on the monotonic reading carried by time.Time.
type goMonotonicClock struct{}

func (goMonotonicClock) Nanotime() int64 {
	return int64(time.Since(goMonotonicBase))
}

func (c goMonotonicClock) Since(begin int64) time.Duration {
	return time.Duration(c.Nanotime() - begin)
}

// Stopwatch accumulates laps, the benchmark averages them per trial.
//
//	sw := NewStopwatch(nil)
//	for trial := 0; trial < n; trial++ {
//	    sw.Start()
//	    work()
//	    sw.Lap()
//	}
//	avg := sw.Average()
type Stopwatch struct {
	clock   Clock
	begin   int64
	running bool
	laps    []time.Duration
}

// NewStopwatch uses the default clock of the platform if clock is nil.
func NewStopwatch(clock Clock) *Stopwatch {
	if clock == nil {
		clock = DefaultClock()
	}
	return &Stopwatch{
		clock: clock,
		laps:  make([]time.Duration, 0, 8),
	}
}

func (sw *Stopwatch) Start() {
	sw.begin = sw.clock.Nanotime()
	sw.running = true
}

// Lap records the time since Start and stops the stopwatch. A stopped
// stopwatch records nothing.
func (sw *Stopwatch) Lap() time.Duration {
	if !sw.running {
		return 0
	}
	d := sw.clock.Since(sw.begin)
	sw.laps = append(sw.laps, d)
	sw.running = false
	return d
}

func (sw *Stopwatch) Laps() []time.Duration {
	return sw.laps
}

func (sw *Stopwatch) Total() time.Duration {
	var total time.Duration
	for _, d := range sw.laps {
		total += d
	}
	return total
}

func (sw *Stopwatch) Average() time.Duration {
	if len(sw.laps) == 0 {
		return 0
	}
	return sw.Total() / time.Duration(len(sw.laps))
}

// Microseconds is the average lap in microseconds, with the fraction kept.
func (sw *Stopwatch) Microseconds() float64 {
	return float64(sw.Average()) / float64(time.Microsecond)
}

func (sw *Stopwatch) Reset() {
	sw.laps = sw.laps[:0]
	sw.running = false
}
