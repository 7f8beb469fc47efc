package timex

import "time"

// Clock supplies "now". Stores and views take a Clock so tests can pin time.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a plain function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Today is the calendar day of c.Now() in the clock's location.
func Today(c Clock) Date { return DateOf(c.Now()) }
