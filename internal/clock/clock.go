package clock

import "time"

// Clock abstracts time so energy refill and helper income can be tested
// deterministically.
type Clock interface {
	Now() time.Time
}

// Real is a Clock backed by the system clock.
type Real struct{}

func (Real) Now() time.Time { return time.Now() }

// Mock is a Clock that returns a settable time.
type Mock struct {
	T time.Time
}

func (m *Mock) Now() time.Time { return m.T }

// Advance moves the mock clock forward by d.
func (m *Mock) Advance(d time.Duration) { m.T = m.T.Add(d) }
