package media

import "fmt"

// Rational is a track time base: one timestamp tick lasts Num/Den seconds
type Rational struct {
	Num int64
	Den int64
}

// NewRational creates a Rational from a numerator and denominator
func NewRational(num, den int64) Rational {
	return Rational{Num: num, Den: den}
}

// Valid returns true if both terms are positive
func (r Rational) Valid() bool {
	return r.Num > 0 && r.Den > 0
}

// Float64 returns the time base as seconds per tick
func (r Rational) Float64() float64 {
	if r.Den == 0 {
		return 0
	}
	return float64(r.Num) / float64(r.Den)
}

// Seconds converts a timestamp expressed in this time base to seconds
func (r Rational) Seconds(ts int64) float64 {
	if r.Den == 0 {
		return 0
	}
	return float64(ts) * float64(r.Num) / float64(r.Den)
}

// String returns the time base in num/den form
func (r Rational) String() string {
	return fmt.Sprintf("%d/%d", r.Num, r.Den)
}
