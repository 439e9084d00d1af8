// Package stats implements the online rolling-statistics estimator used
// to standardize the mid-price stream: an exact Welford variance during
// the initial fill window, then a bounded-memory exponentially-weighted
// estimator once the window is full.
package stats

import "math"

// zscoreFloor is the minimum stddev below which a z-score is defined
// as zero rather than blowing up.
const zscoreFloor = 1e-10

// Rolling is an O(1)-state online estimator of mean and variance.
// Update is meant to be called from a single writer; concurrent readers
// may observe a momentarily-inconsistent (mean, variance) pair but never
// a torn scalar field.
type Rolling struct {
	W     int
	Alpha float64

	mean  float64
	m2    float64
	varnc float64
	count int64
}

// New returns a Rolling estimator with fill window w (must be positive).
func New(w int) *Rolling {
	if w <= 0 {
		w = 1
	}
	return &Rolling{
		W:     w,
		Alpha: 2.0 / (float64(w) + 1.0),
	}
}

// Update absorbs one sample in constant time with no allocation.
func (r *Rolling) Update(x float64) {
	if r.count < int64(r.W) {
		r.updateFill(x)
	} else {
		r.updateSteadyState(x)
	}
	r.count++
}

// updateFill applies Welford's recurrence for the exact sample variance
// during the first W samples. k is the pre-increment sample count.
func (r *Rolling) updateFill(x float64) {
	k := r.count
	if k == 0 {
		r.mean = x
		r.varnc = 0
		r.m2 = 0
		return
	}
	n := float64(k + 1)
	d1 := x - r.mean
	r.mean += d1 / n
	d2 := x - r.mean
	r.m2 += d1 * d2
	r.varnc = r.m2 / n
}

// updateSteadyState applies the exponentially-weighted recurrence once
// the fill window has been exhausted. meanOld is captured before mean is
// mutated, as required by the recurrence for variance.
func (r *Rolling) updateSteadyState(x float64) {
	meanOld := r.mean
	r.mean = r.Alpha*x + (1-r.Alpha)*meanOld
	d := x - meanOld
	v := (1 - r.Alpha) * (r.varnc + r.Alpha*d*d)
	if v < 0 {
		v = 0
	}
	r.varnc = v
}

// Mean returns the current running mean.
func (r *Rolling) Mean() float64 { return r.mean }

// Variance returns the current running variance. Always >= 0.
func (r *Rolling) Variance() float64 { return r.varnc }

// Stddev returns sqrt(Variance()).
func (r *Rolling) Stddev() float64 { return math.Sqrt(r.varnc) }

// Count returns the total number of samples absorbed so far.
func (r *Rolling) Count() int64 { return r.count }

// IsReady reports whether at least W samples have been absorbed.
func (r *Rolling) IsReady() bool { return r.count >= int64(r.W) }

// ZScore standardizes x against the current mean/stddev. It returns 0
// when the stddev is at or below the numerical floor, rather than
// dividing by (near) zero.
func (r *Rolling) ZScore(x float64) float64 {
	sd := r.Stddev()
	if sd <= zscoreFloor {
		return 0
	}
	return (x - r.mean) / sd
}
