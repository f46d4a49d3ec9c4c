package xferlib

import (
	"math"
	"time"

	"github.com/VividCortex/ewma"
)

// Timer is a monotonic elapsed-seconds timer.
type Timer struct {
	start time.Time
}

// NewTimer returns a Timer started now.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Query returns elapsed seconds since the timer started (or was last Reset).
func (t *Timer) Query() float64 {
	return time.Since(t.start).Seconds()
}

// Reset restarts the timer at now.
func (t *Timer) Reset() {
	t.start = time.Now()
}

// rateWindowSamples is the age, in samples, of the exponentially weighted
// moving average that smooths instantaneous rate samples.
const rateWindowSamples = 125

// RateEstimator smooths instantaneous bytes/sec samples with an
// exponentially weighted moving average whose age is 125 samples. It keeps
// no ring buffer of past samples: older samples never drop out entirely,
// they only lose weight. Constant samples of value v yield v within
// floating-point tolerance once the average has settled.
type RateEstimator struct {
	avg     ewma.MovingAverage
	samples int
}

// NewRateEstimator returns a RateEstimator with a 125-sample window.
func NewRateEstimator() *RateEstimator {
	return &RateEstimator{avg: ewma.NewMovingAverage(rateWindowSamples)}
}

// Update records a new instantaneous rate sample and returns the current
// smoothed rate. Before any sample has been recorded, Current returns NaN.
func (r *RateEstimator) Update(bytesPerSec float64) float64 {
	r.avg.Add(bytesPerSec)
	r.samples++
	return r.avg.Value()
}

// Current returns the smoothed rate, or NaN if no sample has been recorded.
func (r *RateEstimator) Current() float64 {
	if r.samples == 0 {
		return math.NaN()
	}
	return r.avg.Value()
}
