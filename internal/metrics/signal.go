// Package metrics holds the pure signal computations applied to decoded
// sensor samples: smoothing, aggregation and derived per-activity values.
package metrics

import (
	"math"
	"sort"
	"time"

	"github.com/jengzang/fitness-backend-go/internal/spatial"
)

// Default elevation filter parameters. Raw barometric/GPS elevation is
// noisy; summing raw consecutive diffs wildly overstates gain and loss.
const (
	ElevationMedianWindow = 6
	ElevationAvgWindow    = 3
	ElevationThreshold    = 0.1 // meters
)

// InstantSpeed returns the instantaneous speed in m/s between two samples.
// The first waypoint of a track has no previous sample; pass a zero prevTime
// for it. Non-advancing timestamps yield 0, never a negative or NaN.
func InstantSpeed(prevTime, t time.Time, prevLat, prevLon, lat, lon float64) float64 {
	if prevTime.IsZero() || !t.After(prevTime) {
		return 0
	}
	dist := spatial.HaversineDistance(prevLat, prevLon, lat, lon)
	return dist / t.Sub(prevTime).Seconds()
}

// Pace returns seconds per meter over the given span. Zero distance yields 0.
func Pace(distanceMeters float64, start, end time.Time) float64 {
	if distanceMeters == 0 {
		return 0
	}
	return end.Sub(start).Seconds() / distanceMeters
}

// MeanMax calculates the arithmetic mean and maximum of a slice of values.
// Returns (0, 0) for empty input.
func MeanMax(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}

	var sum float64
	maxVal := values[0]
	for _, v := range values {
		sum += v
		if v > maxVal {
			maxVal = v
		}
	}
	return sum / float64(len(values)), maxVal
}

// NormalizedPower calculates the fourth-power-mean power metric: each sample
// raised to the 4th power, averaged, then the 4th root taken. Returns 0 for
// empty input.
func NormalizedPower(powerSamples []float64) float64 {
	if len(powerSamples) == 0 {
		return 0
	}

	var sum float64
	for _, p := range powerSamples {
		sum += p * p * p * p
	}
	return math.Pow(sum/float64(len(powerSamples)), 0.25)
}

// ElevationGainLoss computes total climb and descent from raw elevation
// samples. The samples pass through a centered median filter of width
// medianWindow, then a centered moving average of width avgWindow, before
// consecutive smoothed values are differenced. A step counts toward gain
// only above +threshold meters and toward loss only below -threshold;
// smaller fluctuations are noise. Both results are >= 0.
func ElevationGainLoss(elevations []float64, medianWindow, avgWindow int, threshold float64) (gain, loss float64) {
	if len(elevations) < 2 {
		return 0, 0
	}

	smoothed := movingAverage(medianFilter(elevations, medianWindow), avgWindow)

	for i := 1; i < len(smoothed); i++ {
		diff := smoothed[i] - smoothed[i-1]
		switch {
		case diff > threshold:
			gain += diff
		case diff < -threshold:
			loss += -diff
		}
	}
	return gain, loss
}

// DefaultElevationGainLoss applies ElevationGainLoss with the standard
// filter parameters.
func DefaultElevationGainLoss(elevations []float64) (float64, float64) {
	return ElevationGainLoss(elevations, ElevationMedianWindow, ElevationAvgWindow, ElevationThreshold)
}

// medianFilter applies a centered median filter of the given window width.
func medianFilter(values []float64, window int) []float64 {
	if window < 2 || len(values) == 0 {
		return values
	}

	out := make([]float64, len(values))
	half := window / 2
	buf := make([]float64, 0, window)

	for i := range values {
		lo := i - half
		if lo < 0 {
			lo = 0
		}
		hi := i + (window - half)
		if hi > len(values) {
			hi = len(values)
		}

		buf = append(buf[:0], values[lo:hi]...)
		sort.Float64s(buf)

		n := len(buf)
		if n%2 == 1 {
			out[i] = buf[n/2]
		} else {
			out[i] = (buf[n/2-1] + buf[n/2]) / 2
		}
	}
	return out
}

// movingAverage applies a centered moving average of the given window width.
func movingAverage(values []float64, window int) []float64 {
	if window < 2 || len(values) == 0 {
		return values
	}

	out := make([]float64, len(values))
	half := window / 2

	for i := range values {
		lo := i - half
		if lo < 0 {
			lo = 0
		}
		hi := i + (window - half)
		if hi > len(values) {
			hi = len(values)
		}

		var sum float64
		for _, v := range values[lo:hi] {
			sum += v
		}
		out[i] = sum / float64(hi-lo)
	}
	return out
}
