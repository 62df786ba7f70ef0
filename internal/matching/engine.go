// Package matching decides whether and where an activity's GPS trace
// crosses the ordered gates of a route segment, and computes per-crossing
// metrics.
package matching

import (
	"time"

	"github.com/jengzang/fitness-backend-go/internal/metrics"
	"github.com/jengzang/fitness-backend-go/internal/models"
	"github.com/jengzang/fitness-backend-go/internal/spatial"
)

// crossing is one gate intersection found in the trace.
type crossing struct {
	traceIndex int
	at         time.Time
}

// MatchSegment scans an activity trace for completed crossings of a
// segment's gates, in gate order. Every completed lap yields one
// ActivitySegment; out-of-order or missing crossings end the scan. Lap
// numbers are assigned by ascending first-gate crossing time, so re-runs
// over the same trace are stable.
//
// hr and elevation are the activity's heart-rate and elevation streams; nil
// slices simply leave those lap metrics at zero.
func MatchSegment(segment models.Segment, trace []models.CoordSample, hr, elevation []models.StreamSample) []models.ActivitySegment {
	if len(segment.Gates) < 2 || len(trace) < 2 {
		return nil
	}

	var laps []models.ActivitySegment
	searchFrom := 0

	for {
		crossings, ok := findLap(segment.Gates, trace, searchFrom)
		if !ok {
			break
		}

		laps = append(laps, buildLap(segment, trace, hr, elevation, crossings, len(laps)+1))

		// The next attempt starts strictly after the last consumed sample;
		// a near-duplicate crossing inside the finished lap never restarts it.
		searchFrom = crossings[len(crossings)-1].traceIndex + 1
	}

	return laps
}

// findLap looks for one ordered pass through all gates, starting the gate-0
// search at fromIndex. Each subsequent gate must be crossed at a strictly
// later trace index.
func findLap(gates []models.Gate, trace []models.CoordSample, fromIndex int) ([]crossing, bool) {
	crossings := make([]crossing, 0, len(gates))

	next := fromIndex
	for _, gate := range gates {
		c, ok := findCrossing(gate, trace, next)
		if !ok {
			return nil, false
		}
		crossings = append(crossings, c)
		next = c.traceIndex + 1
	}
	return crossings, true
}

// findCrossing scans consecutive-sample sub-segments of the trace, from
// fromIndex on, for the first one intersecting the gate. The crossing
// instant is interpolated along the sub-segment.
func findCrossing(gate models.Gate, trace []models.CoordSample, fromIndex int) (crossing, bool) {
	g1 := spatial.Point{Lat: gate.StartLat, Lon: gate.StartLon}
	g2 := spatial.Point{Lat: gate.EndLat, Lon: gate.EndLon}

	for i := fromIndex; i+1 < len(trace); i++ {
		p1 := spatial.Point{Lat: trace[i].Lat, Lon: trace[i].Lon}
		p2 := spatial.Point{Lat: trace[i+1].Lat, Lon: trace[i+1].Lon}
		if !spatial.SegmentsIntersect(p1, p2, g1, g2) {
			continue
		}

		frac := spatial.IntersectionFraction(p1, p2, g1, g2)
		step := trace[i+1].Time.Sub(trace[i].Time)
		at := trace[i].Time.Add(time.Duration(float64(step) * frac))
		return crossing{traceIndex: i, at: at}, true
	}
	return crossing{}, false
}

// buildLap computes the metrics of one completed crossing.
func buildLap(segment models.Segment, trace []models.CoordSample, hr, elevation []models.StreamSample, crossings []crossing, lap int) models.ActivitySegment {
	first := crossings[0]
	last := crossings[len(crossings)-1]

	distance := traceDistance(trace, first.traceIndex, last.traceIndex+1)

	result := models.ActivitySegment{
		SegmentID:      segment.ID,
		Lap:            lap,
		StartTime:      first.at,
		ElapsedSeconds: last.at.Sub(first.at).Seconds(),
		DistanceMeters: distance,
		PaceSecPerM:    metrics.Pace(distance, first.at, last.at),
	}

	result.AvgHeartRate, result.MaxHeartRate = metrics.MeanMax(valuesInWindow(hr, first.at, last.at))
	result.ElevationGain, result.ElevationLoss = metrics.DefaultElevationGainLoss(valuesInWindow(elevation, first.at, last.at))

	for i, c := range crossings {
		result.Crossings = append(result.Crossings, models.GateCrossing{
			GateIndex:  segment.Gates[i].Index,
			TraceIndex: c.traceIndex,
			Time:       c.at,
		})
		if i == 0 {
			continue
		}
		prev := crossings[i-1]
		splitDist := traceDistance(trace, prev.traceIndex, c.traceIndex+1)
		result.Splits = append(result.Splits, models.SubSegmentSplit{
			FromGate:       segment.Gates[i-1].Index,
			ToGate:         segment.Gates[i].Index,
			ElapsedSeconds: c.at.Sub(prev.at).Seconds(),
			DistanceMeters: splitDist,
			PaceSecPerM:    metrics.Pace(splitDist, prev.at, c.at),
		})
	}

	return result
}

// traceDistance sums sample-to-sample distance over trace[from..to].
func traceDistance(trace []models.CoordSample, from, to int) float64 {
	if to >= len(trace) {
		to = len(trace) - 1
	}
	points := make([]spatial.Point, 0, to-from+1)
	for i := from; i <= to; i++ {
		points = append(points, spatial.Point{Lat: trace[i].Lat, Lon: trace[i].Lon})
	}
	return spatial.PathLength(points)
}

// valuesInWindow extracts sample values whose timestamps fall in [from, to].
func valuesInWindow(samples []models.StreamSample, from, to time.Time) []float64 {
	var vals []float64
	for _, s := range samples {
		if !s.Time.Before(from) && !s.Time.After(to) {
			vals = append(vals, s.Value)
		}
	}
	return vals
}
