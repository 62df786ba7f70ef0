package decoder

import (
	"bytes"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/tormoder/fit"

	"github.com/jengzang/fitness-backend-go/internal/metrics"
	"github.com/jengzang/fitness-backend-go/internal/models"
)

const invalidSemicircles = 0x7FFFFFFF

// semicirclesToDegrees converts FIT's native 32-bit GPS encoding:
// degrees = raw * 180 / 2^31.
func semicirclesToDegrees(raw int32) float64 {
	return float64(raw) * (180.0 / 2147483648.0)
}

// fitResult is one decoded FIT file: its sessions plus the flat, not yet
// split waypoint channels covering the whole recording.
type fitResult struct {
	Sessions []DecodedSession

	HeartRate Channel
	Power     Channel
	Cadence   Channel
	Elevation Channel
	Velocity  Channel
	Pace      Channel
	Position  CoordChannel
}

// decodeFIT scans a binary FIT file. Any frame-level decode error aborts the
// whole parse; partial results are discarded.
func decodeFIT(data []byte) (*fitResult, error) {
	decoded, err := fit.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptFile, err)
	}

	activity, err := decoded.Activity()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptFile, err)
	}
	if len(activity.Sessions) == 0 {
		return nil, fmt.Errorf("%w: no session message", ErrCorruptFile)
	}

	result := &fitResult{}

	var utcOffset *int
	if activity.Activity != nil &&
		!activity.Activity.LocalTimestamp.IsZero() && !activity.Activity.Timestamp.IsZero() {
		off := int(activity.Activity.LocalTimestamp.Sub(activity.Activity.Timestamp).Round(time.Second).Seconds())
		utcOffset = &off
	}

	for _, sess := range activity.Sessions {
		if sess == nil {
			continue
		}
		result.Sessions = append(result.Sessions, decodeFITSession(sess, utcOffset))
	}
	sort.Slice(result.Sessions, func(i, j int) bool {
		return result.Sessions[i].StartTime.Before(result.Sessions[j].StartTime)
	})

	decodeFITRecords(activity.Records, result)
	attachFITLaps(activity.Laps, result)

	return result, nil
}

// decodeFITSession extracts one session summary.
func decodeFITSession(sess *fit.SessionMsg, utcOffset *int) DecodedSession {
	s := DecodedSession{
		SportName:        resolveFITSport(sess.Sport, sess.SubSport),
		StartTime:        sess.StartTime,
		ElapsedSeconds:   scaledOrZero(sess.GetTotalElapsedTimeScaled()),
		TimerSeconds:     scaledOrZero(sess.GetTotalTimerTimeScaled()),
		DistanceMeters:   scaledOrZero(sess.GetTotalDistanceScaled()),
		Calories:         int(validUint16(sess.TotalCalories)),
		AvgHeartRate:     float64(validUint8(sess.AvgHeartRate)),
		MaxHeartRate:     float64(validUint8(sess.MaxHeartRate)),
		AvgCadence:       float64(validUint8(sess.AvgCadence)),
		MaxCadence:       float64(validUint8(sess.MaxCadence)),
		AvgPower:         float64(validUint16(sess.AvgPower)),
		MaxPower:         float64(validUint16(sess.MaxPower)),
		NormalizedPower:  float64(validUint16(sess.NormalizedPower)),
		ElevationGain:    float64(validUint16(sess.TotalAscent)),
		ElevationLoss:    float64(validUint16(sess.TotalDescent)),
		UTCOffsetSeconds: utcOffset,
	}

	s.AvgSpeed = scaledOrZero(sess.GetEnhancedAvgSpeedScaled())
	if s.AvgSpeed == 0 {
		s.AvgSpeed = scaledOrZero(sess.GetAvgSpeedScaled())
	}
	s.MaxSpeed = scaledOrZero(sess.GetEnhancedMaxSpeedScaled())
	if s.MaxSpeed == 0 {
		s.MaxSpeed = scaledOrZero(sess.GetMaxSpeedScaled())
	}

	if raw := sess.StartPositionLat.Semicircles(); raw != invalidSemicircles && raw != 0 {
		lat := semicirclesToDegrees(raw)
		s.StartLat = &lat
	}
	if raw := sess.StartPositionLong.Semicircles(); raw != invalidSemicircles && raw != 0 {
		lon := semicirclesToDegrees(raw)
		s.StartLon = &lon
	}

	return s
}

// resolveFITSport turns the sport/sub-sport pair into a classifier name.
// The sub-sport wins unless it is generic; cycling + virtual_activity is a
// virtual ride.
func resolveFITSport(sport fit.Sport, sub fit.SubSport) string {
	if sport == fit.SportCycling && sub == fit.SubSportVirtualActivity {
		return "virtual_ride"
	}
	if sub != fit.SubSportGeneric && sub != fit.SubSportInvalid {
		return sub.String()
	}
	return sport.String()
}

// decodeFITRecords walks the record messages in timestamp order, appending
// to each channel only when that channel's value is present in the frame.
func decodeFITRecords(records []*fit.RecordMsg, result *fitResult) {
	sorted := make([]*fit.RecordMsg, 0, len(records))
	for _, rec := range records {
		if rec != nil && !rec.Timestamp.IsZero() {
			sorted = append(sorted, rec)
		}
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	var (
		prevTime time.Time
		prevLat  float64
		prevLon  float64
	)

	for _, rec := range sorted {
		ts := rec.Timestamp

		// The invalid markers mean the field is absent from the frame.
		// A decoded zero is a real reading (coasting cadence/power) and
		// still gets a sample.
		if rec.HeartRate != math.MaxUint8 {
			result.HeartRate.Append(ts, float64(rec.HeartRate))
		}
		if rec.Cadence != math.MaxUint8 {
			result.Cadence.Append(ts, float64(rec.Cadence))
		}
		if rec.Power != math.MaxUint16 {
			result.Power.Append(ts, float64(rec.Power))
		}
		if alt := rec.GetAltitudeScaled(); !math.IsNaN(alt) {
			result.Elevation.Append(ts, alt)
		}

		latRaw := rec.PositionLat.Semicircles()
		lonRaw := rec.PositionLong.Semicircles()
		if latRaw != invalidSemicircles && lonRaw != invalidSemicircles && (latRaw != 0 || lonRaw != 0) {
			lat := semicirclesToDegrees(latRaw)
			lon := semicirclesToDegrees(lonRaw)
			result.Position.Append(ts, lat, lon)

			speed := metrics.InstantSpeed(prevTime, ts, prevLat, prevLon, lat, lon)
			result.Velocity.Append(ts, speed)
			if speed > 0 {
				result.Pace.Append(ts, 1/speed)
			} else {
				result.Pace.Append(ts, 0)
			}

			prevTime, prevLat, prevLon = ts, lat, lon
		}
	}
}

// attachFITLaps maps lap messages onto the session they fall into.
func attachFITLaps(laps []*fit.LapMsg, result *fitResult) {
	for si := range result.Sessions {
		sess := &result.Sessions[si]
		end := sess.StartTime.Add(time.Duration(sess.ElapsedSeconds * float64(time.Second)))

		idx := 0
		for _, lap := range laps {
			if lap == nil || lap.StartTime.IsZero() {
				continue
			}
			if lap.StartTime.Before(sess.StartTime) || lap.StartTime.After(end) {
				continue
			}
			sess.Laps = append(sess.Laps, models.LapSplit{
				Index:          idx,
				StartTime:      lap.StartTime,
				ElapsedSeconds: scaledOrZero(lap.GetTotalElapsedTimeScaled()),
				DistanceMeters: scaledOrZero(lap.GetTotalDistanceScaled()),
				AvgHeartRate:   float64(validUint8(lap.AvgHeartRate)),
				AvgSpeed:       scaledOrZero(lap.GetAvgSpeedScaled()),
			})
			idx++
		}
	}
}

// validUint8 maps the FIT invalid marker (0xFF) to zero.
func validUint8(v uint8) uint8 {
	if v == math.MaxUint8 {
		return 0
	}
	return v
}

// validUint16 maps the FIT invalid marker (0xFFFF) to zero.
func validUint16(v uint16) uint16 {
	if v == math.MaxUint16 {
		return 0
	}
	return v
}

// scaledOrZero guards the NaN returned by scaled getters on invalid fields.
func scaledOrZero(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}
