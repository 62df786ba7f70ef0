package decoder

import (
	"context"
	"time"

	"github.com/jengzang/fitness-backend-go/internal/models"
)

// splitSessions partitions a FIT decode result's flat channel arrays into
// one bundle per session, by membership in the session's time window
// [start, start+elapsed]. When consecutive windows share a boundary instant,
// the boundary sample belongs to the earlier session only: the later window
// opens exclusively. All timestamps compare in UTC.
func (d *Decoder) splitSessions(ctx context.Context, result *fitResult) []SessionBundle {
	bundles := make([]SessionBundle, 0, len(result.Sessions))

	var prevEnd time.Time
	for _, sess := range result.Sessions {
		start := sess.StartTime.UTC()
		end := start.Add(time.Duration(sess.ElapsedSeconds * float64(time.Second)))
		w := window{
			start:        start,
			end:          end,
			excludeStart: !prevEnd.IsZero() && !start.After(prevEnd),
		}
		prevEnd = end

		bundle := SessionBundle{
			Session:   sess,
			HeartRate: filterChannel(result.HeartRate, w),
			Power:     filterChannel(result.Power, w),
			Cadence:   filterChannel(result.Cadence, w),
			Elevation: filterChannel(result.Elevation, w),
			Velocity:  filterChannel(result.Velocity, w),
			Pace:      filterChannel(result.Pace, w),
			Position:  filterCoordChannel(result.Position, w),
		}

		// A session recorded without a start fix still gets one when its
		// window contains GPS samples: backfill from the first sample and
		// resolve the place once.
		if bundle.Position.Present() &&
			(bundle.Session.StartLat == nil || bundle.Session.StartLon == nil) {
			first := bundle.Position.Coords[0]
			bundle.Session.StartLat = &first.Lat
			bundle.Session.StartLon = &first.Lon
			if loc := d.lookupLocation(ctx, first.Lat, first.Lon); loc != nil {
				bundle.Session.City = loc.City
				bundle.Session.Town = loc.Town
				bundle.Session.Country = loc.Country
			}
		}

		bundles = append(bundles, bundle)
	}

	return bundles
}

type window struct {
	start        time.Time
	end          time.Time
	excludeStart bool
}

func (w window) contains(t time.Time) bool {
	u := t.UTC()
	if w.excludeStart {
		if !u.After(w.start) {
			return false
		}
	} else if u.Before(w.start) {
		return false
	}
	return !u.After(w.end)
}

func filterChannel(ch Channel, w window) Channel {
	var out Channel
	for _, s := range ch.Samples {
		if w.contains(s.Time) {
			out.Samples = append(out.Samples, models.StreamSample{Time: s.Time, Value: s.Value})
		}
	}
	return out
}

func filterCoordChannel(ch CoordChannel, w window) CoordChannel {
	var out CoordChannel
	for _, s := range ch.Coords {
		if w.contains(s.Time) {
			out.Coords = append(out.Coords, models.CoordSample{Time: s.Time, Lat: s.Lat, Lon: s.Lon})
		}
	}
	return out
}
