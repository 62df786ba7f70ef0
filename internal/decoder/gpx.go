package decoder

import (
	"context"
	"encoding/xml"
	"fmt"
	"time"

	"github.com/jengzang/fitness-backend-go/internal/metrics"
	"github.com/jengzang/fitness-backend-go/internal/models"
	"github.com/jengzang/fitness-backend-go/internal/spatial"
)

type gpxFile struct {
	XMLName xml.Name   `xml:"gpx"`
	Tracks  []gpxTrack `xml:"trk"`
}

type gpxTrack struct {
	Name     string       `xml:"name"`
	Type     string       `xml:"type"`
	Segments []gpxSegment `xml:"trkseg"`
}

type gpxSegment struct {
	Points []gpxPoint `xml:"trkpt"`
}

type gpxPoint struct {
	Lat        float64        `xml:"lat,attr"`
	Lon        float64        `xml:"lon,attr"`
	Elevation  *float64       `xml:"ele"`
	Time       string         `xml:"time"`
	Extensions *gpxExtensions `xml:"extensions"`
}

// gpxExtensions carries the vendor track-point extension elements. Matching
// is by local name, so the namespace prefix on TrackPointExtension does not
// matter. A missing element is simply an absent reading, never an error.
type gpxExtensions struct {
	Power               *float64 `xml:"power"`
	TrackPointExtension *gpxTPX  `xml:"TrackPointExtension"`
}

type gpxTPX struct {
	HeartRate *float64 `xml:"hr"`
	Cadence   *float64 `xml:"cad"`
}

// decodeGPX parses a GPX XML document into a single session bundle. All
// tracks contribute points, in document order; name and sport come from the
// first track. A file without tracks or without segments is malformed.
func (d *Decoder) decodeGPX(ctx context.Context, data []byte) (*SessionBundle, error) {
	var doc gpxFile
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptFile, err)
	}
	if len(doc.Tracks) == 0 {
		return nil, fmt.Errorf("%w: gpx file has no tracks", ErrCorruptFile)
	}

	segments := 0
	for _, track := range doc.Tracks {
		segments += len(track.Segments)
	}
	if segments == 0 {
		return nil, fmt.Errorf("%w: gpx file has no segments", ErrCorruptFile)
	}

	bundle := &SessionBundle{}
	bundle.Session.Name = doc.Tracks[0].Name
	bundle.Session.SportName = doc.Tracks[0].Type

	var (
		prevTime      time.Time
		prevLat       float64
		prevLon       float64
		totalDistance float64
		firstTime     time.Time
		lastTime      time.Time
	)

	for _, track := range doc.Tracks {
		for _, seg := range track.Segments {
			for _, p := range seg.Points {
				ts, err := time.Parse(time.RFC3339, p.Time)
				if err != nil {
					return nil, fmt.Errorf("%w: bad point timestamp %q", ErrCorruptFile, p.Time)
				}

				if firstTime.IsZero() {
					firstTime = ts
				}
				lastTime = ts

				bundle.Position.Append(ts, p.Lat, p.Lon)
				if p.Elevation != nil {
					bundle.Elevation.Append(ts, *p.Elevation)
				}
				if ext := p.Extensions; ext != nil {
					if tpx := ext.TrackPointExtension; tpx != nil {
						if tpx.HeartRate != nil {
							bundle.HeartRate.Append(ts, *tpx.HeartRate)
						}
						if tpx.Cadence != nil {
							bundle.Cadence.Append(ts, *tpx.Cadence)
						}
					}
					if ext.Power != nil {
						bundle.Power.Append(ts, *ext.Power)
					}
				}

				if !prevTime.IsZero() {
					totalDistance += spatial.HaversineDistance(prevLat, prevLon, p.Lat, p.Lon)
				}
				speed := metrics.InstantSpeed(prevTime, ts, prevLat, prevLon, p.Lat, p.Lon)
				bundle.Velocity.Append(ts, speed)
				if speed > 0 {
					bundle.Pace.Append(ts, 1/speed)
				} else {
					bundle.Pace.Append(ts, 0)
				}

				prevTime, prevLat, prevLon = ts, p.Lat, p.Lon
			}
		}
	}

	if !bundle.Position.Present() {
		return nil, fmt.Errorf("%w: gpx track has no points", ErrCorruptFile)
	}

	sess := &bundle.Session
	sess.StartTime = firstTime
	sess.ElapsedSeconds = lastTime.Sub(firstTime).Seconds()
	sess.TimerSeconds = sess.ElapsedSeconds
	sess.DistanceMeters = totalDistance

	first := bundle.Position.Coords[0]
	sess.StartLat = &first.Lat
	sess.StartLon = &first.Lon

	// Virtual activities have no meaningful geographic location.
	code := models.ClassifyActivityType(sess.SportName)
	if code != models.TypeVirtualRun && code != models.TypeVirtualRide {
		if loc := d.lookupLocation(ctx, first.Lat, first.Lon); loc != nil {
			sess.City = loc.City
			sess.Town = loc.Town
			sess.Country = loc.Country
		}
	}

	return bundle, nil
}
