package decoder

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleGPX = `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="test" xmlns="http://www.topografix.com/GPX/1/1"
     xmlns:gpxtpx="http://www.garmin.com/xmlschemas/TrackPointExtension/v1">
  <trk>
    <name>Morning loop</name>
    <type>running</type>
    <trkseg>
      <trkpt lat="59.9100" lon="10.7500">
        <ele>100.0</ele>
        <time>2024-05-01T08:00:00Z</time>
        <extensions>
          <power>210</power>
          <gpxtpx:TrackPointExtension>
            <gpxtpx:hr>140</gpxtpx:hr>
            <gpxtpx:cad>85</gpxtpx:cad>
          </gpxtpx:TrackPointExtension>
        </extensions>
      </trkpt>
      <trkpt lat="59.9110" lon="10.7500">
        <ele>102.0</ele>
        <time>2024-05-01T08:00:30Z</time>
        <extensions>
          <gpxtpx:TrackPointExtension>
            <gpxtpx:hr>145</gpxtpx:hr>
          </gpxtpx:TrackPointExtension>
        </extensions>
      </trkpt>
      <trkpt lat="59.9120" lon="10.7500">
        <ele>101.0</ele>
        <time>2024-05-01T08:01:00Z</time>
      </trkpt>
    </trkseg>
  </trk>
</gpx>`

func TestDecodeGPX(t *testing.T) {
	d := New(nil)
	bundles, err := d.DecodeFile(context.Background(), "loop.gpx", []byte(sampleGPX))
	require.NoError(t, err)
	require.Len(t, bundles, 1)

	b := bundles[0]
	sess := b.Session

	assert.Equal(t, "Morning loop", sess.Name)
	assert.Equal(t, "running", sess.SportName)
	assert.Equal(t, time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC), sess.StartTime)
	assert.InDelta(t, 60, sess.ElapsedSeconds, 1e-9)
	// Two 0.001-degree latitude steps, ~111.2m each.
	assert.InDelta(t, 222.4, sess.DistanceMeters, 1.0)

	require.NotNil(t, sess.StartLat)
	require.NotNil(t, sess.StartLon)
	assert.InDelta(t, 59.91, *sess.StartLat, 1e-9)
	assert.InDelta(t, 10.75, *sess.StartLon, 1e-9)

	// Channel presence follows the samples actually present per point.
	assert.Len(t, b.Position.Coords, 3)
	assert.Len(t, b.Elevation.Samples, 3)
	assert.Len(t, b.HeartRate.Samples, 2)
	assert.Len(t, b.Cadence.Samples, 1)
	assert.Len(t, b.Power.Samples, 1)
	assert.Len(t, b.Velocity.Samples, 3)
	assert.Len(t, b.Pace.Samples, 3)

	assert.Equal(t, 140.0, b.HeartRate.Samples[0].Value)
	assert.Equal(t, 210.0, b.Power.Samples[0].Value)

	// First point has no previous sample, so no speed; later points do.
	assert.Zero(t, b.Velocity.Samples[0].Value)
	assert.InDelta(t, 111.2/30, b.Velocity.Samples[1].Value, 0.05)
	assert.InDelta(t, 30/111.2, b.Pace.Samples[1].Value, 0.01)
}

const multiTrackGPX = `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="test" xmlns="http://www.topografix.com/GPX/1/1">
  <trk>
    <name>Out</name>
    <type>running</type>
    <trkseg>
      <trkpt lat="59.9100" lon="10.7500"><time>2024-05-01T08:00:00Z</time></trkpt>
      <trkpt lat="59.9110" lon="10.7500"><time>2024-05-01T08:00:30Z</time></trkpt>
    </trkseg>
  </trk>
  <trk>
    <name>Back</name>
    <trkseg>
      <trkpt lat="59.9120" lon="10.7500"><time>2024-05-01T08:01:00Z</time></trkpt>
      <trkpt lat="59.9130" lon="10.7500"><time>2024-05-01T08:01:30Z</time></trkpt>
    </trkseg>
  </trk>
</gpx>`

func TestDecodeGPXMultipleTracks(t *testing.T) {
	d := New(nil)
	bundles, err := d.DecodeFile(context.Background(), "split-recording.gpx", []byte(multiTrackGPX))
	require.NoError(t, err)
	require.Len(t, bundles, 1)

	b := bundles[0]

	// Name and sport come from the first track; every track's points count.
	assert.Equal(t, "Out", b.Session.Name)
	assert.Equal(t, "running", b.Session.SportName)
	require.Len(t, b.Position.Coords, 4)
	assert.InDelta(t, 59.913, b.Position.Coords[3].Lat, 1e-9)

	// Distance and elapsed time span the track boundary.
	assert.InDelta(t, 90, b.Session.ElapsedSeconds, 1e-9)
	assert.InDelta(t, 333.6, b.Session.DistanceMeters, 1.5)
}

func TestDecodeGPXCorrupt(t *testing.T) {
	d := New(nil)
	ctx := context.Background()

	cases := map[string]string{
		"not xml":       `{"definitely": "not gpx"}`,
		"no tracks":     `<gpx></gpx>`,
		"no segments":   `<gpx><trk><name>empty</name></trk></gpx>`,
		"no points":     `<gpx><trk><trkseg></trkseg></trk></gpx>`,
		"bad timestamp": `<gpx><trk><trkseg><trkpt lat="1" lon="1"><time>yesterday</time></trkpt></trkseg></trk></gpx>`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := d.DecodeFile(ctx, "bad.gpx", []byte(body))
			assert.ErrorIs(t, err, ErrCorruptFile)
		})
	}
}

func TestDecodeFileUnsupportedExtension(t *testing.T) {
	d := New(nil)
	_, err := d.DecodeFile(context.Background(), "workout.tcx", []byte("<xml/>"))
	assert.ErrorIs(t, err, ErrUnsupportedExtension)
}

func TestDecodeFileExtensionCaseInsensitive(t *testing.T) {
	d := New(nil)
	bundles, err := d.DecodeFile(context.Background(), "LOOP.GPX", []byte(sampleGPX))
	require.NoError(t, err)
	assert.Len(t, bundles, 1)
}
