package decoder

import (
	"bytes"
	"context"
	"encoding/binary"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tormoder/fit"

	"github.com/jengzang/fitness-backend-go/internal/models"
)

func TestSemicirclesToDegrees(t *testing.T) {
	assert.Zero(t, semicirclesToDegrees(0))
	assert.InDelta(t, 90, semicirclesToDegrees(1<<30), 1e-9)
	assert.InDelta(t, -90, semicirclesToDegrees(-(1<<30)), 1e-9)
	assert.InDelta(t, 180, semicirclesToDegrees(math.MaxInt32), 1e-6)
}

func TestValidMarkers(t *testing.T) {
	assert.Equal(t, uint8(0), validUint8(0xFF))
	assert.Equal(t, uint8(180), validUint8(180))
	assert.Equal(t, uint16(0), validUint16(0xFFFF))
	assert.Equal(t, uint16(350), validUint16(350))
}

func TestScaledOrZero(t *testing.T) {
	assert.Zero(t, scaledOrZero(math.NaN()))
	assert.Zero(t, scaledOrZero(-5))
	assert.Equal(t, 12.5, scaledOrZero(12.5))
}

func TestResolveFITSport(t *testing.T) {
	// Virtual cycling is its own thing regardless of the sub-sport string.
	assert.Equal(t, "virtual_ride", resolveFITSport(fit.SportCycling, fit.SubSportVirtualActivity))

	// A meaningful sub-sport wins over the sport.
	assert.Equal(t, fit.SubSportTrail.String(), resolveFITSport(fit.SportRunning, fit.SubSportTrail))

	// Generic or invalid sub-sports fall back to the sport.
	assert.Equal(t, fit.SportRunning.String(), resolveFITSport(fit.SportRunning, fit.SubSportGeneric))
	assert.Equal(t, fit.SportRunning.String(), resolveFITSport(fit.SportRunning, fit.SubSportInvalid))
}

func TestDecodeFITRecordsKeepsZeroReadings(t *testing.T) {
	ts := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

	coasting := fit.NewRecordMsg()
	coasting.Timestamp = ts
	coasting.HeartRate = 142
	coasting.Cadence = 0
	coasting.Power = 0

	absent := fit.NewRecordMsg()
	absent.Timestamp = ts.Add(time.Second)
	absent.HeartRate = math.MaxUint8
	absent.Cadence = math.MaxUint8
	absent.Power = math.MaxUint16

	result := &fitResult{}
	decodeFITRecords([]*fit.RecordMsg{coasting, absent}, result)

	// Zero cadence/power is a real coasting reading; only the invalid
	// marker means the frame carried no value.
	require.Len(t, result.Cadence.Samples, 1)
	assert.Zero(t, result.Cadence.Samples[0].Value)
	require.Len(t, result.Power.Samples, 1)
	assert.Zero(t, result.Power.Samples[0].Value)
	require.Len(t, result.HeartRate.Samples, 1)
	assert.Equal(t, 142.0, result.HeartRate.Samples[0].Value)
}

// buildActivityFIT encodes a synthetic single-session activity file: a 600s
// run of 100 GPS+HR records climbing 1m per sample, two laps, and a device
// clock two hours ahead of UTC.
func buildActivityFIT(t *testing.T) ([]byte, time.Time) {
	t.Helper()

	header := fit.NewHeader(fit.V20, true)
	file, err := fit.NewFile(fit.FileTypeActivity, header)
	require.NoError(t, err)
	activity, err := file.Activity()
	require.NoError(t, err)

	start := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

	am := fit.NewActivityMsg()
	am.Timestamp = start.Add(10 * time.Minute)
	am.LocalTimestamp = start.Add(10*time.Minute + 2*time.Hour)
	activity.Activity = am

	sess := fit.NewSessionMsg()
	sess.Timestamp = start.Add(10 * time.Minute)
	sess.StartTime = start
	sess.Sport = fit.SportRunning
	sess.TotalElapsedTime = 600000 // ms
	sess.TotalTimerTime = 590000
	sess.TotalDistance = 200000 // cm
	activity.Sessions = append(activity.Sessions, sess)

	for i := 0; i < 2; i++ {
		lap := fit.NewLapMsg()
		lap.Timestamp = start.Add(time.Duration(5*(i+1)) * time.Minute)
		lap.StartTime = start.Add(time.Duration(5*i) * time.Minute)
		lap.TotalElapsedTime = 300000
		lap.TotalDistance = 100000
		activity.Laps = append(activity.Laps, lap)
	}

	for i := 0; i < 100; i++ {
		rec := fit.NewRecordMsg()
		rec.Timestamp = start.Add(time.Duration(6*i) * time.Second)
		rec.HeartRate = uint8(130 + i%20)
		rec.PositionLat = fit.NewLatitudeDegrees(59.91 + 0.0001*float64(i))
		rec.PositionLong = fit.NewLongitudeDegrees(10.75)
		rec.Altitude = uint16((550 + i) * 5) // scale 5, offset 500: 50+i meters
		activity.Records = append(activity.Records, rec)
	}

	var buf bytes.Buffer
	require.NoError(t, fit.Encode(&buf, file, binary.LittleEndian))
	return buf.Bytes(), start
}

func TestDecodeFITActivity(t *testing.T) {
	data, start := buildActivityFIT(t)

	d := New(nil)
	bundles, err := d.DecodeFile(context.Background(), "morning.fit", data)
	require.NoError(t, err)
	require.Len(t, bundles, 1)

	b := bundles[0]
	sess := b.Session

	assert.Equal(t, fit.SportRunning.String(), sess.SportName)
	assert.True(t, sess.StartTime.Equal(start))
	assert.InDelta(t, 600, sess.ElapsedSeconds, 1e-9)
	assert.InDelta(t, 590, sess.TimerSeconds, 1e-9)
	assert.InDelta(t, 2000, sess.DistanceMeters, 1e-9)

	require.NotNil(t, sess.UTCOffsetSeconds)
	assert.Equal(t, 7200, *sess.UTCOffsetSeconds)

	require.Len(t, sess.Laps, 2)
	assert.InDelta(t, 300, sess.Laps[0].ElapsedSeconds, 1e-9)
	assert.True(t, sess.Laps[1].StartTime.Equal(start.Add(5*time.Minute)))

	require.Len(t, b.Position.Coords, 100)
	assert.Len(t, b.HeartRate.Samples, 100)
	assert.Len(t, b.Elevation.Samples, 100)
	assert.Len(t, b.Velocity.Samples, 100)
	assert.Len(t, b.Pace.Samples, 100)
	assert.False(t, b.Cadence.Present())
	assert.False(t, b.Power.Present())

	assert.InDelta(t, 59.91, b.Position.Coords[0].Lat, 1e-5)
	assert.InDelta(t, 50, b.Elevation.Samples[0].Value, 1e-6)
	assert.Equal(t, 130.0, b.HeartRate.Samples[0].Value)

	activity, streams := Assemble(b, AssembleOptions{UserID: 1, DefaultTimezone: "UTC"})
	assert.Equal(t, models.TypeRun, activity.ActivityType)
	assert.Equal(t, 149.0, activity.MaxHeartRate)
	assert.InDelta(t, 99, activity.ElevationGain, 10)
	assert.Zero(t, activity.ElevationLoss)
	require.Len(t, activity.Laps, 2)
	assert.Len(t, streams, 5)
}

func TestDecodeFITCorrupt(t *testing.T) {
	d := New(nil)
	_, err := d.DecodeFile(context.Background(), "broken.fit", []byte("definitely not a fit file"))
	assert.ErrorIs(t, err, ErrCorruptFile)
}
