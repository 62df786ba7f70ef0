package decoder

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitSessions(t *testing.T) {
	start1 := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	start2 := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	result := &fitResult{
		Sessions: []DecodedSession{
			{SportName: "running", StartTime: start1, ElapsedSeconds: 600},
			{SportName: "cycling", StartTime: start2, ElapsedSeconds: 1200},
		},
	}

	// Samples inside session 1, in the gap, and inside session 2.
	for i := 0; i <= 10; i++ {
		ts := start1.Add(time.Duration(i) * time.Minute)
		result.HeartRate.Append(ts, 140+float64(i))
		result.Position.Append(ts, 59.91+float64(i)*0.001, 10.75)
	}
	gap := start1.Add(30 * time.Minute)
	result.HeartRate.Append(gap, 80)
	result.Position.Append(gap, 59.95, 10.75)
	for i := 0; i <= 20; i++ {
		ts := start2.Add(time.Duration(i) * time.Minute)
		result.HeartRate.Append(ts, 120+float64(i))
		result.Position.Append(ts, 60.00+float64(i)*0.001, 10.80)
	}

	d := New(nil)
	bundles := d.splitSessions(context.Background(), result)
	require.Len(t, bundles, 2)

	// Session 1 window is [08:00, 08:10]: 11 one-minute samples.
	assert.Len(t, bundles[0].HeartRate.Samples, 11)
	assert.Len(t, bundles[0].Position.Coords, 11)
	for _, s := range bundles[0].HeartRate.Samples {
		assert.False(t, s.Time.Before(start1))
		assert.False(t, s.Time.After(start1.Add(10*time.Minute)))
	}

	// Session 2 window is [10:00, 10:20]: 21 samples. The gap sample at
	// 08:30 belongs to neither.
	assert.Len(t, bundles[1].HeartRate.Samples, 21)
	assert.Len(t, bundles[1].Position.Coords, 21)
	assert.Equal(t, 120.0, bundles[1].HeartRate.Samples[0].Value)
}

func TestSplitSessionsBoundarySampleLandsInOneBucket(t *testing.T) {
	start1 := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	start2 := start1.Add(10 * time.Minute) // exactly session 1's end

	result := &fitResult{
		Sessions: []DecodedSession{
			{SportName: "running", StartTime: start1, ElapsedSeconds: 600},
			{SportName: "running", StartTime: start2, ElapsedSeconds: 600},
		},
	}
	result.HeartRate.Append(start1.Add(5*time.Minute), 140)
	result.HeartRate.Append(start2, 150) // shared boundary instant
	result.HeartRate.Append(start2.Add(5*time.Minute), 160)

	d := New(nil)
	bundles := d.splitSessions(context.Background(), result)
	require.Len(t, bundles, 2)

	// The boundary sample belongs to the earlier session only.
	require.Len(t, bundles[0].HeartRate.Samples, 2)
	assert.Equal(t, 150.0, bundles[0].HeartRate.Samples[1].Value)
	require.Len(t, bundles[1].HeartRate.Samples, 1)
	assert.Equal(t, 160.0, bundles[1].HeartRate.Samples[0].Value)
}

func TestSplitSessionsBackfillsStartPosition(t *testing.T) {
	start := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	result := &fitResult{
		Sessions: []DecodedSession{
			{SportName: "running", StartTime: start, ElapsedSeconds: 120},
		},
	}
	result.Position.Append(start.Add(5*time.Second), 59.91, 10.75)
	result.Position.Append(start.Add(65*time.Second), 59.92, 10.75)

	d := New(nil)
	bundles := d.splitSessions(context.Background(), result)
	require.Len(t, bundles, 1)

	sess := bundles[0].Session
	require.NotNil(t, sess.StartLat)
	require.NotNil(t, sess.StartLon)
	assert.InDelta(t, 59.91, *sess.StartLat, 1e-9)
	assert.InDelta(t, 10.75, *sess.StartLon, 1e-9)
}

func TestSplitSessionsWithoutPosition(t *testing.T) {
	start := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	result := &fitResult{
		Sessions: []DecodedSession{
			{SportName: "indoor_cycling", StartTime: start, ElapsedSeconds: 300},
		},
	}
	result.Power.Append(start.Add(time.Second), 180)

	d := New(nil)
	bundles := d.splitSessions(context.Background(), result)
	require.Len(t, bundles, 1)

	assert.Nil(t, bundles[0].Session.StartLat)
	assert.False(t, bundles[0].Position.Present())
	assert.Len(t, bundles[0].Power.Samples, 1)
}
