// Package decoder turns raw FIT and GPX activity files into normalized
// session records plus per-channel waypoint streams.
package decoder

import (
	"time"

	"github.com/jengzang/fitness-backend-go/internal/models"
)

// Channel is one scalar sensor channel of ordered waypoint samples.
// Presence is defined by the samples themselves: an empty channel is absent,
// there is no separate "is set" flag to fall out of sync.
type Channel struct {
	Samples []models.StreamSample
}

// Present reports whether the channel has at least one sample.
func (c *Channel) Present() bool {
	return len(c.Samples) > 0
}

// Append adds one sample. Timestamps are expected non-decreasing.
func (c *Channel) Append(t time.Time, v float64) {
	c.Samples = append(c.Samples, models.StreamSample{Time: t, Value: v})
}

// Values returns the raw sample values in order.
func (c *Channel) Values() []float64 {
	vals := make([]float64, len(c.Samples))
	for i, s := range c.Samples {
		vals[i] = s.Value
	}
	return vals
}

// CoordChannel is the lat/lng position channel.
type CoordChannel struct {
	Coords []models.CoordSample
}

// Present reports whether the channel has at least one sample.
func (c *CoordChannel) Present() bool {
	return len(c.Coords) > 0
}

// Append adds one position sample.
func (c *CoordChannel) Append(t time.Time, lat, lon float64) {
	c.Coords = append(c.Coords, models.CoordSample{Time: t, Lat: lat, Lon: lon})
}

// DecodedSession is the summary of one physical activity instance as read
// from the source file. Produced once per decode pass and immutable
// afterwards; the assembler consumes it.
type DecodedSession struct {
	Name      string
	SportName string // raw sport string fed to the classifier

	StartTime      time.Time
	ElapsedSeconds float64
	TimerSeconds   float64
	DistanceMeters float64
	Calories       int

	AvgHeartRate    float64
	MaxHeartRate    float64
	AvgCadence      float64
	MaxCadence      float64
	AvgPower        float64
	MaxPower        float64
	NormalizedPower float64
	AvgSpeed        float64
	MaxSpeed        float64
	ElevationGain   float64
	ElevationLoss   float64

	StartLat *float64
	StartLon *float64
	City     string
	Town     string
	Country  string

	// UTCOffsetSeconds is the decoded device clock offset, used for
	// timezone inference when no GPS fix is available.
	UTCOffsetSeconds *int

	// Feeling (0-100) and RPE (10-100) are self-reported effort scales.
	Feeling *int
	RPE     *int

	Laps []models.LapSplit
}

// SessionBundle pairs one decoded session with its waypoint channels.
// Channel arrays are independent: a sample missing a given reading simply
// has no entry in that channel, and array lengths need not match.
type SessionBundle struct {
	Session DecodedSession

	HeartRate Channel
	Power     Channel
	Cadence   Channel
	Elevation Channel
	Velocity  Channel
	Pace      Channel
	Position  CoordChannel
}
