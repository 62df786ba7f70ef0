package models

import "time"

// StreamType identifies one sensor channel of an activity. The numbering is
// a stable external contract shared with persisted rows and API consumers.
type StreamType int

const (
	StreamHeartRate StreamType = 1
	StreamPower     StreamType = 2
	StreamCadence   StreamType = 3
	StreamElevation StreamType = 4
	StreamVelocity  StreamType = 5
	StreamPace      StreamType = 6
	StreamLatLng    StreamType = 7
)

// StreamSample is one timestamped scalar reading.
type StreamSample struct {
	Time  time.Time `json:"t"`
	Value float64   `json:"v"`
}

// CoordSample is one timestamped position reading (lat/lng channel only).
type CoordSample struct {
	Time time.Time `json:"t"`
	Lat  float64   `json:"lat"`
	Lon  float64   `json:"lon"`
}

// StreamPayload is one (activity, channel, ordered samples) triple. Exactly
// one of Samples/Coords is populated depending on Type; a payload is only
// ever created for a channel that has at least one sample.
type StreamPayload struct {
	ID         int64      `json:"id" db:"id"`
	ActivityID int64      `json:"activity_id" db:"activity_id"`
	Type       StreamType `json:"type" db:"stream_type"`

	Samples []StreamSample `json:"samples,omitempty"`
	Coords  []CoordSample  `json:"coords,omitempty"`
}
