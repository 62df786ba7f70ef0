package models

import "time"

// Gate is a short line segment a GPS trace must cross to register progress
// on a route segment. Gates are ordered 0..N-1 within their segment; a valid
// match crosses them in strictly increasing order.
type Gate struct {
	Index    int     `json:"index" db:"gate_index"`
	StartLat float64 `json:"start_lat" db:"start_lat"`
	StartLon float64 `json:"start_lon" db:"start_lon"`
	EndLat   float64 `json:"end_lat" db:"end_lat"`
	EndLon   float64 `json:"end_lon" db:"end_lon"`
}

// Segment is a user-defined route template: an ordered sequence of gates
// plus an activity-type filter restricting which activities it matches.
type Segment struct {
	ID           int64        `json:"id" db:"id"`
	UserID       int64        `json:"user_id" db:"user_id"`
	Name         string       `json:"name" db:"name"`
	ActivityType ActivityType `json:"activity_type" db:"activity_type"`
	Gates        []Gate       `json:"gates"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
}

// GateCrossing records where and when a trace crossed one gate.
type GateCrossing struct {
	GateIndex  int       `json:"gate_index"`
	TraceIndex int       `json:"trace_index"` // index of the sample before the crossing
	Time       time.Time `json:"time"`        // interpolated crossing instant
}

// SubSegmentSplit is the stretch between two consecutive gates of one lap.
type SubSegmentSplit struct {
	FromGate       int     `json:"from_gate"`
	ToGate         int     `json:"to_gate"`
	ElapsedSeconds float64 `json:"elapsed_seconds"`
	DistanceMeters float64 `json:"distance_meters"`
	PaceSecPerM    float64 `json:"pace_sec_per_m"`
}

// ActivitySegment records one completed crossing (lap) of a segment by an
// activity. Uniqueness key for upserts: (segment_id, activity_id, lap).
type ActivitySegment struct {
	ID         int64 `json:"id" db:"id"`
	SegmentID  int64 `json:"segment_id" db:"segment_id"`
	ActivityID int64 `json:"activity_id" db:"activity_id"`
	Lap        int   `json:"lap" db:"lap"`

	StartTime      time.Time `json:"start_time" db:"start_time"`
	ElapsedSeconds float64   `json:"elapsed_seconds" db:"elapsed_seconds"`
	DistanceMeters float64   `json:"distance_meters" db:"distance_meters"`
	PaceSecPerM    float64   `json:"pace_sec_per_m" db:"pace_sec_per_m"`
	AvgHeartRate   float64   `json:"avg_heart_rate" db:"avg_heart_rate"`
	MaxHeartRate   float64   `json:"max_heart_rate" db:"max_heart_rate"`
	ElevationGain  float64   `json:"elevation_gain" db:"elevation_gain"`
	ElevationLoss  float64   `json:"elevation_loss" db:"elevation_loss"`

	Crossings []GateCrossing    `json:"crossings"`
	Splits    []SubSegmentSplit `json:"splits"`
}

// SegmentFilter represents filter parameters for querying segments
type SegmentFilter struct {
	UserID       int64 `form:"-"`
	ActivityType int   `form:"activityType"`
	Page         int   `form:"page"`
	PageSize     int   `form:"pageSize"`
}
