package models

import "time"

// Visibility levels for an activity.
const (
	VisibilityPrivate   = 0
	VisibilityFollowers = 1
	VisibilityPublic    = 2
)

// Activity is the normalized, persisted record for one workout session.
// It is created once by the assembler and never mutated by the core
// afterwards; edits happen through the persistence layer only.
type Activity struct {
	ID     int64  `json:"id" db:"id"`
	UUID   string `json:"uuid" db:"uuid"`
	UserID int64  `json:"user_id" db:"user_id"`

	Name         string       `json:"name" db:"name"`
	ActivityType ActivityType `json:"activity_type" db:"activity_type"`
	Visibility   int          `json:"visibility" db:"visibility"`
	Timezone     string       `json:"timezone" db:"timezone"`

	StartTime      time.Time `json:"start_time" db:"start_time"`
	ElapsedSeconds float64   `json:"elapsed_seconds" db:"elapsed_seconds"`
	TimerSeconds   float64   `json:"timer_seconds" db:"timer_seconds"`
	DistanceMeters float64   `json:"distance_meters" db:"distance_meters"`
	PaceSecPerM    float64   `json:"pace_sec_per_m" db:"pace_sec_per_m"`
	Calories       int       `json:"calories" db:"calories"`

	ElevationGain float64 `json:"elevation_gain" db:"elevation_gain"`
	ElevationLoss float64 `json:"elevation_loss" db:"elevation_loss"`

	AvgHeartRate float64 `json:"avg_heart_rate" db:"avg_heart_rate"`
	MaxHeartRate float64 `json:"max_heart_rate" db:"max_heart_rate"`
	AvgCadence   float64 `json:"avg_cadence" db:"avg_cadence"`
	MaxCadence   float64 `json:"max_cadence" db:"max_cadence"`
	AvgPower     float64 `json:"avg_power" db:"avg_power"`
	MaxPower     float64 `json:"max_power" db:"max_power"`
	NormalizedPower float64 `json:"normalized_power" db:"normalized_power"`
	AvgSpeed     float64 `json:"avg_speed" db:"avg_speed"`
	MaxSpeed     float64 `json:"max_speed" db:"max_speed"`

	StartLat *float64 `json:"start_lat,omitempty" db:"start_lat"`
	StartLon *float64 `json:"start_lon,omitempty" db:"start_lon"`
	City     string   `json:"city,omitempty" db:"city"`
	Town     string   `json:"town,omitempty" db:"town"`
	Country  string   `json:"country,omitempty" db:"country"`

	// Optional self-reported effort: feeling 0-100, RPE 10-100.
	Feeling *int `json:"feeling,omitempty" db:"feeling"`
	RPE     *int `json:"rpe,omitempty" db:"rpe"`

	GearID     *int64  `json:"gear_id,omitempty" db:"gear_id"`
	ExternalID *string `json:"external_id,omitempty" db:"external_id"`

	// Laps are the device-recorded splits, stored as JSON alongside the row.
	Laps []LapSplit `json:"laps,omitempty"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// LapSplit is one device-recorded lap or split of an activity.
type LapSplit struct {
	Index          int       `json:"index"`
	StartTime      time.Time `json:"start_time"`
	ElapsedSeconds float64   `json:"elapsed_seconds"`
	DistanceMeters float64   `json:"distance_meters"`
	AvgHeartRate   float64   `json:"avg_heart_rate"`
	AvgSpeed       float64   `json:"avg_speed"`
}

// ActivityFilter represents filter parameters for querying activities
type ActivityFilter struct {
	UserID       int64  `form:"-"`
	ActivityType int    `form:"activityType"`
	StartTime    int64  `form:"startTime"` // Unix timestamp
	EndTime      int64  `form:"endTime"`   // Unix timestamp
	Page         int    `form:"page"`
	PageSize     int    `form:"pageSize"`
	OrderBy      string `form:"orderBy"`
}

// ActivitiesResponse represents a paginated response of activities
type ActivitiesResponse struct {
	Data       []Activity `json:"data"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	PageSize   int        `json:"pageSize"`
	TotalPages int        `json:"totalPages"`
}
