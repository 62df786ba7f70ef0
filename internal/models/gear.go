package models

import "time"

// Gear is a piece of equipment (shoes, bike) an activity can be linked to.
type Gear struct {
	ID           int64        `json:"id" db:"id"`
	UserID       int64        `json:"user_id" db:"user_id"`
	Name         string       `json:"name" db:"name"`
	ActivityType ActivityType `json:"activity_type" db:"activity_type"`
	IsDefault    bool         `json:"is_default" db:"is_default"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
}
