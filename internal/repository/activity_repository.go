package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jengzang/fitness-backend-go/internal/models"
)

const activityColumns = `id, uuid, user_id, name, activity_type, visibility, timezone,
	start_time, elapsed_seconds, timer_seconds, distance_meters, pace_sec_per_m, calories,
	elevation_gain, elevation_loss, avg_heart_rate, max_heart_rate, avg_cadence, max_cadence,
	avg_power, max_power, normalized_power, avg_speed, max_speed,
	start_lat, start_lon, city, town, country, feeling, rpe, gear_id, external_id, laps, created_at`

// ActivityRepository handles database operations for activities
type ActivityRepository struct {
	db *sql.DB
}

// NewActivityRepository creates a new activity repository
func NewActivityRepository(db *sql.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Create inserts an activity and sets its generated ID
func (r *ActivityRepository) Create(tx *sql.Tx, a *models.Activity) error {
	query := `INSERT INTO activities (uuid, user_id, name, activity_type, visibility, timezone,
		start_time, elapsed_seconds, timer_seconds, distance_meters, pace_sec_per_m, calories,
		elevation_gain, elevation_loss, avg_heart_rate, max_heart_rate, avg_cadence, max_cadence,
		avg_power, max_power, normalized_power, avg_speed, max_speed,
		start_lat, start_lon, city, town, country, feeling, rpe, gear_id, external_id, laps)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	laps, err := json.Marshal(a.Laps)
	if err != nil {
		return fmt.Errorf("failed to marshal laps: %w", err)
	}
	if a.Laps == nil {
		laps = []byte("[]")
	}

	result, err := tx.Exec(query,
		a.UUID, a.UserID, a.Name, a.ActivityType, a.Visibility, a.Timezone,
		a.StartTime, a.ElapsedSeconds, a.TimerSeconds, a.DistanceMeters, a.PaceSecPerM, a.Calories,
		a.ElevationGain, a.ElevationLoss, a.AvgHeartRate, a.MaxHeartRate, a.AvgCadence, a.MaxCadence,
		a.AvgPower, a.MaxPower, a.NormalizedPower, a.AvgSpeed, a.MaxSpeed,
		a.StartLat, a.StartLon, a.City, a.Town, a.Country, a.Feeling, a.RPE, a.GearID, a.ExternalID, string(laps),
	)
	if err != nil {
		return fmt.Errorf("failed to insert activity: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get activity id: %w", err)
	}
	a.ID = id
	return nil
}

// GetActivities retrieves activities with filtering and pagination
func (r *ActivityRepository) GetActivities(filter models.ActivityFilter) ([]models.Activity, int64, error) {
	conditions := []string{"user_id = ?"}
	args := []interface{}{filter.UserID}

	if filter.ActivityType > 0 {
		conditions = append(conditions, "activity_type = ?")
		args = append(args, filter.ActivityType)
	}
	if filter.StartTime > 0 {
		conditions = append(conditions, "start_time >= datetime(?, 'unixepoch')")
		args = append(args, filter.StartTime)
	}
	if filter.EndTime > 0 {
		conditions = append(conditions, "start_time <= datetime(?, 'unixepoch')")
		args = append(args, filter.EndTime)
	}

	where := " WHERE " + strings.Join(conditions, " AND ")

	var total int64
	if err := r.db.QueryRow("SELECT COUNT(*) FROM activities"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count activities: %w", err)
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 50
	}
	if filter.PageSize > 500 {
		filter.PageSize = 500
	}
	offset := (filter.Page - 1) * filter.PageSize

	query := "SELECT " + activityColumns + " FROM activities" + where +
		" ORDER BY start_time DESC LIMIT ? OFFSET ?"
	args = append(args, filter.PageSize, offset)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query activities: %w", err)
	}
	defer rows.Close()

	var activities []models.Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, 0, err
		}
		activities = append(activities, *a)
	}

	return activities, total, nil
}

// GetByID retrieves a single activity by ID
func (r *ActivityRepository) GetByID(id int64) (*models.Activity, error) {
	row := r.db.QueryRow("SELECT "+activityColumns+" FROM activities WHERE id = ?", id)
	a, err := scanActivity(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get activity: %w", err)
	}
	return a, nil
}

// GetByUserAndType retrieves all of a user's activities of one type,
// used when re-running segment matching.
func (r *ActivityRepository) GetByUserAndType(userID int64, activityType models.ActivityType) ([]models.Activity, error) {
	query := "SELECT " + activityColumns + " FROM activities WHERE user_id = ? AND activity_type = ? ORDER BY start_time"
	rows, err := r.db.Query(query, userID, activityType)
	if err != nil {
		return nil, fmt.Errorf("failed to query activities: %w", err)
	}
	defer rows.Close()

	var activities []models.Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		activities = append(activities, *a)
	}
	return activities, nil
}

// Delete removes an activity (streams and matches cascade)
func (r *ActivityRepository) Delete(id, userID int64) error {
	result, err := r.db.Exec("DELETE FROM activities WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete activity: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete activity: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanActivity(row rowScanner) (*models.Activity, error) {
	var a models.Activity
	var laps string
	err := row.Scan(
		&a.ID, &a.UUID, &a.UserID, &a.Name, &a.ActivityType, &a.Visibility, &a.Timezone,
		&a.StartTime, &a.ElapsedSeconds, &a.TimerSeconds, &a.DistanceMeters, &a.PaceSecPerM, &a.Calories,
		&a.ElevationGain, &a.ElevationLoss, &a.AvgHeartRate, &a.MaxHeartRate, &a.AvgCadence, &a.MaxCadence,
		&a.AvgPower, &a.MaxPower, &a.NormalizedPower, &a.AvgSpeed, &a.MaxSpeed,
		&a.StartLat, &a.StartLon, &a.City, &a.Town, &a.Country, &a.Feeling, &a.RPE, &a.GearID, &a.ExternalID, &laps, &a.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan activity: %w", err)
	}
	if err := json.Unmarshal([]byte(laps), &a.Laps); err != nil {
		return nil, fmt.Errorf("failed to unmarshal laps: %w", err)
	}
	return &a, nil
}
