package repository

import (
	"database/sql"
	"fmt"

	"github.com/jengzang/fitness-backend-go/internal/models"
)

// TypeSummary aggregates a user's activities of one type.
type TypeSummary struct {
	ActivityType   models.ActivityType `json:"activity_type"`
	Count          int64               `json:"count"`
	DistanceMeters float64             `json:"distance_meters"`
	ElapsedSeconds float64             `json:"elapsed_seconds"`
	ElevationGain  float64             `json:"elevation_gain"`
	Calories       int64               `json:"calories"`
}

// PersonalRecord is a user's best value of one metric for one activity type.
type PersonalRecord struct {
	ActivityType models.ActivityType `json:"activity_type"`
	Metric       string              `json:"metric"`
	Value        float64             `json:"value"`
	ActivityID   int64               `json:"activity_id"`
}

// StatsRepository computes aggregated summaries over stored activities
type StatsRepository struct {
	db *sql.DB
}

// NewStatsRepository creates a new stats repository
func NewStatsRepository(db *sql.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// GetTypeSummaries aggregates per activity type, optionally bounded by a
// Unix-seconds time range (0 means unbounded).
func (r *StatsRepository) GetTypeSummaries(userID int64, startTime, endTime int64) ([]TypeSummary, error) {
	query := `SELECT activity_type, COUNT(*), COALESCE(SUM(distance_meters), 0),
		COALESCE(SUM(elapsed_seconds), 0), COALESCE(SUM(elevation_gain), 0), COALESCE(SUM(calories), 0)
		FROM activities WHERE user_id = ?`
	args := []interface{}{userID}

	if startTime > 0 {
		query += " AND start_time >= datetime(?, 'unixepoch')"
		args = append(args, startTime)
	}
	if endTime > 0 {
		query += " AND start_time <= datetime(?, 'unixepoch')"
		args = append(args, endTime)
	}
	query += " GROUP BY activity_type ORDER BY activity_type"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query type summaries: %w", err)
	}
	defer rows.Close()

	var summaries []TypeSummary
	for rows.Next() {
		var s TypeSummary
		if err := rows.Scan(&s.ActivityType, &s.Count, &s.DistanceMeters, &s.ElapsedSeconds, &s.ElevationGain, &s.Calories); err != nil {
			return nil, fmt.Errorf("failed to scan type summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, nil
}

// recordQueries maps each personal-record metric to the expression and sort
// direction that picks the best activity.
var recordQueries = []struct {
	metric string
	expr   string
	order  string
}{
	{"longest_distance", "distance_meters", "DESC"},
	{"fastest_avg_speed", "avg_speed", "DESC"},
	{"biggest_climb", "elevation_gain", "DESC"},
	{"longest_duration", "elapsed_seconds", "DESC"},
}

// GetPersonalRecords returns the user's best activities per type and metric
func (r *StatsRepository) GetPersonalRecords(userID int64, activityType models.ActivityType) ([]PersonalRecord, error) {
	var records []PersonalRecord

	for _, rq := range recordQueries {
		query := fmt.Sprintf(
			`SELECT id, %s FROM activities WHERE user_id = ? AND activity_type = ? AND %s > 0
			ORDER BY %s %s LIMIT 1`, rq.expr, rq.expr, rq.expr, rq.order)

		var id int64
		var value float64
		err := r.db.QueryRow(query, userID, activityType).Scan(&id, &value)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to query record %s: %w", rq.metric, err)
		}

		records = append(records, PersonalRecord{
			ActivityType: activityType,
			Metric:       rq.metric,
			Value:        value,
			ActivityID:   id,
		})
	}
	return records, nil
}
