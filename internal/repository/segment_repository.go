package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jengzang/fitness-backend-go/internal/models"
)

// SegmentRepository handles database operations for segments, gates and
// match results
type SegmentRepository struct {
	db *sql.DB
}

// NewSegmentRepository creates a new segment repository
func NewSegmentRepository(db *sql.DB) *SegmentRepository {
	return &SegmentRepository{db: db}
}

// Create inserts a segment with its gates
func (r *SegmentRepository) Create(tx *sql.Tx, s *models.Segment) error {
	result, err := tx.Exec(
		"INSERT INTO segments (user_id, name, activity_type) VALUES (?, ?, ?)",
		s.UserID, s.Name, s.ActivityType)
	if err != nil {
		return fmt.Errorf("failed to insert segment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get segment id: %w", err)
	}
	s.ID = id

	stmt, err := tx.Prepare(`INSERT INTO segment_gates (segment_id, gate_index, start_lat, start_lon, end_lat, end_lon)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare gate insert: %w", err)
	}
	defer stmt.Close()

	for _, g := range s.Gates {
		if _, err := stmt.Exec(s.ID, g.Index, g.StartLat, g.StartLon, g.EndLat, g.EndLon); err != nil {
			return fmt.Errorf("failed to insert gate %d: %w", g.Index, err)
		}
	}
	return nil
}

// GetSegments retrieves segments with filtering and pagination
func (r *SegmentRepository) GetSegments(filter models.SegmentFilter) ([]models.Segment, int64, error) {
	conditions := []string{"user_id = ?"}
	args := []interface{}{filter.UserID}

	if filter.ActivityType > 0 {
		conditions = append(conditions, "activity_type = ?")
		args = append(args, filter.ActivityType)
	}
	where := " WHERE " + strings.Join(conditions, " AND ")

	var total int64
	if err := r.db.QueryRow("SELECT COUNT(*) FROM segments"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count segments: %w", err)
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 50
	}
	offset := (filter.Page - 1) * filter.PageSize

	query := "SELECT id, user_id, name, activity_type, created_at FROM segments" + where +
		" ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, filter.PageSize, offset)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query segments: %w", err)
	}
	defer rows.Close()

	var segments []models.Segment
	for rows.Next() {
		var s models.Segment
		if err := rows.Scan(&s.ID, &s.UserID, &s.Name, &s.ActivityType, &s.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan segment: %w", err)
		}
		segments = append(segments, s)
	}

	for i := range segments {
		gates, err := r.getGates(segments[i].ID)
		if err != nil {
			return nil, 0, err
		}
		segments[i].Gates = gates
	}

	return segments, total, nil
}

// GetByID retrieves a single segment with its gates, nil when missing
func (r *SegmentRepository) GetByID(id int64) (*models.Segment, error) {
	var s models.Segment
	err := r.db.QueryRow(
		"SELECT id, user_id, name, activity_type, created_at FROM segments WHERE id = ?", id).
		Scan(&s.ID, &s.UserID, &s.Name, &s.ActivityType, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get segment: %w", err)
	}

	gates, err := r.getGates(id)
	if err != nil {
		return nil, err
	}
	s.Gates = gates
	return &s, nil
}

// GetByUserAndType retrieves a user's segments matching one activity type
func (r *SegmentRepository) GetByUserAndType(userID int64, activityType models.ActivityType) ([]models.Segment, error) {
	rows, err := r.db.Query(
		"SELECT id, user_id, name, activity_type, created_at FROM segments WHERE user_id = ? AND activity_type = ?",
		userID, activityType)
	if err != nil {
		return nil, fmt.Errorf("failed to query segments: %w", err)
	}
	defer rows.Close()

	var segments []models.Segment
	for rows.Next() {
		var s models.Segment
		if err := rows.Scan(&s.ID, &s.UserID, &s.Name, &s.ActivityType, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan segment: %w", err)
		}
		segments = append(segments, s)
	}

	for i := range segments {
		gates, err := r.getGates(segments[i].ID)
		if err != nil {
			return nil, err
		}
		segments[i].Gates = gates
	}
	return segments, nil
}

func (r *SegmentRepository) getGates(segmentID int64) ([]models.Gate, error) {
	rows, err := r.db.Query(
		`SELECT gate_index, start_lat, start_lon, end_lat, end_lon
		FROM segment_gates WHERE segment_id = ? ORDER BY gate_index`, segmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query gates: %w", err)
	}
	defer rows.Close()

	var gates []models.Gate
	for rows.Next() {
		var g models.Gate
		if err := rows.Scan(&g.Index, &g.StartLat, &g.StartLon, &g.EndLat, &g.EndLon); err != nil {
			return nil, fmt.Errorf("failed to scan gate: %w", err)
		}
		gates = append(gates, g)
	}
	return gates, nil
}

// UpsertMatches writes match results with upsert semantics keyed on
// (segment_id, activity_id, lap): existing rows are updated in place
func (r *SegmentRepository) UpsertMatches(matches []models.ActivitySegment) error {
	if len(matches) == 0 {
		return nil
	}

	query := `INSERT INTO activity_segments (segment_id, activity_id, lap, start_time, elapsed_seconds,
		distance_meters, pace_sec_per_m, avg_heart_rate, max_heart_rate, elevation_gain, elevation_loss,
		crossings, splits)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (segment_id, activity_id, lap) DO UPDATE SET
			start_time = excluded.start_time,
			elapsed_seconds = excluded.elapsed_seconds,
			distance_meters = excluded.distance_meters,
			pace_sec_per_m = excluded.pace_sec_per_m,
			avg_heart_rate = excluded.avg_heart_rate,
			max_heart_rate = excluded.max_heart_rate,
			elevation_gain = excluded.elevation_gain,
			elevation_loss = excluded.elevation_loss,
			crossings = excluded.crossings,
			splits = excluded.splits`

	stmt, err := r.db.Prepare(query)
	if err != nil {
		return fmt.Errorf("failed to prepare match upsert: %w", err)
	}
	defer stmt.Close()

	for _, m := range matches {
		crossings, err := json.Marshal(m.Crossings)
		if err != nil {
			return fmt.Errorf("failed to marshal crossings: %w", err)
		}
		splits, err := json.Marshal(m.Splits)
		if err != nil {
			return fmt.Errorf("failed to marshal splits: %w", err)
		}

		_, err = stmt.Exec(m.SegmentID, m.ActivityID, m.Lap, m.StartTime, m.ElapsedSeconds,
			m.DistanceMeters, m.PaceSecPerM, m.AvgHeartRate, m.MaxHeartRate,
			m.ElevationGain, m.ElevationLoss, string(crossings), string(splits))
		if err != nil {
			return fmt.Errorf("failed to upsert match lap %d: %w", m.Lap, err)
		}
	}
	return nil
}

// GetMatches retrieves match results for a segment
func (r *SegmentRepository) GetMatches(segmentID int64) ([]models.ActivitySegment, error) {
	rows, err := r.db.Query(
		`SELECT id, segment_id, activity_id, lap, start_time, elapsed_seconds, distance_meters,
			pace_sec_per_m, avg_heart_rate, max_heart_rate, elevation_gain, elevation_loss, crossings, splits
		FROM activity_segments WHERE segment_id = ? ORDER BY start_time, lap`, segmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	var matches []models.ActivitySegment
	for rows.Next() {
		var m models.ActivitySegment
		var crossings, splits string
		err := rows.Scan(&m.ID, &m.SegmentID, &m.ActivityID, &m.Lap, &m.StartTime, &m.ElapsedSeconds,
			&m.DistanceMeters, &m.PaceSecPerM, &m.AvgHeartRate, &m.MaxHeartRate,
			&m.ElevationGain, &m.ElevationLoss, &crossings, &splits)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		if err := json.Unmarshal([]byte(crossings), &m.Crossings); err != nil {
			return nil, fmt.Errorf("failed to unmarshal crossings: %w", err)
		}
		if err := json.Unmarshal([]byte(splits), &m.Splits); err != nil {
			return nil, fmt.Errorf("failed to unmarshal splits: %w", err)
		}
		matches = append(matches, m)
	}
	return matches, nil
}
