package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jengzang/fitness-backend-go/internal/models"
)

// StreamRepository handles database operations for stream payloads
type StreamRepository struct {
	db *sql.DB
}

// NewStreamRepository creates a new stream repository
func NewStreamRepository(db *sql.DB) *StreamRepository {
	return &StreamRepository{db: db}
}

// streamEnvelope is the stored JSON shape of one payload.
type streamEnvelope struct {
	Samples []models.StreamSample `json:"samples,omitempty"`
	Coords  []models.CoordSample  `json:"coords,omitempty"`
}

// CreateAll inserts the stream payloads of one activity
func (r *StreamRepository) CreateAll(tx *sql.Tx, activityID int64, streams []models.StreamPayload) error {
	stmt, err := tx.Prepare("INSERT INTO streams (activity_id, stream_type, payload) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare stream insert: %w", err)
	}
	defer stmt.Close()

	for _, s := range streams {
		payload, err := json.Marshal(streamEnvelope{Samples: s.Samples, Coords: s.Coords})
		if err != nil {
			return fmt.Errorf("failed to marshal stream %d: %w", s.Type, err)
		}
		if _, err := stmt.Exec(activityID, s.Type, string(payload)); err != nil {
			return fmt.Errorf("failed to insert stream %d: %w", s.Type, err)
		}
	}
	return nil
}

// GetByActivity retrieves all streams of an activity
func (r *StreamRepository) GetByActivity(activityID int64) ([]models.StreamPayload, error) {
	rows, err := r.db.Query(
		"SELECT id, activity_id, stream_type, payload FROM streams WHERE activity_id = ? ORDER BY stream_type",
		activityID)
	if err != nil {
		return nil, fmt.Errorf("failed to query streams: %w", err)
	}
	defer rows.Close()

	var streams []models.StreamPayload
	for rows.Next() {
		s, err := scanStream(rows)
		if err != nil {
			return nil, err
		}
		streams = append(streams, *s)
	}
	return streams, nil
}

// GetByActivityAndType retrieves one channel of an activity, nil if absent
func (r *StreamRepository) GetByActivityAndType(activityID int64, streamType models.StreamType) (*models.StreamPayload, error) {
	row := r.db.QueryRow(
		"SELECT id, activity_id, stream_type, payload FROM streams WHERE activity_id = ? AND stream_type = ?",
		activityID, streamType)

	s, err := scanStream(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func scanStream(row rowScanner) (*models.StreamPayload, error) {
	var s models.StreamPayload
	var payload string
	if err := row.Scan(&s.ID, &s.ActivityID, &s.Type, &payload); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan stream: %w", err)
	}

	var envelope streamEnvelope
	if err := json.Unmarshal([]byte(payload), &envelope); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stream payload: %w", err)
	}
	s.Samples = envelope.Samples
	s.Coords = envelope.Coords
	return &s, nil
}
