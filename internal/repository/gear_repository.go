package repository

import (
	"database/sql"
	"fmt"

	"github.com/jengzang/fitness-backend-go/internal/models"
)

// GearRepository handles database operations for gear
type GearRepository struct {
	db *sql.DB
}

// NewGearRepository creates a new gear repository
func NewGearRepository(db *sql.DB) *GearRepository {
	return &GearRepository{db: db}
}

// Create inserts a gear item
func (r *GearRepository) Create(g *models.Gear) error {
	result, err := r.db.Exec(
		"INSERT INTO gear (user_id, name, activity_type, is_default) VALUES (?, ?, ?, ?)",
		g.UserID, g.Name, g.ActivityType, g.IsDefault)
	if err != nil {
		return fmt.Errorf("failed to insert gear: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get gear id: %w", err)
	}
	g.ID = id
	return nil
}

// GetByUser retrieves all gear of a user
func (r *GearRepository) GetByUser(userID int64) ([]models.Gear, error) {
	rows, err := r.db.Query(
		"SELECT id, user_id, name, activity_type, is_default, created_at FROM gear WHERE user_id = ? ORDER BY name",
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query gear: %w", err)
	}
	defer rows.Close()

	var items []models.Gear
	for rows.Next() {
		var g models.Gear
		if err := rows.Scan(&g.ID, &g.UserID, &g.Name, &g.ActivityType, &g.IsDefault, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan gear: %w", err)
		}
		items = append(items, g)
	}
	return items, nil
}

// DefaultGear returns the user's default gear ID for an activity type, or
// nil when none is configured. Implements decoder.GearLookup.
func (r *GearRepository) DefaultGear(userID int64, activityType models.ActivityType) (*int64, error) {
	var id int64
	err := r.db.QueryRow(
		"SELECT id FROM gear WHERE user_id = ? AND activity_type = ? AND is_default = 1 LIMIT 1",
		userID, activityType).Scan(&id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get default gear: %w", err)
	}
	return &id, nil
}
