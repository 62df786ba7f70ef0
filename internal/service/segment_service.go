package service

import (
	"database/sql"
	"fmt"
	"sort"

	"github.com/jengzang/fitness-backend-go/internal/database"
	"github.com/jengzang/fitness-backend-go/internal/matching"
	"github.com/jengzang/fitness-backend-go/internal/models"
	"github.com/jengzang/fitness-backend-go/internal/repository"
)

// SegmentService handles business logic for segments and match runs
type SegmentService struct {
	segmentRepo  *repository.SegmentRepository
	activityRepo *repository.ActivityRepository
	streamRepo   *repository.StreamRepository
}

// NewSegmentService creates a new segment service
func NewSegmentService(
	segmentRepo *repository.SegmentRepository,
	activityRepo *repository.ActivityRepository,
	streamRepo *repository.StreamRepository,
) *SegmentService {
	return &SegmentService{
		segmentRepo:  segmentRepo,
		activityRepo: activityRepo,
		streamRepo:   streamRepo,
	}
}

// Create stores a new segment and immediately matches it against all of the
// user's existing activities of the segment's activity type.
func (s *SegmentService) Create(segment *models.Segment) (*models.Segment, error) {
	if len(segment.Gates) < 2 {
		return nil, fmt.Errorf("a segment needs at least 2 gates")
	}

	// Gates are ordered 0..N-1 regardless of how the client numbered them.
	sort.Slice(segment.Gates, func(i, j int) bool {
		return segment.Gates[i].Index < segment.Gates[j].Index
	})
	for i := range segment.Gates {
		segment.Gates[i].Index = i
	}

	err := database.Transaction(func(tx *sql.Tx) error {
		return s.segmentRepo.Create(tx, segment)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create segment: %w", err)
	}

	if _, err := s.RefreshMatches(segment.ID, segment.UserID); err != nil {
		return nil, err
	}
	return segment, nil
}

// RefreshMatches re-runs matching for one segment against all of the
// owner's activities of the matching type. Existing result rows for the
// same (segment, activity, lap) are updated in place. Returns the number of
// completed laps found.
func (s *SegmentService) RefreshMatches(segmentID, userID int64) (int, error) {
	segment, err := s.segmentRepo.GetByID(segmentID)
	if err != nil {
		return 0, err
	}
	if segment == nil || segment.UserID != userID {
		return 0, fmt.Errorf("segment %d not found", segmentID)
	}

	activities, err := s.activityRepo.GetByUserAndType(userID, segment.ActivityType)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, activity := range activities {
		laps, err := s.matchActivity(segment, activity.ID)
		if err != nil {
			return total, err
		}
		total += laps
	}
	return total, nil
}

// matchActivity matches one segment against one stored activity's streams.
func (s *SegmentService) matchActivity(segment *models.Segment, activityID int64) (int, error) {
	position, err := s.streamRepo.GetByActivityAndType(activityID, models.StreamLatLng)
	if err != nil {
		return 0, err
	}
	if position == nil {
		return 0, nil
	}

	hr, err := s.streamRepo.GetByActivityAndType(activityID, models.StreamHeartRate)
	if err != nil {
		return 0, err
	}
	elevation, err := s.streamRepo.GetByActivityAndType(activityID, models.StreamElevation)
	if err != nil {
		return 0, err
	}

	var hrSamples, elevSamples []models.StreamSample
	if hr != nil {
		hrSamples = hr.Samples
	}
	if elevation != nil {
		elevSamples = elevation.Samples
	}

	laps := matching.MatchSegment(*segment, position.Coords, hrSamples, elevSamples)
	for i := range laps {
		laps[i].ActivityID = activityID
	}
	if err := s.segmentRepo.UpsertMatches(laps); err != nil {
		return 0, err
	}
	return len(laps), nil
}

// GetSegments retrieves segments with filtering and pagination
func (s *SegmentService) GetSegments(filter models.SegmentFilter) ([]models.Segment, int64, error) {
	return s.segmentRepo.GetSegments(filter)
}

// GetByID retrieves a single segment owned by the user
func (s *SegmentService) GetByID(id, userID int64) (*models.Segment, error) {
	segment, err := s.segmentRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if segment == nil || segment.UserID != userID {
		return nil, nil
	}
	return segment, nil
}

// GetMatches retrieves the match results of a segment
func (s *SegmentService) GetMatches(id, userID int64) ([]models.ActivitySegment, error) {
	segment, err := s.GetByID(id, userID)
	if err != nil || segment == nil {
		return nil, err
	}
	return s.segmentRepo.GetMatches(id)
}
