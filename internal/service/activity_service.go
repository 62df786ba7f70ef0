package service

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"math"

	"github.com/jengzang/fitness-backend-go/internal/database"
	"github.com/jengzang/fitness-backend-go/internal/decoder"
	"github.com/jengzang/fitness-backend-go/internal/matching"
	"github.com/jengzang/fitness-backend-go/internal/metrics"
	"github.com/jengzang/fitness-backend-go/internal/models"
	"github.com/jengzang/fitness-backend-go/internal/repository"
)

// ActivityService handles the activity import pipeline and read access
type ActivityService struct {
	dec             *decoder.Decoder
	activityRepo    *repository.ActivityRepository
	streamRepo      *repository.StreamRepository
	segmentRepo     *repository.SegmentRepository
	gearRepo        *repository.GearRepository
	defaultTimezone string
}

// NewActivityService creates a new activity service
func NewActivityService(
	dec *decoder.Decoder,
	activityRepo *repository.ActivityRepository,
	streamRepo *repository.StreamRepository,
	segmentRepo *repository.SegmentRepository,
	gearRepo *repository.GearRepository,
	defaultTimezone string,
) *ActivityService {
	return &ActivityService{
		dec:             dec,
		activityRepo:    activityRepo,
		streamRepo:      streamRepo,
		segmentRepo:     segmentRepo,
		gearRepo:        gearRepo,
		defaultTimezone: defaultTimezone,
	}
}

// Import decodes an uploaded activity file, persists one activity plus its
// streams per contained session, and matches each new activity against the
// user's segments of the same type.
func (s *ActivityService) Import(ctx context.Context, userID int64, filename string, data []byte) ([]models.Activity, error) {
	bundles, err := s.dec.DecodeFile(ctx, filename, data)
	if err != nil {
		return nil, err
	}

	opts := decoder.AssembleOptions{
		UserID:          userID,
		Visibility:      models.VisibilityPrivate,
		DefaultTimezone: s.defaultTimezone,
		Gear:            s.gearRepo,
	}

	var created []models.Activity
	for _, bundle := range bundles {
		activity, streams := decoder.Assemble(bundle, opts)

		err := database.Transaction(func(tx *sql.Tx) error {
			if err := s.activityRepo.Create(tx, activity); err != nil {
				return err
			}
			for i := range streams {
				streams[i].ActivityID = activity.ID
			}
			return s.streamRepo.CreateAll(tx, activity.ID, streams)
		})
		if err != nil {
			return nil, fmt.Errorf("failed to store activity: %w", err)
		}

		if err := s.matchAgainstSegments(activity, bundle); err != nil {
			// Matching is best-effort on import; the activity itself is stored.
			log.Printf("segment matching failed for activity %d: %v", activity.ID, err)
		}

		created = append(created, *activity)
	}

	return created, nil
}

// matchAgainstSegments runs the newly imported activity against every
// segment of the user with the same activity type.
func (s *ActivityService) matchAgainstSegments(activity *models.Activity, bundle decoder.SessionBundle) error {
	if !bundle.Position.Present() {
		return nil
	}

	segments, err := s.segmentRepo.GetByUserAndType(activity.UserID, activity.ActivityType)
	if err != nil {
		return err
	}

	for _, segment := range segments {
		laps := matching.MatchSegment(segment, bundle.Position.Coords, bundle.HeartRate.Samples, bundle.Elevation.Samples)
		for i := range laps {
			laps[i].ActivityID = activity.ID
		}
		if err := s.segmentRepo.UpsertMatches(laps); err != nil {
			return err
		}
	}
	return nil
}

// GetActivities retrieves activities with filtering and pagination
func (s *ActivityService) GetActivities(filter models.ActivityFilter) (*models.ActivitiesResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 50
	}

	activities, total, err := s.activityRepo.GetActivities(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to get activities: %w", err)
	}

	return &models.ActivitiesResponse{
		Data:       activities,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.PageSize))),
	}, nil
}

// GetByID retrieves a single activity owned by the user
func (s *ActivityService) GetByID(id, userID int64) (*models.Activity, error) {
	activity, err := s.activityRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if activity == nil || activity.UserID != userID {
		return nil, nil
	}
	return activity, nil
}

// GetStreams retrieves the stream payloads of an activity
func (s *ActivityService) GetStreams(id, userID int64) ([]models.StreamPayload, error) {
	activity, err := s.GetByID(id, userID)
	if err != nil || activity == nil {
		return nil, err
	}
	return s.streamRepo.GetByActivity(id)
}

// GetHeartRateZones computes time-in-zone shares from the stored heart-rate
// stream. maxHR <= 0 falls back to the activity's recorded max.
func (s *ActivityService) GetHeartRateZones(id, userID int64, maxHR float64) ([]metrics.ZoneShare, error) {
	activity, err := s.GetByID(id, userID)
	if err != nil {
		return nil, err
	}
	if activity == nil {
		return nil, nil
	}

	stream, err := s.streamRepo.GetByActivityAndType(id, models.StreamHeartRate)
	if err != nil || stream == nil {
		return nil, err
	}

	if maxHR <= 0 {
		maxHR = activity.MaxHeartRate
	}
	return metrics.HeartRateZones(stream.Samples, maxHR), nil
}

// Delete removes an activity owned by the user
func (s *ActivityService) Delete(id, userID int64) error {
	return s.activityRepo.Delete(id, userID)
}
