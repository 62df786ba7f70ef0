package service

import (
	"github.com/jengzang/fitness-backend-go/internal/models"
	"github.com/jengzang/fitness-backend-go/internal/repository"
)

// StatsService handles aggregated summaries and personal records
type StatsService struct {
	statsRepo *repository.StatsRepository
}

// NewStatsService creates a new stats service
func NewStatsService(statsRepo *repository.StatsRepository) *StatsService {
	return &StatsService{statsRepo: statsRepo}
}

// GetTypeSummaries aggregates the user's activities per type over an
// optional time range
func (s *StatsService) GetTypeSummaries(userID int64, startTime, endTime int64) ([]repository.TypeSummary, error) {
	return s.statsRepo.GetTypeSummaries(userID, startTime, endTime)
}

// GetPersonalRecords returns the user's best efforts for one activity type
func (s *StatsService) GetPersonalRecords(userID int64, activityType models.ActivityType) ([]repository.PersonalRecord, error) {
	return s.statsRepo.GetPersonalRecords(userID, activityType)
}
