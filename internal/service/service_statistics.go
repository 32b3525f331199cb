package service

import (
	"context"
	"fmt"

	"github.com/reqdesk/reqdesk/internal/logger"
	"github.com/reqdesk/reqdesk/internal/store"
	"github.com/reqdesk/reqdesk/models"
)

// statisticsService is the concrete implementation of StatisticsService.
type statisticsService struct {
	statisticsRepository store.StatisticsRepository
	logger               *logger.Logger
}

// NewStatisticsService constructs a StatisticsService backed by the given
// repository.
func NewStatisticsService(statisticsRepository store.StatisticsRepository, logger *logger.Logger) StatisticsService {
	return &statisticsService{
		statisticsRepository: statisticsRepository,
		logger:               logger,
	}
}

// GetStatistics aggregates request counters for the dashboard. Restricted to
// administrators.
func (s *statisticsService) GetStatistics(ctx context.Context, callerRole models.UserRole) (models.Statistics, error) {
	log := logger.FromContext(ctx)

	if callerRole != models.RoleAdministrator {
		return models.Statistics{}, ErrPermissionDenied
	}

	stats, err := s.statisticsRepository.GetStatistics(ctx)
	if err != nil {
		log.Err(err).Msg("statistics aggregation failed")
		return models.Statistics{}, fmt.Errorf("statistics aggregation failed: %w", err)
	}

	return stats, nil
}
