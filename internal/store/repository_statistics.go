package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/reqdesk/reqdesk/internal/logger"
	"github.com/reqdesk/reqdesk/models"
)

// statisticsRepository is the PostgreSQL-backed implementation of
// [StatisticsRepository]. It runs four aggregate queries over the requests
// table and assembles a [models.Statistics] value for the admin dashboard.
type statisticsRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewStatisticsRepository constructs a [StatisticsRepository] backed by the
// provided database connection and logger.
func NewStatisticsRepository(db *DB, logger *logger.Logger) StatisticsRepository {
	logger.Debug().Msg("creating statistics repository")
	return &statisticsRepository{
		db:     db,
		logger: logger,
	}
}

// GetStatistics computes request counters in four passes: totals and
// completion rate, per-department counts, per-type counts and the five most
// active creators. The completion rate is a percentage, zero when no
// requests exist. Every pass is a read-only query, so transient database
// failures are retried.
func (r *statisticsRepository) GetStatistics(ctx context.Context) (models.Statistics, error) {
	log := logger.FromContext(ctx)

	var stats models.Statistics

	err := r.db.withRetry(ctx, func(ctx context.Context) error {
		row := r.db.QueryRowContext(ctx, statsTotalAndCompleted)
		return row.Scan(&stats.CompletionRate.TotalRequests, &stats.CompletionRate.CompletedRequests)
	})
	if err != nil {
		log.Err(err).Str("func", "*statisticsRepository.GetStatistics").Msg("failed to compute request totals")
		return models.Statistics{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	stats.TotalRequests = stats.CompletionRate.TotalRequests
	if stats.CompletionRate.TotalRequests > 0 {
		stats.CompletionRate.Rate = float64(stats.CompletionRate.CompletedRequests) / float64(stats.CompletionRate.TotalRequests) * 100
	}

	if err := r.db.withRetry(ctx, func(ctx context.Context) error {
		departments, countErr := r.departmentCounts(ctx)
		if countErr != nil {
			return countErr
		}
		stats.Departments = departments
		return nil
	}); err != nil {
		return models.Statistics{}, err
	}

	if err := r.db.withRetry(ctx, func(ctx context.Context) error {
		types, countErr := r.typeCounts(ctx)
		if countErr != nil {
			return countErr
		}
		stats.Types = types
		return nil
	}); err != nil {
		return models.Statistics{}, err
	}

	if err := r.db.withRetry(ctx, func(ctx context.Context) error {
		creators, countErr := r.topCreators(ctx)
		if countErr != nil {
			return countErr
		}
		stats.TopCreators = creators
		return nil
	}); err != nil {
		return models.Statistics{}, err
	}

	return stats, nil
}

func (r *statisticsRepository) departmentCounts(ctx context.Context) ([]models.DepartmentCount, error) {
	log := logger.FromContext(ctx)

	rows, err := r.db.QueryContext(ctx, statsByDepartment)
	if err != nil {
		log.Err(err).Str("func", "*statisticsRepository.departmentCounts").Msg("failed to compute department counts")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	counts := make([]models.DepartmentCount, 0, 4)
	for rows.Next() {
		var count models.DepartmentCount
		if scanErr := rows.Scan(&count.DepartmentID, &count.Name, &count.RequestCount); scanErr != nil {
			log.Err(scanErr).Str("func", "*statisticsRepository.departmentCounts").Msg("failed to scan department count row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		counts = append(counts, count)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).Str("func", "*statisticsRepository.departmentCounts").Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return counts, nil
}

func (r *statisticsRepository) typeCounts(ctx context.Context) ([]models.TypeCount, error) {
	log := logger.FromContext(ctx)

	rows, err := r.db.QueryContext(ctx, statsByType)
	if err != nil {
		log.Err(err).Str("func", "*statisticsRepository.typeCounts").Msg("failed to compute type counts")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	counts := make([]models.TypeCount, 0, 4)
	for rows.Next() {
		var count models.TypeCount
		if scanErr := rows.Scan(&count.Type, &count.RequestCount); scanErr != nil {
			log.Err(scanErr).Str("func", "*statisticsRepository.typeCounts").Msg("failed to scan type count row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		counts = append(counts, count)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).Str("func", "*statisticsRepository.typeCounts").Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return counts, nil
}

func (r *statisticsRepository) topCreators(ctx context.Context) ([]models.CreatorCount, error) {
	log := logger.FromContext(ctx)

	rows, err := r.db.QueryContext(ctx, statsTopCreators)
	if err != nil {
		log.Err(err).Str("func", "*statisticsRepository.topCreators").Msg("failed to compute top creators")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	counts := make([]models.CreatorCount, 0, 5)
	for rows.Next() {
		var (
			count    models.CreatorCount
			fullName sql.NullString
			email    sql.NullString
		)
		if scanErr := rows.Scan(&count.UserID, &fullName, &email, &count.RequestCount); scanErr != nil {
			log.Err(scanErr).Str("func", "*statisticsRepository.topCreators").Msg("failed to scan creator count row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		count.FullName = fullName.String
		count.Email = email.String
		counts = append(counts, count)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).Str("func", "*statisticsRepository.topCreators").Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return counts, nil
}
