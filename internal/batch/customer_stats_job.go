package batch

import (
	"context"
	"customer-service/internal/domain/customer"
	"customer-service/internal/infrastructure/monitoring"
	"fmt"
	"log/slog"
	"time"
)

// CustomerCounter is the slice of the repository the stats job needs.
type CustomerCounter interface {
	Count(ctx context.Context) (int64, error)
}

var _ CustomerCounter = (customer.CustomerRepository)(nil)

type CustomerStatsJob struct {
	repo   CustomerCounter
	logger *slog.Logger
}

func NewCustomerStatsJob(repo CustomerCounter, logger *slog.Logger) *CustomerStatsJob {
	if repo == nil || logger == nil {
		panic("CustomerStatsJob dependencies cannot be nil")
	}
	return &CustomerStatsJob{
		repo:   repo,
		logger: logger.With("job", "CustomerStats"),
	}
}

// Run refreshes the stored-customer gauge. The gauge keeps its previous value
// when counting fails.
func (j *CustomerStatsJob) Run(ctx context.Context) error {
	startTime := time.Now()
	j.logger.DebugContext(ctx, "Starting customer stats job.")

	count, err := j.repo.Count(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to count customers, gauge left unchanged.", slog.Any("error", err))
		return fmt.Errorf("cannot refresh customer stats: %w", err)
	}

	monitoring.SetCustomerCount(count)
	j.logger.InfoContext(ctx, "Customer stats job finished.",
		slog.Int64("customers", count),
		slog.Duration("duration", time.Since(startTime)),
	)
	return nil
}
