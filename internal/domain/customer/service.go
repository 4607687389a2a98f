package customer

import (
	"context"
	"customer-service/internal/event"
	"customer-service/internal/pkg/apperrors"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"
)

type CustomerService interface {
	GetAll(ctx context.Context) ([]*Customer, error)
	Save(ctx context.Context, customer *Customer) error
	Delete(ctx context.Context, customerID int64) (bool, error)
	Exists(ctx context.Context, customerID int64) (bool, error)
}

var _ CustomerService = (*customerService)(nil)

type customerService struct {
	repo   CustomerRepository
	pub    event.EventPublisher
	logger *slog.Logger
}

func NewCustomerService(repo CustomerRepository, eventPublisher event.EventPublisher, logger *slog.Logger) CustomerService {
	if repo == nil {
		panic("customer repository cannot be nil")
	}

	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewCustomerService, using default stderr handler")
	}

	if eventPublisher == nil {
		logger.Warn("Warning: No event publisher provided to NewCustomerService, events will not be published")
		eventPublisher = event.NoopEventPublisher{}
	}

	return &customerService{
		repo:   repo,
		pub:    eventPublisher,
		logger: logger.With(slog.String("component", "customerService")),
	}
}

func NewCustomerEventPayload(cust *Customer) event.CustomerEventPayload {
	if cust == nil {
		return event.CustomerEventPayload{}
	}
	return event.CustomerEventPayload{
		CustomerID: cust.ID,
		Type:       cust.Type,
		Name:       cust.Name,
		Age:        cust.Age,
		Email:      cust.Email,
		Salary:     cust.Salary,
	}
}

func (s *customerService) GetAll(ctx context.Context) ([]*Customer, error) {
	s.logger.DebugContext(ctx, "Calling repository FindAll")
	customers, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository error listing customers", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}

	s.logger.InfoContext(ctx, "Successfully retrieved customers", slog.Int("count", len(customers)))
	return customers, nil
}

func (s *customerService) Save(ctx context.Context, cust *Customer) error {
	if cust == nil {
		return fmt.Errorf("%w: customer cannot be nil", apperrors.ErrInvalidArgument)
	}

	created := cust.IsNew()
	logger := s.logger.With(slog.Bool("insert", created))

	logger.DebugContext(ctx, "Calling repository Save")
	if err := s.repo.Save(ctx, cust); err != nil {
		if errors.Is(err, ErrNotFound) {
			logger.WarnContext(ctx, "Customer disappeared before save completed", slog.Int64("customerID", cust.ID))
			return ErrNotFound
		}
		logger.ErrorContext(ctx, "Repository failed to save customer", slog.Any("error", err))
		return fmt.Errorf("failed to save customer: %w", err)
	}
	logger = logger.With(slog.Int64("customerID", cust.ID))

	if created {
		s.publishCreated(ctx, cust, logger)
	} else {
		s.publishUpdated(ctx, cust, logger)
	}

	logger.InfoContext(ctx, "Successfully saved customer")
	return nil
}

func (s *customerService) Delete(ctx context.Context, customerID int64) (bool, error) {
	logger := s.logger.With(slog.Int64("customerID", customerID))

	exists, err := s.Exists(ctx, customerID)
	if err != nil {
		return false, err
	}
	if !exists {
		logger.WarnContext(ctx, "Customer not found by repository, nothing to delete")
		return false, nil
	}

	logger.DebugContext(ctx, "Calling repository DeleteByID")
	if err := s.repo.DeleteByID(ctx, customerID); err != nil {
		if errors.Is(err, ErrNotFound) {
			logger.WarnContext(ctx, "Customer deleted concurrently before delete completed")
			return false, nil
		}
		logger.ErrorContext(ctx, "Repository error deleting customer", slog.Any("error", err))
		return false, fmt.Errorf("failed to delete customer %d: %w", customerID, err)
	}

	deleted := event.CustomerDeletedEvent{Timestamp: time.Now(), CustomerID: customerID}
	if pubErr := s.pub.PublishCustomerDeleted(ctx, deleted); pubErr != nil {
		logger.ErrorContext(ctx, "Customer deleted, but FAILED to publish deletion event", slog.Any("error", pubErr))
	}

	logger.InfoContext(ctx, "Successfully deleted customer")
	return true, nil
}

func (s *customerService) Exists(ctx context.Context, customerID int64) (bool, error) {
	exists, err := s.repo.ExistsByID(ctx, customerID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository error checking customer existence", slog.Int64("customerID", customerID), slog.Any("error", err))
		return false, fmt.Errorf("failed to check customer %d: %w", customerID, err)
	}
	return exists, nil
}

func (s *customerService) publishCreated(ctx context.Context, cust *Customer, logger *slog.Logger) {
	created := event.CustomerCreatedEvent{
		Timestamp: time.Now(),
		Payload:   NewCustomerEventPayload(cust),
	}
	if err := s.pub.PublishCustomerCreated(ctx, created); err != nil {
		logger.ErrorContext(ctx, "Customer created, but FAILED to publish creation event", slog.Any("error", err))
	}
}

func (s *customerService) publishUpdated(ctx context.Context, cust *Customer, logger *slog.Logger) {
	updated := event.CustomerUpdatedEvent{
		Timestamp: time.Now(),
		Payload:   NewCustomerEventPayload(cust),
	}
	if err := s.pub.PublishCustomerUpdated(ctx, updated); err != nil {
		logger.ErrorContext(ctx, "Customer updated, but FAILED to publish update event", slog.Any("error", err))
	}
}
