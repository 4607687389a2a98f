package customer

import (
	"context"
	"customer-service/internal/pkg/apperrors"
	"fmt"
)

var ErrNotFound = fmt.Errorf("customer %w", apperrors.ErrNotFound)

type CustomerRepository interface {
	ExistsByID(ctx context.Context, customerID int64) (bool, error)

	FindAll(ctx context.Context) ([]*Customer, error)

	// Save inserts when the customer has no id and assigns the generated one.
	// Otherwise it updates the matching row and returns ErrNotFound if none exists.
	Save(ctx context.Context, customer *Customer) error

	DeleteByID(ctx context.Context, customerID int64) error

	Count(ctx context.Context) (int64, error)
}
