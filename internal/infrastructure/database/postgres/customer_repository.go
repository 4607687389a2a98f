package postgres

import (
	"context"
	"customer-service/internal/domain/customer"
	"customer-service/internal/infrastructure/monitoring"
	"customer-service/internal/pkg/apperrors"
	"fmt"
	"log/slog"
	"os"
	"time"
)

const (
	insertCustomerSQL = `
        INSERT INTO customer (type, name, age, email, salary)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id`

	updateCustomerSQL = `
        UPDATE customer
        SET type = $1,
            name = $2,
            age = $3,
            email = $4,
            salary = $5
        WHERE id = $6`

	selectAllCustomersSQL = `
        SELECT id, type, name, age, email, salary
        FROM customer
        ORDER BY id ASC`

	existsCustomerSQL = `SELECT EXISTS (SELECT 1 FROM customer WHERE id = $1)`

	deleteCustomerSQL = `DELETE FROM customer WHERE id = $1`

	countCustomersSQL = `SELECT COUNT(*) FROM customer`
)

type CustomerRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ customer.CustomerRepository = (*CustomerRepository)(nil)

func NewCustomerRepository(db DBPool, logger *slog.Logger) *CustomerRepository {
	if db == nil {
		panic("DBPool cannot be nil for CustomerRepository")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewCustomerRepository, using default stderr handler")
	}
	return &CustomerRepository{
		db:     db,
		logger: logger.With("component", "CustomerRepository"),
	}
}

func (r *CustomerRepository) Save(ctx context.Context, cust *customer.Customer) error {
	if cust == nil {
		return fmt.Errorf("%w: customer cannot be nil", apperrors.ErrInvalidArgument)
	}

	if cust.IsNew() {
		return r.createCustomer(ctx, cust)
	}
	return r.updateCustomer(ctx, cust)
}

func (r *CustomerRepository) createCustomer(ctx context.Context, cust *customer.Customer) error {
	r.logger.DebugContext(ctx, "Attempting to insert new customer", slog.String("name", cust.Name))

	start := time.Now()
	err := r.db.QueryRow(ctx, insertCustomerSQL,
		cust.Type,
		cust.Name,
		cust.Age,
		cust.Email,
		cust.Salary,
	).Scan(&cust.ID)
	monitoring.RecordDBQuery("InsertCustomer", err, time.Since(start))

	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert customer", slog.Any("error", err))
		return apperrors.WrapDatabaseError(err, "failed to insert customer")
	}

	r.logger.InfoContext(ctx, "Customer inserted successfully", slog.Int64("customerID", cust.ID))
	return nil
}

// updateCustomer is a single conditional UPDATE, so a row deleted after the
// caller's existence check surfaces as ErrNotFound instead of being recreated.
func (r *CustomerRepository) updateCustomer(ctx context.Context, cust *customer.Customer) error {
	logger := r.logger.With(slog.Int64("customerID", cust.ID))
	logger.DebugContext(ctx, "Attempting to update customer")

	start := time.Now()
	cmdTag, err := r.db.Exec(ctx, updateCustomerSQL,
		cust.Type,
		cust.Name,
		cust.Age,
		cust.Email,
		cust.Salary,
		cust.ID,
	)
	monitoring.RecordDBQuery("UpdateCustomer", err, time.Since(start))

	if err != nil {
		logger.ErrorContext(ctx, "Failed to update customer", slog.Any("error", err))
		return apperrors.WrapDatabaseError(err, "failed to update customer")
	}

	if cmdTag.RowsAffected() == 0 {
		logger.WarnContext(ctx, "Update affected zero rows, customer likely not found")
		return customer.ErrNotFound
	}

	logger.InfoContext(ctx, "Customer updated successfully")
	return nil
}

func (r *CustomerRepository) ExistsByID(ctx context.Context, customerID int64) (bool, error) {
	var exists bool

	start := time.Now()
	err := r.db.QueryRow(ctx, existsCustomerSQL, customerID).Scan(&exists)
	monitoring.RecordDBQuery("ExistsCustomer", err, time.Since(start))

	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to check customer existence", slog.Int64("customerID", customerID), slog.Any("error", err))
		return false, apperrors.WrapDatabaseError(err, "failed to check customer existence")
	}

	return exists, nil
}

func (r *CustomerRepository) FindAll(ctx context.Context) ([]*customer.Customer, error) {
	r.logger.DebugContext(ctx, "Attempting to find all customers")

	start := time.Now()
	customers, err := r.findAll(ctx)
	monitoring.RecordDBQuery("FindAllCustomers", err, time.Since(start))
	if err != nil {
		return nil, err
	}

	r.logger.InfoContext(ctx, "Finished finding customers", slog.Int("count", len(customers)))
	return customers, nil
}

func (r *CustomerRepository) findAll(ctx context.Context) ([]*customer.Customer, error) {
	rows, err := r.db.Query(ctx, selectAllCustomersSQL)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query customers", slog.Any("error", err))
		return nil, apperrors.WrapDatabaseError(err, "failed to query customers")
	}
	defer rows.Close()

	customers := make([]*customer.Customer, 0)
	for rows.Next() {
		var cust customer.Customer
		err := rows.Scan(
			&cust.ID,
			&cust.Type,
			&cust.Name,
			&cust.Age,
			&cust.Email,
			&cust.Salary,
		)
		if err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan customer row", slog.Any("error", err))
			return nil, apperrors.WrapDatabaseError(err, "failed to scan customer row")
		}
		customers = append(customers, &cust)
	}

	if err = rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating customer rows", slog.Any("error", err))
		return nil, apperrors.WrapDatabaseError(err, "error iterating customer rows")
	}

	return customers, nil
}

func (r *CustomerRepository) DeleteByID(ctx context.Context, customerID int64) error {
	logger := r.logger.With(slog.Int64("customerID", customerID))
	logger.DebugContext(ctx, "Attempting to delete customer")

	start := time.Now()
	cmdTag, err := r.db.Exec(ctx, deleteCustomerSQL, customerID)
	monitoring.RecordDBQuery("DeleteCustomer", err, time.Since(start))

	if err != nil {
		logger.ErrorContext(ctx, "Failed to execute delete customer", slog.Any("error", err))
		return apperrors.WrapDatabaseError(err, "failed to delete customer")
	}

	if cmdTag.RowsAffected() == 0 {
		logger.WarnContext(ctx, "Delete affected zero rows, customer likely not found")
		return customer.ErrNotFound
	}

	logger.InfoContext(ctx, "Customer deleted successfully")
	return nil
}

func (r *CustomerRepository) Count(ctx context.Context) (int64, error) {
	var count int64

	start := time.Now()
	err := r.db.QueryRow(ctx, countCustomersSQL).Scan(&count)
	monitoring.RecordDBQuery("CountCustomers", err, time.Since(start))

	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to count customers", slog.Any("error", err))
		return 0, apperrors.WrapDatabaseError(err, "failed to count customers")
	}
	return count, nil
}
