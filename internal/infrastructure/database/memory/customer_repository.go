// Package memory holds a process-local CustomerRepository. It backs the
// "memory" database driver for local runs and stands in for Postgres in
// end-to-end tests.
package memory

import (
	"context"
	"customer-service/internal/domain/customer"
	"customer-service/internal/pkg/apperrors"
	"fmt"
	"sort"
	"sync"
)

type CustomerRepository struct {
	mu     sync.RWMutex
	rows   map[int64]customer.Customer
	nextID int64
}

var _ customer.CustomerRepository = (*CustomerRepository)(nil)

func NewCustomerRepository() *CustomerRepository {
	return &CustomerRepository{
		rows:   make(map[int64]customer.Customer),
		nextID: 1,
	}
}

func (r *CustomerRepository) ExistsByID(ctx context.Context, customerID int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.rows[customerID]
	return ok, nil
}

func (r *CustomerRepository) FindAll(ctx context.Context) ([]*customer.Customer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	customers := make([]*customer.Customer, 0, len(r.rows))
	for _, row := range r.rows {
		customers = append(customers, cloneCustomer(row))
	}
	sort.Slice(customers, func(i, j int) bool { return customers[i].ID < customers[j].ID })
	return customers, nil
}

func (r *CustomerRepository) Save(ctx context.Context, cust *customer.Customer) error {
	if cust == nil {
		return fmt.Errorf("%w: customer cannot be nil", apperrors.ErrInvalidArgument)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if cust.IsNew() {
		cust.ID = r.nextID
		r.nextID++
		r.rows[cust.ID] = *cloneCustomer(*cust)
		return nil
	}

	if _, ok := r.rows[cust.ID]; !ok {
		return customer.ErrNotFound
	}
	r.rows[cust.ID] = *cloneCustomer(*cust)
	return nil
}

func (r *CustomerRepository) DeleteByID(ctx context.Context, customerID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rows[customerID]; !ok {
		return customer.ErrNotFound
	}
	delete(r.rows, customerID)
	return nil
}

func (r *CustomerRepository) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.rows)), nil
}

// cloneCustomer copies the age pointer so callers never share state with storage.
func cloneCustomer(c customer.Customer) *customer.Customer {
	out := c
	if c.Age != nil {
		age := *c.Age
		out.Age = &age
	}
	return &out
}
