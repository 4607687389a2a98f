package dto

import (
	"customer-service/internal/domain/customer"

	"github.com/shopspring/decimal"
)

// ToEntity copies a transfer object into a persisted-record shape. A nil id
// becomes 0, which storage treats as "not yet assigned".
func ToEntity(d CustomerDTO) *customer.Customer {
	cust := &customer.Customer{
		Type:  d.Type,
		Name:  d.Name,
		Age:   copyInt32(d.Age),
		Email: d.Email,
	}
	if d.ID != nil {
		cust.ID = *d.ID
	}
	if d.Salary != nil {
		cust.Salary = decimal.NewNullDecimal(decimal.NewFromFloat(*d.Salary))
	}
	return cust
}

func FromEntity(c *customer.Customer) CustomerDTO {
	if c == nil {
		return CustomerDTO{}
	}

	d := CustomerDTO{
		Type:  c.Type,
		Name:  c.Name,
		Age:   copyInt32(c.Age),
		Email: c.Email,
	}
	if c.ID != 0 {
		id := c.ID
		d.ID = &id
	}
	if c.Salary.Valid {
		salary := c.Salary.Decimal.InexactFloat64()
		d.Salary = &salary
	}
	return d
}

// FromEntities never returns nil so an empty result encodes as [].
func FromEntities(customers []*customer.Customer) []CustomerDTO {
	out := make([]CustomerDTO, 0, len(customers))
	for _, c := range customers {
		out = append(out, FromEntity(c))
	}
	return out
}

func copyInt32(v *int32) *int32 {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
