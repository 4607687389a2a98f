package customer

import "github.com/shopspring/decimal"

// Customer is the persisted record. Age and Salary stay nullable so that a
// record can round-trip through the mapper without substituting defaults.
type Customer struct {
	ID     int64
	Type   string
	Name   string
	Age    *int32
	Email  string
	Salary decimal.NullDecimal
}

// IsNew reports whether the record has not been assigned an id by storage yet.
func (c *Customer) IsNew() bool {
	return c.ID == 0
}
