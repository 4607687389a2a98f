package event

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type CustomerEventPayload struct {
	CustomerID int64               `json:"customerId"`
	Type       string              `json:"type"`
	Name       string              `json:"name"`
	Age        *int32              `json:"age"`
	Email      string              `json:"email"`
	Salary     decimal.NullDecimal `json:"salary"`
}

type CustomerCreatedEvent struct {
	Timestamp time.Time            `json:"timestamp"`
	Payload   CustomerEventPayload `json:"payload"`
}

type CustomerUpdatedEvent struct {
	Timestamp time.Time            `json:"timestamp"`
	Payload   CustomerEventPayload `json:"payload"`
}

type CustomerDeletedEvent struct {
	Timestamp  time.Time `json:"timestamp"`
	CustomerID int64     `json:"customerId"`
}

type EventPublisher interface {
	PublishCustomerCreated(ctx context.Context, event CustomerCreatedEvent) error
	PublishCustomerUpdated(ctx context.Context, event CustomerUpdatedEvent) error
	PublishCustomerDeleted(ctx context.Context, event CustomerDeletedEvent) error
}

// NoopEventPublisher is used when no broker is configured.
type NoopEventPublisher struct{}

var _ EventPublisher = NoopEventPublisher{}

func (NoopEventPublisher) PublishCustomerCreated(context.Context, CustomerCreatedEvent) error {
	return nil
}

func (NoopEventPublisher) PublishCustomerUpdated(context.Context, CustomerUpdatedEvent) error {
	return nil
}

func (NoopEventPublisher) PublishCustomerDeleted(context.Context, CustomerDeletedEvent) error {
	return nil
}
