package handler

import (
	"customer-service/internal/api/handler/dto"
	"customer-service/internal/domain/customer"
	"customer-service/internal/pkg/apperrors"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

type CustomerHandler struct {
	service customer.CustomerService
	logger  *slog.Logger
}

func NewCustomerHandler(s customer.CustomerService, l *slog.Logger) *CustomerHandler {
	if s == nil {
		panic("customer service cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &CustomerHandler{
		service: s,
		logger:  l.With("component", "CustomerHandler"),
	}
}

func getCustomerIDFromURL(r *http.Request) (int64, error) {
	idStr := chi.URLParam(r, "id")
	if idStr == "" {
		return 0, apperrors.NewInvalidArgument(StatusInvalidDeleteID)
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewInvalidArgument(StatusInvalidDeleteID)
	}
	return id, nil
}

// decodeCustomer reads and validates the request body. The returned error is
// ready for respondError.
func (h *CustomerHandler) decodeCustomer(r *http.Request) (dto.CustomerDTO, error) {
	var req dto.CustomerDTO
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		return req, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err)
	}
	if err := req.Validate(); err != nil {
		h.logger.WarnContext(r.Context(), "Validation failed", slog.Any("error", err))
		return req, err
	}
	return req, nil
}

// GetAllCustomers handles GET /customer/get-all
// @Summary List customers
// @Description Returns every stored customer ordered by id. An empty store yields an empty array.
// @Tags Customers
// @Produce json
// @Success 200 {array} dto.CustomerDTO "List of customers"
// @Failure 500 {object} dto.StatusResponse "Internal server error"
// @Router /customer/get-all [get]
func (h *CustomerHandler) GetAllCustomers(w http.ResponseWriter, r *http.Request) {
	h.logger.DebugContext(r.Context(), "Received list customers request")

	customers, err := h.service.GetAll(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to list customers", slog.Any("error", err))
		respondError(w, h.logger, err)
		return
	}

	resp := dto.FromEntities(customers)
	h.logger.InfoContext(r.Context(), "Customers listed successfully", slog.Int("count", len(resp)))
	respondJSON(w, http.StatusOK, resp)
}

// AddCustomer handles POST /customer/add
// @Summary Create a customer
// @Description Validates the payload and stores a new customer. Any id in the body is ignored and a fresh one is assigned.
// @Tags Customers
// @Accept json
// @Produce json
// @Param request body dto.CustomerDTO true "Customer payload"
// @Success 201 {object} dto.StatusResponse "Customer Created Successfully"
// @Failure 400 {object} dto.ValidationErrorResponse "Field validation errors keyed by field name"
// @Failure 500 {object} dto.StatusResponse "Internal server error"
// @Router /customer/add [post]
func (h *CustomerHandler) AddCustomer(w http.ResponseWriter, r *http.Request) {
	h.logger.DebugContext(r.Context(), "Received add customer request")

	req, err := h.decodeCustomer(r)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	req.ID = nil

	cust := dto.ToEntity(req)
	if err := h.service.Save(r.Context(), cust); err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to create customer", slog.Any("error", err))
		respondError(w, h.logger, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Customer created successfully", slog.Int64("customerID", cust.ID))
	respondStatus(w, http.StatusCreated, StatusCustomerCreated)
}

// UpdateCustomer handles PUT /customer/update
// @Summary Update a customer
// @Description Replaces every field of the customer identified by the body's id.
// @Tags Customers
// @Accept json
// @Produce json
// @Param request body dto.CustomerDTO true "Customer payload with a positive id"
// @Success 200 {object} dto.StatusResponse "Update Successfully"
// @Failure 400 {object} dto.StatusResponse "Missing or non-positive id, or field validation errors"
// @Failure 404 {object} dto.StatusResponse "Customer not found"
// @Failure 500 {object} dto.StatusResponse "Internal server error"
// @Router /customer/update [put]
func (h *CustomerHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	h.logger.DebugContext(r.Context(), "Received update customer request")

	req, err := h.decodeCustomer(r)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	if !req.HasValidID() {
		h.logger.WarnContext(r.Context(), "Update rejected: id missing or not positive")
		respondError(w, h.logger, apperrors.NewInvalidArgument(StatusInvalidUpdateID))
		return
	}
	customerID := *req.ID
	logger := h.logger.With(slog.Int64("customerID", customerID))

	exists, err := h.service.Exists(r.Context(), customerID)
	if err != nil {
		logger.ErrorContext(r.Context(), "Service failed to check customer", slog.Any("error", err))
		respondError(w, h.logger, err)
		return
	}
	if !exists {
		logger.WarnContext(r.Context(), "Update rejected: customer not found")
		respondError(w, h.logger, customer.ErrNotFound)
		return
	}

	if err := h.service.Save(r.Context(), dto.ToEntity(req)); err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, customer.ErrNotFound) {
			level = slog.LevelError
		}
		logger.Log(r.Context(), level, "Service failed to update customer", slog.Any("error", err))
		respondError(w, h.logger, err)
		return
	}

	logger.InfoContext(r.Context(), "Customer updated successfully")
	respondStatus(w, http.StatusOK, StatusUpdated)
}

// DeleteCustomer handles DELETE /customer/delete/{id}
// @Summary Delete a customer
// @Description Removes the customer with the given id.
// @Tags Customers
// @Produce json
// @Param id path int true "Customer ID" Minimum(1)
// @Success 200 {object} dto.StatusResponse "Deleted Successfully"
// @Failure 400 {object} dto.StatusResponse "Invalid customer ID"
// @Failure 404 {object} dto.StatusResponse "Customer not found"
// @Failure 500 {object} dto.StatusResponse "Internal server error"
// @Router /customer/delete/{id} [delete]
func (h *CustomerHandler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, err := getCustomerIDFromURL(r)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Failed to get customer ID from URL", slog.Any("error", err))
		respondError(w, h.logger, err)
		return
	}
	logger := h.logger.With(slog.Int64("customerID", customerID))

	logger.DebugContext(r.Context(), "Received delete customer request")
	deleted, err := h.service.Delete(r.Context(), customerID)
	if err != nil {
		logger.ErrorContext(r.Context(), "Service failed to delete customer", slog.Any("error", err))
		respondError(w, h.logger, err)
		return
	}
	if !deleted {
		logger.WarnContext(r.Context(), "Delete rejected: customer not found")
		respondError(w, h.logger, customer.ErrNotFound)
		return
	}

	logger.InfoContext(r.Context(), "Customer deleted successfully")
	respondStatus(w, http.StatusOK, StatusDeleted)
}
