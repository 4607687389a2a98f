package handler

import (
	"customer-service/internal/api/handler/dto"
	"customer-service/internal/pkg/apperrors"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
)

const (
	StatusCustomerCreated     = "Customer Created Successfully"
	StatusUpdated             = "Update Successfully"
	StatusDeleted             = "Deleted Successfully"
	StatusCustomerNotFound    = "Customer not found"
	StatusInvalidUpdateID     = "Customer ID cannot be empty or negative"
	StatusInvalidDeleteID     = "Please Enter Customer ID or Invalid Customer ID"
	StatusMalformedRequest    = "Malformed request body"
	StatusInternalServerError = "Internal Server Error"
	StatusRouteNotFound       = "Not Found"
	StatusMethodNotAllowed    = "Method Not Allowed"
)

func decodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return fmt.Errorf("no request body")
	}
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Default().Error("Failed to marshal JSON response", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"status":"Internal Server Error"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(response)
}

func respondStatus(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, dto.StatusResponse{Status: message})
}

// respondError logs unclassified errors on logger; they are never echoed to the client.
func respondError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var fieldErrs *apperrors.FieldErrors
	var appErr *apperrors.AppError

	switch {
	case errors.As(err, &fieldErrs):
		respondJSON(w, http.StatusBadRequest, dto.ValidationErrorResponse(fieldErrs.Fields))
	case errors.Is(err, apperrors.ErrNotFound):
		respondStatus(w, http.StatusNotFound, StatusCustomerNotFound)
	case errors.Is(err, apperrors.ErrInvalidArgument) && errors.As(err, &appErr):
		respondStatus(w, http.StatusBadRequest, appErr.Message)
	case errors.Is(err, apperrors.ErrInvalidArgument):
		respondStatus(w, http.StatusBadRequest, StatusMalformedRequest)
	default:
		logger.Error("Unhandled internal error", "error", err)
		respondStatus(w, http.StatusInternalServerError, StatusInternalServerError)
	}
}

// NotFound is the router fallback for unknown paths.
func NotFound(w http.ResponseWriter, r *http.Request) {
	respondStatus(w, http.StatusNotFound, StatusRouteNotFound)
}

func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	respondStatus(w, http.StatusMethodNotAllowed, StatusMethodNotAllowed)
}
