package handler_test

import (
	"bytes"
	"context"
	"customer-service/internal/api/handler"
	"customer-service/internal/api/handler/dto"
	"customer-service/internal/domain/customer"
	"customer-service/internal/pkg/apperrors"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCustomerService struct {
	mock.Mock
}

func (_m *MockCustomerService) GetAll(ctx context.Context) ([]*customer.Customer, error) {
	ret := _m.Called(ctx)

	var r0 []*customer.Customer
	if rf, ok := ret.Get(0).(func(context.Context) []*customer.Customer); ok {
		r0 = rf(ctx)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]*customer.Customer)
		}
	}

	return r0, ret.Error(1)
}

func (_m *MockCustomerService) Save(ctx context.Context, cust *customer.Customer) error {
	ret := _m.Called(ctx, cust)

	if rf, ok := ret.Get(0).(func(context.Context, *customer.Customer) error); ok {
		return rf(ctx, cust)
	}
	return ret.Error(0)
}

func (_m *MockCustomerService) Delete(ctx context.Context, customerID int64) (bool, error) {
	ret := _m.Called(ctx, customerID)
	return ret.Bool(0), ret.Error(1)
}

func (_m *MockCustomerService) Exists(ctx context.Context, customerID int64) (bool, error) {
	ret := _m.Called(ctx, customerID)
	return ret.Bool(0), ret.Error(1)
}

func int32Ptr(v int32) *int32 { return &v }

func newTestHandler() (*handler.CustomerHandler, *MockCustomerService) {
	mockService := new(MockCustomerService)
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	return handler.NewCustomerHandler(mockService, logger), mockService
}

func decodeStatus(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp dto.StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Status
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

const validBody = `{"type":"retail","name":"Jane","age":30,"email":"jane@x.com","salary":50000.0}`

func TestNewCustomerHandler_PanicsOnNil(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	assert.Panics(t, func() { handler.NewCustomerHandler(nil, logger) })
	assert.Panics(t, func() { handler.NewCustomerHandler(new(MockCustomerService), nil) })
}

func TestGetAllCustomers(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		h, mockService := newTestHandler()
		customers := []*customer.Customer{
			{ID: 1, Type: "retail", Name: "Jane", Age: int32Ptr(30), Email: "jane@x.com",
				Salary: decimal.NewNullDecimal(decimal.NewFromInt(50000))},
		}
		mockService.On("GetAll", mock.Anything).Return(customers, nil)

		rec := httptest.NewRecorder()
		h.GetAllCustomers(rec, httptest.NewRequest(http.MethodGet, "/customer/get-all", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.JSONEq(t, `[{"id":1,"type":"retail","name":"Jane","age":30,"email":"jane@x.com","salary":50000}]`, rec.Body.String())
		mockService.AssertExpectations(t)
	})

	t.Run("empty store yields empty array", func(t *testing.T) {
		h, mockService := newTestHandler()
		mockService.On("GetAll", mock.Anything).Return([]*customer.Customer{}, nil)

		rec := httptest.NewRecorder()
		h.GetAllCustomers(rec, httptest.NewRequest(http.MethodGet, "/customer/get-all", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "[]", rec.Body.String())
	})

	t.Run("service error", func(t *testing.T) {
		h, mockService := newTestHandler()
		mockService.On("GetAll", mock.Anything).Return(nil, errors.New("connection refused"))

		rec := httptest.NewRecorder()
		h.GetAllCustomers(rec, httptest.NewRequest(http.MethodGet, "/customer/get-all", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, handler.StatusInternalServerError, decodeStatus(t, rec))
		assert.NotContains(t, rec.Body.String(), "connection refused")
	})
}

func TestAddCustomer(t *testing.T) {
	t.Run("success ignores client id", func(t *testing.T) {
		h, mockService := newTestHandler()
		mockService.On("Save", mock.Anything, mock.MatchedBy(func(c *customer.Customer) bool {
			return c.ID == 0 && c.Name == "Jane" && *c.Age == 30 &&
				c.Salary.Valid && c.Salary.Decimal.Equal(decimal.NewFromInt(50000))
		})).Return(nil)

		body := `{"id":99,"type":"retail","name":"Jane","age":30,"email":"jane@x.com","salary":50000.0}`
		rec := httptest.NewRecorder()
		h.AddCustomer(rec, httptest.NewRequest(http.MethodPost, "/customer/add", strings.NewReader(body)))

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, handler.StatusCustomerCreated, decodeStatus(t, rec))
		mockService.AssertExpectations(t)
	})

	t.Run("validation errors", func(t *testing.T) {
		h, mockService := newTestHandler()

		body := `{"type":"retail","name":"","age":-1,"email":"x","salary":0}`
		rec := httptest.NewRecorder()
		h.AddCustomer(rec, httptest.NewRequest(http.MethodPost, "/customer/add", strings.NewReader(body)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		var resp map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, map[string]string{
			"name":   "Name cannot be empty!",
			"age":    "Age must be positive",
			"email":  "Invalid email address",
			"salary": "Salary must be positive",
		}, resp)
		mockService.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("malformed body", func(t *testing.T) {
		h, mockService := newTestHandler()

		rec := httptest.NewRecorder()
		h.AddCustomer(rec, httptest.NewRequest(http.MethodPost, "/customer/add", strings.NewReader(`{"name":`)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, handler.StatusMalformedRequest, decodeStatus(t, rec))
		mockService.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("service error", func(t *testing.T) {
		h, mockService := newTestHandler()
		mockService.On("Save", mock.Anything, mock.Anything).
			Return(apperrors.WrapDatabaseError(errors.New("disk full"), "failed to insert customer"))

		rec := httptest.NewRecorder()
		h.AddCustomer(rec, httptest.NewRequest(http.MethodPost, "/customer/add", strings.NewReader(validBody)))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, handler.StatusInternalServerError, decodeStatus(t, rec))
	})
}

func TestUpdateCustomer(t *testing.T) {
	updateBody := func(id string) string {
		return `{"id":` + id + `,"type":"retail","name":"Jane2","age":31,"email":"jane@x.com","salary":60000}`
	}

	t.Run("success", func(t *testing.T) {
		h, mockService := newTestHandler()
		mockService.On("Exists", mock.Anything, int64(1)).Return(true, nil)
		mockService.On("Save", mock.Anything, mock.MatchedBy(func(c *customer.Customer) bool {
			return c.ID == 1 && c.Name == "Jane2" && *c.Age == 31
		})).Return(nil)

		rec := httptest.NewRecorder()
		h.UpdateCustomer(rec, httptest.NewRequest(http.MethodPut, "/customer/update", strings.NewReader(updateBody("1"))))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, handler.StatusUpdated, decodeStatus(t, rec))
		mockService.AssertExpectations(t)
	})

	for _, id := range []string{"null", "0", "-5"} {
		t.Run("rejects id "+id, func(t *testing.T) {
			h, mockService := newTestHandler()

			rec := httptest.NewRecorder()
			h.UpdateCustomer(rec, httptest.NewRequest(http.MethodPut, "/customer/update", strings.NewReader(updateBody(id))))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, handler.StatusInvalidUpdateID, decodeStatus(t, rec))
			mockService.AssertNotCalled(t, "Exists", mock.Anything, mock.Anything)
		})
	}

	t.Run("validation runs before id check", func(t *testing.T) {
		h, _ := newTestHandler()

		body := `{"type":"retail","name":"","age":30,"email":"jane@x.com","salary":1}`
		rec := httptest.NewRecorder()
		h.UpdateCustomer(rec, httptest.NewRequest(http.MethodPut, "/customer/update", strings.NewReader(body)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"name":"Name cannot be empty!"}`, rec.Body.String())
	})

	t.Run("not found", func(t *testing.T) {
		h, mockService := newTestHandler()
		mockService.On("Exists", mock.Anything, int64(42)).Return(false, nil)

		rec := httptest.NewRecorder()
		h.UpdateCustomer(rec, httptest.NewRequest(http.MethodPut, "/customer/update", strings.NewReader(updateBody("42"))))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, handler.StatusCustomerNotFound, decodeStatus(t, rec))
		mockService.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("deleted between check and save", func(t *testing.T) {
		h, mockService := newTestHandler()
		mockService.On("Exists", mock.Anything, int64(7)).Return(true, nil)
		mockService.On("Save", mock.Anything, mock.Anything).Return(customer.ErrNotFound)

		rec := httptest.NewRecorder()
		h.UpdateCustomer(rec, httptest.NewRequest(http.MethodPut, "/customer/update", strings.NewReader(updateBody("7"))))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, handler.StatusCustomerNotFound, decodeStatus(t, rec))
	})

	t.Run("exists check fails", func(t *testing.T) {
		h, mockService := newTestHandler()
		mockService.On("Exists", mock.Anything, int64(3)).Return(false, errors.New("timeout"))

		rec := httptest.NewRecorder()
		h.UpdateCustomer(rec, httptest.NewRequest(http.MethodPut, "/customer/update", strings.NewReader(updateBody("3"))))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestDeleteCustomer(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		h, mockService := newTestHandler()
		mockService.On("Delete", mock.Anything, int64(1)).Return(true, nil)

		req := withURLParam(httptest.NewRequest(http.MethodDelete, "/customer/delete/1", nil), "id", "1")
		rec := httptest.NewRecorder()
		h.DeleteCustomer(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, handler.StatusDeleted, decodeStatus(t, rec))
		mockService.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		h, mockService := newTestHandler()
		mockService.On("Delete", mock.Anything, int64(9)).Return(false, nil)

		req := withURLParam(httptest.NewRequest(http.MethodDelete, "/customer/delete/9", nil), "id", "9")
		rec := httptest.NewRecorder()
		h.DeleteCustomer(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, handler.StatusCustomerNotFound, decodeStatus(t, rec))
	})

	for _, id := range []string{"0", "-3", "abc", ""} {
		t.Run("invalid id "+id, func(t *testing.T) {
			h, mockService := newTestHandler()

			req := withURLParam(httptest.NewRequest(http.MethodDelete, "/customer/delete/x", nil), "id", id)
			rec := httptest.NewRecorder()
			h.DeleteCustomer(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, handler.StatusInvalidDeleteID, decodeStatus(t, rec))
			mockService.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
		})
	}

	t.Run("service error", func(t *testing.T) {
		h, mockService := newTestHandler()
		mockService.On("Delete", mock.Anything, int64(5)).Return(false, errors.New("boom"))

		req := withURLParam(httptest.NewRequest(http.MethodDelete, "/customer/delete/5", nil), "id", "5")
		rec := httptest.NewRecorder()
		h.DeleteCustomer(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, handler.StatusInternalServerError, decodeStatus(t, rec))
	})
}

func TestFallbackHandlers(t *testing.T) {
	rec := httptest.NewRecorder()
	handler.NotFound(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, handler.StatusRouteNotFound, decodeStatus(t, rec))

	rec = httptest.NewRecorder()
	handler.MethodNotAllowed(rec, httptest.NewRequest(http.MethodPost, "/customer/get-all", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, handler.StatusMethodNotAllowed, decodeStatus(t, rec))
}

func TestInternalErrorsLogWithHandlerComponent(t *testing.T) {
	var buf bytes.Buffer
	mockService := new(MockCustomerService)
	h := handler.NewCustomerHandler(mockService, slog.New(slog.NewTextHandler(&buf, nil)))
	mockService.On("GetAll", mock.Anything).Return(nil, errors.New("pool exhausted"))

	rec := httptest.NewRecorder()
	h.GetAllCustomers(rec, httptest.NewRequest(http.MethodGet, "/customer/get-all", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, buf.String(), `msg="Unhandled internal error"`)
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if strings.Contains(line, "Unhandled internal error") {
			assert.Contains(t, line, "component=CustomerHandler")
			assert.Contains(t, line, "pool exhausted")
		}
	}
}
