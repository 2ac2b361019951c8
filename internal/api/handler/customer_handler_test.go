package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/portfoliotracker/backoffice-api/internal/api/middleware"
	"github.com/portfoliotracker/backoffice-api/internal/core/domain"
	"github.com/portfoliotracker/backoffice-api/internal/core/ports"
	"github.com/portfoliotracker/backoffice-api/internal/core/result"
)

type stubCustomerService struct {
	registerFn func(ctx context.Context, input ports.RegisterCustomerInput) (result.Result[ports.CustomerView], error)
	getFn      func(ctx context.Context, caller domain.Identity, customerID string) (result.Result[ports.CustomerView], error)
	patchFn    func(ctx context.Context, caller domain.Identity, customerID string, input ports.PatchCustomerInput) (result.Result[ports.CustomerView], error)
}

func (s *stubCustomerService) Register(ctx context.Context, input ports.RegisterCustomerInput) (result.Result[ports.CustomerView], error) {
	return s.registerFn(ctx, input)
}

func (s *stubCustomerService) List(context.Context, ports.PageRequest) (result.Result[ports.PagedResult[ports.CustomerView]], error) {
	return result.Ok(ports.PagedResult[ports.CustomerView]{}), nil
}

func (s *stubCustomerService) GetByID(ctx context.Context, caller domain.Identity, customerID string) (result.Result[ports.CustomerView], error) {
	return s.getFn(ctx, caller, customerID)
}

func (s *stubCustomerService) Update(context.Context, domain.Identity, string, ports.UpdateCustomerInput) (result.Result[ports.CustomerView], error) {
	return result.Ok(ports.CustomerView{}), nil
}

func (s *stubCustomerService) Patch(ctx context.Context, caller domain.Identity, customerID string, input ports.PatchCustomerInput) (result.Result[ports.CustomerView], error) {
	return s.patchFn(ctx, caller, customerID, input)
}

func TestCustomerHandler_Register_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubCustomerService{
		registerFn: func(ctx context.Context, input ports.RegisterCustomerInput) (result.Result[ports.CustomerView], error) {
			if input.FullName != "Maria Lopez" || input.Email != "maria@example.com" {
				t.Fatalf("unexpected input: %+v", input)
			}
			return result.Ok(ports.CustomerView{ID: "c1", FullName: input.FullName, Email: input.Email, Role: "customer", Active: true}), nil
		},
	}
	handler := NewCustomerHandler(stub)

	req := httptest.NewRequest(http.MethodPost, "/api/customers",
		strings.NewReader(`{"full_name":"Maria Lopez","email":"maria@example.com","password":"long-enough"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["id"] != "c1" || resp["role"] != "customer" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestCustomerHandler_Register_ShortPassword(t *testing.T) {
	e := newTestEcho()
	stub := &stubCustomerService{
		registerFn: func(ctx context.Context, input ports.RegisterCustomerInput) (result.Result[ports.CustomerView], error) {
			t.Fatalf("should not be called")
			return result.Result[ports.CustomerView]{}, nil
		},
	}
	handler := NewCustomerHandler(stub)

	req := httptest.NewRequest(http.MethodPost, "/api/customers",
		strings.NewReader(`{"full_name":"Maria Lopez","email":"maria@example.com","password":"short"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	_ = handler.Register(c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCustomerHandler_Register_DuplicateEmail(t *testing.T) {
	e := newTestEcho()
	stub := &stubCustomerService{
		registerFn: func(ctx context.Context, input ports.RegisterCustomerInput) (result.Result[ports.CustomerView], error) {
			return result.Conflict[ports.CustomerView]("Email already exists"), nil
		},
	}
	handler := NewCustomerHandler(stub)

	req := httptest.NewRequest(http.MethodPost, "/api/customers",
		strings.NewReader(`{"full_name":"Maria Lopez","email":"maria@example.com","password":"long-enough"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	_ = handler.Register(c)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestCustomerHandler_Get_BuildsIdentityFromClaims(t *testing.T) {
	e := newTestEcho()
	stub := &stubCustomerService{
		getFn: func(ctx context.Context, caller domain.Identity, customerID string) (result.Result[ports.CustomerView], error) {
			if caller.UserID != "u1" || caller.Role != domain.RoleCustomer {
				t.Fatalf("identity not built from claims: %+v", caller)
			}
			if customerID != "c1" {
				t.Fatalf("customer id: got %q", customerID)
			}
			return result.Ok(ports.CustomerView{ID: customerID}), nil
		},
	}
	handler := NewCustomerHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("c1")
	c.Set(middleware.CtxUserID, "u1")
	c.Set(middleware.CtxRole, "customer")

	if err := handler.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestCustomerHandler_Get_ForbiddenPassthrough(t *testing.T) {
	e := newTestEcho()
	stub := &stubCustomerService{
		getFn: func(ctx context.Context, caller domain.Identity, customerID string) (result.Result[ports.CustomerView], error) {
			return result.Forbidden[ports.CustomerView]("Access denied"), nil
		},
	}
	handler := NewCustomerHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("c1")

	_ = handler.Get(c)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	var resp map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["error"] != "Access denied" {
		t.Fatalf("unexpected error payload: %+v", resp)
	}
}

func TestCustomerHandler_Patch_RequiresAtLeastOneField(t *testing.T) {
	e := newTestEcho()
	stub := &stubCustomerService{
		patchFn: func(ctx context.Context, caller domain.Identity, customerID string, input ports.PatchCustomerInput) (result.Result[ports.CustomerView], error) {
			t.Fatalf("should not be called")
			return result.Result[ports.CustomerView]{}, nil
		},
	}
	handler := NewCustomerHandler(stub)

	req := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("c1")

	_ = handler.Patch(c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
