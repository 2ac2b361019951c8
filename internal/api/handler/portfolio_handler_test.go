package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/portfoliotracker/backoffice-api/internal/core/domain"
	"github.com/portfoliotracker/backoffice-api/internal/core/ports"
	"github.com/portfoliotracker/backoffice-api/internal/core/result"
)

type stubPortfolioService struct {
	createFn  func(ctx context.Context, customerID string, input ports.CreatePortfolioInput) (result.Result[ports.PortfolioView], error)
	balanceFn func(ctx context.Context, customerID, portfolioID string, currency domain.Currency, amount decimal.Decimal) (result.Result[ports.CashBalanceView], error)
	boListFn  func(ctx context.Context, input ports.BOListInput) (result.Result[ports.PagedResult[ports.BOPortfolioView]], error)
}

func (s *stubPortfolioService) Create(ctx context.Context, customerID string, input ports.CreatePortfolioInput) (result.Result[ports.PortfolioView], error) {
	return s.createFn(ctx, customerID, input)
}

func (s *stubPortfolioService) List(context.Context, domain.Identity, string, ports.PageRequest) (result.Result[ports.PagedResult[ports.PortfolioView]], error) {
	return result.Ok(ports.PagedResult[ports.PortfolioView]{}), nil
}

func (s *stubPortfolioService) GetByID(context.Context, domain.Identity, string, string) (result.Result[ports.PortfolioView], error) {
	return result.Ok(ports.PortfolioView{}), nil
}

func (s *stubPortfolioService) Patch(context.Context, domain.Identity, string, string, ports.PatchPortfolioInput) (result.Result[ports.PortfolioView], error) {
	return result.Ok(ports.PortfolioView{}), nil
}

func (s *stubPortfolioService) BOList(ctx context.Context, input ports.BOListInput) (result.Result[ports.PagedResult[ports.BOPortfolioView]], error) {
	return s.boListFn(ctx, input)
}

func (s *stubPortfolioService) SetCashBalance(ctx context.Context, customerID, portfolioID string, currency domain.Currency, amount decimal.Decimal) (result.Result[ports.CashBalanceView], error) {
	return s.balanceFn(ctx, customerID, portfolioID, currency, amount)
}

func (s *stubPortfolioService) ListCashBalances(context.Context, domain.Identity, string, string) (result.Result[[]ports.CashBalanceView], error) {
	return result.Ok([]ports.CashBalanceView{}), nil
}

func TestPortfolioHandler_Create_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubPortfolioService{
		createFn: func(ctx context.Context, customerID string, input ports.CreatePortfolioInput) (result.Result[ports.PortfolioView], error) {
			if customerID != "c1" {
				t.Fatalf("customer id: got %q", customerID)
			}
			if input.IdempotencyKey != "key-1" {
				t.Fatalf("idempotency key not forwarded, got %q", input.IdempotencyKey)
			}
			if input.BaseCurrency != domain.CurrencyUSD {
				t.Fatalf("empty base currency must default to USD, got %q", input.BaseCurrency)
			}
			return result.Ok(ports.PortfolioView{ID: "p1", Name: input.Name, Exchange: string(input.Exchange)}), nil
		},
	}
	handler := NewPortfolioHandler(stub)

	req := httptest.NewRequest(http.MethodPost, "/",
		strings.NewReader(`{"name":"Growth","exchange":"NYSE"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("Idempotency-Key", "key-1")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("customerId")
	c.SetParamValues("c1")

	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestPortfolioHandler_Create_ConflictPassthrough(t *testing.T) {
	e := newTestEcho()
	stub := &stubPortfolioService{
		createFn: func(ctx context.Context, customerID string, input ports.CreatePortfolioInput) (result.Result[ports.PortfolioView], error) {
			return result.Conflict[ports.PortfolioView]("A portfolio with this name and exchange already exists for this customer"), nil
		},
	}
	handler := NewPortfolioHandler(stub)

	req := httptest.NewRequest(http.MethodPost, "/",
		strings.NewReader(`{"name":"Growth","exchange":"NYSE"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("customerId")
	c.SetParamValues("c1")

	_ = handler.Create(c)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	var resp map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["error"] != "A portfolio with this name and exchange already exists for this customer" {
		t.Fatalf("unexpected error payload: %+v", resp)
	}
}

func TestPortfolioHandler_Create_UnknownExchange(t *testing.T) {
	e := newTestEcho()
	stub := &stubPortfolioService{
		createFn: func(ctx context.Context, customerID string, input ports.CreatePortfolioInput) (result.Result[ports.PortfolioView], error) {
			t.Fatalf("should not be called")
			return result.Result[ports.PortfolioView]{}, nil
		},
	}
	handler := NewPortfolioHandler(stub)

	req := httptest.NewRequest(http.MethodPost, "/",
		strings.NewReader(`{"name":"Growth","exchange":"MOON"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("customerId")
	c.SetParamValues("c1")

	_ = handler.Create(c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown exchange, got %d", rec.Code)
	}
}

func TestPortfolioHandler_SetCashBalance_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubPortfolioService{
		balanceFn: func(ctx context.Context, customerID, portfolioID string, currency domain.Currency, amount decimal.Decimal) (result.Result[ports.CashBalanceView], error) {
			if currency != domain.CurrencyEUR {
				t.Fatalf("currency: got %q", currency)
			}
			if !amount.Equal(decimal.RequireFromString("1234.56")) {
				t.Fatalf("amount: got %s", amount)
			}
			return result.Ok(ports.CashBalanceView{Currency: string(currency), Amount: amount}), nil
		},
	}
	handler := NewPortfolioHandler(stub)

	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"amount":"1234.56"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("customerId", "portfolioId", "currency")
	c.SetParamValues("c1", "p1", "EUR")

	if err := handler.SetCashBalance(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestPortfolioHandler_SetCashBalance_BadAmount(t *testing.T) {
	e := newTestEcho()
	stub := &stubPortfolioService{
		balanceFn: func(ctx context.Context, customerID, portfolioID string, currency domain.Currency, amount decimal.Decimal) (result.Result[ports.CashBalanceView], error) {
			t.Fatalf("should not be called")
			return result.Result[ports.CashBalanceView]{}, nil
		},
	}
	handler := NewPortfolioHandler(stub)

	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"amount":"one hundred"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("customerId", "portfolioId", "currency")
	c.SetParamValues("c1", "p1", "USD")

	_ = handler.SetCashBalance(c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestPortfolioHandler_SetCashBalance_UnsupportedCurrency(t *testing.T) {
	e := newTestEcho()
	stub := &stubPortfolioService{
		balanceFn: func(ctx context.Context, customerID, portfolioID string, currency domain.Currency, amount decimal.Decimal) (result.Result[ports.CashBalanceView], error) {
			t.Fatalf("should not be called")
			return result.Result[ports.CashBalanceView]{}, nil
		},
	}
	handler := NewPortfolioHandler(stub)

	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"amount":"10"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("customerId", "portfolioId", "currency")
	c.SetParamValues("c1", "p1", "DOGE")

	_ = handler.SetCashBalance(c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestBackofficeHandler_ListPortfolios_ForwardsQuery(t *testing.T) {
	e := newTestEcho()
	stub := &stubPortfolioService{
		boListFn: func(ctx context.Context, input ports.BOListInput) (result.Result[ports.PagedResult[ports.BOPortfolioView]], error) {
			if input.Search != "growth" || input.SortBy != "name" || input.SortOrder != "asc" {
				t.Fatalf("query not forwarded: %+v", input)
			}
			if input.Active == nil || !*input.Active {
				t.Fatalf("active filter not forwarded")
			}
			return result.Ok(ports.PagedResult[ports.BOPortfolioView]{}), nil
		},
	}
	handler := NewBackofficeHandler(stub)

	req := httptest.NewRequest(http.MethodGet,
		"/?search=growth&sort_by=name&sort_order=asc&active=true&page=1&size=10", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.ListPortfolios(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
