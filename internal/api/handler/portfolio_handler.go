package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/portfoliotracker/backoffice-api/internal/api/metrics"
	"github.com/portfoliotracker/backoffice-api/internal/core/domain"
	"github.com/portfoliotracker/backoffice-api/internal/core/ports"
)

// PortfolioHandler handles HTTP requests for portfolios nested under a
// customer.
type PortfolioHandler struct {
	service ports.PortfolioService
}

func NewPortfolioHandler(service ports.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{service: service}
}

// Create creates a portfolio under a customer. Admin and above only.
//
// @Summary      Create a portfolio
// @Tags         portfolios
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string                  false  "Idempotency key to make retries safe"
// @Param        customerId       path      string                  true   "Customer id"
// @Param        body             body      createPortfolioRequest  true   "Portfolio details"
// @Success      201              {object}  ports.PortfolioView
// @Failure      400              {object}  errorResponse
// @Failure      404              {object}  errorResponse
// @Failure      409              {object}  errorResponse
// @Router       /api/customers/{customerId}/portfolios [post]
func (h *PortfolioHandler) Create(c echo.Context) error {
	var req createPortfolioRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	currency := domain.Currency(req.BaseCurrency)
	if currency == "" {
		currency = domain.CurrencyUSD
	}

	res, err := h.service.Create(c.Request().Context(), c.Param("customerId"), ports.CreatePortfolioInput{
		Name:           req.Name,
		Exchange:       domain.Exchange(req.Exchange),
		BaseCurrency:   currency,
		IdempotencyKey: c.Request().Header.Get("Idempotency-Key"),
	})
	if err != nil {
		return err
	}

	switch {
	case res.Success:
		metrics.PortfoliosCreatedTotal.WithLabelValues(req.Exchange).Inc()
	case res.Status == http.StatusConflict:
		metrics.PortfolioConflictsTotal.Inc()
	}
	return respond(c, http.StatusCreated, res)
}

// List returns a page of the customer's portfolios.
//
// @Summary      List portfolios of a customer
// @Tags         portfolios
// @Produce      json
// @Security     BearerAuth
// @Param        customerId  path      string  true   "Customer id"
// @Param        page        query     int     false  "Page number (1-based)"
// @Param        size        query     int     false  "Page size (max 100)"
// @Success      200         {object}  ports.PagedResult[ports.PortfolioView]
// @Failure      403         {object}  errorResponse
// @Failure      404         {object}  errorResponse
// @Router       /api/customers/{customerId}/portfolios [get]
func (h *PortfolioHandler) List(c echo.Context) error {
	var q pageQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid query"})
	}

	res, err := h.service.List(c.Request().Context(), ctxIdentity(c), c.Param("customerId"),
		ports.PageRequest{Page: q.Page, Size: q.Size})
	if err != nil {
		return err
	}
	if !res.Success && res.Status == http.StatusForbidden {
		metrics.AuthzDenialsTotal.WithLabelValues("ownership").Inc()
	}
	return respond(c, http.StatusOK, res)
}

// Get returns one portfolio of the customer.
//
// @Summary      Get a portfolio
// @Tags         portfolios
// @Produce      json
// @Security     BearerAuth
// @Param        customerId   path      string  true  "Customer id"
// @Param        portfolioId  path      string  true  "Portfolio id"
// @Success      200          {object}  ports.PortfolioView
// @Failure      403          {object}  errorResponse
// @Failure      404          {object}  errorResponse
// @Router       /api/customers/{customerId}/portfolios/{portfolioId} [get]
func (h *PortfolioHandler) Get(c echo.Context) error {
	res, err := h.service.GetByID(c.Request().Context(), ctxIdentity(c),
		c.Param("customerId"), c.Param("portfolioId"))
	if err != nil {
		return err
	}
	if !res.Success && res.Status == http.StatusForbidden {
		metrics.AuthzDenialsTotal.WithLabelValues("ownership").Inc()
	}
	return respond(c, http.StatusOK, res)
}

// Patch applies a partial update to a portfolio.
//
// @Summary      Patch a portfolio
// @Tags         portfolios
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        customerId   path      string                 true  "Customer id"
// @Param        portfolioId  path      string                 true  "Portfolio id"
// @Param        body         body      patchPortfolioRequest  true  "Fields to change"
// @Success      200          {object}  ports.PortfolioView
// @Failure      400          {object}  errorResponse
// @Failure      403          {object}  errorResponse
// @Failure      404          {object}  errorResponse
// @Failure      409          {object}  errorResponse
// @Router       /api/customers/{customerId}/portfolios/{portfolioId} [patch]
func (h *PortfolioHandler) Patch(c echo.Context) error {
	var req patchPortfolioRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}
	if req.Name == nil && req.BaseCurrency == nil && req.Active == nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "at least one field must be provided"})
	}

	input := ports.PatchPortfolioInput{Name: req.Name, Active: req.Active}
	if req.BaseCurrency != nil {
		currency := domain.Currency(*req.BaseCurrency)
		input.BaseCurrency = &currency
	}

	res, err := h.service.Patch(c.Request().Context(), ctxIdentity(c),
		c.Param("customerId"), c.Param("portfolioId"), input)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, res)
}

// SetCashBalance sets the amount the portfolio holds in one currency.
// Admin and above only.
//
// @Summary      Set a cash balance
// @Tags         portfolios
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        customerId   path      string                 true  "Customer id"
// @Param        portfolioId  path      string                 true  "Portfolio id"
// @Param        currency     path      string                 true  "Currency code"
// @Param        body         body      setCashBalanceRequest  true  "New amount"
// @Success      200          {object}  ports.CashBalanceView
// @Failure      400          {object}  errorResponse
// @Failure      404          {object}  errorResponse
// @Router       /api/customers/{customerId}/portfolios/{portfolioId}/balances/{currency} [put]
func (h *PortfolioHandler) SetCashBalance(c echo.Context) error {
	var req setCashBalanceRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "amount must be a decimal number"})
	}

	currency := domain.Currency(c.Param("currency"))
	if !validCurrency(currency) {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "unsupported currency"})
	}

	res, err := h.service.SetCashBalance(c.Request().Context(),
		c.Param("customerId"), c.Param("portfolioId"), currency, amount)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, res)
}

// ListCashBalances returns the portfolio's balances across currencies.
//
// @Summary      List cash balances
// @Tags         portfolios
// @Produce      json
// @Security     BearerAuth
// @Param        customerId   path      string  true  "Customer id"
// @Param        portfolioId  path      string  true  "Portfolio id"
// @Success      200          {array}   ports.CashBalanceView
// @Failure      403          {object}  errorResponse
// @Failure      404          {object}  errorResponse
// @Router       /api/customers/{customerId}/portfolios/{portfolioId}/balances [get]
func (h *PortfolioHandler) ListCashBalances(c echo.Context) error {
	res, err := h.service.ListCashBalances(c.Request().Context(), ctxIdentity(c),
		c.Param("customerId"), c.Param("portfolioId"))
	if err != nil {
		return err
	}
	if !res.Success && res.Status == http.StatusForbidden {
		metrics.AuthzDenialsTotal.WithLabelValues("ownership").Inc()
	}
	return respond(c, http.StatusOK, res)
}

func validCurrency(c domain.Currency) bool {
	switch c {
	case domain.CurrencyUSD, domain.CurrencyEUR, domain.CurrencyGBP,
		domain.CurrencyJPY, domain.CurrencyMXN:
		return true
	default:
		return false
	}
}
