package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/portfoliotracker/backoffice-api/internal/core/domain"
	"github.com/portfoliotracker/backoffice-api/internal/core/result"
)

// PortfolioView is the client-visible shape of a portfolio.
type PortfolioView struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Exchange     string    `json:"exchange"`
	BaseCurrency string    `json:"base_currency"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BOPortfolioView extends PortfolioView with customer attribution for
// back-office listings.
type BOPortfolioView struct {
	PortfolioView
	CustomerID   string `json:"customer_id"`
	CustomerName string `json:"customer_name"`
}

// CashBalanceView is the client-visible shape of one currency balance.
type CashBalanceView struct {
	Currency  string          `json:"currency"`
	Amount    decimal.Decimal `json:"amount"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// CreatePortfolioInput carries the data needed to create a portfolio.
// IdempotencyKey is optional; when a previously seen key is replayed the
// original portfolio is returned instead of a conflict.
type CreatePortfolioInput struct {
	Name           string
	Exchange       domain.Exchange
	BaseCurrency   domain.Currency
	IdempotencyKey string
}

// PatchPortfolioInput is the partial update; nil fields are left untouched.
type PatchPortfolioInput struct {
	Name         *string
	BaseCurrency *domain.Currency
	Active       *bool
}

// BOListInput carries the parameters of the back-office listing endpoint.
type BOListInput struct {
	Search       string
	Active       *bool
	Exchange     string
	BaseCurrency string
	CustomerID   string
	SortBy       string
	SortOrder    string
	Page         PageRequest
}

// PortfolioService defines use-case operations for portfolios. Read
// operations take the caller's Identity and enforce the ownership guard
// with an Admin override; create and balance writes are gated to admins
// at the route level.
type PortfolioService interface {
	Create(ctx context.Context, customerID string, input CreatePortfolioInput) (result.Result[PortfolioView], error)
	List(ctx context.Context, caller domain.Identity, customerID string, page PageRequest) (result.Result[PagedResult[PortfolioView]], error)
	GetByID(ctx context.Context, caller domain.Identity, customerID, portfolioID string) (result.Result[PortfolioView], error)
	Patch(ctx context.Context, caller domain.Identity, customerID, portfolioID string, input PatchPortfolioInput) (result.Result[PortfolioView], error)
	BOList(ctx context.Context, input BOListInput) (result.Result[PagedResult[BOPortfolioView]], error)

	SetCashBalance(ctx context.Context, customerID, portfolioID string, currency domain.Currency, amount decimal.Decimal) (result.Result[CashBalanceView], error)
	ListCashBalances(ctx context.Context, caller domain.Identity, customerID, portfolioID string) (result.Result[[]CashBalanceView], error)
}
