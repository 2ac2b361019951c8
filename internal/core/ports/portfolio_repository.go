package ports

import (
	"context"

	"github.com/portfoliotracker/backoffice-api/internal/core/domain"
)

// BOSortField enumerates the sortable columns of the back-office
// portfolio listing.
type BOSortField string

const (
	BOSortName         BOSortField = "name"
	BOSortCustomer     BOSortField = "customer"
	BOSortExchange     BOSortField = "exchange"
	BOSortBaseCurrency BOSortField = "base_currency"
	BOSortActive       BOSortField = "active"
	BOSortCreatedAt    BOSortField = "created_at"
	BOSortUpdatedAt    BOSortField = "updated_at"
)

// BOPortfolioFilter carries the query parameters of the back-office
// cross-customer portfolio listing.
type BOPortfolioFilter struct {
	Search       string          // partial match on portfolio or customer name
	Active       *bool           // nil = all
	Exchange     domain.Exchange // empty = all
	BaseCurrency domain.Currency // empty = all
	CustomerID   string          // empty = all
	SortBy       BOSortField     // defaults to created_at
	Descending   bool
	Page         PageRequest
}

// BOPortfolioRecord is a portfolio joined with its customer's name for
// back-office views.
type BOPortfolioRecord struct {
	Portfolio    domain.Portfolio
	CustomerName string
}

// PortfolioRepository defines persistence operations for portfolios and
// their cash balances.
type PortfolioRepository interface {
	// Create inserts a portfolio. A violation of the unique
	// (customer_id, name, exchange) index is reported as
	// domain.ErrDuplicatePortfolio.
	Create(ctx context.Context, p *domain.Portfolio) error
	FindByID(ctx context.Context, customerID, portfolioID string) (*domain.Portfolio, error)
	// FindByTriple looks up the unique (customerID, name, exchange) triple.
	FindByTriple(ctx context.Context, customerID, name string, exchange domain.Exchange) (*domain.Portfolio, error)
	ListByCustomer(ctx context.Context, customerID string, page PageRequest) ([]domain.Portfolio, int64, error)
	// Update persists changed portfolio fields with the same duplicate
	// classification as Create.
	Update(ctx context.Context, p *domain.Portfolio) error
	BOList(ctx context.Context, filter BOPortfolioFilter) ([]BOPortfolioRecord, int64, error)

	// UpsertCashBalance sets the amount held in one currency, relying on
	// the unique (portfolio_id, currency) index to collapse concurrent
	// first writes.
	UpsertCashBalance(ctx context.Context, b *domain.CashBalance) error
	ListCashBalances(ctx context.Context, portfolioID string) ([]domain.CashBalance, error)
}
