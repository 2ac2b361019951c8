package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/portfoliotracker/backoffice-api/internal/core/authz"
	"github.com/portfoliotracker/backoffice-api/internal/core/domain"
	"github.com/portfoliotracker/backoffice-api/internal/core/ports"
	"github.com/portfoliotracker/backoffice-api/internal/core/result"
)

const msgDuplicatePortfolio = "A portfolio with this name and exchange already exists for this customer"

// ReplayGuard abstracts the idempotency store (Redis). A replayed
// Idempotency-Key returns the portfolio created by the first request.
type ReplayGuard interface {
	Lookup(ctx context.Context, key string) (portfolioID string, ok bool, err error)
	Remember(ctx context.Context, key, portfolioID string) error
}

// PortfolioService implements portfolio management under a customer.
type PortfolioService struct {
	portfolios ports.PortfolioRepository
	customers  ports.CustomerRepository
	replay     ReplayGuard
	logger     zerolog.Logger
}

func NewPortfolioService(
	portfolios ports.PortfolioRepository,
	customers ports.CustomerRepository,
	replay ReplayGuard,
	logger zerolog.Logger,
) *PortfolioService {
	return &PortfolioService{
		portfolios: portfolios,
		customers:  customers,
		replay:     replay,
		logger:     logger,
	}
}

// Create creates a portfolio under a customer with at-most-one-success
// semantics for the (customer, name, exchange) triple. The existence
// pre-check is a fast path only; the unique index is the authority, and a
// duplicate-key rejection from storage maps to the same conflict.
func (s *PortfolioService) Create(ctx context.Context, customerID string, input ports.CreatePortfolioInput) (result.Result[ports.PortfolioView], error) {
	if _, err := s.customers.FindByID(ctx, customerID); err != nil {
		if errors.Is(err, domain.ErrCustomerNotFound) {
			return result.NotFound[ports.PortfolioView]("Customer not found"), nil
		}
		return result.Result[ports.PortfolioView]{}, err
	}

	if input.IdempotencyKey != "" && s.replay != nil {
		id, ok, err := s.replay.Lookup(ctx, input.IdempotencyKey)
		if err != nil {
			s.logger.Warn().Err(err).Msg("replay lookup failed, proceeding without it")
		} else if ok {
			existing, err := s.portfolios.FindByID(ctx, customerID, id)
			if err == nil {
				s.logger.Info().
					Str("idempotency_key", input.IdempotencyKey).
					Str("portfolio_id", existing.ID).
					Msg("idempotent replay")
				return result.Ok(portfolioView(existing)), nil
			}
		}
	}

	// Best-effort pre-check: a friendly conflict without waiting on a
	// failed insert in the common non-racing case.
	existing, err := s.portfolios.FindByTriple(ctx, customerID, input.Name, input.Exchange)
	if err != nil && !errors.Is(err, domain.ErrPortfolioNotFound) {
		return result.Result[ports.PortfolioView]{}, err
	}
	if existing != nil {
		return result.Conflict[ports.PortfolioView](msgDuplicatePortfolio), nil
	}

	now := time.Now().UTC()
	p := &domain.Portfolio{
		ID:           uuid.NewString(),
		CustomerID:   customerID,
		Name:         input.Name,
		Exchange:     input.Exchange,
		BaseCurrency: input.BaseCurrency,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.portfolios.Create(ctx, p); err != nil {
		// Lost the race: another creator's insert hit the unique index
		// first. Same conflict as the pre-check.
		if errors.Is(err, domain.ErrDuplicatePortfolio) {
			s.logger.Info().
				Str("customer_id", customerID).
				Str("name", input.Name).
				Msg("portfolio create lost uniqueness race")
			return result.Conflict[ports.PortfolioView](msgDuplicatePortfolio), nil
		}
		return result.Result[ports.PortfolioView]{}, err
	}

	if input.IdempotencyKey != "" && s.replay != nil {
		if err := s.replay.Remember(ctx, input.IdempotencyKey, p.ID); err != nil {
			s.logger.Warn().Err(err).Str("portfolio_id", p.ID).Msg("failed to store replay key")
		}
	}

	s.logger.Info().
		Str("portfolio_id", p.ID).
		Str("customer_id", customerID).
		Str("exchange", string(p.Exchange)).
		Msg("portfolio created")

	return result.Ok(portfolioView(p)), nil
}

// List returns a page of the customer's portfolios, newest first.
func (s *PortfolioService) List(ctx context.Context, caller domain.Identity, customerID string, page ports.PageRequest) (result.Result[ports.PagedResult[ports.PortfolioView]], error) {
	if res, err := checkCustomerAccess[ports.PagedResult[ports.PortfolioView]](ctx, s, caller, customerID); err != nil || !res.Success {
		return res, err
	}

	page.Normalize()
	items, total, err := s.portfolios.ListByCustomer(ctx, customerID, page)
	if err != nil {
		return result.Result[ports.PagedResult[ports.PortfolioView]]{}, err
	}

	views := make([]ports.PortfolioView, 0, len(items))
	for i := range items {
		views = append(views, portfolioView(&items[i]))
	}
	return result.Ok(ports.NewPagedResult(views, total, page)), nil
}

// GetByID returns one portfolio under the customer.
func (s *PortfolioService) GetByID(ctx context.Context, caller domain.Identity, customerID, portfolioID string) (result.Result[ports.PortfolioView], error) {
	if res, err := checkCustomerAccess[ports.PortfolioView](ctx, s, caller, customerID); err != nil || !res.Success {
		return res, err
	}

	p, err := s.portfolios.FindByID(ctx, customerID, portfolioID)
	if err != nil {
		if errors.Is(err, domain.ErrPortfolioNotFound) {
			return result.NotFound[ports.PortfolioView]("Portfolio not found"), nil
		}
		return result.Result[ports.PortfolioView]{}, err
	}
	return result.Ok(portfolioView(p)), nil
}

// Patch applies the provided fields only. A rename that collides with an
// existing (customer, name, exchange) triple is a conflict.
func (s *PortfolioService) Patch(ctx context.Context, caller domain.Identity, customerID, portfolioID string, input ports.PatchPortfolioInput) (result.Result[ports.PortfolioView], error) {
	if res, err := checkCustomerAccess[ports.PortfolioView](ctx, s, caller, customerID); err != nil || !res.Success {
		return res, err
	}

	p, err := s.portfolios.FindByID(ctx, customerID, portfolioID)
	if err != nil {
		if errors.Is(err, domain.ErrPortfolioNotFound) {
			return result.NotFound[ports.PortfolioView]("Portfolio not found"), nil
		}
		return result.Result[ports.PortfolioView]{}, err
	}

	if input.Name != nil {
		p.Name = *input.Name
	}
	if input.BaseCurrency != nil {
		p.BaseCurrency = *input.BaseCurrency
	}
	if input.Active != nil {
		p.Active = *input.Active
	}
	p.UpdatedAt = time.Now().UTC()

	if err := s.portfolios.Update(ctx, p); err != nil {
		if errors.Is(err, domain.ErrDuplicatePortfolio) {
			return result.Conflict[ports.PortfolioView](msgDuplicatePortfolio), nil
		}
		return result.Result[ports.PortfolioView]{}, err
	}
	return result.Ok(portfolioView(p)), nil
}

// BOList is the back-office cross-customer listing with filters and
// sorting. Route-level policy restricts it to admins and above.
func (s *PortfolioService) BOList(ctx context.Context, input ports.BOListInput) (result.Result[ports.PagedResult[ports.BOPortfolioView]], error) {
	filter := ports.BOPortfolioFilter{
		Search:       input.Search,
		Active:       input.Active,
		Exchange:     domain.Exchange(input.Exchange),
		BaseCurrency: domain.Currency(input.BaseCurrency),
		CustomerID:   input.CustomerID,
		SortBy:       boSortField(input.SortBy),
		Descending:   input.SortOrder != "asc",
		Page:         input.Page,
	}
	filter.Page.Normalize()

	records, total, err := s.portfolios.BOList(ctx, filter)
	if err != nil {
		return result.Result[ports.PagedResult[ports.BOPortfolioView]]{}, err
	}

	views := make([]ports.BOPortfolioView, 0, len(records))
	for i := range records {
		views = append(views, ports.BOPortfolioView{
			PortfolioView: portfolioView(&records[i].Portfolio),
			CustomerID:    records[i].Portfolio.CustomerID,
			CustomerName:  records[i].CustomerName,
		})
	}
	return result.Ok(ports.NewPagedResult(views, total, filter.Page)), nil
}

// SetCashBalance upserts the amount held in one currency. The unique
// (portfolio, currency) index collapses concurrent first writes.
func (s *PortfolioService) SetCashBalance(ctx context.Context, customerID, portfolioID string, currency domain.Currency, amount decimal.Decimal) (result.Result[ports.CashBalanceView], error) {
	if _, err := s.customers.FindByID(ctx, customerID); err != nil {
		if errors.Is(err, domain.ErrCustomerNotFound) {
			return result.NotFound[ports.CashBalanceView]("Customer not found"), nil
		}
		return result.Result[ports.CashBalanceView]{}, err
	}

	if _, err := s.portfolios.FindByID(ctx, customerID, portfolioID); err != nil {
		if errors.Is(err, domain.ErrPortfolioNotFound) {
			return result.NotFound[ports.CashBalanceView]("Portfolio not found"), nil
		}
		return result.Result[ports.CashBalanceView]{}, err
	}

	if amount.IsNegative() {
		return result.Invalid[ports.CashBalanceView]("Amount cannot be negative"), nil
	}

	now := time.Now().UTC()
	b := &domain.CashBalance{
		ID:          uuid.NewString(),
		PortfolioID: portfolioID,
		Currency:    currency,
		Amount:      amount,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.portfolios.UpsertCashBalance(ctx, b); err != nil {
		return result.Result[ports.CashBalanceView]{}, err
	}

	return result.Ok(ports.CashBalanceView{
		Currency:  string(b.Currency),
		Amount:    b.Amount,
		UpdatedAt: b.UpdatedAt,
	}), nil
}

// ListCashBalances returns all currency balances of one portfolio.
func (s *PortfolioService) ListCashBalances(ctx context.Context, caller domain.Identity, customerID, portfolioID string) (result.Result[[]ports.CashBalanceView], error) {
	if res, err := checkCustomerAccess[[]ports.CashBalanceView](ctx, s, caller, customerID); err != nil || !res.Success {
		return res, err
	}

	if _, err := s.portfolios.FindByID(ctx, customerID, portfolioID); err != nil {
		if errors.Is(err, domain.ErrPortfolioNotFound) {
			return result.NotFound[[]ports.CashBalanceView]("Portfolio not found"), nil
		}
		return result.Result[[]ports.CashBalanceView]{}, err
	}

	balances, err := s.portfolios.ListCashBalances(ctx, portfolioID)
	if err != nil {
		return result.Result[[]ports.CashBalanceView]{}, err
	}

	views := make([]ports.CashBalanceView, 0, len(balances))
	for _, b := range balances {
		views = append(views, ports.CashBalanceView{
			Currency:  string(b.Currency),
			Amount:    b.Amount,
			UpdatedAt: b.UpdatedAt,
		})
	}
	return result.Ok(views), nil
}

// checkCustomerAccess loads the parent customer and runs the ownership
// guard with the Admin override. Existence is reported before denial, so
// listing under a missing customer is 404 even for callers that would be
// denied anyway.
func checkCustomerAccess[T any](ctx context.Context, s *PortfolioService, caller domain.Identity, customerID string) (result.Result[T], error) {
	rec, err := s.customers.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, domain.ErrCustomerNotFound) {
			return result.NotFound[T]("Customer not found"), nil
		}
		return result.Result[T]{}, err
	}

	if d := authz.Authorize(caller, rec.Customer.UserID, domain.RoleAdmin); !d.Allowed {
		return result.Fail[T](d.Reason, d.Status), nil
	}

	var zero T
	return result.Ok(zero), nil
}

func boSortField(s string) ports.BOSortField {
	switch ports.BOSortField(s) {
	case ports.BOSortName, ports.BOSortCustomer, ports.BOSortExchange,
		ports.BOSortBaseCurrency, ports.BOSortActive, ports.BOSortUpdatedAt:
		return ports.BOSortField(s)
	default:
		return ports.BOSortCreatedAt
	}
}

func portfolioView(p *domain.Portfolio) ports.PortfolioView {
	return ports.PortfolioView{
		ID:           p.ID,
		Name:         p.Name,
		Exchange:     string(p.Exchange),
		BaseCurrency: string(p.BaseCurrency),
		Active:       p.Active,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
