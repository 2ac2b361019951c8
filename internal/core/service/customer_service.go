package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/portfoliotracker/backoffice-api/internal/core/authz"
	"github.com/portfoliotracker/backoffice-api/internal/core/domain"
	"github.com/portfoliotracker/backoffice-api/internal/core/ports"
	"github.com/portfoliotracker/backoffice-api/internal/core/result"
)

// CustomerService implements customer signup and record management.
type CustomerService struct {
	customers ports.CustomerRepository
	users     ports.UserRepository
	logger    zerolog.Logger
}

func NewCustomerService(customers ports.CustomerRepository, users ports.UserRepository, logger zerolog.Logger) *CustomerService {
	return &CustomerService{customers: customers, users: users, logger: logger}
}

// Register creates a User and its Customer as an atomic pair. The new
// account always gets the customer role; staff accounts are provisioned
// out of band.
func (s *CustomerService) Register(ctx context.Context, input ports.RegisterCustomerInput) (result.Result[ports.CustomerView], error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return result.Result[ports.CustomerView]{}, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        input.Email,
		PasswordHash: string(hash),
		Role:         domain.RoleCustomer,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	customer := &domain.Customer{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		FullName:  input.FullName,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.customers.CreateWithUser(ctx, user, customer); err != nil {
		if errors.Is(err, domain.ErrEmailExists) {
			return result.Conflict[ports.CustomerView]("Email already exists"), nil
		}
		return result.Result[ports.CustomerView]{}, err
	}

	s.logger.Info().Str("customer_id", customer.ID).Str("user_id", user.ID).Msg("customer registered")

	return result.Ok(customerView(customer, user)), nil
}

// List returns a page of all customers. Route-level policy restricts this
// to admins and above.
func (s *CustomerService) List(ctx context.Context, page ports.PageRequest) (result.Result[ports.PagedResult[ports.CustomerView]], error) {
	page.Normalize()

	records, total, err := s.customers.List(ctx, page)
	if err != nil {
		return result.Result[ports.PagedResult[ports.CustomerView]]{}, err
	}

	views := make([]ports.CustomerView, 0, len(records))
	for i := range records {
		views = append(views, customerView(&records[i].Customer, &records[i].User))
	}
	return result.Ok(ports.NewPagedResult(views, total, page)), nil
}

// GetByID returns one customer. Existence is checked before ownership, so
// a missing customer is 404 for everyone while a denied caller on an
// existing customer gets 403.
func (s *CustomerService) GetByID(ctx context.Context, caller domain.Identity, customerID string) (result.Result[ports.CustomerView], error) {
	rec, res, err := s.authorizedCustomer(ctx, caller, customerID)
	if err != nil || !res.Success {
		return res, err
	}
	return result.Ok(customerView(&rec.Customer, &rec.User)), nil
}

// Update replaces the mutable customer fields (PUT semantics).
func (s *CustomerService) Update(ctx context.Context, caller domain.Identity, customerID string, input ports.UpdateCustomerInput) (result.Result[ports.CustomerView], error) {
	rec, res, err := s.authorizedCustomer(ctx, caller, customerID)
	if err != nil || !res.Success {
		return res, err
	}

	now := time.Now().UTC()
	rec.Customer.FullName = input.FullName
	rec.Customer.UpdatedAt = now
	rec.User.Email = input.Email
	rec.User.Active = input.Active
	rec.User.UpdatedAt = now

	return s.persist(ctx, rec)
}

// Patch applies the provided fields only (PATCH semantics).
func (s *CustomerService) Patch(ctx context.Context, caller domain.Identity, customerID string, input ports.PatchCustomerInput) (result.Result[ports.CustomerView], error) {
	rec, res, err := s.authorizedCustomer(ctx, caller, customerID)
	if err != nil || !res.Success {
		return res, err
	}

	now := time.Now().UTC()
	if input.FullName != nil {
		rec.Customer.FullName = *input.FullName
		rec.Customer.UpdatedAt = now
	}
	if input.Email != nil {
		rec.User.Email = *input.Email
		rec.User.UpdatedAt = now
	}
	if input.Active != nil {
		rec.User.Active = *input.Active
		rec.User.UpdatedAt = now
	}

	return s.persist(ctx, rec)
}

// authorizedCustomer loads the customer and runs the ownership guard with
// the Admin override. The returned result is only meaningful when the
// lookup or the guard failed.
func (s *CustomerService) authorizedCustomer(ctx context.Context, caller domain.Identity, customerID string) (*ports.CustomerRecord, result.Result[ports.CustomerView], error) {
	rec, err := s.customers.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, domain.ErrCustomerNotFound) {
			return nil, result.NotFound[ports.CustomerView]("Customer not found"), nil
		}
		return nil, result.Result[ports.CustomerView]{}, err
	}

	if d := authz.Authorize(caller, rec.Customer.UserID, domain.RoleAdmin); !d.Allowed {
		s.logger.Debug().
			Str("caller_id", caller.UserID).
			Str("customer_id", customerID).
			Msg("customer access denied")
		return nil, result.Fail[ports.CustomerView](d.Reason, d.Status), nil
	}

	return rec, result.Ok(ports.CustomerView{}), nil
}

func (s *CustomerService) persist(ctx context.Context, rec *ports.CustomerRecord) (result.Result[ports.CustomerView], error) {
	if err := s.users.Update(ctx, &rec.User); err != nil {
		if errors.Is(err, domain.ErrEmailExists) {
			return result.Conflict[ports.CustomerView]("Email already exists"), nil
		}
		return result.Result[ports.CustomerView]{}, err
	}
	if err := s.customers.Update(ctx, &rec.Customer); err != nil {
		return result.Result[ports.CustomerView]{}, err
	}
	return result.Ok(customerView(&rec.Customer, &rec.User)), nil
}

func customerView(c *domain.Customer, u *domain.User) ports.CustomerView {
	return ports.CustomerView{
		ID:        c.ID,
		FullName:  c.FullName,
		Email:     u.Email,
		Role:      u.Role.String(),
		Active:    u.Active,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
