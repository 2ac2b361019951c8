package service

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/portfoliotracker/backoffice-api/internal/core/domain"
	"github.com/portfoliotracker/backoffice-api/internal/core/ports"
	"github.com/portfoliotracker/backoffice-api/internal/core/result"
)

const defaultTokenTTL = 24 * time.Hour

// AuthService implements login and token issuance.
type AuthService struct {
	users     ports.UserRepository
	customers ports.CustomerRepository
	jwtSecret string
	issuer    string
	audience  string
	tokenTTL  time.Duration
	logger    zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	customers ports.CustomerRepository,
	jwtSecret, issuer, audience string,
	tokenTTL time.Duration,
	logger zerolog.Logger,
) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = defaultTokenTTL
	}
	return &AuthService{
		users:     users,
		customers: customers,
		jwtSecret: jwtSecret,
		issuer:    issuer,
		audience:  audience,
		tokenTTL:  tokenTTL,
		logger:    logger,
	}
}

// Login verifies credentials and returns a signed token with the user
// view. Bad credentials and inactive accounts are expected outcomes (401);
// only storage faults surface as errors.
func (s *AuthService) Login(ctx context.Context, email, password string) (result.Result[ports.LoginResult], error) {
	if email == "" || password == "" {
		return result.Fail[ports.LoginResult]("Invalid email or password", http.StatusUnauthorized), nil
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return result.Fail[ports.LoginResult]("Invalid email or password", http.StatusUnauthorized), nil
		}
		return result.Result[ports.LoginResult]{}, err
	}

	if !user.Active {
		return result.Fail[ports.LoginResult]("User account is inactive", http.StatusUnauthorized), nil
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return result.Fail[ports.LoginResult]("Invalid email or password", http.StatusUnauthorized), nil
	}

	expiresAt := time.Now().UTC().Add(s.tokenTTL)
	token, err := s.generateToken(user, expiresAt)
	if err != nil {
		return result.Result[ports.LoginResult]{}, err
	}

	view := ports.UserView{
		ID:     user.ID,
		Email:  user.Email,
		Role:   user.Role.String(),
		Active: user.Active,
	}

	// Customers carry their record in the login response; staff accounts
	// have none.
	rec, err := s.customers.FindByUserID(ctx, user.ID)
	switch {
	case err == nil:
		view.Customer = &ports.CustomerView{
			ID:        rec.Customer.ID,
			FullName:  rec.Customer.FullName,
			Email:     user.Email,
			Role:      user.Role.String(),
			Active:    user.Active,
			CreatedAt: rec.Customer.CreatedAt,
			UpdatedAt: rec.Customer.UpdatedAt,
		}
	case !errors.Is(err, domain.ErrCustomerNotFound):
		return result.Result[ports.LoginResult]{}, err
	}

	s.logger.Info().Str("user_id", user.ID).Str("role", user.Role.String()).Msg("user logged in")

	return result.Ok(ports.LoginResult{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      view,
	}), nil
}

func (s *AuthService) generateToken(user *domain.User, expiresAt time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"role":  user.Role.String(),
		"iss":   s.issuer,
		"aud":   s.audience,
		"iat":   time.Now().Unix(),
		"exp":   expiresAt.Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
