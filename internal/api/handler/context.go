package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/portfoliotracker/backoffice-api/internal/api/middleware"
	"github.com/portfoliotracker/backoffice-api/internal/core/domain"
)

// ctxIdentity materialises the caller's Identity from the claims the Auth
// middleware injected. Missing or malformed claims degrade silently to a
// zero field — an Identity with RoleUnknown fails every authorization
// check downstream, so a broken token behaves like no token rather than
// an error here.
func ctxIdentity(c echo.Context) domain.Identity {
	userID, _ := c.Get(middleware.CtxUserID).(string)
	email, _ := c.Get(middleware.CtxEmail).(string)
	roleClaim, _ := c.Get(middleware.CtxRole).(string)
	role, _ := domain.ParseRole(roleClaim)

	return domain.Identity{
		UserID: userID,
		Email:  email,
		Role:   role,
	}
}
