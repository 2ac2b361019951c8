package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/portfoliotracker/backoffice-api/internal/api/metrics"
	"github.com/portfoliotracker/backoffice-api/internal/core/ports"
)

// CustomerHandler handles HTTP requests for customer records.
type CustomerHandler struct {
	service ports.CustomerService
}

func NewCustomerHandler(service ports.CustomerService) *CustomerHandler {
	return &CustomerHandler{service: service}
}

// Register creates a new customer and its user account as a pair.
//
// @Summary      Register a new customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        body  body      registerCustomerRequest  true  "Signup details"
// @Success      201   {object}  ports.CustomerView
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/customers [post]
func (h *CustomerHandler) Register(c echo.Context) error {
	var req registerCustomerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	res, err := h.service.Register(c.Request().Context(), ports.RegisterCustomerInput{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	if res.Success {
		metrics.CustomersRegisteredTotal.Inc()
	}
	return respond(c, http.StatusCreated, res)
}

// List returns a page of all customers. Admin and above only.
//
// @Summary      List customers
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Param        page  query     int  false  "Page number (1-based)"
// @Param        size  query     int  false  "Page size (max 100)"
// @Success      200   {object}  ports.PagedResult[ports.CustomerView]
// @Failure      403   {object}  errorResponse
// @Router       /api/customers [get]
func (h *CustomerHandler) List(c echo.Context) error {
	var q pageQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid query"})
	}

	res, err := h.service.List(c.Request().Context(), ports.PageRequest{Page: q.Page, Size: q.Size})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, res)
}

// Get returns one customer by id. Owners see their own record; admins and
// above see any.
//
// @Summary      Get a customer
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Customer id"
// @Success      200  {object}  ports.CustomerView
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/customers/{id} [get]
func (h *CustomerHandler) Get(c echo.Context) error {
	res, err := h.service.GetByID(c.Request().Context(), ctxIdentity(c), c.Param("id"))
	if err != nil {
		return err
	}
	if !res.Success && res.Status == http.StatusForbidden {
		metrics.AuthzDenialsTotal.WithLabelValues("ownership").Inc()
	}
	return respond(c, http.StatusOK, res)
}

// Update replaces the mutable customer fields (PUT).
//
// @Summary      Update a customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true  "Customer id"
// @Param        body  body      updateCustomerRequest  true  "New field values"
// @Success      200   {object}  ports.CustomerView
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/customers/{id} [put]
func (h *CustomerHandler) Update(c echo.Context) error {
	var req updateCustomerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	res, err := h.service.Update(c.Request().Context(), ctxIdentity(c), c.Param("id"), ports.UpdateCustomerInput{
		FullName: req.FullName,
		Email:    req.Email,
		Active:   req.Active,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, res)
}

// Patch applies a partial update to a customer.
//
// @Summary      Patch a customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Customer id"
// @Param        body  body      patchCustomerRequest  true  "Fields to change"
// @Success      200   {object}  ports.CustomerView
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/customers/{id} [patch]
func (h *CustomerHandler) Patch(c echo.Context) error {
	var req patchCustomerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}
	if req.FullName == nil && req.Email == nil && req.Active == nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "at least one field must be provided"})
	}

	res, err := h.service.Patch(c.Request().Context(), ctxIdentity(c), c.Param("id"), ports.PatchCustomerInput{
		FullName: req.FullName,
		Email:    req.Email,
		Active:   req.Active,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, res)
}
