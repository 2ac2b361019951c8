package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/portfoliotracker/backoffice-api/internal/core/ports"
)

// BackofficeHandler serves the cross-customer views used by back-office
// staff. Every route here sits behind the admin policy.
type BackofficeHandler struct {
	portfolios ports.PortfolioService
}

func NewBackofficeHandler(portfolios ports.PortfolioService) *BackofficeHandler {
	return &BackofficeHandler{portfolios: portfolios}
}

// ListPortfolios returns portfolios across all customers with filtering
// and sorting.
//
// @Summary      List all portfolios (back office)
// @Tags         backoffice
// @Produce      json
// @Security     BearerAuth
// @Param        search         query     string  false  "Match on portfolio or customer name"
// @Param        active         query     bool    false  "Filter by active status"
// @Param        exchange       query     string  false  "Filter by exchange"
// @Param        base_currency  query     string  false  "Filter by base currency"
// @Param        customer_id    query     string  false  "Filter by customer"
// @Param        sort_by        query     string  false  "name|customer|exchange|base_currency|active|created_at|updated_at"
// @Param        sort_order     query     string  false  "asc|desc (default desc)"
// @Param        page           query     int     false  "Page number (1-based)"
// @Param        size           query     int     false  "Page size (max 100)"
// @Success      200            {object}  ports.PagedResult[ports.BOPortfolioView]
// @Failure      403            {object}  errorResponse
// @Router       /bo/api/portfolios [get]
func (h *BackofficeHandler) ListPortfolios(c echo.Context) error {
	var q boPortfolioQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid query"})
	}

	res, err := h.portfolios.BOList(c.Request().Context(), ports.BOListInput{
		Search:       q.Search,
		Active:       q.Active,
		Exchange:     q.Exchange,
		BaseCurrency: q.BaseCurrency,
		CustomerID:   q.CustomerID,
		SortBy:       q.SortBy,
		SortOrder:    q.SortOrder,
		Page:         ports.PageRequest{Page: q.Page, Size: q.Size},
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, res)
}
