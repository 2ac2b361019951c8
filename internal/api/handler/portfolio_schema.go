package handler

type createPortfolioRequest struct {
	Name         string `json:"name"          validate:"required,min=2,max=100"`
	Exchange     string `json:"exchange"      validate:"required,oneof=NYSE NASDAQ LSE XETRA TSE"`
	BaseCurrency string `json:"base_currency" validate:"omitempty,oneof=USD EUR GBP JPY MXN"`
}

// patchPortfolioRequest carries optional fields; absent fields are left
// untouched.
type patchPortfolioRequest struct {
	Name         *string `json:"name,omitempty"          validate:"omitempty,min=2,max=100"`
	BaseCurrency *string `json:"base_currency,omitempty" validate:"omitempty,oneof=USD EUR GBP JPY MXN"`
	Active       *bool   `json:"active,omitempty"`
}

type setCashBalanceRequest struct {
	Amount string `json:"amount" validate:"required"`
}

type boPortfolioQuery struct {
	Search       string `query:"search"`
	Active       *bool  `query:"active"`
	Exchange     string `query:"exchange"`
	BaseCurrency string `query:"base_currency"`
	CustomerID   string `query:"customer_id"`
	SortBy       string `query:"sort_by"`
	SortOrder    string `query:"sort_order"`
	Page         int    `query:"page"`
	Size         int    `query:"size"`
}
