package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Exchange identifies the venue a portfolio trades on.
type Exchange string

const (
	ExchangeNYSE   Exchange = "NYSE"
	ExchangeNASDAQ Exchange = "NASDAQ"
	ExchangeLSE    Exchange = "LSE"
	ExchangeXETRA  Exchange = "XETRA"
	ExchangeTSE    Exchange = "TSE"
)

// Currency is an ISO 4217 code from the supported set.
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
	CurrencyJPY Currency = "JPY"
	CurrencyMXN Currency = "MXN"
)

// Portfolio belongs to exactly one Customer. The triple
// (CustomerID, Name, Exchange) is unique system-wide, enforced by a
// storage-level unique index.
type Portfolio struct {
	ID           string
	CustomerID   string
	Name         string
	Exchange     Exchange
	BaseCurrency Currency
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CashBalance is the cash held by a portfolio in one currency.
// (PortfolioID, Currency) is unique.
type CashBalance struct {
	ID          string
	PortfolioID string
	Currency    Currency
	Amount      decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
