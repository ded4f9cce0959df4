// Package models provides the data structures used throughout the application.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RawTransaction is a transaction record exactly as it was received from the
// web API or the static JSON export. Numbers are json.Number when decoded by
// this application, but hand-built maps may carry float64 or int values.
type RawTransaction = map[string]any

// Transaction is the canonical, validated form of a Revolut transaction.
// Values are only produced by the normalizer and are never modified afterwards.
type Transaction struct {
	ID                   string              `json:"id"`
	LegID                string              `json:"legId"`
	Type                 string              `json:"type"`
	State                string              `json:"state"`
	StartedDate          *time.Time          `json:"startedDate,omitempty"`
	UpdatedDate          *time.Time          `json:"updatedDate,omitempty"`
	CompletedDate        *time.Time          `json:"completedDate,omitempty"`
	CreatedDate          *time.Time          `json:"createdDate,omitempty"`
	Currency             string              `json:"currency"`
	Amount               decimal.Decimal     `json:"amount"`
	Fee                  decimal.Decimal     `json:"fee"`
	Balance              decimal.Decimal     `json:"balance"`
	Description          string              `json:"description"`
	Tag                  string              `json:"tag"`
	Category             string              `json:"category"`
	RelatedTransactionID string              `json:"relatedTransactionId"`
	AccountID            string              `json:"accountId,omitempty"`
	CountryCode          string              `json:"countryCode"`
	Rate                 decimal.NullDecimal `json:"rate"`
	MerchantCategory     string              `json:"merchantCategory,omitempty"`
	MerchantName         string              `json:"merchantName,omitempty"`
	Comment              string              `json:"comment"`
}

// StartedIn reports whether the transaction started in the given calendar month.
// A transaction without a start date belongs to no month.
func (t Transaction) StartedIn(year int, month time.Month) bool {
	if t.StartedDate == nil {
		return false
	}
	return t.StartedDate.Year() == year && t.StartedDate.Month() == month
}

// FormatTimestamp renders an optional timestamp for tabular outputs.
// Unset timestamps render as an empty string.
func FormatTimestamp(ts *time.Time) string {
	if ts == nil {
		return ""
	}
	return ts.Format(TimestampLayout)
}
