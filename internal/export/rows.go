package export

import (
	"fjacquet/revol-ver/internal/models"
)

// Columns lists the exported columns in output order.
var Columns = []string{
	"id", "legId", "type", "state",
	"startedDate", "updatedDate", "completedDate", "createdDate",
	"currency", "amount", "fee", "balance",
	"description", "tag", "category", "relatedTransactionId",
	"accountId", "countryCode", "rate",
	"merchantCategory", "merchantName", "comment",
}

// Row is the flat text form of a transaction. Its csv tags follow Columns.
type Row struct {
	ID                   string `csv:"id"`
	LegID                string `csv:"legId"`
	Type                 string `csv:"type"`
	State                string `csv:"state"`
	StartedDate          string `csv:"startedDate"`
	UpdatedDate          string `csv:"updatedDate"`
	CompletedDate        string `csv:"completedDate"`
	CreatedDate          string `csv:"createdDate"`
	Currency             string `csv:"currency"`
	Amount               string `csv:"amount"`
	Fee                  string `csv:"fee"`
	Balance              string `csv:"balance"`
	Description          string `csv:"description"`
	Tag                  string `csv:"tag"`
	Category             string `csv:"category"`
	RelatedTransactionID string `csv:"relatedTransactionId"`
	AccountID            string `csv:"accountId"`
	CountryCode          string `csv:"countryCode"`
	Rate                 string `csv:"rate"`
	MerchantCategory     string `csv:"merchantCategory"`
	MerchantName         string `csv:"merchantName"`
	Comment              string `csv:"comment"`
}

// NewRow flattens tx. Unset timestamps and rate become empty strings.
func NewRow(tx models.Transaction) Row {
	rate := ""
	if tx.Rate.Valid {
		rate = tx.Rate.Decimal.String()
	}
	return Row{
		ID:                   tx.ID,
		LegID:                tx.LegID,
		Type:                 tx.Type,
		State:                tx.State,
		StartedDate:          models.FormatTimestamp(tx.StartedDate),
		UpdatedDate:          models.FormatTimestamp(tx.UpdatedDate),
		CompletedDate:        models.FormatTimestamp(tx.CompletedDate),
		CreatedDate:          models.FormatTimestamp(tx.CreatedDate),
		Currency:             tx.Currency,
		Amount:               tx.Amount.String(),
		Fee:                  tx.Fee.String(),
		Balance:              tx.Balance.String(),
		Description:          tx.Description,
		Tag:                  tx.Tag,
		Category:             tx.Category,
		RelatedTransactionID: tx.RelatedTransactionID,
		AccountID:            tx.AccountID,
		CountryCode:          tx.CountryCode,
		Rate:                 rate,
		MerchantCategory:     tx.MerchantCategory,
		MerchantName:         tx.MerchantName,
		Comment:              tx.Comment,
	}
}

// cells returns the spreadsheet values of tx in Columns order. Money columns
// stay numeric so they can be summed.
func cells(tx models.Transaction) []interface{} {
	row := NewRow(tx)
	var rate interface{} = ""
	if tx.Rate.Valid {
		rate = tx.Rate.Decimal.InexactFloat64()
	}
	return []interface{}{
		row.ID, row.LegID, row.Type, row.State,
		row.StartedDate, row.UpdatedDate, row.CompletedDate, row.CreatedDate,
		row.Currency, tx.Amount.InexactFloat64(), tx.Fee.InexactFloat64(), tx.Balance.InexactFloat64(),
		row.Description, row.Tag, row.Category, row.RelatedTransactionID,
		row.AccountID, row.CountryCode, rate,
		row.MerchantCategory, row.MerchantName, row.Comment,
	}
}
