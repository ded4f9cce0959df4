// Package revolutparser converts raw Revolut transaction records, as returned by the
// web API or found in a JSON export, into canonical models.Transaction values.
package revolutparser

import (
	"time"

	"fjacquet/revol-ver/internal/logging"
	"fjacquet/revol-ver/internal/models"
	"fjacquet/revol-ver/internal/parsererror"

	"github.com/shopspring/decimal"
)

// Raw record keys
const (
	keyID                   = "id"
	keyLegID                = "legId"
	keyType                 = "type"
	keyState                = "state"
	keyCurrency             = "currency"
	keyAmount               = "amount"
	keyTag                  = "tag"
	keyCategory             = "category"
	keyFee                  = "fee"
	keyBalance              = "balance"
	keyRate                 = "rate"
	keyDescription          = "description"
	keyComment              = "comment"
	keyCountryCode          = "countryCode"
	keyRelatedTransactionID = "relatedTransactionId"
	keyStartedDate          = "startedDate"
	keyUpdatedDate          = "updatedDate"
	keyCompletedDate        = "completedDate"
	keyCreatedDate          = "createdDate"
)

// requiredStringFields must be present as strings. An empty string counts as present.
var requiredStringFields = []string{keyID, keyLegID, keyType, keyState, keyCurrency, keyTag, keyCategory}

// CategoryResolver resolves a category token to its display label.
type CategoryResolver interface {
	Resolve(token string, record map[string]any) (string, error)
}

// Normalizer validates raw records and builds canonical transactions.
type Normalizer struct {
	resolver CategoryResolver
	location *time.Location
	logger   logging.Logger
}

// NewNormalizer creates a Normalizer converting timestamps into loc.
func NewNormalizer(resolver CategoryResolver, loc *time.Location, logger logging.Logger) *Normalizer {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Normalizer{resolver: resolver, location: loc, logger: logger}
}

// Normalize validates raw and returns its canonical form. The error is a
// *parsererror.ValidationError or a *parsererror.CategoryResolutionError.
func (n *Normalizer) Normalize(raw models.RawTransaction) (models.Transaction, error) {
	recordID, _ := raw[keyID].(string)

	required := make(map[string]string, len(requiredStringFields))
	for _, field := range requiredStringFields {
		value, ok := raw[field]
		if !ok || value == nil {
			return models.Transaction{}, &parsererror.ValidationError{RecordID: recordID, Field: field, Reason: "is required"}
		}
		s, ok := value.(string)
		if !ok {
			return models.Transaction{}, &parsererror.ValidationError{RecordID: recordID, Field: field, Reason: "must be a string"}
		}
		required[field] = s
	}

	amountValue, ok := raw[keyAmount]
	if !ok || amountValue == nil {
		return models.Transaction{}, &parsererror.ValidationError{RecordID: recordID, Field: keyAmount, Reason: "is required"}
	}
	amount, err := toDecimal(amountValue)
	if err != nil {
		return models.Transaction{}, &parsererror.ValidationError{RecordID: recordID, Field: keyAmount, Reason: err.Error()}
	}

	tx := models.Transaction{
		ID:       required[keyID],
		LegID:    required[keyLegID],
		Type:     required[keyType],
		State:    required[keyState],
		Currency: required[keyCurrency],
		Tag:      required[keyTag],
		Amount:   amount,
	}

	timestamps := []struct {
		key    string
		target **time.Time
	}{
		{keyStartedDate, &tx.StartedDate},
		{keyUpdatedDate, &tx.UpdatedDate},
		{keyCompletedDate, &tx.CompletedDate},
		{keyCreatedDate, &tx.CreatedDate},
	}
	for _, ts := range timestamps {
		converted, err := n.timestamp(raw, recordID, ts.key)
		if err != nil {
			return models.Transaction{}, err
		}
		*ts.target = converted
	}

	category, err := n.resolver.Resolve(required[keyCategory], raw)
	if err != nil {
		return models.Transaction{}, err
	}
	tx.Category = category

	tx.AccountID = nestedString(raw, "account", "id")
	tx.MerchantCategory = nestedString(raw, "merchant", "category")
	tx.MerchantName = nestedString(raw, "merchant", "name")

	if tx.Fee, err = optionalDecimal(raw, recordID, keyFee); err != nil {
		return models.Transaction{}, err
	}
	if tx.Balance, err = optionalDecimal(raw, recordID, keyBalance); err != nil {
		return models.Transaction{}, err
	}
	if rateValue, ok := raw[keyRate]; ok && rateValue != nil {
		rate, err := toDecimal(rateValue)
		if err != nil {
			return models.Transaction{}, &parsererror.ValidationError{RecordID: recordID, Field: keyRate, Reason: err.Error()}
		}
		tx.Rate = decimal.NewNullDecimal(rate)
	}

	optionalStrings := []struct {
		key    string
		target *string
	}{
		{keyDescription, &tx.Description},
		{keyComment, &tx.Comment},
		{keyCountryCode, &tx.CountryCode},
		{keyRelatedTransactionID, &tx.RelatedTransactionID},
	}
	for _, field := range optionalStrings {
		value, err := toOptionalString(raw[field.key])
		if err != nil {
			return models.Transaction{}, &parsererror.ValidationError{RecordID: recordID, Field: field.key, Reason: err.Error()}
		}
		*field.target = value
	}

	return tx, nil
}

// NormalizeAll normalizes every record. Failures are collected per record and
// never stop the batch.
func (n *Normalizer) NormalizeAll(raws []models.RawTransaction) ([]models.Transaction, []models.RecordFailure) {
	accepted := make([]models.Transaction, 0, len(raws))
	var failures []models.RecordFailure
	for i, raw := range raws {
		tx, err := n.Normalize(raw)
		if err != nil {
			recordID, _ := raw[keyID].(string)
			failures = append(failures, models.RecordFailure{Index: i, RecordID: recordID, Err: err})
			continue
		}
		accepted = append(accepted, tx)
	}
	return accepted, failures
}

// timestamp converts an epoch-milliseconds field. Zero or absent values are
// left unset and logged as an anomaly.
func (n *Normalizer) timestamp(raw models.RawTransaction, recordID, key string) (*time.Time, error) {
	ms, err := toEpochMillis(raw[key])
	if err != nil {
		return nil, &parsererror.ValidationError{RecordID: recordID, Field: key, Reason: err.Error()}
	}
	if ms == 0 {
		n.logger.Error("Cannot convert timestamp",
			logging.F(logging.FieldTransaction, recordID),
			logging.F("field", key),
			logging.F("value", raw[key]))
		return nil, nil
	}
	ts := time.UnixMilli(ms).In(n.location)
	return &ts, nil
}

func optionalDecimal(raw models.RawTransaction, recordID, key string) (decimal.Decimal, error) {
	value, ok := raw[key]
	if !ok || value == nil {
		return decimal.Zero, nil
	}
	d, err := toDecimal(value)
	if err != nil {
		return decimal.Zero, &parsererror.ValidationError{RecordID: recordID, Field: key, Reason: err.Error()}
	}
	return d, nil
}

func nestedString(raw models.RawTransaction, path ...string) string {
	value, ok := lookupPath(raw, path...)
	if !ok {
		return ""
	}
	s, err := toOptionalString(value)
	if err != nil {
		return ""
	}
	return s
}
