package revolutparser

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"fjacquet/revol-ver/internal/models"

	"github.com/shopspring/decimal"
)

// lookupPath walks nested objects of raw following path.
// It reports false as soon as a key is missing or an intermediate value is not an object.
func lookupPath(raw models.RawTransaction, path ...string) (any, bool) {
	var current any = map[string]any(raw)
	for _, key := range path {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = obj[key]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// toDecimal converts a decoded JSON number into a decimal.
func toDecimal(value any) (decimal.Decimal, error) {
	switch v := value.(type) {
	case json.Number:
		return decimal.NewFromString(v.String())
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return decimal.Zero, fmt.Errorf("not a finite number")
		}
		return decimal.NewFromFloat(v), nil
	case float32:
		return decimal.NewFromFloat32(v), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case string:
		return decimal.NewFromString(strings.TrimSpace(v))
	default:
		return decimal.Zero, fmt.Errorf("expected a number, got %T", value)
	}
}

// toEpochMillis converts a decoded JSON number into epoch milliseconds.
func toEpochMillis(value any) (int64, error) {
	switch v := value.(type) {
	case nil:
		return 0, nil
	case json.Number:
		if ms, err := v.Int64(); err == nil {
			return ms, nil
		}
		f, err := v.Float64()
		if err != nil {
			return 0, fmt.Errorf("expected epoch milliseconds, got %q", v.String())
		}
		return int64(f), nil
	case float64:
		return int64(v), nil
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case string:
		ms, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("expected epoch milliseconds, got %q", v)
		}
		return ms, nil
	default:
		return 0, fmt.Errorf("expected epoch milliseconds, got %T", value)
	}
}

// toOptionalString renders an optional scalar. Absent and null values are "".
func toOptionalString(value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case bool, float64, int, int64:
		return fmt.Sprint(v), nil
	default:
		return "", fmt.Errorf("expected a string, got %T", value)
	}
}
