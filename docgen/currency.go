package docgen

import (
	"encoding/json"
	"errors"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// CurrencyPrefix is prepended to every formatted amount.
const CurrencyPrefix = "R$ "

// MaxAmountDigits bounds the integer digits and the exponent accepted for
// an amount. Larger values are rejected as invalid data.
const MaxAmountDigits = 30

// FormatCurrency renders an amount as "R$ 1.234,56": period thousands
// separator, comma decimal separator, always two decimals.
func FormatCurrency(value float64) string {
	return FormatDecimal(decimal.NewFromFloat(value))
}

// FormatDecimal is FormatCurrency for decimal values.
func FormatDecimal(value decimal.Decimal) string {
	rounded := value.Round(2)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
	}
	whole, cents, _ := strings.Cut(rounded.Abs().StringFixed(2), ".")
	return CurrencyPrefix + sign + groupThousands(whole) + "," + cents
}

// FormatAmount formats any numeric value, returning ok=false when the value
// is not a number or is out of range.
func FormatAmount(value any) (string, bool) {
	amount, ok := ToDecimal(value)
	if !ok {
		return "", false
	}
	return FormatDecimal(amount), true
}

// ToDecimal converts JSON/YAML decoded numbers into a decimal. Values whose
// exponent or integer part exceed MaxAmountDigits are rejected.
func ToDecimal(value any) (decimal.Decimal, bool) {
	var (
		parsed decimal.Decimal
		err    error
	)
	switch v := value.(type) {
	case decimal.Decimal:
		parsed = v
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return decimal.Zero, false
		}
		parsed = decimal.NewFromFloat(v)
	case float32:
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return decimal.Zero, false
		}
		parsed = decimal.NewFromFloat32(v)
	case int:
		parsed = decimal.NewFromInt(int64(v))
	case int32:
		parsed = decimal.NewFromInt32(v)
	case int64:
		parsed = decimal.NewFromInt(v)
	case uint:
		parsed = decimal.NewFromUint64(uint64(v))
	case uint64:
		parsed = decimal.NewFromUint64(v)
	case json.Number:
		parsed, err = parseAmount(v.String())
	case string:
		parsed, err = parseAmount(strings.TrimSpace(v))
	default:
		return decimal.Zero, false
	}
	if err != nil || !inAmountRange(parsed) {
		return decimal.Zero, false
	}
	return parsed, true
}

// IsNumber reports whether value was decoded as a number rather than text.
func IsNumber(value any) bool {
	switch value.(type) {
	case json.Number, float64, float32, int, int32, int64, uint, uint64, decimal.Decimal:
		return true
	default:
		return false
	}
}

// parseAmount rejects oversized literals before decimal parses them.
func parseAmount(raw string) (decimal.Decimal, error) {
	if len(raw) > 4*MaxAmountDigits {
		return decimal.Zero, errAmountRange
	}
	return decimal.NewFromString(raw)
}

var errAmountRange = errors.New("amount out of range")

func inAmountRange(d decimal.Decimal) bool {
	exp := int(d.Exponent())
	if exp > MaxAmountDigits || exp < -MaxAmountDigits {
		return false
	}
	return d.NumDigits()+exp <= MaxAmountDigits
}

// RunningTotal sums the "valor" of each line item. Missing, non numeric and
// negative values contribute zero.
func RunningTotal(items []map[string]any) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		amount, ok := ToDecimal(item["valor"])
		if !ok || amount.IsNegative() {
			continue
		}
		total = total.Add(amount)
	}
	return total
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	b.Grow(len(digits) + len(digits)/3)
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
