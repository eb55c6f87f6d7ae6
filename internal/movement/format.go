package movement

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/frahmantamala/payroll-bridge/internal"
)

// defaultDays is posted when a day event carries no quantity at all.
const defaultDays = "1"

var hmPattern = regexp.MustCompile(`^\d{1,4}:[0-5]\d$`)

// IsHM reports whether s is an H:MM duration.
func IsHM(s string) bool {
	return hmPattern.MatchString(strings.TrimSpace(s))
}

func isZeroHM(s string) bool {
	h, m, _ := strings.Cut(strings.TrimSpace(s), ":")
	return strings.Trim(h, "0") == "" && strings.Trim(m, "0") == ""
}

// DecimalToHM converts decimal hours to H:MM with minutes rounded; 60 minutes carry into the hour.
// Non-positive input has no value.
func DecimalToHM(hours float64) (string, bool) {
	d := decimal.NewFromFloat(hours)
	if !d.IsPositive() {
		return "", false
	}

	whole := d.Floor()
	minutes := d.Sub(whole).Mul(decimal.NewFromInt(60)).Round(0)
	if minutes.GreaterThanOrEqual(decimal.NewFromInt(60)) {
		whole = whole.Add(decimal.NewFromInt(1))
		minutes = decimal.Zero
	}

	hm := fmt.Sprintf("%d:%02d", whole.IntPart(), minutes.IntPart())
	if isZeroHM(hm) {
		return "", false
	}
	return hm, true
}

// FormatValue renders the movimento valor for an event according to its unit.
func FormatValue(e Event) (string, error) {
	if e.Unit == UnitDays {
		return formatDays(e), nil
	}
	return formatHours(e)
}

func formatDays(e Event) string {
	if e.Value.Valid {
		if v, err := decimal.NewFromString(strings.TrimSpace(e.Value.Raw)); err == nil && v.IsPositive() {
			return v.String()
		}
	}
	if e.Decimal != nil {
		if rounded := decimal.NewFromFloat(*e.Decimal).Round(0); rounded.IsPositive() {
			return rounded.String()
		}
	}
	return defaultDays
}

func formatHours(e Event) (string, error) {
	if IsHM(e.HM) && !isZeroHM(e.HM) {
		return e.HM, nil
	}
	if e.Decimal != nil {
		if hm, ok := DecimalToHM(*e.Decimal); ok {
			return hm, nil
		}
	}
	if e.Value.Valid && strings.Contains(e.Value.Raw, ":") {
		return strings.TrimSpace(e.Value.Raw), nil
	}
	return "", internal.NewValidationError(
		fmt.Sprintf("no usable hour value for event %s", e.Code),
		internal.ErrCodeNoUsableValue,
	)
}
