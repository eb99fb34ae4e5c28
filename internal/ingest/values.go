package ingest

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

var (
	moneyPattern = regexp.MustCompile(`(?i)^(?:usd\s*|\$\s*)?(\d{1,3}(?:,\d{3})+|\d+)(\.\d+)?\s*([km])?$`)

	thousand = decimal.NewFromInt(1_000)
	million  = decimal.NewFromInt(1_000_000)

	clockLayouts = []string{"15:04", "3:04 PM", "3:04PM", "3:04 pm", "3:04pm"}
)

// ParseMoney accepts amounts such as "1234.5", "$1,234.50", "USD 1234.5", "2.5k" and "1.2M".
// Negative amounts and anything else are rejected.
func ParseMoney(raw string) (decimal.Decimal, bool) {
	m := moneyPattern.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(m[1], ",", "") + m[2])
	if err != nil {
		return decimal.Zero, false
	}
	switch strings.ToLower(m[3]) {
	case "k":
		d = d.Mul(thousand)
	case "m":
		d = d.Mul(million)
	}
	return d, true
}

// ParseDate accepts an ISO calendar date and returns midnight UTC of that day.
func ParseDate(raw string) (time.Time, bool) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ParseClock combines day with a wall-clock time in 24h ("14:30") or 12h ("2:30 PM") form.
func ParseClock(day time.Time, raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range clockLayouts {
		c, err := time.Parse(layout, raw)
		if err == nil {
			return time.Date(day.Year(), day.Month(), day.Day(), c.Hour(), c.Minute(), 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// ParseCount accepts a non-negative whole number.
func ParseCount(raw string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
