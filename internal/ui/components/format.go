package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// FormatNumber formats an integer with comma separators (e.g. 1,234,567).
func FormatNumber(n int) string {
	return humanize.Comma(int64(n))
}

// FormatKWh formats an energy reading with separators and one decimal
// (e.g. 1,234.5).
func FormatKWh(v float64) string {
	return humanize.CommafWithDigits(v, 1)
}

// FormatETB formats a birr amount with separators and two decimals
// (e.g. 1,234.50).
func FormatETB(v float64) string {
	// CommafWithDigits never pads, money always shows cents.
	whole, frac, _ := strings.Cut(humanize.CommafWithDigits(v, 2), ".")
	for len(frac) < 2 {
		frac += "0"
	}
	return whole + "." + frac
}

// FormatTrend formats a percentage change with an explicit sign.
func FormatTrend(pct float64) string {
	return fmt.Sprintf("%+.1f%%", pct)
}

// FormatAge describes t relative to now (e.g. "3 minutes ago").
func FormatAge(t, now time.Time) string {
	return humanize.RelTime(t, now, "ago", "from now")
}

// FormatDate renders a server date for tables, falling back to the raw
// string when it does not parse.
func FormatDate(t time.Time, err error, raw string) string {
	if err != nil {
		return raw
	}
	return t.Format("2006-01-02")
}
