package receipt

import (
	"time"

	"github.com/sangkips/pos-print-server/internal/domain/entity"
)

// DefaultTimezone is the zone receipts are printed in.
const DefaultTimezone = "America/El_Salvador"

// TimestampLayout renders e.g. "04-03-2024 09:15 pm".
const TimestampLayout = "02-01-2006 03:04 pm"

// FormatCurrency renders a numeric amount with exactly two decimals and
// returns non-numeric input unchanged.
func FormatCurrency(a entity.Amount) string {
	if !a.IsNumeric() {
		return a.Raw
	}
	return a.Value.StringFixed(2)
}

// Money is FormatCurrency prefixed with the dollar sign.
func Money(a entity.Amount) string {
	return "$" + FormatCurrency(a)
}

// LoadLocation returns the named zone, or a fixed UTC-6 zone when the zone
// database does not know the name.
func LoadLocation(name string) *time.Location {
	if name == "" {
		name = DefaultTimezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.FixedZone("UTC-6", -6*60*60)
	}
	return loc
}

// LocalTimestamp renders t in loc as "DD-MM-YYYY hh:mm am|pm".
func LocalTimestamp(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = LoadLocation("")
	}
	return t.In(loc).Format(TimestampLayout)
}
