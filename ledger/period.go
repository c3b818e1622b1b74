package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/robinvdvleuten/kmy/model"
)

// Period is the granularity splits are bucketed by during aggregation.
type Period int

const (
	Monthly Period = iota
	Yearly
)

func (p Period) String() string {
	switch p {
	case Monthly:
		return "monthly"
	case Yearly:
		return "yearly"
	default:
		return "unknown"
	}
}

// ParsePeriod parses a period name. It accepts the short codes "M"
// and "Y" as well as "month", "monthly", "year" and "yearly".
func ParsePeriod(s string) (Period, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "m", "month", "monthly":
		return Monthly, nil
	case "y", "year", "yearly":
		return Yearly, nil
	}
	return 0, fmt.Errorf("invalid period %q, expected M or Y", s)
}

// PeriodKey identifies one calendar period. Month is zero for yearly periods.
type PeriodKey struct {
	Year  int
	Month time.Month
}

// Of returns the period containing d.
func (p Period) Of(d *model.Date) PeriodKey {
	if p == Yearly {
		return PeriodKey{Year: d.Year()}
	}
	return PeriodKey{Year: d.Year(), Month: d.Month()}
}

// Before reports whether k starts before o.
func (k PeriodKey) Before(o PeriodKey) bool {
	if k.Year != o.Year {
		return k.Year < o.Year
	}
	return k.Month < o.Month
}

// Compare returns -1, 0 or +1 depending on whether k is before, equal to or
// after o.
func (k PeriodKey) Compare(o PeriodKey) int {
	switch {
	case k.Before(o):
		return -1
	case o.Before(k):
		return 1
	}
	return 0
}

// String formats the key as "2006" or "2006-01".
func (k PeriodKey) String() string {
	if k.Month == 0 {
		return fmt.Sprintf("%04d", k.Year)
	}
	return fmt.Sprintf("%04d-%02d", k.Year, int(k.Month))
}

func (k PeriodKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *PeriodKey) UnmarshalText(text []byte) error {
	layout := "2006-01"
	if len(text) == 4 {
		layout = "2006"
	}
	t, err := time.Parse(layout, string(text))
	if err != nil {
		return fmt.Errorf("invalid period %q: %w", text, err)
	}
	*k = PeriodKey{Year: t.Year()}
	if layout != "2006" {
		k.Month = t.Month()
	}
	return nil
}
