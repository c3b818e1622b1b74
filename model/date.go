package model

import (
	"encoding/json"
	"time"
)

// DateFormat is the ISO 8601 layout used by KMyMoney for every date attribute.
const DateFormat = "2006-01-02"

// Date is a calendar day. Absent dates are represented by a nil *Date; the
// source format leaves dates empty for unposted or unreconciled records.
type Date struct {
	time.Time
}

// NewDate returns the date for the given day at midnight UTC.
func NewDate(year int, month time.Month, day int) *Date {
	return &Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses an ISO 8601 date (YYYY-MM-DD).
func ParseDate(s string) (*Date, error) {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return nil, err
	}
	return &Date{Time: t}, nil
}

// MustParseDate is like ParseDate but panics on error.
func MustParseDate(s string) *Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// IsZero returns true if the Date is nil or represents the zero time.
// This method is nil-safe so absent dates can be checked without guards.
func (d *Date) IsZero() bool {
	if d == nil {
		return true
	}
	return d.Time.IsZero()
}

// Before reports whether d is before x. An absent date sorts before any
// present date.
func (d *Date) Before(x *Date) bool {
	switch {
	case d.IsZero():
		return !x.IsZero()
	case x.IsZero():
		return false
	}
	return d.Time.Before(x.Time)
}

func (d *Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateFormat)
}

func (d *Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = *parsed
	return nil
}
