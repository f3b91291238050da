package domain

import (
	"fmt"
	"strings"
	"time"
)

// MonthLayout is the textual format of last_reported, e.g. "Jan 2023"
const MonthLayout = "Jan 2006"

// NullInt is an integer that may be missing. The zero value is missing.
type NullInt struct {
	Int64 int64
	Valid bool
}

// IntOf returns a present integer
func IntOf(v int64) NullInt {
	return NullInt{Int64: v, Valid: true}
}

func (n NullInt) String() string {
	if !n.Valid {
		return "NA"
	}
	return fmt.Sprintf("%d", n.Int64)
}

// NullFloat is a float that may be missing. The zero value is missing.
type NullFloat struct {
	Float64 float64
	Valid   bool
}

// FloatOf returns a present float
func FloatOf(v float64) NullFloat {
	return NullFloat{Float64: v, Valid: true}
}

func (n NullFloat) String() string {
	if !n.Valid {
		return "NA"
	}
	return fmt.Sprintf("%g", n.Float64)
}

// Month is a calendar month of a year
type Month struct {
	Year  int
	Month time.Month
}

// ParseMonth parses the "Jan 2006" textual form
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse(MonthLayout, strings.TrimSpace(s))
	if err != nil {
		return Month{}, err
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

// MonthOf builds a Month from its parts
func MonthOf(year int, month time.Month) Month {
	return Month{Year: year, Month: month}
}

// Time returns the first instant of the month in UTC
func (m Month) Time() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// Before reports whether m is strictly earlier than o
func (m Month) Before(o Month) bool {
	if m.Year != o.Year {
		return m.Year < o.Year
	}
	return m.Month < o.Month
}

func (m Month) String() string {
	return m.Time().Format(MonthLayout)
}

// NullMonth is a month that may be missing. The zero value is missing.
type NullMonth struct {
	Month Month
	Valid bool
}

// MonthValue returns a present month
func MonthValue(m Month) NullMonth {
	return NullMonth{Month: m, Valid: true}
}

func (n NullMonth) String() string {
	if !n.Valid {
		return "NA"
	}
	return n.Month.String()
}
