package person

import (
	"strconv"
	"strings"
	"time"
)

// ExtractYear returns the first four-digit run in a date string, after
// dropping a leading '+'. It returns "" when no such run exists.
//
//	ExtractYear("+1950-05-15T00:00:00Z") // "1950"
//	ExtractYear("c. 1890")               // "1890"
func ExtractYear(date string) string {
	s := strings.TrimPrefix(date, "+")
	run := 0
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			run++
			if run == 4 {
				return s[i-3 : i+1]
			}
			continue
		}
		run = 0
	}
	return ""
}

// Date is a calendar date with optional month and day precision.
// Month and Day are zero when the source date omits them.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate parses a partial ISO-8601 date such as "+1950-05-15T00:00:00Z",
// "1950-05" or "1950". Wikibase encodes unknown month or day as "00"; those
// parse as zero. The boolean is false when no year can be read.
func ParseDate(s string) (Date, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "+")
	if i := strings.IndexByte(s, 'T'); i >= 0 {
		s = s[:i]
	}
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	parts := strings.Split(s, "-")
	year, err := strconv.Atoi(parts[0])
	if err != nil || parts[0] == "" {
		return Date{}, false
	}
	if neg {
		year = -year
	}
	d := Date{Year: year}
	if len(parts) > 1 {
		if m, err := strconv.Atoi(parts[1]); err == nil && m >= 1 && m <= 12 {
			d.Month = time.Month(m)
		}
	}
	if len(parts) > 2 && d.Month != 0 {
		if day, err := strconv.Atoi(parts[2]); err == nil && day >= 1 && day <= 31 {
			d.Day = day
		}
	}
	return d, true
}

// String formats the date in day-month-year order with the month spelled
// out, omitting whatever precision is missing: "15 May 1950", "May 1950",
// "1950".
func (d Date) String() string {
	year := strconv.Itoa(d.Year)
	switch {
	case d.Month == 0:
		return year
	case d.Day == 0:
		return d.Month.String() + " " + year
	default:
		return strconv.Itoa(d.Day) + " " + d.Month.String() + " " + year
	}
}

// FormatDate renders a raw date for display. Unparseable input is returned
// unchanged; empty input yields "Unknown".
func FormatDate(raw string) string {
	if raw == "" {
		return "Unknown"
	}
	d, ok := ParseDate(raw)
	if !ok {
		return raw
	}
	return d.String()
}

// Age returns the age in whole years at death, or at now when death is
// empty. The boolean is false when birth cannot be parsed or the result
// would be negative. Missing month or day precision is treated as the first
// of the period.
func Age(birth, death string, now time.Time) (int, bool) {
	b, ok := ParseDate(birth)
	if !ok {
		return 0, false
	}
	end := Date{Year: now.Year(), Month: now.Month(), Day: now.Day()}
	if death != "" {
		d, ok := ParseDate(death)
		if !ok {
			return 0, false
		}
		end = d
	}
	age := end.Year - b.Year
	if monthDay(end) < monthDay(b) {
		age--
	}
	if age < 0 {
		return 0, false
	}
	return age, true
}

func monthDay(d Date) int {
	m, day := int(d.Month), d.Day
	if m == 0 {
		m = 1
	}
	if day == 0 {
		day = 1
	}
	return m*100 + day
}

// FormatBirthOrder renders a birth order value with an English ordinal
// suffix: "1" becomes "1st born", "12" becomes "12th born". Non-numeric
// values are returned unchanged.
func FormatBirthOrder(order string) string {
	n, err := strconv.Atoi(strings.TrimSpace(order))
	if err != nil || n <= 0 {
		return order
	}
	return strconv.Itoa(n) + ordinalSuffix(n) + " born"
}

func ordinalSuffix(n int) string {
	if n%100 >= 11 && n%100 <= 13 {
		return "th"
	}
	switch n % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	}
	return "th"
}
