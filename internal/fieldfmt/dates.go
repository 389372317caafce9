package fieldfmt

import (
	"fmt"
	"strings"
	"time"

	"github.com/bscode-watanabejun/nasreco-visiting-nursing-sub003/internal/model"
)

// Era codes used by the claims format.
const (
	EraShowa  = "3"
	EraHeisei = "4"
	EraReiwa  = "5"
)

type era struct {
	code  string
	start civilDate // first day of the era
}

type civilDate struct{ y, m, d int }

func (c civilDate) before(o civilDate) bool {
	if c.y != o.y {
		return c.y < o.y
	}
	if c.m != o.m {
		return c.m < o.m
	}
	return c.d < o.d
}

// eras is ordered newest first. Dates before Showa have no code in the format.
var eras = []era{
	{code: EraReiwa, start: civilDate{2019, 5, 1}},
	{code: EraHeisei, start: civilDate{1989, 1, 8}},
	{code: EraShowa, start: civilDate{1926, 12, 25}},
}

func eraOf(y, m, d int) (string, int, error) {
	cd := civilDate{y, m, d}
	for _, e := range eras {
		if !cd.before(e.start) {
			return e.code, y - e.start.y + 1, nil
		}
	}
	return "", 0, &model.FormatError{
		Field: "era_date",
		Value: fmt.Sprintf("%04d-%02d-%02d", y, m, d),
		Rule:  "before 1926-12-25",
	}
}

// FormatDate renders t as YYYYMMDD. The zero time renders as "".
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("20060102")
}

// FormatDatePtr is FormatDate for optional dates.
func FormatDatePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return FormatDate(*t)
}

// FormatYearMonth renders a year and month as YYYYMM.
func FormatYearMonth(year, month int) string {
	return fmt.Sprintf("%04d%02d", year, month)
}

// FormatEraDate renders t as <era code><YY><MM><DD>, where YY counts from 1 at
// the start of each era. The zero time renders as "".
func FormatEraDate(t time.Time) (string, error) {
	if t.IsZero() {
		return "", nil
	}
	y, m, d := t.Date()
	code, ey, err := eraOf(y, int(m), d)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%02d%02d%02d", code, ey, int(m), d), nil
}

// FormatEraYearMonth renders <era code><YY><MM> for the first day of the month.
func FormatEraYearMonth(year, month int) (string, error) {
	code, ey, err := eraOf(year, month, 1)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%02d%02d", code, ey, month), nil
}

// FormatClock turns "HH:MM" (or "H:MM") into "HHMM". Empty input stays empty.
func FormatClock(hhmm string) string {
	hhmm = strings.TrimSpace(hhmm)
	if hhmm == "" {
		return ""
	}
	h, m, ok := strings.Cut(hhmm, ":")
	if !ok {
		return PadLeft(hhmm, 4, '0')
	}
	return PadLeft(h, 2, '0') + PadLeft(m, 2, '0')
}

// AgeAt returns the age in whole years of someone born on birth, at date at.
func AgeAt(birth, at time.Time) int {
	age := at.Year() - birth.Year()
	if at.Month() < birth.Month() || (at.Month() == birth.Month() && at.Day() < birth.Day()) {
		age--
	}
	return age
}
