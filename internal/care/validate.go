package care

import (
	"fmt"

	"github.com/bscode-watanabejun/nasreco-visiting-nursing-sub003/internal/fieldfmt"
	"github.com/bscode-watanabejun/nasreco-visiting-nursing-sub003/internal/model"
)

// Validate runs every pre-flight check on the batch and reports all defects
// in one *model.ValidationError.
func Validate(b *model.CareBatch) error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if !digitsOfLen(b.FacilityCode, 10) {
		add("facility code %q must be exactly 10 digits", b.FacilityCode)
	}
	if b.Month < 1 || b.Month > 12 {
		add("service month %d outside 1..12", b.Month)
	}
	if len(b.Patients) == 0 {
		add("at least one patient is required")
	}

	for i := range b.Patients {
		p := &b.Patients[i]
		who := fmt.Sprintf("patient %d (%s)", i+1, p.ID)

		if p.BirthDate == nil || p.BirthDate.IsZero() {
			add("%s: birth date is required", who)
		}
		if p.CareLevel == "" {
			add("%s: care level is required", who)
		}
		if !digitsOfLen(p.InsurerNumber, 8) {
			add("%s: insurer number %q must be exactly 8 digits", who, p.InsurerNumber)
		}
		if !digitsOfLen(p.InsuredNumber, 10) {
			add("%s: insured number %q must be exactly 10 digits", who, p.InsuredNumber)
		}
		if p.BenefitRate < 0 || p.BenefitRate > 100 {
			add("%s: benefit rate %d outside 0..100", who, p.BenefitRate)
		}
		if len(p.PublicExpenses) > maxPublicSlots {
			add("%s: %d public expenses, at most %d allowed", who, len(p.PublicExpenses), maxPublicSlots)
		}
		if len(p.PublicBenefitRate) > 0 && len(p.PublicBenefitRate) != len(p.PublicExpenses) {
			add("%s: %d public benefit rates for %d public expenses", who, len(p.PublicBenefitRate), len(p.PublicExpenses))
		}

		var units int64
		for j, l := range p.AllLines() {
			if !digitsOfLen(l.ServiceCode, 6) && !digitsOfLen(l.ServiceCode, 9) {
				add("%s line %d: service code %q must be 6 or 9 digits", who, j+1, l.ServiceCode)
			}
			typ, item := lineCodes(l)
			if !digitsOfLen(typ, 2) {
				add("%s line %d: service type %q must be 2 digits", who, j+1, typ)
			}
			if !digitsOfLen(item, 4) {
				add("%s line %d: service item %q must be 4 digits", who, j+1, item)
			}
			units += l.TotalUnits()
		}
		if p.TotalAmount != p.TotalPoints*model.PointValue {
			add("%s: total amount %d != total points %d x %d", who, p.TotalAmount, p.TotalPoints, model.PointValue)
		}
		if units != p.TotalPoints {
			add("%s: line units sum to %d, total points is %d", who, units, p.TotalPoints)
		}
	}

	if len(problems) > 0 {
		return &model.ValidationError{
			Subject:  fmt.Sprintf("care batch %s %04d-%02d", b.FacilityCode, b.Year, b.Month),
			Problems: problems,
		}
	}
	return nil
}

func digitsOfLen(s string, n int) bool {
	return len(s) == n && fieldfmt.IsDigits(s)
}
