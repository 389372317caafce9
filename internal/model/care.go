package model

import "time"

// CareLevel is the certified long-term-care need level.
type CareLevel string

const (
	CareSupport1 CareLevel = "support1"
	CareSupport2 CareLevel = "support2"
	CareLevel1   CareLevel = "care1"
	CareLevel2   CareLevel = "care2"
	CareLevel3   CareLevel = "care3"
	CareLevel4   CareLevel = "care4"
	CareLevel5   CareLevel = "care5"
)

// CareServiceLine is one billed long-term-care service or bonus line.
// ServiceCode is 6 digits (type + item) or 9 digits; TypeCode and ItemCode
// are derived from it when left empty.
type CareServiceLine struct {
	ServiceCode string
	TypeCode    string
	ItemCode    string
	Units       int64 // units per occurrence
	Count       int64 // days or times provided
}

// TotalUnits is units multiplied by count.
func (l CareServiceLine) TotalUnits() int64 {
	return l.Units * l.Count
}

// CarePatient is one patient's monthly long-term-care claim.
type CarePatient struct {
	ID                string
	InsurerNumber     string // 8 digits
	InsuredNumber     string // 10 digits
	BirthDate         *time.Time
	Gender            int
	CareLevel         CareLevel
	CertStart         time.Time
	CertEnd           time.Time
	PlanCreator       string // 1 care manager office, 2 self-made
	PlanOfficeCode    string
	ServiceStart      *time.Time
	ServiceEnd        *time.Time
	BenefitRate       int // insurance benefit percent, e.g. 90
	PublicExpenses    []PublicExpense
	PublicBenefitRate []int // parallel to PublicExpenses
	Services          []CareServiceLine
	Bonuses           []CareServiceLine
	TotalPoints       int64
	TotalAmount       int64
}

// AllLines returns service lines followed by bonus lines.
func (p *CarePatient) AllLines() []CareServiceLine {
	out := make([]CareServiceLine, 0, len(p.Services)+len(p.Bonuses))
	out = append(out, p.Services...)
	return append(out, p.Bonuses...)
}

// CareBatch is one facility's long-term-care claims for one service month.
type CareBatch struct {
	FacilityCode string // 10 digits
	Prefecture   string
	Year         int
	Month        int
	Patients     []CarePatient
}
