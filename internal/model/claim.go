package model

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// PointValue is the fixed point-to-yen conversion factor.
const PointValue = 10

// CardType identifies which insurance scheme the patient's card belongs to.
type CardType int

const (
	CardNone        CardType = iota // no medical insurance attached (public expense only)
	CardSocial                      // employee health insurance
	CardNational                    // national health insurance
	CardLateElderly                 // late-stage elderly (75+) medical care system
	CardCare                        // long-term-care insurance
)

// Relationship is the patient's relationship to the insured person.
type Relationship int

const (
	RelationSelf Relationship = iota
	RelationFamily
	RelationPreschool
)

// AgeCategory is the age tier printed on the insurance card.
type AgeCategory int

const (
	AgeGeneral AgeCategory = iota
	AgePreschool
	AgeElderly70 // 70-74 elderly recipient
	AgeElderly75 // late-stage elderly
)

// ElderlyRecipient is the benefit tier for elderly recipients.
type ElderlyRecipient int

const (
	RecipientNone     ElderlyRecipient = iota
	RecipientReduced                   // general / low income
	RecipientStandard                  // income comparable to working age
)

// IncomeCategory marks low-income certification for elderly patients.
type IncomeCategory int

const (
	IncomeNone IncomeCategory = iota
	IncomeLow1
	IncomeLow2
)

// InstructionKind is the category of physician order authorizing visits.
type InstructionKind int

const (
	InstructionRegular InstructionKind = iota
	InstructionSpecial
	InstructionPsychiatric
	InstructionPsychiatricSpecial
	InstructionObservation
	InstructionObservationSpecial
)

// ServiceEndReasonDeath is the service-end reason code denoting death.
const ServiceEndReasonDeath = "3"

// Facility identifies the submitting home-visit nursing station.
type Facility struct {
	Code       string // 7-digit station code
	Name       string
	Prefecture string // 2-digit prefecture code
	Phone      string
}

// Patient holds the demographic fields a claim needs.
type Patient struct {
	ID         string
	Name       string
	KanaName   string
	BirthDate  time.Time
	Gender     int // 1 male, 2 female
	DeathDate  *time.Time
	DeathTime  string // HH:MM
	DeathPlace string
}

// InsuranceCard carries the attributes of the patient's insurance card.
type InsuranceCard struct {
	Type             CardType
	Relationship     Relationship
	Age              AgeCategory
	ElderlyRecipient ElderlyRecipient
	Income           IncomeCategory
	InsurerNumber    string
	Symbol           string
	Number           string
	Branch           string
	CopaymentRate    int // percent, e.g. 30
	ReviewOrg        string
}

// PublicExpense is one subsidy payer applied to the claim.
type PublicExpense struct {
	LegalCategory   string // 2-digit category number
	PayerNumber     string
	RecipientNumber string
	Priority        int // 1..4
}

// Institution is the medical institution that issued the order.
type Institution struct {
	Code       string
	Name       string
	DoctorName string
}

// Order is the physician's visiting-nursing instruction.
type Order struct {
	StartDate     time.Time
	EndDate       time.Time
	Diagnosis     string
	DiagnosisCode string
	Kind          InstructionKind
	Institution   Institution
}

// VisitRecord is one billable visit.
type VisitRecord struct {
	Date             time.Time
	StartTime        string // HH:MM
	EndTime          string // HH:MM
	ServiceCode      string
	LocationCode     string
	StaffCode        string
	Points           int64
	Amount           int64
	Observation      string
	ServiceEnd       bool
	ServiceEndReason string
}

// BonusRecord is an add-on line billed alongside the visits.
type BonusRecord struct {
	Date        time.Time
	ServiceCode string
	Points      int64
	Amount      int64
}

// ClaimContext is one patient's one-month medical claim with every lookup resolved.
type ClaimContext struct {
	Year           int
	Month          int
	Facility       Facility
	Patient        Patient
	Card           InsuranceCard
	PublicExpenses []PublicExpense
	Order          Order
	Visits         []VisitRecord
	Bonuses        []BonusRecord
	TotalPoints    int64
	TotalAmount    int64
}

// HasMedicalInsurance reports whether a medical insurer participates in the claim.
func (c *ClaimContext) HasMedicalInsurance() bool {
	return c.Card.Type != CardNone && c.Card.Type != CardCare
}

// SortedPublicExpenses returns the public expenses in ascending priority order.
func (c *ClaimContext) SortedPublicExpenses() []PublicExpense {
	out := make([]PublicExpense, len(c.PublicExpenses))
	copy(out, c.PublicExpenses)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority < out[j].Priority })
	return out
}

// SortedVisits returns visits ordered by date, then start time.
func (c *ClaimContext) SortedVisits() []VisitRecord {
	out := make([]VisitRecord, len(c.Visits))
	copy(out, c.Visits)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		mi, iok := clockMinutes(out[i].StartTime)
		mj, jok := clockMinutes(out[j].StartTime)
		if iok && jok {
			return mi < mj
		}
		return out[i].StartTime < out[j].StartTime
	})
	return out
}

// clockMinutes parses "HH:MM" or "H:MM" into minutes after midnight.
func clockMinutes(hhmm string) (int, bool) {
	h, m, ok := strings.Cut(strings.TrimSpace(hhmm), ":")
	if !ok {
		return 0, false
	}
	hours, err := strconv.Atoi(h)
	if err != nil {
		return 0, false
	}
	mins, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return hours*60 + mins, true
}

// VisitDays returns the distinct days of month that had a visit, ascending.
func (c *ClaimContext) VisitDays() []int {
	seen := make(map[int]bool)
	var days []int
	for _, v := range c.Visits {
		d := v.Date.Day()
		if !seen[d] {
			seen[d] = true
			days = append(days, d)
		}
	}
	sort.Ints(days)
	return days
}

// Validate checks the structural invariants a claim must satisfy before encoding.
// A missing patient name, birth date or service code is reported as a
// MissingFieldError; everything else is collected into a single ValidationError.
func (c *ClaimContext) Validate() error {
	if strings.TrimSpace(c.Patient.Name) == "" {
		return &MissingFieldError{Field: "patient_name", Detail: "patient " + c.Patient.ID}
	}
	if c.Patient.BirthDate.IsZero() {
		return &MissingFieldError{Field: "birth_date", Detail: "patient " + c.Patient.ID}
	}
	for i, v := range c.Visits {
		if v.ServiceCode == "" {
			return &MissingFieldError{
				Field:  "service_code",
				Detail: fmt.Sprintf("visit %d on %s", i+1, v.Date.Format("2006-01-02")),
			}
		}
	}

	var problems []string
	if len(c.Visits) == 0 {
		problems = append(problems, "claim has no visit records")
	}
	if len(c.PublicExpenses) > 4 {
		problems = append(problems, fmt.Sprintf("%d public expenses, at most 4 allowed", len(c.PublicExpenses)))
	}
	seen := make(map[int]bool)
	for _, pe := range c.PublicExpenses {
		if pe.Priority < 1 || pe.Priority > len(c.PublicExpenses) {
			problems = append(problems, fmt.Sprintf("public expense %s: priority %d outside 1..%d",
				pe.PayerNumber, pe.Priority, len(c.PublicExpenses)))
			continue
		}
		if seen[pe.Priority] {
			problems = append(problems, fmt.Sprintf("public expense priority %d used twice", pe.Priority))
		}
		seen[pe.Priority] = true
	}
	if c.TotalAmount != c.TotalPoints*PointValue {
		problems = append(problems, fmt.Sprintf("total amount %d != total points %d x %d",
			c.TotalAmount, c.TotalPoints, PointValue))
	}
	ends := 0
	for i, v := range c.Visits {
		if v.Amount != v.Points*PointValue {
			problems = append(problems, fmt.Sprintf("visit %d: amount %d != points %d x %d",
				i+1, v.Amount, v.Points, PointValue))
		}
		if v.ServiceEnd {
			ends++
		}
	}
	if ends > 1 {
		problems = append(problems, fmt.Sprintf("%d visits flagged as service end, at most 1 allowed", ends))
	}
	for i, b := range c.Bonuses {
		if b.ServiceCode == "" {
			problems = append(problems, fmt.Sprintf("bonus %d: service code is required", i+1))
		}
		if b.Amount != b.Points*PointValue {
			problems = append(problems, fmt.Sprintf("bonus %d: amount %d != points %d x %d",
				i+1, b.Amount, b.Points, PointValue))
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Subject: "claim " + c.Patient.ID, Problems: problems}
	}
	return nil
}
