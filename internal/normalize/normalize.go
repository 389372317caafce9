package normalize

import (
	"fmt"
	"strings"

	"github.com/bscode-watanabejun/nasreco-visiting-nursing-sub003/internal/model"
)

// ToClaimContext converts a Parquet-read MedicalClaimRow into a ClaimContext.
// Facility identity the row leaves empty is taken from defaults. Codes are
// folded to ASCII digits, names are trimmed, and amounts omitted by the input
// are derived from points.
func ToClaimContext(row *model.MedicalClaimRow, defaults model.Facility) (*model.ClaimContext, error) {
	id := strings.TrimSpace(row.PatientID)
	wrap := func(err error) error {
		return fmt.Errorf("medical claim for patient %s: %w", id, err)
	}

	c := &model.ClaimContext{
		Year:  int(row.ClaimYear),
		Month: int(row.ClaimMonth),
		Facility: model.Facility{
			Code:       firstNonEmpty(Digits(row.FacilityCode), defaults.Code),
			Name:       firstNonEmpty(Name(row.FacilityName), defaults.Name),
			Prefecture: firstNonEmpty(Digits(row.FacilityPrefecture), defaults.Prefecture),
			Phone:      firstNonEmpty(strings.TrimSpace(row.FacilityPhone), defaults.Phone),
		},
		TotalPoints: row.TotalPoints,
		TotalAmount: Amount(row.TotalPoints, row.TotalAmount),
	}
	if c.Month < 1 || c.Month > 12 {
		return nil, wrap(&model.FormatError{Field: "claim_month", Value: fmt.Sprint(row.ClaimMonth), Rule: "must be 1..12"})
	}

	var err error
	if c.Patient, err = toPatient(row); err != nil {
		return nil, wrap(err)
	}
	if c.Card, err = toCard(row); err != nil {
		return nil, wrap(err)
	}
	for _, pe := range row.PublicExpenses {
		c.PublicExpenses = append(c.PublicExpenses, model.PublicExpense{
			LegalCategory:   Digits(pe.LegalCategory),
			PayerNumber:     Digits(pe.PayerNumber),
			RecipientNumber: Digits(pe.RecipientNumber),
			Priority:        int(pe.Priority),
		})
	}
	if c.Order, err = toOrder(row); err != nil {
		return nil, wrap(err)
	}
	for i := range row.Visits {
		v, err := toVisit(&row.Visits[i])
		if err != nil {
			return nil, wrap(fmt.Errorf("visit %d: %w", i+1, err))
		}
		c.Visits = append(c.Visits, v)
	}
	for i, b := range row.Bonuses {
		date, err := requireDate("bonus date", b.Date)
		if err != nil {
			return nil, wrap(fmt.Errorf("bonus %d: %w", i+1, err))
		}
		c.Bonuses = append(c.Bonuses, model.BonusRecord{
			Date:        date,
			ServiceCode: NormalizeCode(b.ServiceCode),
			Points:      b.Points,
			Amount:      Amount(b.Points, b.Amount),
		})
	}
	return c, nil
}

func toPatient(row *model.MedicalClaimRow) (model.Patient, error) {
	birth, err := requireDate("birth_date", row.BirthDate)
	if err != nil {
		return model.Patient{}, err
	}
	death, err := optionalDate("death_date", row.DeathDate)
	if err != nil {
		return model.Patient{}, err
	}
	deathTime, err := Clock(row.DeathTime)
	if err != nil {
		return model.Patient{}, err
	}
	return model.Patient{
		ID:         strings.TrimSpace(row.PatientID),
		Name:       Name(row.Name),
		KanaName:   Kana(row.KanaName),
		BirthDate:  birth,
		Gender:     int(row.Gender),
		DeathDate:  death,
		DeathTime:  deathTime,
		DeathPlace: Name(row.DeathPlace),
	}, nil
}

func toCard(row *model.MedicalClaimRow) (model.InsuranceCard, error) {
	var card model.InsuranceCard
	var err error
	if card.Type, err = parseEnum("card_type", row.CardType, cardTypes); err != nil {
		return card, err
	}
	if card.Relationship, err = parseEnum("relationship", row.Relationship, relationships); err != nil {
		return card, err
	}
	if card.Age, err = parseEnum("age_category", row.AgeCategory, ageCategories); err != nil {
		return card, err
	}
	if card.ElderlyRecipient, err = parseEnum("elderly_recipient", row.ElderlyRecipient, elderlyRecipients); err != nil {
		return card, err
	}
	if card.Income, err = parseEnum("income_category", row.IncomeCategory, incomeCategories); err != nil {
		return card, err
	}
	card.InsurerNumber = Digits(row.InsurerNumber)
	card.Symbol = Name(row.CardSymbol)
	card.Number = Name(row.CardNumber)
	card.Branch = Digits(row.CardBranch)
	card.CopaymentRate = int(row.CopaymentRate)
	card.ReviewOrg = Digits(row.ReviewOrg)
	return card, nil
}

func toOrder(row *model.MedicalClaimRow) (model.Order, error) {
	var o model.Order
	var err error
	if o.StartDate, err = requireDate("order_start", row.OrderStart); err != nil {
		return o, err
	}
	if o.EndDate, err = requireDate("order_end", row.OrderEnd); err != nil {
		return o, err
	}
	if o.Kind, err = parseEnum("instruction_kind", row.InstructionKind, instructionKinds); err != nil {
		return o, err
	}
	o.Diagnosis = Name(row.Diagnosis)
	o.DiagnosisCode = NormalizeCode(row.DiagnosisCode)
	o.Institution = model.Institution{
		Code:       Digits(row.InstitutionCode),
		Name:       Name(row.InstitutionName),
		DoctorName: Name(row.InstitutionDoctor),
	}
	return o, nil
}

func toVisit(row *model.VisitRow) (model.VisitRecord, error) {
	date, err := requireDate("visit date", row.Date)
	if err != nil {
		return model.VisitRecord{}, err
	}
	start, err := Clock(row.StartTime)
	if err != nil {
		return model.VisitRecord{}, err
	}
	end, err := Clock(row.EndTime)
	if err != nil {
		return model.VisitRecord{}, err
	}
	return model.VisitRecord{
		Date:             date,
		StartTime:        start,
		EndTime:          end,
		ServiceCode:      NormalizeCode(row.ServiceCode),
		LocationCode:     Digits(row.LocationCode),
		StaffCode:        Digits(row.StaffCode),
		Points:           row.Points,
		Amount:           Amount(row.Points, row.Amount),
		Observation:      strings.TrimSpace(row.Observation),
		ServiceEnd:       row.ServiceEnd,
		ServiceEndReason: Digits(row.ServiceEndReason),
	}, nil
}

// ToCarePatient converts a Parquet-read CarePatientRow into a CarePatient.
func ToCarePatient(row *model.CarePatientRow) (*model.CarePatient, error) {
	id := strings.TrimSpace(row.PatientID)
	wrap := func(err error) error {
		return fmt.Errorf("care claim for patient %s: %w", id, err)
	}

	p := &model.CarePatient{
		ID:             id,
		InsurerNumber:  Digits(row.InsurerNumber),
		InsuredNumber:  Digits(row.InsuredNumber),
		Gender:         int(row.Gender),
		CareLevel:      model.CareLevel(strings.ToLower(strings.TrimSpace(row.CareLevel))),
		PlanCreator:    Digits(row.PlanCreator),
		PlanOfficeCode: Digits(row.PlanOfficeCode),
		BenefitRate:    int(row.BenefitRate),
		TotalPoints:    row.TotalPoints,
		TotalAmount:    Amount(row.TotalPoints, row.TotalAmount),
	}

	var err error
	// A missing birth date is reported by care validation with the rest of
	// the batch's defects.
	if p.BirthDate, err = optionalDate("birth_date", row.BirthDate); err != nil {
		return nil, wrap(err)
	}
	if p.CertStart, err = requireDate("cert_start", row.CertStart); err != nil {
		return nil, wrap(err)
	}
	if p.CertEnd, err = requireDate("cert_end", row.CertEnd); err != nil {
		return nil, wrap(err)
	}
	if p.ServiceStart, err = optionalDate("service_start", row.ServiceStart); err != nil {
		return nil, wrap(err)
	}
	if p.ServiceEnd, err = optionalDate("service_end", row.ServiceEnd); err != nil {
		return nil, wrap(err)
	}

	for _, pe := range row.PublicExpenses {
		p.PublicExpenses = append(p.PublicExpenses, model.PublicExpense{
			LegalCategory:   Digits(pe.LegalCategory),
			PayerNumber:     Digits(pe.PayerNumber),
			RecipientNumber: Digits(pe.RecipientNumber),
			Priority:        int(pe.Priority),
		})
		p.PublicBenefitRate = append(p.PublicBenefitRate, int(pe.BenefitRate))
	}
	for _, s := range row.Services {
		p.Services = append(p.Services, toCareLine(s))
	}
	for _, b := range row.Bonuses {
		p.Bonuses = append(p.Bonuses, toCareLine(b))
	}
	return p, nil
}

func toCareLine(row model.CareServiceRow) model.CareServiceLine {
	return model.CareServiceLine{
		ServiceCode: Digits(row.ServiceCode),
		TypeCode:    Digits(row.TypeCode),
		ItemCode:    Digits(row.ItemCode),
		Units:       row.Units,
		Count:       row.Count,
	}
}

// ToCareBatch converts every row of one service month into a CareBatch. Rows
// must agree on the period; the facility code comes from the first row that
// carries one, else from defaultFacility. Rows that name a facility must
// name the same one.
func ToCareBatch(rows []*model.CarePatientRow, defaultFacility, prefecture string) (*model.CareBatch, error) {
	if len(rows) == 0 {
		return nil, &model.MissingFieldError{Field: "patients", Detail: "care input has no rows"}
	}
	b := &model.CareBatch{
		FacilityCode: Digits(defaultFacility),
		Prefecture:   Digits(prefecture),
		Year:         int(rows[0].ServiceYear),
		Month:        int(rows[0].ServiceMonth),
	}
	var rowFacility string
	for i, row := range rows {
		if int(row.ServiceYear) != b.Year || int(row.ServiceMonth) != b.Month {
			return nil, &model.FormatError{
				Field: "service_month",
				Value: fmt.Sprintf("%04d-%02d", row.ServiceYear, row.ServiceMonth),
				Rule:  fmt.Sprintf("row %d differs from batch period %04d-%02d", i+1, b.Year, b.Month),
			}
		}
		if code := Digits(row.FacilityCode); code != "" {
			if rowFacility != "" && code != rowFacility {
				return nil, &model.FormatError{Field: "facility_code", Value: code, Rule: "rows disagree on the facility"}
			}
			rowFacility = code
		}
		p, err := ToCarePatient(row)
		if err != nil {
			return nil, err
		}
		b.Patients = append(b.Patients, *p)
	}
	if rowFacility != "" {
		b.FacilityCode = rowFacility
	}
	return b, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
