package model

// MedicalClaimRow mirrors the Parquet schema for one medical claim (one
// patient, one month). Dates are strings and get parsed during normalization;
// enumerations use their external spellings ("social", "self", "elderly70", ...).
type MedicalClaimRow struct {
	ClaimYear  int32 `parquet:"claim_year"`
	ClaimMonth int32 `parquet:"claim_month"`

	// Facility identity; falls back to config when empty
	FacilityCode       string `parquet:"facility_code,optional"`
	FacilityName       string `parquet:"facility_name,optional"`
	FacilityPrefecture string `parquet:"facility_prefecture,optional"`
	FacilityPhone      string `parquet:"facility_phone,optional"`

	// Patient
	PatientID  string `parquet:"patient_id"`
	Name       string `parquet:"patient_name"`
	KanaName   string `parquet:"patient_kana,optional"`
	BirthDate  string `parquet:"birth_date"`
	Gender     int32  `parquet:"gender"`
	DeathDate  string `parquet:"death_date,optional"`
	DeathTime  string `parquet:"death_time,optional"`
	DeathPlace string `parquet:"death_place,optional"`

	// Insurance card
	CardType         string `parquet:"card_type"`
	Relationship     string `parquet:"relationship,optional"`
	AgeCategory      string `parquet:"age_category,optional"`
	ElderlyRecipient string `parquet:"elderly_recipient,optional"`
	IncomeCategory   string `parquet:"income_category,optional"`
	InsurerNumber    string `parquet:"insurer_number,optional"`
	CardSymbol       string `parquet:"card_symbol,optional"`
	CardNumber       string `parquet:"card_number,optional"`
	CardBranch       string `parquet:"card_branch,optional"`
	CopaymentRate    int32  `parquet:"copayment_rate"`
	ReviewOrg        string `parquet:"review_org,optional"`

	PublicExpenses []PublicExpenseRow `parquet:"public_expenses"`

	// Physician order
	OrderStart        string `parquet:"order_start"`
	OrderEnd          string `parquet:"order_end"`
	Diagnosis         string `parquet:"diagnosis,optional"`
	DiagnosisCode     string `parquet:"diagnosis_code,optional"`
	InstructionKind   string `parquet:"instruction_kind,optional"`
	InstitutionCode   string `parquet:"institution_code,optional"`
	InstitutionName   string `parquet:"institution_name,optional"`
	InstitutionDoctor string `parquet:"institution_doctor,optional"`

	Visits  []VisitRow `parquet:"visits"`
	Bonuses []BonusRow `parquet:"bonuses"`

	TotalPoints int64 `parquet:"total_points"`
	TotalAmount int64 `parquet:"total_amount"`
}

// PublicExpenseRow is a nested public-expense entry.
type PublicExpenseRow struct {
	LegalCategory   string `parquet:"legal_category"`
	PayerNumber     string `parquet:"payer_number"`
	RecipientNumber string `parquet:"recipient_number,optional"`
	Priority        int32  `parquet:"priority"`
}

// VisitRow is a nested visit entry.
type VisitRow struct {
	Date             string `parquet:"date"`
	StartTime        string `parquet:"start_time"`
	EndTime          string `parquet:"end_time"`
	ServiceCode      string `parquet:"service_code,optional"`
	LocationCode     string `parquet:"location_code,optional"`
	StaffCode        string `parquet:"staff_code,optional"`
	Points           int64  `parquet:"points"`
	Amount           int64  `parquet:"amount"`
	Observation      string `parquet:"observation,optional"`
	ServiceEnd       bool   `parquet:"service_end"`
	ServiceEndReason string `parquet:"service_end_reason,optional"`
}

// BonusRow is a nested add-on entry.
type BonusRow struct {
	Date        string `parquet:"date"`
	ServiceCode string `parquet:"service_code"`
	Points      int64  `parquet:"points"`
	Amount      int64  `parquet:"amount"`
}

// CarePatientRow mirrors the Parquet schema for one long-term-care patient-month.
type CarePatientRow struct {
	ServiceYear  int32  `parquet:"service_year"`
	ServiceMonth int32  `parquet:"service_month"`
	FacilityCode string `parquet:"facility_code,optional"`

	PatientID      string `parquet:"patient_id"`
	InsurerNumber  string `parquet:"insurer_number"`
	InsuredNumber  string `parquet:"insured_number"`
	BirthDate      string `parquet:"birth_date,optional"`
	Gender         int32  `parquet:"gender"`
	CareLevel      string `parquet:"care_level,optional"`
	CertStart      string `parquet:"cert_start"`
	CertEnd        string `parquet:"cert_end"`
	PlanCreator    string `parquet:"plan_creator,optional"`
	PlanOfficeCode string `parquet:"plan_office_code,optional"`
	ServiceStart   string `parquet:"service_start,optional"`
	ServiceEnd     string `parquet:"service_end,optional"`
	BenefitRate    int32  `parquet:"benefit_rate"`

	PublicExpenses []CarePublicExpenseRow `parquet:"public_expenses"`
	Services       []CareServiceRow       `parquet:"services"`
	Bonuses        []CareServiceRow       `parquet:"bonuses"`

	TotalPoints int64 `parquet:"total_points"`
	TotalAmount int64 `parquet:"total_amount"`
}

// CarePublicExpenseRow is a nested public-expense entry with its benefit rate.
type CarePublicExpenseRow struct {
	LegalCategory   string `parquet:"legal_category"`
	PayerNumber     string `parquet:"payer_number"`
	RecipientNumber string `parquet:"recipient_number,optional"`
	Priority        int32  `parquet:"priority"`
	BenefitRate     int32  `parquet:"benefit_rate"`
}

// CareServiceRow is a nested service or bonus line.
type CareServiceRow struct {
	ServiceCode string `parquet:"service_code"`
	TypeCode    string `parquet:"type_code,optional"`
	ItemCode    string `parquet:"item_code,optional"`
	Units       int64  `parquet:"units"`
	Count       int64  `parquet:"count"`
}
