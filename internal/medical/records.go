// Package medical assembles the medical/health-insurance claim file for home
// visit nursing: a station header, a batch-open marker, then one block of
// records per claim.
package medical

// Record kind tags, in emission order.
const (
	KindStation     = "HM" // station / facility identity
	KindBatchOpen   = "GO" // claim batch open marker
	KindSummary     = "RE" // claim summary
	KindInsurer     = "HO" // insurer
	KindSubsidy     = "KO" // subsidy payer (public expense)
	KindEligibility = "SN" // eligibility confirmation, one per payer
	KindVisitDays   = "JD" // visit day map, one per payer
	KindWindow      = "MF" // window burden category
	KindReferral    = "IH" // referring institution
	KindOrder       = "HJ" // physician order
	KindClinical    = "JS" // clinical status
	KindDiagnosis   = "SY" // diagnosis
	KindPatient     = "RJ" // patient detail
	KindService     = "KA" // service line
)

// Route codes for the review organization that processes the claim.
const (
	RouteDirectPayer        = "1"
	RouteRegionalFederation = "2"
)

const (
	// scoreTable identifies the home-visit nursing fee schedule.
	scoreTable = "6"
	// uncodedDiagnosis is used when the order carries no coded diagnosis.
	uncodedDiagnosis = "0000999"
	// windowNotApplicable pins the window burden category; high-cost benefit
	// handling is not modeled.
	windowNotApplicable = "00"
	// confirmByCard is the eligibility confirmation method.
	confirmByCard = "01"
	// elderlyAge is the age from which the partial-burden category applies.
	elderlyAge = 70
	// daysInMap is the width of the visit-day bitmap.
	daysInMap = 31
)

// Byte widths of free-text fields.
const (
	widthStationName     = 40
	widthPhone           = 15
	widthPatientName     = 40
	widthPatientID       = 20
	widthCardField       = 38
	widthInstitutionName = 80
	widthDoctorName      = 40
	widthObservation     = 1200
	widthDiagnosis       = 80
	widthDeathPlace      = 40
)
