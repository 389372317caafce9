package medical

import (
	"fmt"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bscode-watanabejun/nasreco-visiting-nursing-sub003/internal/classify"
	"github.com/bscode-watanabejun/nasreco-visiting-nursing-sub003/internal/fieldfmt"
	"github.com/bscode-watanabejun/nasreco-visiting-nursing-sub003/internal/model"
)

// ClaimResult describes one encoded claim within a batch.
type ClaimResult struct {
	Seq            int
	PatientID      string
	Classification classify.Classification
	VisitDays      int
	Lines          int
}

// Batch is the ordered record sequence for one claim file plus per-claim results.
type Batch struct {
	Route  string
	Lines  []string
	Claims []ClaimResult
}

// Build encodes a single claim: station header, batch-open marker and the
// claim's records.
func Build(c *model.ClaimContext) (*Batch, error) {
	return BuildBatch([]*model.ClaimContext{c}, 1)
}

// BuildBatch encodes N claims sharing one facility into one record sequence.
// The station header and batch-open marker are emitted once; each claim's
// block follows with its 1-based sequence number. Claims are built
// concurrently on up to workers goroutines (0 means unbounded); each claim
// owns its builder, so no cache is shared between them.
func BuildBatch(claims []*model.ClaimContext, workers int) (*Batch, error) {
	if len(claims) == 0 {
		return nil, &model.MissingFieldError{Field: "claims", Detail: "batch is empty"}
	}

	route, err := batchRoute(claims)
	if err != nil {
		return nil, err
	}

	blocks := make([]*claimBuilder, len(claims))
	var g errgroup.Group
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, c := range claims {
		g.Go(func() error {
			b := newClaimBuilder(c, i+1, route)
			if err := b.build(); err != nil {
				return fmt.Errorf("claim %d (patient %s): %w", i+1, c.Patient.ID, err)
			}
			blocks[i] = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	header, err := stationRecords(claims[0], route)
	if err != nil {
		return nil, err
	}

	out := &Batch{Route: route, Lines: header}
	for _, b := range blocks {
		out.Lines = append(out.Lines, b.lines...)
		out.Claims = append(out.Claims, b.result())
	}
	return out, nil
}

// EncodeFile encodes a built batch into the final byte stream, EOF marker included.
func EncodeFile(b *Batch) ([]byte, error) {
	return fieldfmt.BuildFile(b.Lines)
}

// batchRoute resolves the review route of every claim and requires them to
// agree, together with the facility code.
func batchRoute(claims []*model.ClaimContext) (string, error) {
	var route string
	var problems []string
	for i, c := range claims {
		r, err := ReviewRoute(c)
		if err != nil {
			return "", fmt.Errorf("claim %d (patient %s): %w", i+1, c.Patient.ID, err)
		}
		if i == 0 {
			route = r
			continue
		}
		if r != route {
			problems = append(problems, fmt.Sprintf("claim %d routes to %s, batch routes to %s", i+1, r, route))
		}
		if c.Facility.Code != claims[0].Facility.Code {
			problems = append(problems, fmt.Sprintf("claim %d facility %s differs from %s", i+1, c.Facility.Code, claims[0].Facility.Code))
		}
		if c.Year != claims[0].Year || c.Month != claims[0].Month {
			problems = append(problems, fmt.Sprintf("claim %d period %04d-%02d differs from batch period", i+1, c.Year, c.Month))
		}
	}
	if len(problems) > 0 {
		return "", &model.ValidationError{Subject: "batch", Problems: problems}
	}
	return route, nil
}

func stationRecords(first *model.ClaimContext, route string) ([]string, error) {
	f := first.Facility
	if len(f.Code) != 7 || !fieldfmt.IsDigits(f.Code) {
		return nil, &model.FormatError{Field: "facility_code", Value: f.Code, Rule: "must be 7 digits"}
	}
	name, err := fieldfmt.Text(f.Name, widthStationName)
	if err != nil {
		return nil, err
	}
	phone, err := fieldfmt.Text(f.Phone, widthPhone)
	if err != nil {
		return nil, err
	}
	period, err := fieldfmt.FormatEraYearMonth(first.Year, first.Month)
	if err != nil {
		return nil, err
	}
	return []string{
		fieldfmt.BuildLine(KindStation,
			route,
			fieldfmt.PadLeft(f.Prefecture, 2, '0'),
			scoreTable,
			f.Code,
			"",
			name,
			period,
			"00",
			phone,
		),
		fieldfmt.BuildLine(KindBatchOpen),
	}, nil
}

// claimBuilder assembles one claim's records. burdenCode and instructionCode
// are computed by the summary and order records and replayed verbatim on
// every service line.
type claimBuilder struct {
	c      *model.ClaimContext
	seq    int
	route  string
	visits []model.VisitRecord
	pes    []model.PublicExpense
	days   []int

	receiptType     string
	burdenCode      string
	instructionCode string

	lines []string
	err   error
}

func newClaimBuilder(c *model.ClaimContext, seq int, route string) *claimBuilder {
	return &claimBuilder{
		c:      c,
		seq:    seq,
		route:  route,
		visits: c.SortedVisits(),
		pes:    c.SortedPublicExpenses(),
		days:   c.VisitDays(),
	}
}

func (b *claimBuilder) result() ClaimResult {
	return ClaimResult{
		Seq:       b.seq,
		PatientID: b.c.Patient.ID,
		Classification: classify.Classification{
			ReceiptType: b.receiptType,
			Burden:      b.burdenCode,
			Instruction: b.instructionCode,
		},
		VisitDays: len(b.days),
		Lines:     len(b.lines),
	}
}

func (b *claimBuilder) build() error {
	if err := b.c.Validate(); err != nil {
		return err
	}
	steps := []func() error{
		b.writeSummary,
		b.writeInsurer,
		b.writeEligibility,
		b.writeVisitDays,
		b.writeWindow,
		b.writeReferral,
		b.writeOrder,
		b.writeClinical,
		b.writeDiagnosis,
		b.writePatient,
		b.writeServices,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
		if b.err != nil {
			return b.err
		}
	}
	return nil
}

func (b *claimBuilder) emit(kind string, fields ...string) {
	b.lines = append(b.lines, fieldfmt.BuildLine(append([]string{kind}, fields...)...))
}

// text sanitizes and truncates a free-text field, remembering the first
// encoding failure.
func (b *claimBuilder) text(s string, width int) string {
	if b.err != nil {
		return ""
	}
	out, err := fieldfmt.Text(s, width)
	if err != nil {
		b.err = err
		return ""
	}
	return out
}

func (b *claimBuilder) writeSummary() error {
	c := b.c
	code, err := classify.ReceiptTypeCode(c.Card, c.PublicExpenses)
	if err != nil {
		return err
	}
	b.receiptType = code
	b.burdenCode = classify.BurdenClassificationCode(c.Card, c.PublicExpenses)

	period, err := fieldfmt.FormatEraYearMonth(c.Year, c.Month)
	if err != nil {
		return err
	}
	birth, err := fieldfmt.FormatEraDate(c.Patient.BirthDate)
	if err != nil {
		return err
	}

	benefitRatio := ""
	if b.route == RouteRegionalFederation && c.HasMedicalInsurance() {
		benefitRatio = strconv.Itoa(100 - c.Card.CopaymentRate)
	}

	b.emit(KindSummary,
		strconv.Itoa(b.seq),
		code,
		period,
		b.text(c.Patient.Name, widthPatientName),
		strconv.Itoa(c.Patient.Gender),
		birth,
		benefitRatio,
		b.partialBurdenCategory(),
		b.text(c.Patient.ID, widthPatientID),
		b.text(c.Patient.KanaName, widthPatientName),
	)
	return nil
}

// partialBurdenCategory is only reported for elderly patients with a
// low-income certification; every other case stays blank.
func (b *claimBuilder) partialBurdenCategory() string {
	c := b.c
	if c.Patient.BirthDate.IsZero() {
		return ""
	}
	if fieldfmt.AgeAt(c.Patient.BirthDate, lastDayOfMonth(c.Year, c.Month)) < elderlyAge {
		return ""
	}
	switch c.Card.Income {
	case model.IncomeLow2:
		return "1"
	case model.IncomeLow1:
		return "3"
	default:
		return ""
	}
}

// writeInsurer emits the insurer record and one subsidy record per public
// expense. Every payer carries the claim's aggregate day count and amount;
// per-payer apportionment is not modeled.
func (b *claimBuilder) writeInsurer() error {
	c := b.c
	days := strconv.Itoa(len(b.days))
	b.emit(KindInsurer,
		c.Card.InsurerNumber,
		b.text(c.Card.Symbol, widthCardField),
		b.text(c.Card.Number, widthCardField),
		c.Card.Branch,
		days,
		fieldfmt.Int(c.TotalPoints),
		fieldfmt.Int(c.TotalAmount),
	)
	for _, pe := range b.pes {
		b.emit(KindSubsidy,
			pe.PayerNumber,
			pe.RecipientNumber,
			days,
			fieldfmt.Int(c.TotalPoints),
			fieldfmt.Int(c.TotalAmount),
		)
	}
	return nil
}

// payerType is 1 for the insurer and 1+priority for public expenses.
func payerType(pe model.PublicExpense) string {
	return strconv.Itoa(1 + pe.Priority)
}

func (b *claimBuilder) writeEligibility() error {
	c := b.c
	b.emit(KindEligibility,
		"1",
		confirmByCard,
		c.Card.InsurerNumber,
		b.text(c.Card.Symbol, widthCardField),
		b.text(c.Card.Number, widthCardField),
		c.Card.Branch,
		"",
	)
	for _, pe := range b.pes {
		b.emit(KindEligibility,
			payerType(pe),
			confirmByCard,
			pe.PayerNumber,
			"",
			"",
			"",
			pe.RecipientNumber,
		)
	}
	return nil
}

func (b *claimBuilder) writeVisitDays() error {
	bitmap := visitDayMap(b.days)
	b.emit(KindVisitDays, append([]string{"1"}, bitmap...)...)
	for _, pe := range b.pes {
		b.emit(KindVisitDays, append([]string{payerType(pe)}, bitmap...)...)
	}
	return nil
}

func (b *claimBuilder) writeWindow() error {
	b.emit(KindWindow, windowNotApplicable)
	return nil
}

func (b *claimBuilder) writeReferral() error {
	inst := b.c.Order.Institution
	b.emit(KindReferral,
		inst.Code,
		b.text(inst.Name, widthInstitutionName),
		b.text(inst.DoctorName, widthDoctorName),
	)
	return nil
}

func (b *claimBuilder) writeOrder() error {
	o := b.c.Order
	b.instructionCode = classify.InstructionTypeCode(o)
	b.emit(KindOrder,
		b.instructionCode,
		fieldfmt.FormatDate(o.StartDate),
		fieldfmt.FormatDate(o.EndDate),
	)
	return nil
}

// writeClinical reports the observation of the most recent visit. A blank
// observation is allowed.
func (b *claimBuilder) writeClinical() error {
	latest := b.visits[len(b.visits)-1]
	b.emit(KindClinical,
		fieldfmt.FormatDate(latest.Date),
		b.text(latest.Observation, widthObservation),
	)
	return nil
}

func (b *claimBuilder) writeDiagnosis() error {
	o := b.c.Order
	code := o.DiagnosisCode
	if code == "" {
		code = uncodedDiagnosis
	}
	b.emit(KindDiagnosis, code, b.text(o.Diagnosis, widthDiagnosis))
	return nil
}

func (b *claimBuilder) writePatient() error {
	p := b.c.Patient
	baseline, changes := detectLocationChanges(b.visits)
	fields := []string{baseline}
	for i := 0; i < maxLocationChanges; i++ {
		if i < len(changes) {
			fields = append(fields, fieldfmt.FormatDate(changes[i].Date), changes[i].Code)
		} else {
			fields = append(fields, "", "")
		}
	}

	end := extractServiceEnd(p, b.visits)
	fields = append(fields, end.Date, end.Time, end.Reason)

	fields = append(fields,
		fieldfmt.FormatDatePtr(p.DeathDate),
		fieldfmt.FormatClock(p.DeathTime),
		b.text(p.DeathPlace, widthDeathPlace),
	)
	b.emit(KindPatient, fields...)
	return nil
}

func (b *claimBuilder) writeServices() error {
	ordinals := sameDayOrdinals(b.visits)
	for i, v := range b.visits {
		if v.ServiceCode == "" {
			return &model.MissingFieldError{Field: "service_code", Detail: "visit on " + fieldfmt.FormatDate(v.Date)}
		}
		b.emit(KindService,
			fieldfmt.FormatDate(v.Date),
			b.burdenCode,
			b.instructionCode,
			v.ServiceCode,
			strconv.Itoa(ordinals[i]),
			visitCountCode(ordinals[i]),
			adjustStaffCode(v.StaffCode, ordinals[i]),
			v.LocationCode,
			fieldfmt.FormatClock(v.StartTime),
			fieldfmt.FormatClock(v.EndTime),
			fieldfmt.Int(v.Points),
			fieldfmt.Int(v.Amount),
			"1",
		)
	}
	for _, bonus := range b.c.Bonuses {
		b.emit(KindService,
			fieldfmt.FormatDate(bonus.Date),
			b.burdenCode,
			b.instructionCode,
			bonus.ServiceCode,
			"", "", "", "", "", "",
			fieldfmt.Int(bonus.Points),
			fieldfmt.Int(bonus.Amount),
			"1",
		)
	}
	return nil
}

func lastDayOfMonth(year, month int) time.Time {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC)
}
