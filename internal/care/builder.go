package care

import (
	"sort"
	"strconv"

	"github.com/bscode-watanabejun/nasreco-visiting-nursing-sub003/internal/fieldfmt"
	"github.com/bscode-watanabejun/nasreco-visiting-nursing-sub003/internal/model"
)

// PatientResult describes one patient's block within a built file.
type PatientResult struct {
	PatientID      string
	LevelCode      string
	Category       string
	TotalUnits     int64
	TotalAmount    int64
	InsuranceClaim int64
	PublicClaim    int64
	Burden         int64
	Lines          int
}

// Batch is the ordered record sequence of one long-term-care claim file.
type Batch struct {
	Lines       []string
	DataRecords int
	Patients    []PatientResult
}

// Build validates the batch and assembles the control record, one request
// summary per public-expense category, every patient's basic, detail and
// per-type summary records, and the closing end record.
func Build(b *model.CareBatch) (*Batch, error) {
	if err := Validate(b); err != nil {
		return nil, err
	}

	blocks := make([]*patientBlock, len(b.Patients))
	for i := range b.Patients {
		blocks[i] = newPatientBlock(&b.Patients[i])
	}
	groups := requestGroups(blocks)

	dataCount := len(groups)
	for _, p := range blocks {
		dataCount += p.recordCount()
	}

	w := &writer{period: fieldfmt.FormatYearMonth(b.Year, b.Month), facility: b.FacilityCode}
	w.emit(KindControl,
		volumeNumber,
		fieldfmt.ZeroPad(int64(dataCount), dataCountWidth),
		dataKindBenefit,
		formatStandard,
		b.FacilityCode,
		fieldfmt.PadLeft(b.Prefecture, 2, '0'),
		mediumTransmit,
		w.period,
	)
	for _, g := range groups {
		w.requestSummary(g)
	}

	out := &Batch{DataRecords: dataCount}
	for _, p := range blocks {
		start := len(w.lines)
		if err := w.patient(p); err != nil {
			return nil, err
		}
		out.Patients = append(out.Patients, p.result(len(w.lines)-start))
	}
	w.emit(KindEnd)

	out.Lines = w.lines
	return out, nil
}

// EncodeFile encodes a built batch. The care format carries no EOF marker.
func EncodeFile(b *Batch) ([]byte, error) {
	return fieldfmt.EncodeLines(b.Lines)
}

// payer pairs a public expense with its cumulative benefit rate.
type payer struct {
	model.PublicExpense
	Rate int
}

// typeTotal aggregates a patient's lines of one service type.
type typeTotal struct {
	TypeCode string
	Count    int64
	Units    int64
	Split    split
}

type patientBlock struct {
	p      *model.CarePatient
	payers []payer
	rates  []int
	types  []typeTotal
	total  split
	units  int64
}

func newPatientBlock(p *model.CarePatient) *patientBlock {
	b := &patientBlock{p: p}
	for i, pe := range p.PublicExpenses {
		pr := payer{PublicExpense: pe}
		if i < len(p.PublicBenefitRate) {
			pr.Rate = p.PublicBenefitRate[i]
		}
		b.payers = append(b.payers, pr)
	}
	sort.SliceStable(b.payers, func(i, j int) bool { return b.payers[i].Priority < b.payers[j].Priority })
	for _, pr := range b.payers {
		b.rates = append(b.rates, pr.Rate)
	}

	byType := make(map[string]*typeTotal)
	for _, l := range p.AllLines() {
		typ, _ := lineCodes(l)
		t, ok := byType[typ]
		if !ok {
			t = &typeTotal{TypeCode: typ}
			byType[typ] = t
		}
		t.Count += l.Count
		t.Units += l.TotalUnits()
	}
	for _, t := range byType {
		t.Split = splitAmount(t.Units*model.PointValue, p.BenefitRate, b.rates)
		b.types = append(b.types, *t)
	}
	sort.Slice(b.types, func(i, j int) bool { return b.types[i].TypeCode < b.types[j].TypeCode })
	for _, t := range b.types {
		b.total.add(t.Split)
		b.units += t.Units
	}
	return b
}

// category is the legal category of the highest-priority public expense, or
// "" for insurance-only patients.
func (b *patientBlock) category() string {
	if len(b.payers) == 0 {
		return ""
	}
	return b.payers[0].LegalCategory
}

func (b *patientBlock) recordCount() int {
	return 1 + len(b.p.Services) + len(b.p.Bonuses) + len(b.types)
}

func (b *patientBlock) result(lines int) PatientResult {
	return PatientResult{
		PatientID:      b.p.ID,
		LevelCode:      LevelCode(b.p.CareLevel),
		Category:       b.category(),
		TotalUnits:     b.units,
		TotalAmount:    b.units * model.PointValue,
		InsuranceClaim: b.total.Insurance,
		PublicClaim:    b.total.publicTotal(),
		Burden:         b.total.Burden,
		Lines:          lines,
	}
}

// requestGroup aggregates patients sharing the same first public-expense category.
type requestGroup struct {
	Category string
	Patients int
	Units    int64
	Split    split
}

func requestGroups(blocks []*patientBlock) []requestGroup {
	index := make(map[string]int)
	var groups []requestGroup
	for _, b := range blocks {
		cat := b.category()
		i, ok := index[cat]
		if !ok {
			i = len(groups)
			index[cat] = i
			groups = append(groups, requestGroup{Category: cat})
		}
		groups[i].Patients++
		groups[i].Units += b.units
		groups[i].Split.add(b.total)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Category < groups[j].Category })
	return groups
}

// writer numbers records as they are emitted.
type writer struct {
	period   string
	facility string
	lines    []string
}

func (w *writer) emit(kind string, fields ...string) {
	recNo := fieldfmt.ZeroPad(int64(len(w.lines)+1), recNoWidth)
	w.lines = append(w.lines, fieldfmt.BuildLine(append([]string{kind, recNo}, fields...)...))
}

func (w *writer) data(exchange, record string, fields ...string) {
	w.emit(KindData, append([]string{exchange, record, w.period, w.facility}, fields...)...)
}

func (w *writer) requestSummary(g requestGroup) {
	w.data(ExchangeRequest, RecordRequestSummary,
		g.Category,
		strconv.Itoa(g.Patients),
		fieldfmt.Int(g.Units),
		fieldfmt.Int(g.Units*model.PointValue),
		fieldfmt.Int(g.Split.Insurance),
		fieldfmt.Int(g.Split.publicTotal()),
		fieldfmt.Int(g.Split.Burden),
	)
}

func (w *writer) patient(b *patientBlock) error {
	p := b.p
	planOffice, err := fieldfmt.Text(p.PlanOfficeCode, widthPlanOffice)
	if err != nil {
		return err
	}

	fields := []string{p.InsurerNumber, p.InsuredNumber}
	for i := 0; i < maxPublicSlots; i++ {
		if i < len(b.payers) {
			fields = append(fields, b.payers[i].PayerNumber, b.payers[i].RecipientNumber)
		} else {
			fields = append(fields, "", "")
		}
	}
	fields = append(fields,
		fieldfmt.FormatDatePtr(p.BirthDate),
		strconv.Itoa(p.Gender),
		LevelCode(p.CareLevel),
		fieldfmt.FormatDate(p.CertStart),
		fieldfmt.FormatDate(p.CertEnd),
		p.PlanCreator,
		planOffice,
		fieldfmt.FormatDatePtr(p.ServiceStart),
		fieldfmt.FormatDatePtr(p.ServiceEnd),
		strconv.Itoa(p.BenefitRate),
	)
	for i := 0; i < maxPublicSlots; i++ {
		fields = append(fields, b.slot(i, strconv.Itoa(b.rateAt(i))))
	}
	fields = append(fields,
		fieldfmt.Int(b.units),
		fieldfmt.Int(b.total.Insurance),
		fieldfmt.Int(b.total.Burden),
	)
	for i := 0; i < maxPublicSlots; i++ {
		fields = append(fields,
			b.slot(i, fieldfmt.Int(b.units)),
			b.slot(i, fieldfmt.Int(b.total.Public[i])),
			b.slot(i, fieldfmt.Int(b.total.Burden)),
		)
	}
	fields = append(fields, fieldfmt.Int(b.units*model.PointValue))

	// Columns past the totals are reserved and stay blank.
	for len(fields) < basicFieldCount-dataPrefixFields {
		fields = append(fields, "")
	}
	w.data(ExchangeDetail, RecordBasic, fields...)

	for _, l := range p.AllLines() {
		typ, item := lineCodes(l)
		detail := []string{p.InsurerNumber, p.InsuredNumber, typ, item,
			fieldfmt.Int(l.Units), fieldfmt.Int(l.Count), fieldfmt.Int(l.TotalUnits())}
		for i := 0; i < maxPublicSlots; i++ {
			detail = append(detail, b.slot(i, fieldfmt.Int(l.Count)))
		}
		for i := 0; i < maxPublicSlots; i++ {
			detail = append(detail, b.slot(i, fieldfmt.Int(l.TotalUnits())))
		}
		detail = append(detail, "")
		w.data(ExchangeDetail, RecordDetail, detail...)
	}

	for _, t := range b.types {
		summary := []string{p.InsurerNumber, p.InsuredNumber, t.TypeCode,
			fieldfmt.Int(t.Count),
			fieldfmt.Int(t.Units),
			strconv.Itoa(unitPrice),
			fieldfmt.Int(t.Units * model.PointValue),
			strconv.Itoa(p.BenefitRate),
			fieldfmt.Int(t.Split.Insurance),
		}
		for i := 0; i < maxPublicSlots; i++ {
			summary = append(summary, b.slot(i, fieldfmt.Int(t.Units)), b.slot(i, fieldfmt.Int(t.Split.Public[i])))
		}
		summary = append(summary, fieldfmt.Int(t.Split.Burden))
		w.data(ExchangeDetail, RecordTypeSummary, summary...)
	}
	return nil
}

// slot returns v when the patient has a public expense in slot i, else "".
func (b *patientBlock) slot(i int, v string) string {
	if i < len(b.payers) {
		return v
	}
	return ""
}

func (b *patientBlock) rateAt(i int) int {
	if i < len(b.rates) {
		return b.rates[i]
	}
	return 0
}
