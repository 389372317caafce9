package medical

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bscode-watanabejun/nasreco-visiting-nursing-sub003/internal/fieldfmt"
	"github.com/bscode-watanabejun/nasreco-visiting-nursing-sub003/internal/model"
)

func day(d int) time.Time {
	return time.Date(2024, 6, d, 0, 0, 0, 0, time.UTC)
}

func visit(d int, start, end, location string, points int64) model.VisitRecord {
	return model.VisitRecord{
		Date:         day(d),
		StartTime:    start,
		EndTime:      end,
		ServiceCode:  "510000110",
		LocationCode: location,
		StaffCode:    "03",
		Points:       points,
		Amount:       points * model.PointValue,
	}
}

// sampleClaim returns a general adult claim with public expenses and
// balanced totals.
func sampleClaim(publicExpenses int) *model.ClaimContext {
	c := &model.ClaimContext{
		Year:     2024,
		Month:    6,
		Facility: model.Facility{Code: "1312345", Name: "訪問看護ステーションさくら", Prefecture: "13", Phone: "03-1234-5678"},
		Patient: model.Patient{
			ID:        "P0001",
			Name:      "山田 太郎",
			KanaName:  "ﾔﾏﾀﾞ ﾀﾛｳ",
			BirthDate: time.Date(1960, 4, 1, 0, 0, 0, 0, time.UTC),
			Gender:    1,
		},
		Card: model.InsuranceCard{
			Type:          model.CardSocial,
			Relationship:  model.RelationSelf,
			Age:           model.AgeGeneral,
			InsurerNumber: "06130012",
			Symbol:        "記号1",
			Number:        "123",
			CopaymentRate: 30,
		},
		Order: model.Order{
			StartDate:     day(1),
			EndDate:       time.Date(2024, 11, 30, 0, 0, 0, 0, time.UTC),
			Diagnosis:     "脳梗塞後遺症",
			DiagnosisCode: "8830052",
			Kind:          model.InstructionRegular,
			Institution:   model.Institution{Code: "1310001", Name: "さくら病院", DoctorName: "佐藤 一郎"},
		},
		Visits: []model.VisitRecord{
			visit(3, "10:00", "11:00", "01", 555),
			visit(10, "10:00", "11:00", "01", 555),
		},
		Bonuses: []model.BonusRecord{
			{Date: day(3), ServiceCode: "510002470", Points: 250, Amount: 2500},
		},
	}
	c.Visits[1].Observation = "状態安定。"
	for i := 0; i < publicExpenses; i++ {
		c.PublicExpenses = append(c.PublicExpenses, model.PublicExpense{
			LegalCategory:   fmt.Sprintf("%d", 51+i),
			PayerNumber:     fmt.Sprintf("%d13000%d", 51+i, i),
			RecipientNumber: fmt.Sprintf("900000%d", i),
			Priority:        i + 1,
		})
	}
	rebalance(c)
	return c
}

func rebalance(c *model.ClaimContext) {
	var pts int64
	for _, v := range c.Visits {
		pts += v.Points
	}
	for _, b := range c.Bonuses {
		pts += b.Points
	}
	c.TotalPoints = pts
	c.TotalAmount = pts * model.PointValue
}

func linesOf(b *Batch, kind string) [][]string {
	var out [][]string
	for _, l := range b.Lines {
		if fieldfmt.RecordKind(l) == kind {
			out = append(out, fieldfmt.Fields(l))
		}
	}
	return out
}

func kinds(b *Batch) []string {
	out := make([]string, len(b.Lines))
	for i, l := range b.Lines {
		out[i] = fieldfmt.RecordKind(l)
	}
	return out
}

func TestBuild_RecordOrder(t *testing.T) {
	batch, err := Build(sampleClaim(1))
	require.NoError(t, err)

	want := []string{
		KindStation, KindBatchOpen, KindSummary,
		KindInsurer, KindSubsidy,
		KindEligibility, KindEligibility,
		KindVisitDays, KindVisitDays,
		KindWindow, KindReferral, KindOrder, KindClinical, KindDiagnosis, KindPatient,
		KindService, KindService, KindService,
	}
	assert.Equal(t, want, kinds(batch))
	for _, l := range batch.Lines {
		assert.True(t, strings.HasSuffix(l, "\r\n"))
	}
}

func TestBuild_PayerRecordsPerPublicExpenseCount(t *testing.T) {
	for n := 0; n <= 4; n++ {
		t.Run(fmt.Sprintf("%d public expenses", n), func(t *testing.T) {
			batch, err := Build(sampleClaim(n))
			require.NoError(t, err)

			sn := linesOf(batch, KindEligibility)
			jd := linesOf(batch, KindVisitDays)
			require.Len(t, sn, n+1)
			require.Len(t, jd, n+1)
			require.Len(t, linesOf(batch, KindSubsidy), n)

			for i := range sn {
				assert.Equal(t, fmt.Sprint(i+1), sn[i][1])
				assert.Equal(t, fmt.Sprint(i+1), jd[i][1])
				assert.Equal(t, jd[0][2:], jd[i][2:], "bitmap must agree across payers")
			}
		})
	}
}

func TestBuild_PayerTypesFollowPriority(t *testing.T) {
	c := sampleClaim(3)
	c.PublicExpenses[0].Priority, c.PublicExpenses[2].Priority = 3, 1
	batch, err := Build(c)
	require.NoError(t, err)

	sn := linesOf(batch, KindEligibility)
	assert.Equal(t, "2", sn[1][1])
	assert.Equal(t, c.PublicExpenses[2].PayerNumber, sn[1][3])
	assert.Equal(t, "4", sn[3][1])
	assert.Equal(t, c.PublicExpenses[0].PayerNumber, sn[3][3])
}

func TestBuild_VisitDayBitmap(t *testing.T) {
	batch, err := Build(sampleClaim(0))
	require.NoError(t, err)

	jd := linesOf(batch, KindVisitDays)[0]
	require.Len(t, jd, 2+31)
	for d := 1; d <= 31; d++ {
		want := ""
		if d == 3 || d == 10 {
			want = "1"
		}
		assert.Equal(t, want, jd[1+d], "day %d", d)
	}
}

func TestBuild_CachedCodesReplayedOnServiceLines(t *testing.T) {
	c := sampleClaim(2)
	c.Order.Kind = model.InstructionPsychiatricSpecial
	batch, err := Build(c)
	require.NoError(t, err)

	re := linesOf(batch, KindSummary)[0]
	assert.Equal(t, "6132", re[2])
	hj := linesOf(batch, KindOrder)[0]
	assert.Equal(t, "04", hj[1])

	require.Len(t, batch.Claims, 1)
	assert.Equal(t, "4", batch.Claims[0].Classification.Burden)
	assert.Equal(t, "04", batch.Claims[0].Classification.Instruction)

	for _, ka := range linesOf(batch, KindService) {
		assert.Equal(t, "4", ka[2])
		assert.Equal(t, "04", ka[3])
	}
}

func TestBuild_AmountsMatchPoints(t *testing.T) {
	c := sampleClaim(1)
	batch, err := Build(c)
	require.NoError(t, err)

	ho := linesOf(batch, KindInsurer)[0]
	assert.Equal(t, "2", ho[5])
	assert.Equal(t, fmt.Sprint(c.TotalPoints), ho[6])
	assert.Equal(t, fmt.Sprint(c.TotalPoints*10), ho[7])
	ko := linesOf(batch, KindSubsidy)[0]
	assert.Equal(t, ho[5:], ko[3:])

	for _, ka := range linesOf(batch, KindService) {
		var pts, amt int64
		fmt.Sscan(ka[11], &pts)
		fmt.Sscan(ka[12], &amt)
		assert.Equal(t, pts*10, amt)
	}
}

func TestBuild_AmountMismatchRejected(t *testing.T) {
	c := sampleClaim(0)
	c.TotalAmount++
	_, err := Build(c)
	require.Error(t, err)

	var vErr *model.ValidationError
	assert.True(t, errors.As(err, &vErr))
}

func TestBuild_SameDayOrdinals(t *testing.T) {
	c := sampleClaim(0)
	c.Visits = []model.VisitRecord{
		visit(5, "15:00", "15:30", "01", 300), // C
		visit(5, "09:00", "09:30", "01", 300), // A
		visit(5, "12:00", "12:30", "01", 300), // B
	}
	c.Visits[0].StaffCode = "03"
	c.Visits[1].StaffCode = "03"
	c.Visits[2].StaffCode = "45"
	c.Bonuses = nil
	rebalance(c)

	batch, err := Build(c)
	require.NoError(t, err)

	ka := linesOf(batch, KindService)
	require.Len(t, ka, 3)
	assert.Equal(t, []string{"0900", "1200", "1500"}, []string{ka[0][9], ka[1][9], ka[2][9]})
	assert.Equal(t, []string{"1", "2", "3"}, []string{ka[0][5], ka[1][5], ka[2][5]})
	assert.Equal(t, []string{"", "02", "03"}, []string{ka[0][6], ka[1][6], ka[2][6]})
	// B carries an out-of-band staff code and stays unchanged
	assert.Equal(t, []string{"03", "45", "23"}, []string{ka[0][7], ka[1][7], ka[2][7]})
}

func TestBuild_SameDayOrderUsesClockValue(t *testing.T) {
	c := sampleClaim(0)
	c.Visits = []model.VisitRecord{
		visit(5, "10:00", "10:30", "01", 300),
		visit(5, "9:00", "9:30", "01", 300),
	}
	c.Bonuses = nil
	rebalance(c)

	batch, err := Build(c)
	require.NoError(t, err)

	ka := linesOf(batch, KindService)
	require.Len(t, ka, 2)
	assert.Equal(t, []string{"0900", "1000"}, []string{ka[0][9], ka[1][9]})
	assert.Equal(t, []string{"1", "2"}, []string{ka[0][5], ka[1][5]})
}

func TestAdjustStaffCode(t *testing.T) {
	tests := []struct {
		code    string
		ordinal int
		want    string
	}{
		{"03", 1, "03"},
		{"03", 2, "13"},
		{"03", 3, "23"},
		{"07", 5, "27"},
		{"31", 2, "41"},
		{"39", 3, "59"},
		{"10", 2, "10"},
		{"45", 3, "45"},
		{"", 2, ""},
		{"3", 2, "13"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, adjustStaffCode(tt.code, tt.ordinal), "adjustStaffCode(%q, %d)", tt.code, tt.ordinal)
	}
}

func TestDetectLocationChanges_TwoChangeCap(t *testing.T) {
	codes := []string{"01", "01", "03", "03", "05"}
	var visits []model.VisitRecord
	for i, code := range codes {
		visits = append(visits, visit(i+1, "10:00", "11:00", code, 500))
	}

	baseline, changes := detectLocationChanges(visits)
	assert.Equal(t, "01", baseline)
	require.Len(t, changes, 2)
	assert.Equal(t, locationChange{Date: day(3), Code: "03"}, changes[0])
	assert.Equal(t, locationChange{Date: day(5), Code: "05"}, changes[1])

	visits = append(visits, visit(6, "10:00", "11:00", "07", 500))
	_, changes = detectLocationChanges(visits)
	assert.Len(t, changes, 2, "a third change is never recorded")
}

func TestBuild_PatientDetailLocations(t *testing.T) {
	c := sampleClaim(0)
	c.Visits = nil
	for i, code := range []string{"01", "01", "03", "03", "05"} {
		c.Visits = append(c.Visits, visit(i+1, "10:00", "11:00", code, 500))
	}
	rebalance(c)

	batch, err := Build(c)
	require.NoError(t, err)
	rj := linesOf(batch, KindPatient)[0]
	assert.Equal(t, []string{"01", "20240603", "03", "20240605", "05"}, rj[1:6])
}

func TestBuild_ServiceEndSuppressedOnRecordedDeath(t *testing.T) {
	c := sampleClaim(0)
	death := day(10)
	c.Patient.DeathDate = &death
	c.Patient.DeathTime = "13:20"
	c.Patient.DeathPlace = "自宅"
	c.Visits[1].ServiceEnd = true
	c.Visits[1].ServiceEndReason = model.ServiceEndReasonDeath

	batch, err := Build(c)
	require.NoError(t, err)
	rj := linesOf(batch, KindPatient)[0]
	assert.Equal(t, []string{"", "", ""}, rj[6:9])
	assert.Equal(t, []string{"20240610", "1320", "自宅"}, rj[9:12])
}

func TestBuild_ServiceEndReported(t *testing.T) {
	c := sampleClaim(0)
	c.Visits[1].ServiceEnd = true
	c.Visits[1].ServiceEndReason = "1"

	batch, err := Build(c)
	require.NoError(t, err)
	rj := linesOf(batch, KindPatient)[0]
	assert.Equal(t, []string{"20240610", "1100", "1"}, rj[6:9])
	assert.Equal(t, []string{"", "", ""}, rj[9:12])
}

func TestBuild_ClinicalStatusUsesLatestVisit(t *testing.T) {
	c := sampleClaim(0)
	c.Visits[0], c.Visits[1] = c.Visits[1], c.Visits[0]
	batch, err := Build(c)
	require.NoError(t, err)
	js := linesOf(batch, KindClinical)[0]
	assert.Equal(t, []string{"JS", "20240610", "状態安定。"}, js)

	c.Visits[0].Observation = ""
	batch, err = Build(c)
	require.NoError(t, err)
	assert.Equal(t, "", linesOf(batch, KindClinical)[0][2])
}

func TestBuild_DiagnosisSentinel(t *testing.T) {
	c := sampleClaim(0)
	c.Order.DiagnosisCode = ""
	batch, err := Build(c)
	require.NoError(t, err)
	assert.Equal(t, uncodedDiagnosis, linesOf(batch, KindDiagnosis)[0][1])
}

func TestBuild_SummaryBenefitRatioAndPartialBurden(t *testing.T) {
	c := sampleClaim(0)
	c.Card.InsurerNumber = "138016"
	c.Card.Age = model.AgeElderly70
	c.Card.CopaymentRate = 20
	c.Card.Income = model.IncomeLow2
	c.Patient.BirthDate = time.Date(1952, 1, 15, 0, 0, 0, 0, time.UTC)

	batch, err := Build(c)
	require.NoError(t, err)
	assert.Equal(t, RouteRegionalFederation, batch.Route)
	re := linesOf(batch, KindSummary)[0]
	assert.Equal(t, "80", re[7])
	assert.Equal(t, "1", re[8])

	c.Patient.BirthDate = time.Date(1980, 1, 15, 0, 0, 0, 0, time.UTC)
	batch, err = Build(c)
	require.NoError(t, err)
	assert.Equal(t, "", linesOf(batch, KindSummary)[0][8], "under the elderly threshold stays blank")

	c.Card.InsurerNumber = "06130012"
	batch, err = Build(c)
	require.NoError(t, err)
	assert.Equal(t, "", linesOf(batch, KindSummary)[0][7], "direct payer route has no benefit ratio")
}

func TestBuild_MissingServiceCodeAborts(t *testing.T) {
	c := sampleClaim(0)
	c.Visits[1].ServiceCode = ""
	batch, err := Build(c)
	require.Error(t, err)
	assert.Nil(t, batch)

	var missing *model.MissingFieldError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "service_code", missing.Field)
}

func TestBuild_MissingDemographicsAbort(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *model.ClaimContext)
		field  string
	}{
		{"blank name", func(c *model.ClaimContext) { c.Patient.Name = " " }, "patient_name"},
		{"zero birth date", func(c *model.ClaimContext) { c.Patient.BirthDate = time.Time{} }, "birth_date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := sampleClaim(1)
			tt.mutate(c)
			batch, err := Build(c)
			assert.Nil(t, batch)

			var missing *model.MissingFieldError
			require.True(t, errors.As(err, &missing), "want MissingFieldError, got %v", err)
			assert.Equal(t, tt.field, missing.Field)
		})
	}
}

func TestBuild_FacilityCodeMustBeSevenDigits(t *testing.T) {
	for _, code := range []string{"1312345678", "131", "13123A5", ""} {
		t.Run(code, func(t *testing.T) {
			c := sampleClaim(0)
			c.Facility.Code = code
			batch, err := Build(c)
			assert.Nil(t, batch)

			var fErr *model.FormatError
			require.True(t, errors.As(err, &fErr), "want FormatError, got %v", err)
			assert.Equal(t, "facility_code", fErr.Field)
		})
	}
}

func TestBuild_BirthDateBeforeShowaAborts(t *testing.T) {
	c := sampleClaim(0)
	c.Patient.BirthDate = time.Date(1925, 3, 1, 0, 0, 0, 0, time.UTC)
	batch, err := Build(c)
	assert.Nil(t, batch)

	var fErr *model.FormatError
	assert.True(t, errors.As(err, &fErr), "want FormatError, got %v", err)
}

func TestBuild_EncodingFailureAborts(t *testing.T) {
	c := sampleClaim(0)
	c.Patient.Name = "山田😀"
	_, err := Build(c)
	var encErr *model.EncodingError
	assert.True(t, errors.As(err, &encErr))
}

func TestReviewRoute(t *testing.T) {
	tests := []struct {
		name    string
		card    model.InsuranceCard
		want    string
		wantErr bool
	}{
		{"explicit wins", model.InsuranceCard{Type: model.CardSocial, InsurerNumber: "06130012", ReviewOrg: "2"}, "2", false},
		{"national six digits", model.InsuranceCard{Type: model.CardNational, InsurerNumber: "138016"}, "2", false},
		{"late elderly prefix", model.InsuranceCard{Type: model.CardLateElderly, InsurerNumber: "39131007"}, "2", false},
		{"social eight digits", model.InsuranceCard{Type: model.CardSocial, InsurerNumber: "06130012"}, "1", false},
		{"bad length", model.InsuranceCard{Type: model.CardSocial, InsurerNumber: "0613"}, "", true},
		{"not digits", model.InsuranceCard{Type: model.CardNational, InsurerNumber: "ABCDEF"}, "", true},
		{"missing", model.InsuranceCard{Type: model.CardSocial}, "", true},
		{"bad explicit", model.InsuranceCard{Type: model.CardSocial, InsurerNumber: "06130012", ReviewOrg: "9"}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReviewRoute(&model.ClaimContext{Card: tt.card})
			if tt.wantErr {
				var fErr *model.FormatError
				require.True(t, errors.As(err, &fErr), "want FormatError, got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReviewRoute_PublicOnlyUsesFirstPayer(t *testing.T) {
	c := sampleClaim(2)
	c.Card = model.InsuranceCard{Type: model.CardNone}
	got, err := ReviewRoute(c)
	require.NoError(t, err)
	assert.Equal(t, RouteDirectPayer, got)

	batch, err := Build(c)
	require.NoError(t, err)
	assert.Equal(t, "6222", linesOf(batch, KindSummary)[0][2])
	for _, ka := range linesOf(batch, KindService) {
		assert.Equal(t, "7", ka[2])
	}
}

func TestBuildBatch_SharedHeaderAndSequence(t *testing.T) {
	var claims []*model.ClaimContext
	for i := 0; i < 5; i++ {
		c := sampleClaim(i % 3)
		c.Patient.ID = fmt.Sprintf("P%04d", i+1)
		claims = append(claims, c)
	}

	batch, err := BuildBatch(claims, 2)
	require.NoError(t, err)

	assert.Len(t, linesOf(batch, KindStation), 1)
	assert.Len(t, linesOf(batch, KindBatchOpen), 1)
	assert.Equal(t, KindStation, fieldfmt.RecordKind(batch.Lines[0]))
	assert.Equal(t, KindBatchOpen, fieldfmt.RecordKind(batch.Lines[1]))

	re := linesOf(batch, KindSummary)
	require.Len(t, re, 5)
	for i, r := range re {
		assert.Equal(t, fmt.Sprint(i+1), r[1])
		assert.Equal(t, fmt.Sprintf("P%04d", i+1), r[9])
	}
	require.Len(t, batch.Claims, 5)
	total := 2
	for _, cr := range batch.Claims {
		total += cr.Lines
	}
	assert.Equal(t, len(batch.Lines), total)
}

func TestBuildBatch_RejectsMixedFacilities(t *testing.T) {
	a, b := sampleClaim(0), sampleClaim(0)
	b.Facility.Code = "1399999"
	_, err := BuildBatch([]*model.ClaimContext{a, b}, 0)
	var vErr *model.ValidationError
	assert.True(t, errors.As(err, &vErr))

	_, err = BuildBatch(nil, 0)
	assert.Error(t, err)
}

func TestEncodeFile(t *testing.T) {
	batch, err := Build(sampleClaim(1))
	require.NoError(t, err)
	out, err := EncodeFile(batch)
	require.NoError(t, err)
	assert.Equal(t, fieldfmt.EOFMarker, out[len(out)-1])

	text, err := fieldfmt.Decode(out[:len(out)-1])
	require.NoError(t, err)
	assert.Equal(t, strings.Join(batch.Lines, ""), text)
	assert.True(t, strings.HasPrefix(text, "HM,1,13,6,1312345,,訪問看護ステーションさくら,50606,00,03-1234-5678\r\nGO\r\n"))
}
