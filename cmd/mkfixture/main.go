// mkfixture writes a sample Parquet claim input for trying receiptgen end to end.
// Patients cycle through card types, public-expense counts and care levels so
// one file touches most receipt-type and burden codes.
// Usage: go run ./cmd/mkfixture --kind medical --out testdata/medical.parquet --patients 12
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	goparquet "github.com/parquet-go/parquet-go"

	"github.com/bscode-watanabejun/nasreco-visiting-nursing-sub003/internal/model"
)

func main() {
	kind := flag.String("kind", "medical", "claim kind: medical or care")
	out := flag.String("out", "testdata/medical.parquet", "output parquet")
	patients := flag.Int("patients", 12, "number of patients")
	year := flag.Int("year", 2024, "claim year")
	month := flag.Int("month", 6, "claim month")
	check := flag.String("check", "", "only print row stats of this existing file")
	flag.Parse()

	if *check != "" {
		if err := printStats(*check, *kind); err != nil {
			fmt.Fprintf(os.Stderr, "check: %v\n", err)
			os.Exit(1)
		}
		return
	}

	var err error
	switch *kind {
	case "medical":
		err = writeRows(*out, medicalRows(*patients, int32(*year), int32(*month)))
	case "care":
		err = writeRows(*out, careRows(*patients, int32(*year), int32(*month)))
	default:
		err = fmt.Errorf("unknown kind %q", *kind)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "write fixture: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %d %s rows to %s\n", *patients, *kind, *out)
}

func writeRows[T any](path string, rows []T) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := goparquet.NewGenericWriter[T](f)
	if _, err := w.Write(rows); err != nil {
		f.Close()
		return err
	}
	if err := w.Close(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

var cardCycle = []struct {
	card, relationship, age, recipient string
	insurer                            string
}{
	{"social", "self", "", "", "06130012"},
	{"national", "family", "", "", "138016"},
	{"social", "preschool", "preschool", "", "06130012"},
	{"national", "self", "elderly70", "reduced", "138016"},
	{"late_elderly", "self", "elderly75", "", "39131015"},
}

func medicalRows(n int, year, month int32) []model.MedicalClaimRow {
	rows := make([]model.MedicalClaimRow, 0, n)
	for i := 0; i < n; i++ {
		c := cardCycle[i%len(cardCycle)]
		// ReviewOrg is pinned because one file goes to one review organization
		row := model.MedicalClaimRow{
			ClaimYear:        year,
			ClaimMonth:       month,
			FacilityCode:     "1312345",
			FacilityName:     "訪問看護ステーションさくら",
			PatientID:        fmt.Sprintf("P%04d", i+1),
			Name:             fmt.Sprintf("患者 %d", i+1),
			KanaName:         fmt.Sprintf("ｶﾝｼﾞｬ %d", i+1),
			BirthDate:        fmt.Sprintf("%04d-04-01", 1940+i*5%80),
			Gender:           int32(1 + i%2),
			CardType:         c.card,
			Relationship:     c.relationship,
			AgeCategory:      c.age,
			ElderlyRecipient: c.recipient,
			InsurerNumber:    c.insurer,
			CardSymbol:       "記号1",
			CardNumber:       fmt.Sprintf("%d", 100+i),
			CopaymentRate:    30,
			ReviewOrg:        "2",
			OrderStart:       fmt.Sprintf("%04d-%02d-01", year, month),
			OrderEnd:         fmt.Sprintf("%04d-%02d-28", year+1, month),
			Diagnosis:        "脳梗塞後遺症",
			InstructionKind:  []string{"regular", "special", "psychiatric"}[i%3],
			InstitutionCode:  "1310001",
			InstitutionName:  "さくら病院",
		}
		for p := 0; p < i%3; p++ {
			row.PublicExpenses = append(row.PublicExpenses, model.PublicExpenseRow{
				LegalCategory:   fmt.Sprintf("%d", 54-p),
				PayerNumber:     fmt.Sprintf("%d136015", 54-p),
				RecipientNumber: fmt.Sprintf("%07d", 1000+i),
				Priority:        int32(p + 1),
			})
		}
		var points int64
		for d := 3; d <= 24; d += 7 {
			v := model.VisitRow{
				Date:         fmt.Sprintf("%04d-%02d-%02d", year, month, d),
				StartTime:    "10:00",
				EndTime:      "11:00",
				ServiceCode:  "510000110",
				LocationCode: "01",
				StaffCode:    "03",
				Points:       555,
				Observation:  "状態安定。",
			}
			row.Visits = append(row.Visits, v)
			points += v.Points
		}
		row.Bonuses = []model.BonusRow{{Date: fmt.Sprintf("%04d-%02d-03", year, month), ServiceCode: "510002470", Points: 250}}
		row.TotalPoints = points + 250
		rows = append(rows, row)
	}
	return rows
}

var careLevels = []string{"support1", "support2", "care1", "care2", "care3", "care4", "care5"}

func careRows(n int, year, month int32) []model.CarePatientRow {
	rows := make([]model.CarePatientRow, 0, n)
	for i := 0; i < n; i++ {
		row := model.CarePatientRow{
			ServiceYear:    year,
			ServiceMonth:   month,
			FacilityCode:   "1312345678",
			PatientID:      fmt.Sprintf("C%04d", i+1),
			InsurerNumber:  "13101001",
			InsuredNumber:  fmt.Sprintf("%010d", 12345+i),
			BirthDate:      fmt.Sprintf("%04d-03-03", 1930+i%20),
			Gender:         int32(1 + i%2),
			CareLevel:      careLevels[i%len(careLevels)],
			CertStart:      fmt.Sprintf("%04d-04-01", year),
			CertEnd:        fmt.Sprintf("%04d-03-31", year+1),
			PlanCreator:    "1",
			PlanOfficeCode: "1370000001",
			BenefitRate:    90,
			Services: []model.CareServiceRow{
				{ServiceCode: "131111", Units: 500, Count: int64(2 + i%3)},
			},
		}
		if i%2 == 1 {
			row.PublicExpenses = []model.CarePublicExpenseRow{
				{LegalCategory: "12", PayerNumber: "12131015", RecipientNumber: fmt.Sprintf("%07d", 2000+i), Priority: 1, BenefitRate: 100},
			}
		}
		if i%3 == 0 {
			row.Bonuses = []model.CareServiceRow{{ServiceCode: "134001", Units: 300, Count: 1}}
		}
		for _, s := range row.Services {
			row.TotalPoints += s.Units * s.Count
		}
		for _, b := range row.Bonuses {
			row.TotalPoints += b.Units * b.Count
		}
		rows = append(rows, row)
	}
	return rows
}

func printStats(path, kind string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	stat, _ := f.Stat()
	pf, err := goparquet.OpenFile(f, stat.Size())
	if err != nil {
		return err
	}

	fmt.Printf("Rows: %d\n", pf.NumRows())
	if kind != "medical" {
		return nil
	}

	reader := goparquet.NewGenericReader[model.MedicalClaimRow](pf)
	defer reader.Close()
	byCard := map[string]int{}
	byPublic := map[int]int{}
	buf := make([]model.MedicalClaimRow, 256)
	for {
		n, readErr := reader.Read(buf)
		for i := 0; i < n; i++ {
			byCard[buf[i].CardType]++
			byPublic[len(buf[i].PublicExpenses)]++
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return readErr
		}
	}
	for card, count := range byCard {
		fmt.Printf("  card %-14s %d\n", card, count)
	}
	for pe := 0; pe <= 4; pe++ {
		if byPublic[pe] > 0 {
			fmt.Printf("  public expenses %d: %d\n", pe, byPublic[pe])
		}
	}
	return nil
}
