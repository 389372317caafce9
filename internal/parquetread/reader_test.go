package parquetread

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bscode-watanabejun/nasreco-visiting-nursing-sub003/internal/model"
)

func writeFixture[T any](t *testing.T, rows []T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.parquet")
	f, err := os.Create(path)
	require.NoError(t, err)
	w := parquet.NewGenericWriter[T](f)
	_, err = w.Write(rows)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())
	return path
}

func TestReadAll_MedicalRows(t *testing.T) {
	var rows []model.MedicalClaimRow
	for _, id := range []string{"P1", "P2", "P3"} {
		rows = append(rows, model.MedicalClaimRow{
			ClaimYear:  2024,
			ClaimMonth: 6,
			PatientID:  id,
			CardType:   "social",
			Visits: []model.VisitRow{
				{Date: "2024-06-03", StartTime: "10:00", EndTime: "11:00", ServiceCode: "510000110", Points: 555},
				{Date: "2024-06-10", StartTime: "10:00", EndTime: "11:00", ServiceCode: "510000110", Points: 555},
			},
			PublicExpenses: []model.PublicExpenseRow{{LegalCategory: "54", PayerNumber: "54136015", Priority: 1}},
			TotalPoints:    1110,
		})
	}
	path := writeFixture(t, rows)

	r, err := Open[model.MedicalClaimRow](path)
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, int64(3), r.NumRows())
	require.NoError(t, ValidateSchema(r.Schema(), model.AllClaimKinds[0]))

	got, err := r.ReadAll(2)
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i, row := range got {
		assert.Equal(t, rows[i].PatientID, row.PatientID)
		require.Len(t, row.Visits, 2)
		assert.Equal(t, "2024-06-10", row.Visits[1].Date)
		assert.Equal(t, "54136015", row.PublicExpenses[0].PayerNumber)
	}
}

func TestValidateSchema_WrongKind(t *testing.T) {
	path := writeFixture(t, []model.CarePatientRow{{ServiceYear: 2024, ServiceMonth: 6, PatientID: "C1"}})

	r, err := Open[model.CarePatientRow](path)
	require.NoError(t, err)
	defer r.Close()

	care, ok := model.ClaimKindByName("care")
	require.True(t, ok)
	assert.NoError(t, ValidateSchema(r.Schema(), care))

	medical, _ := model.ClaimKindByName("medical")
	err = ValidateSchema(r.Schema(), medical)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "claim_year")
	assert.Contains(t, err.Error(), "card_type")
}

func TestOpen_MissingFile(t *testing.T) {
	_, err := Open[model.CarePatientRow](filepath.Join(t.TempDir(), "nope.parquet"))
	assert.Error(t, err)
}

func TestFileSchema(t *testing.T) {
	path := writeFixture(t, []model.CarePatientRow{{ServiceYear: 2024, ServiceMonth: 6, PatientID: "C1"}, {PatientID: "C2"}})

	schema, n, err := FileSchema(path)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	medical, _ := model.ClaimKindByName("medical")
	assert.Error(t, ValidateSchema(schema, medical))

	_, _, err = FileSchema(filepath.Join(t.TempDir(), "nope.parquet"))
	assert.Error(t, err)
}
