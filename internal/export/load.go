package export

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/bscode-watanabejun/nasreco-visiting-nursing-sub003/internal/config"
	"github.com/bscode-watanabejun/nasreco-visiting-nursing-sub003/internal/model"
	"github.com/bscode-watanabejun/nasreco-visiting-nursing-sub003/internal/normalize"
	"github.com/bscode-watanabejun/nasreco-visiting-nursing-sub003/internal/parquetread"
)

const readBatchSize = 256

// Input is the normalized content of one claim file: medical claims or one
// care batch, depending on Kind.
type Input struct {
	Kind    model.ClaimKind
	Rows    int64
	Medical []*model.ClaimContext
	Care    *model.CareBatch
}

// Load reads every row and normalizes it into claim contexts. All row defects
// are collected into one *model.ValidationError.
func Load(log zerolog.Logger, pf *PreflightResult, cfg *config.Config) (*Input, error) {
	start := time.Now()
	in := &Input{Kind: pf.Kind}

	switch pf.Kind.Name {
	case "medical":
		rows, err := readRows[model.MedicalClaimRow](pf.FilePath)
		if err != nil {
			return nil, err
		}
		in.Rows = int64(len(rows))
		claims, err := toClaims(pf.FilePath, rows, cfg.Facility)
		if err != nil {
			return nil, err
		}
		in.Medical = claims
	case "care":
		rows, err := readRows[model.CarePatientRow](pf.FilePath)
		if err != nil {
			return nil, err
		}
		in.Rows = int64(len(rows))
		batch, err := normalize.ToCareBatch(rows, cfg.CareFacilityCode, cfg.Facility.Prefecture)
		if err != nil {
			return nil, fmt.Errorf("normalize care rows: %w", err)
		}
		in.Care = batch
	default:
		return nil, fmt.Errorf("unsupported claim kind %q", pf.Kind.Name)
	}

	log.Info().
		Int64("rows", in.Rows).
		Dur("duration", time.Since(start)).
		Msg("claims loaded")
	return in, nil
}

func readRows[T any](path string) ([]*T, error) {
	r, err := parquetread.Open[T](path)
	if err != nil {
		return nil, fmt.Errorf("load open: %w", err)
	}
	defer r.Close()

	rows, err := r.ReadAll(readBatchSize)
	if err != nil {
		return nil, fmt.Errorf("load read: %w", err)
	}
	return rows, nil
}

// toClaims normalizes every medical row and requires one claim period.
func toClaims(path string, rows []*model.MedicalClaimRow, facility model.Facility) ([]*model.ClaimContext, error) {
	var problems []string
	claims := make([]*model.ClaimContext, 0, len(rows))
	for i, row := range rows {
		c, err := normalize.ToClaimContext(row, facility)
		if err != nil {
			problems = append(problems, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}
		if len(claims) > 0 && (c.Year != claims[0].Year || c.Month != claims[0].Month) {
			problems = append(problems, fmt.Sprintf("row %d: claim month %04d-%02d differs from %04d-%02d",
				i+1, c.Year, c.Month, claims[0].Year, claims[0].Month))
			continue
		}
		claims = append(claims, c)
	}
	if len(problems) > 0 {
		return nil, &model.ValidationError{
			Subject:  "medical input " + filepath.Base(path),
			Problems: problems,
		}
	}
	return claims, nil
}
