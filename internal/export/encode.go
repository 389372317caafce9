package export

import (
	"fmt"

	"github.com/bscode-watanabejun/nasreco-visiting-nursing-sub003/internal/care"
	"github.com/bscode-watanabejun/nasreco-visiting-nursing-sub003/internal/medical"
	"github.com/bscode-watanabejun/nasreco-visiting-nursing-sub003/internal/model"
)

// Encoded is a built claim file ready to be written.
type Encoded struct {
	Year         int
	Month        int
	FacilityCode string
	Route        string // medical review route; empty for care
	Lines        []string
	Data         []byte
	Claims       []model.ClaimSummary
	TotalPoints  int64
	TotalAmount  int64
}

// Encode builds and encodes the claim file for the loaded input.
func Encode(in *Input, workers int) (*Encoded, error) {
	switch {
	case in.Medical != nil:
		return encodeMedical(in.Medical, workers)
	case in.Care != nil:
		return encodeCare(in.Care)
	default:
		return nil, fmt.Errorf("nothing to encode for %s input", in.Kind.Name)
	}
}

func encodeMedical(claims []*model.ClaimContext, workers int) (*Encoded, error) {
	b, err := medical.BuildBatch(claims, workers)
	if err != nil {
		return nil, fmt.Errorf("build medical batch: %w", err)
	}
	data, err := medical.EncodeFile(b)
	if err != nil {
		return nil, fmt.Errorf("encode medical file: %w", err)
	}

	out := &Encoded{
		Year:         claims[0].Year,
		Month:        claims[0].Month,
		FacilityCode: claims[0].Facility.Code,
		Route:        b.Route,
		Lines:        b.Lines,
		Data:         data,
	}
	for i, r := range b.Claims {
		c := claims[i]
		out.Claims = append(out.Claims, model.ClaimSummary{
			PatientID:   r.PatientID,
			PatientName: c.Patient.Name,
			ReceiptType: r.Classification.ReceiptType,
			Burden:      r.Classification.Burden,
			Instruction: r.Classification.Instruction,
			VisitDays:   r.VisitDays,
			Lines:       r.Lines,
			TotalPoints: c.TotalPoints,
			TotalAmount: c.TotalAmount,
		})
		out.TotalPoints += c.TotalPoints
		out.TotalAmount += c.TotalAmount
	}
	return out, nil
}

func encodeCare(batch *model.CareBatch) (*Encoded, error) {
	b, err := care.Build(batch)
	if err != nil {
		return nil, fmt.Errorf("build care batch: %w", err)
	}
	data, err := care.EncodeFile(b)
	if err != nil {
		return nil, fmt.Errorf("encode care file: %w", err)
	}

	out := &Encoded{
		Year:         batch.Year,
		Month:        batch.Month,
		FacilityCode: batch.FacilityCode,
		Lines:        b.Lines,
		Data:         data,
	}
	for _, p := range b.Patients {
		out.Claims = append(out.Claims, model.ClaimSummary{
			PatientID:      p.PatientID,
			LevelCode:      p.LevelCode,
			Category:       p.Category,
			Lines:          p.Lines,
			TotalPoints:    p.TotalUnits,
			TotalAmount:    p.TotalAmount,
			InsuranceClaim: p.InsuranceClaim,
			PublicClaim:    p.PublicClaim,
			UserBurden:     p.Burden,
		})
		out.TotalPoints += p.TotalUnits
		out.TotalAmount += p.TotalAmount
	}
	return out, nil
}
