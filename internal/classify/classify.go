// Package classify derives the regulatory codes a claim needs from its
// insurance and subsidy state. Every function is pure and total: inputs the
// tables do not cover resolve to a fixed fallback code.
package classify

import (
	"fmt"

	"github.com/bscode-watanabejun/nasreco-visiting-nursing-sub003/internal/model"
)

// Classification bundles the three codes derived for one claim.
type Classification struct {
	ReceiptType string
	Burden      string
	Instruction string
}

// DetermineAll derives every classification code for the claim.
func DetermineAll(c *model.ClaimContext) (Classification, error) {
	receipt, err := ReceiptTypeCode(c.Card, c.PublicExpenses)
	if err != nil {
		return Classification{}, fmt.Errorf("receipt type for patient %s: %w", c.Patient.ID, err)
	}
	return Classification{
		ReceiptType: receipt,
		Burden:      BurdenClassificationCode(c.Card, c.PublicExpenses),
		Instruction: InstructionTypeCode(c.Order),
	}, nil
}

// payerGroup is the insurance situation that selects a receipt-type table.
type payerGroup int

const (
	groupPublicOnly payerGroup = iota
	groupLateElderly
	groupPreschool
	groupElderlyRecipient
	groupGeneral
)

func groupOf(card model.InsuranceCard) payerGroup {
	switch {
	case card.Type == model.CardNone || card.Type == model.CardCare:
		return groupPublicOnly
	case card.Type == model.CardLateElderly || card.Age == model.AgeElderly75:
		return groupLateElderly
	case card.Relationship == model.RelationPreschool || card.Age == model.AgePreschool:
		return groupPreschool
	case card.ElderlyRecipient != model.RecipientNone || card.Age == model.AgeElderly70:
		return groupElderlyRecipient
	default:
		return groupGeneral
	}
}

// benefit tiers for elderly tables
const (
	tierReduced  = 0 // general / low income
	tierStandard = 1 // working-age income, 30% copayment
)

func tierOf(card model.InsuranceCard) int {
	switch card.ElderlyRecipient {
	case model.RecipientStandard:
		return tierStandard
	case model.RecipientReduced:
		return tierReduced
	}
	if card.CopaymentRate >= 30 {
		return tierStandard
	}
	return tierReduced
}

// countIndex clamps a public-expense count into a table index, sending
// out-of-range counts to the table's 0-count slot.
func countIndex(n int) int {
	if n < 0 || n > 4 {
		return 0
	}
	return n
}
