package classify

import "github.com/bscode-watanabejun/nasreco-visiting-nursing-sub003/internal/model"

// BurdenCare is the burden classification for long-term-care insurance cards.
const BurdenCare = "K"

// Burden classification ladders, indexed by public-expense count.
var (
	// insurer plus 0..4 public expenses; shared by elderly and general claims.
	// There is no distinct "insurer alone" code for elderly cards, so index 0
	// is reused for both.
	insurerBurdenCodes = [5]string{"1", "2", "4", "E", "G"}

	// public expenses only, 1..4 payers
	publicBurdenCodes = [5]string{"", "5", "7", "B", "H"}
)

// BurdenClassificationCode returns the single-character code naming which
// combination of insurer and subsidy payers applies to the claim's lines.
func BurdenClassificationCode(card model.InsuranceCard, publicExpenses []model.PublicExpense) string {
	n := len(publicExpenses)
	switch {
	case card.Type == model.CardCare:
		return BurdenCare
	case card.Type == model.CardNone:
		if n < 1 || n > 4 {
			return publicBurdenCodes[1]
		}
		return publicBurdenCodes[n]
	default:
		return insurerBurdenCodes[countIndex(n)]
	}
}
