package classify

import "github.com/bscode-watanabejun/nasreco-visiting-nursing-sub003/internal/model"

// Receipt type tables, indexed by public-expense count.
var (
	// public expense only; a count of 0 has no code
	publicOnlyCodes = [5]string{"", "6212", "6222", "6232", "6242"}

	// late-stage elderly; [count][tier]
	lateElderlyCodes = [5][2]string{
		{"6318", "6310"},
		{"6328", "6320"},
		{"6338", "6330"},
		{"6348", "6340"},
		{"6358", "6350"},
	}

	preschoolCodes = [5]string{"6114", "6124", "6134", "6144", "6154"}

	// 70-74 elderly recipients; [count][tier]
	elderlyRecipientCodes = [5][2]string{
		{"6118", "6110"},
		{"6128", "6120"},
		{"6138", "6130"},
		{"6148", "6140"},
		{"6158", "6150"},
	}

	// general adults; [count][self, family]
	generalCodes = [5][2]string{
		{"6112", "6116"},
		{"6122", "6126"},
		{"6132", "6136"},
		{"6142", "6146"},
		{"6152", "6156"},
	}
)

// ReceiptTypeCode selects the 4-digit receipt type for the card and its
// public expenses. A claim with no medical insurance must carry at least one
// public expense; otherwise model.ErrNoPayer is returned.
func ReceiptTypeCode(card model.InsuranceCard, publicExpenses []model.PublicExpense) (string, error) {
	n := len(publicExpenses)
	switch groupOf(card) {
	case groupPublicOnly:
		if n == 0 {
			return "", model.ErrNoPayer
		}
		if n > 4 {
			return publicOnlyCodes[1], nil
		}
		return publicOnlyCodes[n], nil
	case groupLateElderly:
		return lateElderlyCodes[countIndex(n)][tierOf(card)], nil
	case groupPreschool:
		return preschoolCodes[countIndex(n)], nil
	case groupElderlyRecipient:
		return elderlyRecipientCodes[countIndex(n)][tierOf(card)], nil
	case groupGeneral:
		rel := 0
		if card.Relationship == model.RelationFamily {
			rel = 1
		}
		return generalCodes[countIndex(n)][rel], nil
	}
	return generalCodes[0][0], nil
}

// AllReceiptTypeCodes returns every code the tables can produce.
func AllReceiptTypeCodes() []string {
	var out []string
	out = append(out, publicOnlyCodes[1:]...)
	for _, row := range lateElderlyCodes {
		out = append(out, row[:]...)
	}
	out = append(out, preschoolCodes[:]...)
	for _, row := range elderlyRecipientCodes {
		out = append(out, row[:]...)
	}
	for _, row := range generalCodes {
		out = append(out, row[:]...)
	}
	return out
}
