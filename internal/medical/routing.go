package medical

import (
	"strings"

	"github.com/bscode-watanabejun/nasreco-visiting-nursing-sub003/internal/fieldfmt"
	"github.com/bscode-watanabejun/nasreco-visiting-nursing-sub003/internal/model"
)

// lateElderlyPrefix marks 8-digit insurer numbers of the late-stage elderly system.
const lateElderlyPrefix = "39"

// ReviewRoute resolves which review organization processes the claim. An
// explicit value on the card wins; otherwise it is inferred from the insurer
// number (or, for public-expense-only claims, the first payer number).
func ReviewRoute(c *model.ClaimContext) (string, error) {
	if r := strings.TrimSpace(c.Card.ReviewOrg); r != "" {
		if r != RouteDirectPayer && r != RouteRegionalFederation {
			return "", &model.FormatError{Field: "review_org", Value: r, Rule: "must be 1 or 2"}
		}
		return r, nil
	}

	number := strings.TrimSpace(c.Card.InsurerNumber)
	field := "insurer_number"
	if number == "" && !c.HasMedicalInsurance() {
		if pes := c.SortedPublicExpenses(); len(pes) > 0 {
			number = strings.TrimSpace(pes[0].PayerNumber)
			field = "payer_number"
		}
	}
	return routeFromNumber(field, number)
}

func routeFromNumber(field, number string) (string, error) {
	if !fieldfmt.IsDigits(number) {
		return "", &model.FormatError{Field: field, Value: number, Rule: "must be digits"}
	}
	switch len(number) {
	case 6:
		return RouteRegionalFederation, nil
	case 8:
		if strings.HasPrefix(number, lateElderlyPrefix) {
			return RouteRegionalFederation, nil
		}
		return RouteDirectPayer, nil
	default:
		return "", &model.FormatError{Field: field, Value: number, Rule: "must be 6 or 8 characters"}
	}
}
