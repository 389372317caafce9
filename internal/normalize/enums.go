package normalize

import (
	"sort"
	"strings"

	"github.com/bscode-watanabejun/nasreco-visiting-nursing-sub003/internal/model"
)

var cardTypes = map[string]model.CardType{
	"":             model.CardNone,
	"none":         model.CardNone,
	"social":       model.CardSocial,
	"national":     model.CardNational,
	"late_elderly": model.CardLateElderly,
	"care":         model.CardCare,
}

var relationships = map[string]model.Relationship{
	"":          model.RelationSelf,
	"self":      model.RelationSelf,
	"family":    model.RelationFamily,
	"preschool": model.RelationPreschool,
}

var ageCategories = map[string]model.AgeCategory{
	"":          model.AgeGeneral,
	"general":   model.AgeGeneral,
	"preschool": model.AgePreschool,
	"elderly70": model.AgeElderly70,
	"elderly75": model.AgeElderly75,
}

var elderlyRecipients = map[string]model.ElderlyRecipient{
	"":         model.RecipientNone,
	"none":     model.RecipientNone,
	"reduced":  model.RecipientReduced,
	"standard": model.RecipientStandard,
}

var incomeCategories = map[string]model.IncomeCategory{
	"":     model.IncomeNone,
	"none": model.IncomeNone,
	"low1": model.IncomeLow1,
	"low2": model.IncomeLow2,
}

var instructionKinds = map[string]model.InstructionKind{
	"":                    model.InstructionRegular,
	"regular":             model.InstructionRegular,
	"special":             model.InstructionSpecial,
	"psychiatric":         model.InstructionPsychiatric,
	"psychiatric_special": model.InstructionPsychiatricSpecial,
	"observation":         model.InstructionObservation,
	"observation_special": model.InstructionObservationSpecial,
}

// parseEnum looks up the lowercased, trimmed spelling of v in table.
func parseEnum[T any](field, v string, table map[string]T) (T, error) {
	key := strings.ToLower(strings.TrimSpace(v))
	if out, ok := table[key]; ok {
		return out, nil
	}
	var zero T
	return zero, &model.FormatError{Field: field, Value: v, Rule: "must be one of " + spellings(table)}
}

func spellings[T any](table map[string]T) string {
	var keys []string
	for k := range table {
		if k != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return strings.Join(keys, ", ")
}
