package classify

import "github.com/bscode-watanabejun/nasreco-visiting-nursing-sub003/internal/model"

// InstructionTypeCode maps the order's instruction kind to its 2-digit code.
// Unknown kinds are reported as a regular instruction.
func InstructionTypeCode(order model.Order) string {
	switch order.Kind {
	case model.InstructionRegular:
		return "01"
	case model.InstructionSpecial:
		return "02"
	case model.InstructionPsychiatric:
		return "03"
	case model.InstructionPsychiatricSpecial:
		return "04"
	case model.InstructionObservation:
		return "05"
	case model.InstructionObservationSpecial:
		return "06"
	default:
		return "01"
	}
}
