package care

import (
	"strings"

	"github.com/bscode-watanabejun/nasreco-visiting-nursing-sub003/internal/model"
)

// Record kinds (leading field of every line).
const (
	KindControl = "1"
	KindData    = "2"
	KindEnd     = "3"
)

// Exchange identifiers and record kinds carried by data records.
const (
	ExchangeRequest = "7111"
	ExchangeDetail  = "7131"

	RecordRequestSummary = "01"
	RecordBasic          = "01"
	RecordDetail         = "02"
	RecordTypeSummary    = "10"
)

const (
	basicFieldCount = 56
	maxPublicSlots  = 3

	// kind, record number, exchange, record kind, period, facility
	dataPrefixFields = 6

	recNoWidth     = 6
	dataCountWidth = 6

	volumeNumber    = "0"
	dataKindBenefit = "7"
	formatStandard  = "0"
	mediumTransmit  = "1"

	widthPlanOffice = 10
)

// unitPrice is the yen value of one unit in hundredths ("10.00" -> 1000).
const unitPrice = model.PointValue * 100

// LevelCode maps a care level to its 2-digit external code. Unknown levels
// map to "".
func LevelCode(level model.CareLevel) string {
	switch level {
	case model.CareSupport1:
		return "12"
	case model.CareSupport2:
		return "13"
	case model.CareLevel1:
		return "21"
	case model.CareLevel2:
		return "22"
	case model.CareLevel3:
		return "23"
	case model.CareLevel4:
		return "24"
	case model.CareLevel5:
		return "25"
	default:
		return ""
	}
}

// lineCodes returns the service type and item codes of a line, deriving them
// from the service code when they are not given explicitly.
func lineCodes(l model.CareServiceLine) (string, string) {
	code := strings.TrimSpace(l.ServiceCode)
	typ, item := strings.TrimSpace(l.TypeCode), strings.TrimSpace(l.ItemCode)
	if typ == "" && len(code) >= 2 {
		typ = code[:2]
	}
	if item == "" && len(code) >= 6 {
		item = code[2:6]
	}
	return typ, item
}

// split divides an amount between the insurer, up to three public payers and
// the user.
type split struct {
	Insurance int64
	Public    [maxPublicSlots]int64
	Burden    int64
}

// splitAmount applies the insurance benefit rate, then each public payer's
// cumulative benefit rate in priority order. Claims are floored to whole yen
// and the user burden takes the remainder.
func splitAmount(amount int64, benefitRate int, publicRates []int) split {
	var s split
	s.Insurance = amount * int64(benefitRate) / 100
	covered := s.Insurance
	for i, rate := range publicRates {
		if i == maxPublicSlots {
			break
		}
		target := amount * int64(rate) / 100
		if target > covered {
			s.Public[i] = target - covered
			covered = target
		}
	}
	s.Burden = amount - covered
	return s
}

func (s *split) add(o split) {
	s.Insurance += o.Insurance
	for i := range s.Public {
		s.Public[i] += o.Public[i]
	}
	s.Burden += o.Burden
}

func (s split) publicTotal() int64 {
	var n int64
	for _, v := range s.Public {
		n += v
	}
	return n
}
