package medical

import (
	"strconv"
	"time"

	"github.com/bscode-watanabejun/nasreco-visiting-nursing-sub003/internal/fieldfmt"
	"github.com/bscode-watanabejun/nasreco-visiting-nursing-sub003/internal/model"
)

// maxLocationChanges is the number of location changes one claim can report.
const maxLocationChanges = 2

// sameDayOrdinals returns, for visits already sorted by date and start time,
// each visit's 1-based position among the visits on the same date.
func sameDayOrdinals(sorted []model.VisitRecord) []int {
	out := make([]int, len(sorted))
	for i, v := range sorted {
		n := 1
		for j := 0; j < i; j++ {
			if sorted[j].Date.Equal(v.Date) {
				n++
			}
		}
		out[i] = n
	}
	return out
}

// visitCountCode is blank for the first visit of a day, 02 for the second and
// 03 for any later one.
func visitCountCode(ordinal int) string {
	switch {
	case ordinal <= 1:
		return ""
	case ordinal == 2:
		return "02"
	default:
		return "03"
	}
}

// adjustStaffCode shifts staff qualification codes in the 01-09 and 31-39
// bands by +10 for a second same-day visit and +20 for later ones. Codes
// outside the bands pass through untouched.
func adjustStaffCode(code string, ordinal int) string {
	if ordinal <= 1 {
		return code
	}
	n, err := strconv.Atoi(code)
	if err != nil {
		return code
	}
	if !(n >= 1 && n <= 9) && !(n >= 31 && n <= 39) {
		return code
	}
	offset := 10
	if ordinal >= 3 {
		offset = 20
	}
	return fieldfmt.PadLeft(strconv.Itoa(n+offset), 2, '0')
}

// locationChange is a visit location that differs from the previous one in
// the claim period.
type locationChange struct {
	Date time.Time
	Code string
}

// detectLocationChanges returns the baseline (first visit's) location code
// and up to two subsequent changes. Each change must differ from the location
// in effect before it; repeats of the current location are not re-recorded.
func detectLocationChanges(sorted []model.VisitRecord) (string, []locationChange) {
	if len(sorted) == 0 {
		return "", nil
	}
	baseline := sorted[0].LocationCode
	current := baseline
	var changes []locationChange
	for _, v := range sorted[1:] {
		if len(changes) == maxLocationChanges {
			break
		}
		if v.LocationCode == "" || v.LocationCode == current {
			continue
		}
		changes = append(changes, locationChange{Date: v.Date, Code: v.LocationCode})
		current = v.LocationCode
	}
	return baseline, changes
}

// serviceEnd holds the end-of-service fields of the patient detail record.
type serviceEnd struct {
	Date   string
	Time   string
	Reason string
}

// extractServiceEnd picks the first visit flagged as the end of service. When
// the reason is death and the patient's death date is recorded separately, the
// end fields are left blank so the death is reported once.
func extractServiceEnd(patient model.Patient, sorted []model.VisitRecord) serviceEnd {
	for _, v := range sorted {
		if !v.ServiceEnd {
			continue
		}
		if v.ServiceEndReason == model.ServiceEndReasonDeath && patient.DeathDate != nil {
			return serviceEnd{}
		}
		return serviceEnd{
			Date:   fieldfmt.FormatDate(v.Date),
			Time:   fieldfmt.FormatClock(v.EndTime),
			Reason: v.ServiceEndReason,
		}
	}
	return serviceEnd{}
}

// visitDayMap renders the 31-position day bitmap: "1" on visit days, blank otherwise.
func visitDayMap(days []int) []string {
	out := make([]string, daysInMap)
	for _, d := range days {
		if d >= 1 && d <= daysInMap {
			out[d-1] = "1"
		}
	}
	return out
}
