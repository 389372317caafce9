package model

// ClaimKind represents one of the supported claim file formats.
type ClaimKind struct {
	Name            string   // e.g. "medical"
	RequiredColumns []string // top-level Parquet columns the input must carry
	DefaultOutput   string   // output file name when --out is not given
}

// AllClaimKinds lists the supported claim kinds in canonical order.
var AllClaimKinds = []ClaimKind{
	{
		Name:            "medical",
		RequiredColumns: []string{"claim_year", "claim_month", "patient_id", "card_type", "visits", "total_points", "total_amount"},
		DefaultOutput:   "RECEIPTH.UKE",
	},
	{
		Name:            "care",
		RequiredColumns: []string{"service_year", "service_month", "patient_id", "insurer_number", "insured_number", "services", "total_points", "total_amount"},
		DefaultOutput:   "KAIGO.CSV",
	},
}

// ClaimKindNames returns just the names of all claim kinds.
func ClaimKindNames() []string {
	names := make([]string, len(AllClaimKinds))
	for i, k := range AllClaimKinds {
		names[i] = k.Name
	}
	return names
}

// ClaimKindByName returns the ClaimKind for the given name, or ok=false.
func ClaimKindByName(name string) (ClaimKind, bool) {
	for _, k := range AllClaimKinds {
		if k.Name == name {
			return k, true
		}
	}
	return ClaimKind{}, false
}
