package model

import "time"

// ExportSummary captures metrics from a single export run.
type ExportSummary struct {
	Kind           string
	InputPath      string
	InputSHA256    string
	OutputPath     string
	OutputSHA256   string
	ExportID       string
	RowsRead       int64
	ClaimsEncoded  int64
	LinesEmitted   int64
	BytesWritten   int64
	TotalPoints    int64
	TotalAmount    int64
	Recorded       bool
	DurationLoad   time.Duration
	DurationBuild  time.Duration
	DurationWrite  time.Duration
	DurationRecord time.Duration
	DurationTotal  time.Duration
	Claims         []ClaimSummary
}

// ClaimSummary is one claim's derived codes and totals, used for the review
// workbook. Medical claims fill the code fields; care claims fill the level,
// category and split amounts.
type ClaimSummary struct {
	PatientID   string
	PatientName string
	ReceiptType string
	Burden      string
	Instruction string
	VisitDays   int
	Lines       int
	TotalPoints int64
	TotalAmount int64

	LevelCode      string
	Category       string
	InsuranceClaim int64
	PublicClaim    int64
	UserBurden     int64
}
