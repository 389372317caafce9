package model

import "github.com/google/uuid"

// ExportLine is one emitted record as stored in the export history.
type ExportLine struct {
	ExportID   uuid.UUID
	LineNumber int64
	RecordKind string
	Content    string
}

// ExportLineColumns returns the ordered column names for COPY into receipt.export_lines.
func ExportLineColumns() []string {
	return []string{
		"export_id",
		"line_number",
		"record_kind",
		"content",
	}
}

// CopyValues returns the line values in the same order as ExportLineColumns(),
// suitable for pgx CopyFromSource.
func (l *ExportLine) CopyValues() []any {
	return []any{
		l.ExportID,
		l.LineNumber,
		l.RecordKind,
		l.Content,
	}
}
