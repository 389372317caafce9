package sql

import (
	"embed"
)

// Migrations holds the DDL applied by db.ApplyMigrations, in filename order.
//
//go:embed migrations/*.sql
var Migrations embed.FS

//go:embed queries/register_export.sql
var RegisterExport string

//go:embed queries/lookup_export.sql
var LookupExport string

//go:embed queries/update_export_status.sql
var UpdateExportStatus string

//go:embed queries/delete_export_lines.sql
var DeleteExportLines string

//go:embed queries/export_line_count.sql
var ExportLineCount string
