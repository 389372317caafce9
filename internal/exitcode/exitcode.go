package exitcode

const (
	Success         = 0
	UsageError      = 1
	ValidationError = 2
	DBConnError     = 3
	EncodeError     = 4
	WriteError      = 5
	RecordError     = 6
	ReportError     = 7
)

// ForPhase maps an export pipeline phase to its process exit code.
func ForPhase(phase string) int {
	switch phase {
	case "preflight", "load":
		return ValidationError
	case "build":
		return EncodeError
	case "write":
		return WriteError
	case "record":
		return RecordError
	case "report":
		return ReportError
	default:
		return EncodeError
	}
}
