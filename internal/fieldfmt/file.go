package fieldfmt

import "strings"

const (
	// FieldSeparator separates fields within a record.
	FieldSeparator = ","
	// LineTerminator ends every record.
	LineTerminator = "\r\n"
	// EOFMarker is appended once after the encoded medical claim file.
	EOFMarker byte = 0x1A
)

// BuildLine joins fields with the separator and appends the line terminator.
func BuildLine(fields ...string) string {
	return strings.Join(fields, FieldSeparator) + LineTerminator
}

// EncodeLines concatenates already-terminated lines and encodes them.
func EncodeLines(lines []string) ([]byte, error) {
	return Encode(strings.Join(lines, ""))
}

// BuildFile encodes the lines and appends the EOF marker byte required by the
// clearinghouse.
func BuildFile(lines []string) ([]byte, error) {
	out, err := EncodeLines(lines)
	if err != nil {
		return nil, err
	}
	return append(out, EOFMarker), nil
}

// RecordKind returns the leading field of a built line.
func RecordKind(line string) string {
	kind, _, _ := strings.Cut(strings.TrimSuffix(line, LineTerminator), FieldSeparator)
	return kind
}

// Fields splits a built line back into its fields.
func Fields(line string) []string {
	return strings.Split(strings.TrimSuffix(line, LineTerminator), FieldSeparator)
}
