package parquetread

import (
	"fmt"
	"strings"

	"github.com/parquet-go/parquet-go"

	"github.com/bscode-watanabejun/nasreco-visiting-nursing-sub003/internal/model"
)

// ValidateSchema checks that the Parquet schema contains every column the
// claim kind requires.
func ValidateSchema(schema *parquet.Schema, kind model.ClaimKind) error {
	columns := make(map[string]bool)
	for _, field := range schema.Fields() {
		columns[strings.ToLower(field.Name())] = true
	}

	var missing []string
	for _, col := range kind.RequiredColumns {
		if !columns[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%s input is missing required column(s): %s",
			kind.Name, strings.Join(missing, ", "))
	}
	return nil
}
