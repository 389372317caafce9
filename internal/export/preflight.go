package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/bscode-watanabejun/nasreco-visiting-nursing-sub003/internal/model"
	"github.com/bscode-watanabejun/nasreco-visiting-nursing-sub003/internal/normalize"
	"github.com/bscode-watanabejun/nasreco-visiting-nursing-sub003/internal/parquetread"
)

// PreflightResult holds what the preflight phase learned about the input.
type PreflightResult struct {
	FilePath   string
	FileSHA256 string
	FileSize   int64
	NumRows    int64
	Kind       model.ClaimKind
}

// Preflight hashes the input, opens it as Parquet and checks that it carries
// the columns the claim kind needs.
func Preflight(log zerolog.Logger, filePath string, kind model.ClaimKind) (*PreflightResult, error) {
	start := time.Now()

	sha, err := normalize.FileHash(filePath)
	if err != nil {
		return nil, fmt.Errorf("preflight hash: %w", err)
	}

	stat, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("preflight stat: %w", err)
	}

	schema, numRows, err := parquetread.FileSchema(filePath)
	if err != nil {
		return nil, fmt.Errorf("preflight open: %w", err)
	}
	if err := parquetread.ValidateSchema(schema, kind); err != nil {
		return nil, fmt.Errorf("preflight validate: %w", err)
	}
	if numRows == 0 {
		return nil, fmt.Errorf("preflight: %s has no rows", filepath.Base(filePath))
	}

	log.Info().
		Str("file", filepath.Base(filePath)).
		Str("sha256", sha).
		Int64("rows", numRows).
		Int64("bytes", stat.Size()).
		Dur("duration", time.Since(start)).
		Msg("preflight complete")

	return &PreflightResult{
		FilePath:   filePath,
		FileSHA256: sha,
		FileSize:   stat.Size(),
		NumRows:    numRows,
		Kind:       kind,
	}, nil
}
