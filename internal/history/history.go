// Package history records each written claim file and its emitted lines in
// PostgreSQL so an office can see what was submitted for which period.
package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/bscode-watanabejun/nasreco-visiting-nursing-sub003/internal/db"
	"github.com/bscode-watanabejun/nasreco-visiting-nursing-sub003/internal/fieldfmt"
	"github.com/bscode-watanabejun/nasreco-visiting-nursing-sub003/internal/model"
	embedsql "github.com/bscode-watanabejun/nasreco-visiting-nursing-sub003/internal/sql"
)

// Run statuses.
const (
	StatusPending  = "pending"
	StatusRecorded = "recorded"
	StatusFailed   = "failed"
)

const copyBufferSize = 1024

// Run describes one written claim file.
type Run struct {
	ExportID     uuid.UUID
	Kind         string
	FacilityCode string
	Year         int
	Month        int
	InputFile    string
	InputSHA256  string
	OutputFile   string
	OutputSHA256 string
	Claims       int
	Lines        int
	TotalPoints  int64
	TotalAmount  int64
}

// Register inserts the run, keyed by (kind, output sha256). When the same
// output is already recorded and force is false, the existing export ID is
// returned with alreadyRecorded=true. Otherwise a previous attempt is reset:
// its lines are deleted and its status returns to pending.
func Register(ctx context.Context, pool *pgxpool.Pool, run *Run, force bool) (exportID uuid.UUID, alreadyRecorded bool, err error) {
	if run.ExportID == uuid.Nil {
		run.ExportID = uuid.New()
	}

	err = pool.QueryRow(ctx, embedsql.RegisterExport,
		run.ExportID, run.Kind, run.FacilityCode, run.Year, run.Month,
		run.InputFile, run.InputSHA256, run.OutputFile, run.OutputSHA256,
		run.Claims, run.Lines, run.TotalPoints, run.TotalAmount,
	).Scan(&exportID)
	if err == nil {
		return exportID, false, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, false, fmt.Errorf("register export: %w", err)
	}

	// ON CONFLICT DO NOTHING returned no row: the output already exists.
	var status string
	if err := pool.QueryRow(ctx, embedsql.LookupExport, run.Kind, run.OutputSHA256).Scan(&exportID, &status); err != nil {
		return uuid.Nil, false, fmt.Errorf("lookup existing export: %w", err)
	}
	if status == StatusRecorded && !force {
		return exportID, true, nil
	}

	if _, err := pool.Exec(ctx, embedsql.DeleteExportLines, exportID); err != nil {
		return uuid.Nil, false, fmt.Errorf("reset export lines: %w", err)
	}
	if err := SetStatus(ctx, pool, exportID, StatusPending); err != nil {
		return uuid.Nil, false, err
	}
	return exportID, false, nil
}

// CopyLines COPY-loads the emitted lines into receipt.export_lines. A producer
// goroutine feeds a channel-backed CopyFromSource.
func CopyLines(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger, exportID uuid.UUID, lines []string) (int64, error) {
	start := time.Now()
	ch := make(chan *model.ExportLine, copyBufferSize)
	errCh := make(chan error, 1)

	go func() {
		defer close(ch)
		for i, l := range lines {
			line := &model.ExportLine{
				ExportID:   exportID,
				LineNumber: int64(i + 1),
				RecordKind: fieldfmt.RecordKind(l),
				Content:    l,
			}
			select {
			case ch <- line:
			case <-ctx.Done():
				errCh <- ctx.Err()
				return
			}
		}
		errCh <- nil
	}()

	copied, err := pool.CopyFrom(ctx,
		pgx.Identifier{"receipt", "export_lines"},
		model.ExportLineColumns(),
		db.NewChannelSource[*model.ExportLine](ch),
	)
	if err != nil {
		// drain so the producer can exit
		for range ch {
		}
	}
	if prodErr := <-errCh; prodErr != nil {
		return 0, fmt.Errorf("export line producer: %w", prodErr)
	}
	if err != nil {
		return 0, fmt.Errorf("copy export lines: %w", err)
	}

	log.Info().
		Str("export_id", exportID.String()).
		Int64("lines", copied).
		Dur("duration", time.Since(start)).
		Msg("export lines recorded")
	return copied, nil
}

// SetStatus updates a run's status.
func SetStatus(ctx context.Context, pool *pgxpool.Pool, exportID uuid.UUID, status string) error {
	if _, err := pool.Exec(ctx, embedsql.UpdateExportStatus, exportID, status); err != nil {
		return fmt.Errorf("set export %s status %s: %w", exportID, status, err)
	}
	return nil
}

// LineCount returns how many lines are stored for a run.
func LineCount(ctx context.Context, pool *pgxpool.Pool, exportID uuid.UUID) (int64, error) {
	var n int64
	if err := pool.QueryRow(ctx, embedsql.ExportLineCount, exportID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count export lines: %w", err)
	}
	return n, nil
}
