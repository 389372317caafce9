package export

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/bscode-watanabejun/nasreco-visiting-nursing-sub003/internal/history"
	"github.com/bscode-watanabejun/nasreco-visiting-nursing-sub003/internal/model"
)

// Record registers the written file in the export history and COPY-loads its
// lines. An output already recorded is left untouched unless force is set.
// The export ID is stored on the summary.
func Record(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger, s *model.ExportSummary, enc *Encoded, force bool) error {
	start := time.Now()

	run := &history.Run{
		Kind:         s.Kind,
		FacilityCode: enc.FacilityCode,
		Year:         enc.Year,
		Month:        enc.Month,
		InputFile:    filepath.Base(s.InputPath),
		InputSHA256:  s.InputSHA256,
		OutputFile:   filepath.Base(s.OutputPath),
		OutputSHA256: s.OutputSHA256,
		Claims:       len(enc.Claims),
		Lines:        len(enc.Lines),
		TotalPoints:  enc.TotalPoints,
		TotalAmount:  enc.TotalAmount,
	}

	exportID, already, err := history.Register(ctx, pool, run, force)
	if err != nil {
		return err
	}
	s.ExportID = exportID.String()
	if already {
		log.Info().
			Str("export_id", s.ExportID).
			Str("sha256", s.OutputSHA256).
			Msg("output already recorded, skipping (use --force to re-record)")
		s.Recorded = true
		return nil
	}

	if _, err := history.CopyLines(ctx, pool, log, exportID, enc.Lines); err != nil {
		_ = history.SetStatus(ctx, pool, exportID, history.StatusFailed)
		return err
	}
	if err := history.SetStatus(ctx, pool, exportID, history.StatusRecorded); err != nil {
		return fmt.Errorf("mark export recorded: %w", err)
	}
	s.Recorded = true

	log.Info().
		Str("export_id", s.ExportID).
		Dur("duration", time.Since(start)).
		Msg("export recorded")
	return nil
}
