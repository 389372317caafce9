package export

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/bscode-watanabejun/nasreco-visiting-nursing-sub003/internal/config"
	"github.com/bscode-watanabejun/nasreco-visiting-nursing-sub003/internal/model"
	"github.com/bscode-watanabejun/nasreco-visiting-nursing-sub003/internal/report"
)

// PipelineError wraps an error with the phase where it occurred.
type PipelineError struct {
	Phase string
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s: %s", e.Phase, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// Run executes the full export pipeline: preflight → load → build → write →
// record → report. pool may be nil when cfg.Record is false.
func Run(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger, cfg *config.Config) (*model.ExportSummary, error) {
	totalStart := time.Now()

	kind, err := cfg.ClaimKind()
	if err != nil {
		return nil, &PipelineError{Phase: "preflight", Err: err}
	}

	// Phase 1: Preflight
	log.Info().Str("file", cfg.FilePath).Str("kind", kind.Name).Msg("starting preflight")
	pf, err := Preflight(log, cfg.FilePath, kind)
	if err != nil {
		return nil, &PipelineError{Phase: "preflight", Err: err}
	}

	// Phase 2: Load
	log.Info().Msg("loading claims")
	loadStart := time.Now()
	in, err := Load(log, pf, cfg)
	if err != nil {
		return nil, &PipelineError{Phase: "load", Err: err}
	}
	durLoad := time.Since(loadStart)

	// Phase 3: Build
	log.Info().Msg("building records")
	buildStart := time.Now()
	enc, err := Encode(in, cfg.Workers)
	if err != nil {
		return nil, &PipelineError{Phase: "build", Err: err}
	}
	durBuild := time.Since(buildStart)

	// Phase 4: Write
	outPath := cfg.OutputPath()
	log.Info().Str("out", outPath).Msg("writing claim file")
	writeStart := time.Now()
	outSHA, err := WriteFile(outPath, enc.Data)
	if err != nil {
		return nil, &PipelineError{Phase: "write", Err: err}
	}
	durWrite := time.Since(writeStart)

	summary := &model.ExportSummary{
		Kind:          kind.Name,
		InputPath:     pf.FilePath,
		InputSHA256:   pf.FileSHA256,
		OutputPath:    outPath,
		OutputSHA256:  outSHA,
		RowsRead:      in.Rows,
		ClaimsEncoded: int64(len(enc.Claims)),
		LinesEmitted:  int64(len(enc.Lines)),
		BytesWritten:  int64(len(enc.Data)),
		TotalPoints:   enc.TotalPoints,
		TotalAmount:   enc.TotalAmount,
		DurationLoad:  durLoad,
		DurationBuild: durBuild,
		DurationWrite: durWrite,
		Claims:        enc.Claims,
	}

	// Phase 5: Record (optional)
	if cfg.Record {
		if pool == nil {
			return nil, &PipelineError{Phase: "record", Err: fmt.Errorf("recording requested without a database pool")}
		}
		log.Info().Msg("recording export history")
		recordStart := time.Now()
		if err := Record(ctx, pool, log, summary, enc, cfg.Force); err != nil {
			return nil, &PipelineError{Phase: "record", Err: err}
		}
		summary.DurationRecord = time.Since(recordStart)
	} else {
		log.Info().Msg("skipping export history (--record not set)")
	}

	// Phase 6: Report (optional)
	if cfg.XLSXPath != "" {
		log.Info().Str("xlsx", cfg.XLSXPath).Msg("writing summary workbook")
		if err := report.WriteWorkbook(cfg.XLSXPath, summary); err != nil {
			return nil, &PipelineError{Phase: "report", Err: err}
		}
	}

	summary.DurationTotal = time.Since(totalStart)

	log.Info().
		Int64("rows_read", summary.RowsRead).
		Int64("claims", summary.ClaimsEncoded).
		Int64("lines", summary.LinesEmitted).
		Int64("bytes", summary.BytesWritten).
		Int64("total_amount", summary.TotalAmount).
		Str("output_sha256", summary.OutputSHA256).
		Str("total_duration", summary.DurationTotal.String()).
		Msg("export pipeline complete")

	return summary, nil
}
