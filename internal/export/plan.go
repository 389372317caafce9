package export

import (
	"github.com/rs/zerolog"

	"github.com/bscode-watanabejun/nasreco-visiting-nursing-sub003/internal/config"
)

// PlanResult is the outcome of a dry run: what would be written, without
// writing it.
type PlanResult struct {
	Preflight *PreflightResult
	Encoded   *Encoded
}

// Plan runs preflight, load and build in memory. Nothing is written and no
// database is touched. Errors are wrapped in *PipelineError like Run's.
func Plan(log zerolog.Logger, cfg *config.Config) (*PlanResult, error) {
	kind, err := cfg.ClaimKind()
	if err != nil {
		return nil, &PipelineError{Phase: "preflight", Err: err}
	}
	pf, err := Preflight(log, cfg.FilePath, kind)
	if err != nil {
		return nil, &PipelineError{Phase: "preflight", Err: err}
	}
	in, err := Load(log, pf, cfg)
	if err != nil {
		return nil, &PipelineError{Phase: "load", Err: err}
	}
	enc, err := Encode(in, cfg.Workers)
	if err != nil {
		return nil, &PipelineError{Phase: "build", Err: err}
	}
	return &PlanResult{Preflight: pf, Encoded: enc}, nil
}
