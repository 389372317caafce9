package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/bscode-watanabejun/nasreco-visiting-nursing-sub003/internal/db"
	"github.com/bscode-watanabejun/nasreco-visiting-nursing-sub003/internal/exitcode"
	"github.com/bscode-watanabejun/nasreco-visiting-nursing-sub003/internal/export"
	"github.com/bscode-watanabejun/nasreco-visiting-nursing-sub003/internal/logging"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build a claim file from a Parquet input",
	RunE:  runBuild,
}

func init() {
	addInputFlags(buildCmd)
	f := buildCmd.Flags()
	f.StringVar(&cfg.OutPath, "out", "", "Output path (default: RECEIPTH.UKE or KAIGO.CSV next to the input)")
	f.StringVar(&cfg.XLSXPath, "xlsx", "", "Also write a per-claim summary workbook to this path")
	f.BoolVar(&cfg.Record, "record", false, "Record the written file and its lines in Postgres")
	f.BoolVar(&cfg.Force, "force", false, "Re-record even if the same output is already recorded")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)
	ctx := context.Background()

	if err := loadConfigFile(); err != nil {
		log.Error().Err(err).Msg("config file failed")
		os.Exit(exitcode.UsageError)
	}
	validate := cfg.Validate
	if cfg.Record {
		validate = cfg.ValidateWithDSN
	}
	if err := validate(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	var pool *pgxpool.Pool
	if cfg.Record {
		var err error
		pool, err = db.NewPool(ctx, cfg.DSN)
		if err != nil {
			log.Error().Err(err).Msg("database connection failed")
			os.Exit(exitcode.DBConnError)
		}
		defer pool.Close()
	}

	summary, err := export.Run(ctx, pool, log, &cfg)
	if err != nil {
		var pe *export.PipelineError
		if errors.As(err, &pe) {
			log.Error().Err(pe.Err).Str("phase", pe.Phase).Msg("build failed")
			os.Exit(exitcode.ForPhase(pe.Phase))
		}
		log.Error().Err(err).Msg("build failed")
		os.Exit(exitcode.EncodeError)
	}

	fmt.Printf("Build complete: %d claims, %d lines, %d bytes → %s (%.1fs)\n",
		summary.ClaimsEncoded, summary.LinesEmitted, summary.BytesWritten,
		summary.OutputPath, summary.DurationTotal.Seconds())
	if summary.ExportID != "" {
		fmt.Printf("Export ID: %s\n", summary.ExportID)
	}
	return nil
}
