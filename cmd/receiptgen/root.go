package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/bscode-watanabejun/nasreco-visiting-nursing-sub003/internal/config"
)

var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "receiptgen",
	Short: "Home-visit-nursing claim file generator",
	Long: "Reads resolved claim data from Parquet and writes the Shift_JIS claim file for\n" +
		"medical/health insurance (RECEIPTH.UKE) or long-term-care insurance (KAIGO.CSV).",
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfg.DSN, "dsn", os.Getenv("RECEIPTGEN_DB_URL"), "Postgres connection string (or set RECEIPTGEN_DB_URL)")
	pf.StringVar(&cfg.LogFormat, "log-format", "text", "Log format: text or json")
	pf.StringVar(&cfg.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	pf.StringVar(&cfg.ConfigPath, "config", "", "YAML file with facility defaults")
}

// addInputFlags registers the flags shared by build and plan.
func addInputFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&cfg.FilePath, "file", "", "Path to Parquet claim input (required)")
	f.StringVar(&cfg.Kind, "kind", "medical", "Claim kind: medical or care")
	f.IntVar(&cfg.Workers, "workers", 0, "Concurrent claim builders (0 = unbounded)")
	f.StringVar(&cfg.Facility.Code, "facility-code", "", "7-digit station code when input rows omit it")
	f.StringVar(&cfg.CareFacilityCode, "care-facility-code", "", "10-digit care office number when input rows omit it")
	_ = cmd.MarkFlagRequired("file")
}

// loadConfigFile merges --config into cfg; flags already set win.
func loadConfigFile() error {
	if cfg.ConfigPath == "" {
		return nil
	}
	return cfg.LoadFromFile(cfg.ConfigPath)
}
