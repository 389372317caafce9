package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bscode-watanabejun/nasreco-visiting-nursing-sub003/internal/exitcode"
	"github.com/bscode-watanabejun/nasreco-visiting-nursing-sub003/internal/export"
	"github.com/bscode-watanabejun/nasreco-visiting-nursing-sub003/internal/logging"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Dry-run validation and classification (no writes)",
	RunE:  runPlan,
}

func init() {
	addInputFlags(planCmd)
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)

	if err := loadConfigFile(); err != nil {
		log.Error().Err(err).Msg("config file failed")
		os.Exit(exitcode.UsageError)
	}
	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	res, err := export.Plan(log, &cfg)
	if err != nil {
		var pe *export.PipelineError
		if errors.As(err, &pe) {
			log.Error().Err(pe.Err).Str("phase", pe.Phase).Msg("plan failed")
			os.Exit(exitcode.ForPhase(pe.Phase))
		}
		log.Error().Err(err).Msg("plan failed")
		os.Exit(exitcode.ValidationError)
	}

	pf, enc := res.Preflight, res.Encoded
	fmt.Println("=== receiptgen plan ===")
	fmt.Printf("File:       %s\n", pf.FilePath)
	fmt.Printf("SHA-256:    %s\n", pf.FileSHA256)
	fmt.Printf("Size:       %d bytes\n", pf.FileSize)
	fmt.Printf("Kind:       %s\n", pf.Kind.Name)
	fmt.Printf("Rows:       %d\n", pf.NumRows)
	fmt.Printf("Period:     %04d-%02d\n", enc.Year, enc.Month)
	fmt.Printf("Facility:   %s\n", enc.FacilityCode)
	if enc.Route != "" {
		fmt.Printf("Route:      %s\n", enc.Route)
	}
	fmt.Printf("Lines:      %d (%d bytes encoded)\n", len(enc.Lines), len(enc.Data))
	fmt.Println()

	if pf.Kind.Name == "care" {
		fmt.Printf("  %-12s %-5s %-8s %8s %10s %10s %10s %10s\n",
			"patient", "level", "category", "units", "amount", "insurance", "public", "burden")
		for _, c := range enc.Claims {
			fmt.Printf("  %-12s %-5s %-8s %8d %10d %10d %10d %10d\n",
				c.PatientID, c.LevelCode, c.Category, c.TotalPoints, c.TotalAmount,
				c.InsuranceClaim, c.PublicClaim, c.UserBurden)
		}
	} else {
		fmt.Printf("  %-12s %-7s %-6s %-11s %4s %8s %10s\n",
			"patient", "receipt", "burden", "instruction", "days", "points", "amount")
		for _, c := range enc.Claims {
			fmt.Printf("  %-12s %-7s %-6s %-11s %4d %8d %10d\n",
				c.PatientID, c.ReceiptType, c.Burden, c.Instruction, c.VisitDays, c.TotalPoints, c.TotalAmount)
		}
	}
	fmt.Printf("\nTotal: %d claims, %d points, %d yen\n", len(enc.Claims), enc.TotalPoints, enc.TotalAmount)
	fmt.Println("Validation: OK")

	return nil
}
