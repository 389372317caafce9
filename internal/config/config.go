package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bscode-watanabejun/nasreco-visiting-nursing-sub003/internal/fieldfmt"
	"github.com/bscode-watanabejun/nasreco-visiting-nursing-sub003/internal/model"

	"gopkg.in/yaml.v3"
)

// Config holds all runtime configuration for a receiptgen run.
type Config struct {
	DSN        string
	FilePath   string
	Kind       string // "medical" or "care"
	OutPath    string
	XLSXPath   string
	ConfigPath string
	LogFormat  string // "text" or "json"
	LogLevel   string
	Workers    int
	Record     bool // write the export history to Postgres
	Force      bool // re-record an output already in the history

	// Facility identity used when input rows leave it empty.
	Facility         model.Facility
	CareFacilityCode string // 10-digit long-term-care office number
}

// yamlConfig is the on-disk YAML structure.
type yamlConfig struct {
	Facility struct {
		Code       string `yaml:"code"`
		Name       string `yaml:"name"`
		Prefecture string `yaml:"prefecture"`
		Phone      string `yaml:"phone"`
	} `yaml:"facility"`
	CareFacilityCode string `yaml:"care_facility_code"`
	Workers          int    `yaml:"workers"`
}

// LoadFromFile reads a YAML config file and merges its values into Config.
// Values already set (from flags) are kept.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	setIfEmpty(&c.Facility.Code, yc.Facility.Code)
	setIfEmpty(&c.Facility.Name, yc.Facility.Name)
	setIfEmpty(&c.Facility.Prefecture, yc.Facility.Prefecture)
	setIfEmpty(&c.Facility.Phone, yc.Facility.Phone)
	setIfEmpty(&c.CareFacilityCode, yc.CareFacilityCode)
	if c.Workers == 0 {
		c.Workers = yc.Workers
	}
	return c.validateFacility()
}

func setIfEmpty(dst *string, v string) {
	if *dst == "" {
		*dst = strings.TrimSpace(v)
	}
}

// validateFacility checks the identity codes that were configured; empty
// values are allowed because input rows may carry them.
func (c *Config) validateFacility() error {
	if code := c.Facility.Code; code != "" && (len(code) != 7 || !fieldfmt.IsDigits(code)) {
		return fmt.Errorf("facility code %q must be 7 digits", code)
	}
	if p := c.Facility.Prefecture; p != "" && !fieldfmt.IsDigits(p) {
		return fmt.Errorf("facility prefecture %q must be digits", p)
	}
	if code := c.CareFacilityCode; code != "" && (len(code) != 10 || !fieldfmt.IsDigits(code)) {
		return fmt.Errorf("care facility code %q must be 10 digits", code)
	}
	return nil
}

// ClaimKind resolves the configured kind.
func (c *Config) ClaimKind() (model.ClaimKind, error) {
	k, ok := model.ClaimKindByName(c.Kind)
	if !ok {
		return model.ClaimKind{}, fmt.Errorf("unknown --kind %q (want one of %s)",
			c.Kind, strings.Join(model.ClaimKindNames(), ", "))
	}
	return k, nil
}

// OutputPath returns --out, or the kind's default file name next to the input.
func (c *Config) OutputPath() string {
	if c.OutPath != "" {
		return c.OutPath
	}
	k, err := c.ClaimKind()
	if err != nil {
		return ""
	}
	return filepath.Join(filepath.Dir(c.FilePath), k.DefaultOutput)
}

// Validate checks required fields and returns an error if the config is invalid.
func (c *Config) Validate() error {
	if c.FilePath == "" {
		return fmt.Errorf("--file is required")
	}
	if _, err := os.Stat(c.FilePath); err != nil {
		return fmt.Errorf("file not accessible: %w", err)
	}
	if _, err := c.ClaimKind(); err != nil {
		return err
	}
	if c.Workers < 0 {
		return fmt.Errorf("--workers must be >= 0, got %d", c.Workers)
	}
	return c.validateFacility()
}

// ValidateWithDSN checks both file and DSN fields.
func (c *Config) ValidateWithDSN() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.DSN == "" {
		return fmt.Errorf("--dsn or RECEIPTGEN_DB_URL is required")
	}
	return nil
}
