package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/buku/internal/builder"
	"github.com/cleared-dev/buku/internal/model"
)

// FileName is the workspace configuration file.
const FileName = "buku.yaml"

// Storage drivers.
const (
	DriverCSV      = "csv"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Environment overrides.
const (
	EnvLogLevel      = "BUKU_LOG_LEVEL"
	EnvLogFormat     = "BUKU_LOG_FORMAT"
	EnvStorageDriver = "BUKU_STORAGE_DRIVER"
	EnvStorageDSN    = "BUKU_STORAGE_DSN"
	EnvPPNRate       = "BUKU_PPN_RATE"
)

var envKeys = []string{EnvLogLevel, EnvLogFormat, EnvStorageDriver, EnvStorageDSN, EnvPPNRate}

var validate = validator.New()

// Config represents the top-level buku.yaml configuration.
type Config struct {
	Business       BusinessConfig       `yaml:"business"`
	Fiscal         FiscalConfig         `yaml:"fiscal"`
	Tax            TaxConfig            `yaml:"tax"`
	SystemAccounts SystemAccountsConfig `yaml:"system_accounts"`
	Storage        StorageConfig        `yaml:"storage"`
	Logging        LoggingConfig        `yaml:"logging"`
	Git            GitConfig            `yaml:"git"`
}

// BusinessConfig identifies the business printed on reports.
type BusinessConfig struct {
	Name    string `yaml:"name" validate:"required"`
	Address string `yaml:"address,omitempty"`
	Phone   string `yaml:"phone,omitempty"`
	Email   string `yaml:"email,omitempty" validate:"omitempty,email"`
}

// FiscalConfig defines the fiscal year boundaries.
type FiscalConfig struct {
	YearStart string `yaml:"year_start" validate:"required,datetime=01-02"` // "MM-DD"
}

// TaxConfig holds the PPN rate as a fraction.
type TaxConfig struct {
	PPNRate float64 `yaml:"ppn_rate" validate:"gte=0,lt=1"`
}

// SystemAccountsConfig routes sales and purchases to chart accounts.
type SystemAccountsConfig struct {
	SalesRevenue       string `yaml:"sales_revenue" validate:"required"`
	SalesRevenueNonPPN string `yaml:"sales_revenue_non_ppn" validate:"required"`
	OutputTax          string `yaml:"output_tax" validate:"required"`
	InputTax           string `yaml:"input_tax" validate:"required"`
	Purchases          string `yaml:"purchases" validate:"required"`
	PurchasesNonPPN    string `yaml:"purchases_non_ppn" validate:"required"`
}

// StorageConfig selects the journal backend. An empty sqlite DSN means a
// database file inside the workspace.
type StorageConfig struct {
	Driver string `yaml:"driver" validate:"oneof=csv sqlite postgres"`
	DSN    string `yaml:"dsn,omitempty" validate:"required_if=Driver postgres"`
}

// LoggingConfig controls the diagnostic logger.
type LoggingConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=console json"`
}

// GitConfig controls git integration.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name" validate:"required_if=AutoCommit true"`
	AuthorEmail string `yaml:"author_email" validate:"required_if=AutoCommit true"`
}

// Path returns the config file under a workspace root.
func Path(root string) string {
	return filepath.Join(root, FileName)
}

// Load reads a buku.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default("")
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new workspace.
func Default(businessName string) *Config {
	sys := builder.DefaultSystemAccounts()
	return &Config{
		Business: BusinessConfig{Name: businessName},
		Fiscal:   FiscalConfig{YearStart: "01-01"},
		Tax:      TaxConfig{PPNRate: 0.11},
		SystemAccounts: SystemAccountsConfig{
			SalesRevenue:       sys.SalesRevenue,
			SalesRevenueNonPPN: sys.SalesRevenueNonPPN,
			OutputTax:          sys.OutputTax,
			InputTax:           sys.InputTax,
			Purchases:          sys.Purchases,
			PurchasesNonPPN:    sys.PurchasesNonPPN,
		},
		Storage: StorageConfig{Driver: DriverCSV},
		Logging: LoggingConfig{Level: "info", Format: "console"},
		Git: GitConfig{
			AutoCommit:  true,
			AuthorName:  "Buku",
			AuthorEmail: "buku@localhost",
		},
	}
}

// Validate checks field shapes and ranges.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// TaxSettings returns the PPN rate as used by the builder.
func (c *Config) TaxSettings() model.TaxSettings {
	return model.TaxSettings{PPNRate: decimal.NewFromFloat(c.Tax.PPNRate)}
}

// BuilderAccounts returns the configured system account routing.
func (c *Config) BuilderAccounts() builder.SystemAccounts {
	s := c.SystemAccounts
	return builder.SystemAccounts{
		SalesRevenue:       s.SalesRevenue,
		SalesRevenueNonPPN: s.SalesRevenueNonPPN,
		OutputTax:          s.OutputTax,
		InputTax:           s.InputTax,
		Purchases:          s.Purchases,
		PurchasesNonPPN:    s.PurchasesNonPPN,
	}
}

// LoadEnv returns the BUKU_* overrides from <root>/.env with the process
// environment taking precedence. A missing .env is not an error.
func LoadEnv(root string) (map[string]string, error) {
	env := make(map[string]string)
	file, err := godotenv.Read(filepath.Join(root, ".env"))
	switch {
	case err == nil:
		for _, k := range envKeys {
			if v, ok := file[k]; ok {
				env[k] = v
			}
		}
	case !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("reading .env: %w", err)
	}
	for _, k := range envKeys {
		if v, ok := os.LookupEnv(k); ok {
			env[k] = v
		}
	}
	return env, nil
}

// ApplyEnv overlays non-empty overrides onto c.
func (c *Config) ApplyEnv(env map[string]string) error {
	set := func(key string, dst *string) {
		if v := env[key]; v != "" {
			*dst = v
		}
	}
	set(EnvLogLevel, &c.Logging.Level)
	set(EnvLogFormat, &c.Logging.Format)
	set(EnvStorageDriver, &c.Storage.Driver)
	set(EnvStorageDSN, &c.Storage.DSN)

	if v := env[EnvPPNRate]; v != "" {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s=%q: %w", EnvPPNRate, v, err)
		}
		c.Tax.PPNRate = rate
	}
	return nil
}
