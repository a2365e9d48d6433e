package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/a3tai/roster-audit/internal/audit"
	"github.com/a3tai/roster-audit/internal/pdf"
	"github.com/a3tai/roster-audit/internal/roster"
)

const (
	// Mode constants
	ModeStdio  = "stdio"
	ModeReport = "report"

	// Default values
	DefaultLogLevel          = "info"
	DefaultMaxFileSize       = 100 * 1024 * 1024 // 100MB
	DefaultOutput            = "informe_auditoria.xlsx"
	DefaultVacationThreshold = roster.DefaultVacationThreshold
	DefaultLegendWindow      = roster.DefaultLegendWindow
	DefaultRowPadding        = 15.0
	DefaultWorkers           = 4

	// Directory permissions
	DefaultDirPerm = 0o750

	envPrefix = "ROSTER_AUDIT"
)

// Config holds all configuration for the roster auditor
type Config struct {
	Mode string // "stdio" or "report"

	// Document configuration
	PDFDirectory string
	MaxFileSize  int64 // Maximum PDF file size in bytes

	// Application configuration
	Version    string
	ServerName string
	LogLevel   string
	ConfigFile string

	// Audit configuration
	Year              int
	Roster            string
	Payslips          []string
	Output            string
	CSV               string
	VacationThreshold int
	LegendWindow      int
	RowPadding        float64
	LenientHolidays   bool
	Workers           int

	// Read from the config file only
	Pricing     map[string]any
	Resolutions []roster.Resolution
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		currentDir = "."
	}

	return &Config{
		Mode:              ModeStdio,
		PDFDirectory:      currentDir,
		MaxFileSize:       DefaultMaxFileSize,
		Version:           "1.0.0",
		ServerName:        "roster-audit",
		LogLevel:          DefaultLogLevel,
		Output:            DefaultOutput,
		VacationThreshold: DefaultVacationThreshold,
		LegendWindow:      DefaultLegendWindow,
		RowPadding:        DefaultRowPadding,
		Workers:           DefaultWorkers,
	}
}

// LoadFromFlags parses .env, environment, command line flags and the
// optional config file, in increasing order of precedence for flags
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	// A missing .env is not an error
	_ = godotenv.Load()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	if err := checkVersionFlag(); err != nil {
		return nil, err
	}

	pflag.Parse()

	if err := readConfigFile(); err != nil {
		return nil, err
	}

	if err := populateConfigFromViper(cfg); err != nil {
		return nil, err
	}

	if cfg.PDFDirectory != "" {
		if expandedPath, err := filepath.Abs(cfg.PDFDirectory); err == nil {
			cfg.PDFDirectory = expandedPath
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(cfg *Config) {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("mode", cfg.Mode)
	viper.SetDefault("dir", cfg.PDFDirectory)
	viper.SetDefault("loglevel", cfg.LogLevel)
	viper.SetDefault("maxfilesize", cfg.MaxFileSize)
	viper.SetDefault("year", cfg.Year)
	viper.SetDefault("output", cfg.Output)
	viper.SetDefault("vacation-threshold", cfg.VacationThreshold)
	viper.SetDefault("legend-window", cfg.LegendWindow)
	viper.SetDefault("row-padding", cfg.RowPadding)
	viper.SetDefault("lenient-holidays", cfg.LenientHolidays)
	viper.SetDefault("workers", cfg.Workers)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(cfg *Config) {
	pflag.String("mode", cfg.Mode, "Run mode: 'stdio' for MCP standard I/O, 'report' for a one-shot audit report")
	pflag.String("dir", cfg.PDFDirectory, "Directory containing roster and payslip PDFs")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pflag.Int64("maxfilesize", cfg.MaxFileSize, "Maximum PDF file size in bytes")
	pflag.String("config", "", "Config file with pricing and code resolutions (yaml, toml or json)")
	pflag.Int("year", cfg.Year, "Roster year (0 for the current year)")
	pflag.String("roster", "", "Roster PDF, relative to --dir (report mode)")
	pflag.StringSlice("payslips", nil, "Payslip PDFs, comma separated (report mode)")
	pflag.String("output", cfg.Output, "Workbook output path (report mode)")
	pflag.String("csv", "", "Optional CSV export of priced days (report mode)")
	pflag.Int("vacation-threshold", cfg.VacationThreshold, "Vacation runs of this many days or fewer are discarded")
	pflag.Int("legend-window", cfg.LegendWindow, "Characters searched after a shift code for its time range")
	pflag.Float64("row-padding", cfg.RowPadding, "Vertical distance below a month label that still belongs to its row")
	pflag.Bool("lenient-holidays", cfg.LenientHolidays, "Also read holidays written as '6 de enero'")
	pflag.Int("workers", cfg.Workers, "Payslips read in parallel")
}

var flagNames = []string{
	"mode", "dir", "loglevel", "maxfilesize", "config", "year", "roster", "payslips",
	"output", "csv", "vacation-threshold", "legend-window", "row-padding",
	"lenient-holidays", "workers",
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper() {
	for _, name := range flagNames {
		_ = viper.BindPFlag(name, pflag.Lookup(name))
	}
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nRoster Audit - rest-debt and payroll audit of shift rosters\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s --dir=/path/to/pdfs                          # MCP stdio mode\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=report --roster=cuadrante.pdf \\\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "      --payslips=enero.pdf,febrero.pdf --output=informe.xlsx\n")
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables (also read from .env):\n")
		fmt.Fprintf(os.Stderr, "  %s_MODE         Run mode\n", envPrefix)
		fmt.Fprintf(os.Stderr, "  %s_DIR          PDF directory\n", envPrefix)
		fmt.Fprintf(os.Stderr, "  %s_LOGLEVEL     Log level\n", envPrefix)
		fmt.Fprintf(os.Stderr, "  %s_YEAR         Roster year\n", envPrefix)
		fmt.Fprintf(os.Stderr, "  %s_CONFIG       Config file\n", envPrefix)
	}
}

// checkVersionFlag checks if version flag was requested
func checkVersionFlag() error {
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return fmt.Errorf("version requested")
		}
	}
	return nil
}

// readConfigFile loads the file named by --config, if any
func readConfigFile() error {
	path := viper.GetString("config")
	if path == "" {
		return nil
	}
	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("cannot read config file %s: %w", path, err)
	}
	return nil
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(cfg *Config) error {
	cfg.Mode = viper.GetString("mode")
	cfg.PDFDirectory = viper.GetString("dir")
	cfg.LogLevel = viper.GetString("loglevel")
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")
	cfg.ConfigFile = viper.GetString("config")
	cfg.Year = viper.GetInt("year")
	cfg.Roster = viper.GetString("roster")
	cfg.Payslips = viper.GetStringSlice("payslips")
	cfg.Output = viper.GetString("output")
	cfg.CSV = viper.GetString("csv")
	cfg.VacationThreshold = viper.GetInt("vacation-threshold")
	cfg.LegendWindow = viper.GetInt("legend-window")
	cfg.RowPadding = viper.GetFloat64("row-padding")
	cfg.LenientHolidays = viper.GetBool("lenient-holidays")
	cfg.Workers = viper.GetInt("workers")
	cfg.Pricing = viper.GetStringMap("pricing")

	if viper.IsSet("resolutions") {
		if err := viper.UnmarshalKey("resolutions", &cfg.Resolutions); err != nil {
			return fmt.Errorf("invalid resolutions: %w", err)
		}
	}
	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Mode != ModeStdio && c.Mode != ModeReport {
		return errors.New("mode must be either 'stdio' or 'report'")
	}

	if c.Mode == ModeReport {
		if c.Roster == "" {
			return errors.New("report mode needs a roster document")
		}
		if c.Output == "" {
			return errors.New("report mode needs an output path")
		}
	}

	if c.PDFDirectory == "" {
		return errors.New("PDF directory cannot be empty")
	}

	if _, err := os.Stat(c.PDFDirectory); os.IsNotExist(err) {
		if err := os.MkdirAll(c.PDFDirectory, DefaultDirPerm); err != nil {
			return fmt.Errorf("cannot create PDF directory %s: %w", c.PDFDirectory, err)
		}
	} else if err != nil {
		return fmt.Errorf("cannot access PDF directory %s: %w", c.PDFDirectory, err)
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	if c.Year != 0 && (c.Year < 2000 || c.Year > 2100) {
		return fmt.Errorf("year %d out of range", c.Year)
	}
	if c.VacationThreshold <= 0 {
		return errors.New("vacation threshold must be positive")
	}
	if c.LegendWindow <= 0 {
		return errors.New("legend window must be positive")
	}
	if c.RowPadding < 0 {
		return errors.New("row padding cannot be negative")
	}
	if c.Workers <= 0 {
		return errors.New("workers must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// RosterOptions returns the roster pipeline settings
func (c *Config) RosterOptions() roster.Options {
	return roster.Options{
		Year:              c.Year,
		LegendWindow:      c.LegendWindow,
		VacationThreshold: c.VacationThreshold,
		LenientHolidays:   c.LenientHolidays,
	}
}

// LayoutOptions returns the table reconstruction settings
func (c *Config) LayoutOptions() pdf.LayoutOptions {
	layout := pdf.DefaultLayoutOptions()
	layout.RowPadding = c.RowPadding
	return layout
}

// AuditOptions returns the audit service settings
func (c *Config) AuditOptions() audit.Options {
	return audit.Options{
		Roster:  c.RosterOptions(),
		Workers: c.Workers,
		Pricing: c.Pricing,
	}
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, PDFDirectory: %s, LogLevel: %s, MaxFileSize: %d, Year: %d, Roster: %s, Payslips: %d, Workers: %d}",
		c.Mode, c.PDFDirectory, c.LogLevel, c.MaxFileSize, c.Year, c.Roster, len(c.Payslips), c.Workers)
}

// IsReportMode returns true for a one-shot report run
func (c *Config) IsReportMode() bool {
	return c.Mode == ModeReport
}

// IsStdioMode returns true if the server is running in stdio mode
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}
