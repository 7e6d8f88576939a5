package contract

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/huangsam/gradepoint/schema"
)

// Default values for configuration.
const (
	DefaultPrecision = 3
	DefaultLogLevel  = "info"
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration of a command.
// This struct is the "final, validated" config.
type Config struct {
	Backend   schema.DatabaseBackend
	DBConnect string // Please use env var as this is plaintext

	Output     schema.OutputMode
	OutputFile string
	Precision  int
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool

	Workers     int
	Debug       bool
	LogLevel    string
	LogFile     string
	MetricsAddr string

	// Scope is the evaluation scope built from the scope flags.
	Scope schema.Scope
	// AreaFilter and ClusterFilter narrow variable listings (zero = no filter).
	AreaFilter    schema.Area
	ClusterFilter schema.Cluster
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	Backend     string `mapstructure:"backend" validate:"omitempty,oneof=sqlite mysql postgresql"`
	DBConnect   string `mapstructure:"db-connect"`
	Output      string `mapstructure:"output" validate:"omitempty,oneof=text csv json parquet"`
	OutputFile  string `mapstructure:"output-file"`
	Precision   int    `mapstructure:"precision" validate:"gte=0,lte=6"`
	Width       int    `mapstructure:"width" validate:"gte=0"`
	Color       string `mapstructure:"color"`
	Workers     int    `mapstructure:"workers" validate:"gt=0"`
	Debug       bool   `mapstructure:"debug"`
	LogLevel    string `mapstructure:"log-level" validate:"omitempty,oneof=trace debug info warn error fatal panic disabled"`
	LogFile     string `mapstructure:"log-file"`
	MetricsAddr string `mapstructure:"metrics-addr" validate:"omitempty,hostname_port"`

	// --- Fields from the scope flags of get/report/consts ---
	Syllabus  int64  `mapstructure:"syllabus" validate:"gte=0"`
	Project   int64  `mapstructure:"project" validate:"gte=0"`
	User      string `mapstructure:"user"`
	Group     int64  `mapstructure:"group" validate:"gte=0"`
	Milestone string `mapstructure:"milestone"`

	// --- Fields from varsCmd.Flags() ---
	Area    string `mapstructure:"area"`
	Cluster string `mapstructure:"cluster"`
}

// configValidate checks the struct tags of ConfigRawInput.
var configValidate = validator.New()

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := configValidate.Struct(input); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processScope(cfg, input); err != nil {
		return err
	}
	return processListingFilters(cfg, input)
}

// ProcessBackendConfig validates the database settings only.
// Commands that just need the evaluation database use it instead of ProcessAndValidate.
func ProcessBackendConfig(cfg *Config, backend, connStr string) error {
	cfg.Backend = schema.DatabaseBackend(strings.ToLower(backend))
	if cfg.Backend == "" {
		cfg.Backend = schema.SQLiteBackend
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.Backend]; !ok {
		return fmt.Errorf("invalid backend '%s'. must be sqlite, mysql, postgresql", backend)
	}
	cfg.DBConnect = connStr
	return ValidateDatabaseConnectionString(cfg.Backend, cfg.DBConnect)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateSimpleInputs processes and validates all non-scope fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple fields from input -> cfg ---
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.Workers = input.Workers
	cfg.Debug = input.Debug
	cfg.LogFile = input.LogFile
	cfg.MetricsAddr = input.MetricsAddr

	cfg.LogLevel = strings.ToLower(input.LogLevel)
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if cfg.Debug {
		cfg.LogLevel = "debug"
	}

	// Parse color flag
	colors := true
	if input.Color != "" {
		var err error
		if colors, err = ParseBoolString(input.Color); err != nil {
			return fmt.Errorf("invalid --color value: %w", err)
		}
	}
	cfg.UseColors = colors

	// --- 1. Precision and Output Validation (range checked by tags) ---
	cfg.Precision = input.Precision
	if cfg.Precision == 0 {
		cfg.Precision = DefaultPrecision
	}

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if cfg.Output == "" {
		cfg.Output = schema.TextOut
	}
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	// --- 2. Backend Validation ---
	return ProcessBackendConfig(cfg, input.Backend, input.DBConnect)
}

// processScope builds the evaluation scope from the scope flags.
func processScope(cfg *Config, input *ConfigRawInput) error {
	s, err := BuildScope(input)
	if err != nil {
		return err
	}
	cfg.Scope = s
	return nil
}

// BuildScope turns the scope inputs into an evaluation scope. The most specific
// key picks the area: user over project over group over syllabus.
func BuildScope(input *ConfigRawInput) (schema.Scope, error) {
	var s schema.Scope
	if input.Syllabus < 0 || input.Project < 0 || input.Group < 0 {
		return s, fmt.Errorf("scope IDs must not be negative")
	}
	if input.Syllabus != 0 {
		s = s.Syllabus(input.Syllabus)
	}
	if input.Group != 0 {
		s = s.Group(input.Group)
	}
	if input.Project != 0 {
		s = s.Project(input.Project)
	}
	if user := strings.TrimSpace(input.User); user != "" {
		s = s.User(user)
		if s.ProjectID == 0 && s.GroupID == 0 && s.SyllabusID == 0 {
			return schema.Scope{}, fmt.Errorf("--user needs --project, --group or --syllabus to pick an evaluation model")
		}
	}
	return s.WithMilestone(strings.TrimSpace(input.Milestone)), nil
}

// processListingFilters parses the --area and --cluster filters of variable listings.
func processListingFilters(cfg *Config, input *ConfigRawInput) error {
	area, cluster, err := ParseListingFilters(input.Area, input.Cluster)
	if err != nil {
		return err
	}
	cfg.AreaFilter = area
	cfg.ClusterFilter = cluster
	return nil
}

// ParseListingFilters parses an area and a cluster name. Empty names mean no filter.
func ParseListingFilters(areaName, clusterName string) (schema.Area, schema.Cluster, error) {
	area := schema.AreaNone
	if areaName != "" {
		parsed, ok := schema.ParseArea(areaName)
		if !ok {
			return 0, 0, fmt.Errorf("invalid area '%s'. must be user, project, group, syllabus", areaName)
		}
		area = parsed
	}

	var cluster schema.Cluster
	switch strings.ToLower(strings.TrimSpace(clusterName)) {
	case "":
	case "none":
		cluster = schema.ClusterNone
	case "milestone":
		cluster = schema.ClusterMilestone
	default:
		return 0, 0, fmt.Errorf("invalid cluster '%s'. must be none, milestone", clusterName)
	}
	return area, cluster, nil
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}
