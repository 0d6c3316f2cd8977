package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-hydrograph/pkg/artifact"
	"github.com/dd0wney/cluso-hydrograph/pkg/simulation"
	"github.com/dd0wney/cluso-hydrograph/pkg/validation"
)

// DefaultFile is looked up in the working directory when no path is given.
const DefaultFile = "hydrograph.yaml"

// Environment overrides.
const (
	EnvLogLevel = "LOG_LEVEL"
	EnvVersion  = "HYDROGRAPH_VERSION"
)

// Config is the run configuration shared by every command.
type Config struct {
	Version    string           `yaml:"version" validate:"version"`
	Data       DataConfig       `yaml:"data"`
	Build      BuildConfig      `yaml:"build"`
	Store      StoreConfig      `yaml:"store"`
	Simulation SimulationConfig `yaml:"simulation"`
	Validation ValidationConfig `yaml:"validation"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Logging    LoggingConfig    `yaml:"logging"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}

// DataConfig locates the DSL datasets; version v is read from Dir/v.
type DataConfig struct {
	Dir string `yaml:"dir" validate:"required"`
}

// BuildConfig names the compiled outputs, stored under Dir/<version>.
type BuildConfig struct {
	Dir      string `yaml:"dir" validate:"required"`
	Artifact string `yaml:"artifact" validate:"required"`
	Summary  string `yaml:"summary"`
	DOT      string `yaml:"dot"`
}

// StoreConfig selects where artifacts, telemetry and reports are written.
type StoreConfig struct {
	Backend string   `yaml:"backend" validate:"oneof=local s3"`
	Local   LocalDir `yaml:"local"`
	S3      S3Config `yaml:"s3"`
}

// LocalDir is the root of the local store.
type LocalDir struct {
	Root string `yaml:"root"`
}

// S3Config mirrors artifact.S3Config.
type S3Config struct {
	Bucket          string `yaml:"bucket"`
	Prefix          string `yaml:"prefix"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	UsePathStyle    bool   `yaml:"use_path_style"`
}

// SimulationConfig drives synthetic telemetry generation.
type SimulationConfig struct {
	Root       string        `yaml:"root" validate:"required,nodeid"`
	Seed       uint64        `yaml:"seed"`
	Workers    int           `yaml:"workers" validate:"gte=1,lte=256"`
	Start      time.Time     `yaml:"start"`
	Interval   time.Duration `yaml:"interval"`
	Duration   time.Duration `yaml:"duration"`
	LeakNode   string        `yaml:"leak_node" validate:"required,nodeid"`
	MisuseNode string        `yaml:"misuse_node" validate:"required,nodeid"`
	OutputDir  string        `yaml:"output_dir" validate:"required"`

	// Model overrides; zero values keep the reference constants.
	NoiseMin     float64 `yaml:"noise_min"`
	NoiseMax     float64 `yaml:"noise_max"`
	LeakOffset   float64 `yaml:"leak_offset"`
	MisuseOffset float64 `yaml:"misuse_offset"`
}

// ValidationConfig configures the rule engine.
type ValidationConfig struct {
	ReportDir     string  `yaml:"report_dir" validate:"required"`
	ReportFile    string  `yaml:"report_file" validate:"required"`
	Strict        bool    `yaml:"strict"`
	UphillLimit   float64 `yaml:"uphill_limit"`
	DownhillLimit float64 `yaml:"downhill_limit"`
}

// TelemetryConfig enables the optional PostgreSQL sink.
type TelemetryConfig struct {
	PostgresDSN string `yaml:"postgres_dsn"`
	Table       string `yaml:"table"`
	MaxConns    int32  `yaml:"max_conns" validate:"gte=0"`
}

// LoggingConfig sets the default logger level and line format.
type LoggingConfig struct {
	Level  string `yaml:"level" validate:"oneof=DEBUG INFO WARN WARNING ERROR debug info warn warning error"`
	Format string `yaml:"format" validate:"oneof=json text"`
}

// MetricsConfig enables the Prometheus textfile export.
type MetricsConfig struct {
	TextfilePath string `yaml:"textfile_path"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	defaults := simulation.DefaultParams()
	tl := simulation.DefaultTimeline()
	return &Config{
		Version: "v1",
		Data:    DataConfig{Dir: "data"},
		Build: BuildConfig{
			Dir:      "build",
			Artifact: "graph.bin",
			Summary:  "graph_summary.json",
			DOT:      "graph.dot",
		},
		Store: StoreConfig{
			Backend: "local",
			Local:   LocalDir{Root: "."},
		},
		Simulation: SimulationConfig{
			Root:         simulation.DefaultRoot,
			Seed:         42,
			Workers:      4,
			Start:        tl.Start,
			Interval:     tl.Interval,
			Duration:     tl.Duration,
			LeakNode:     "Floor3_Inlet.Bath1",
			MisuseNode:   "Floor1_Inlet.Kitchen",
			OutputDir:    "output",
			NoiseMin:     defaults.NoiseMin,
			NoiseMax:     defaults.NoiseMax,
			LeakOffset:   defaults.LeakOffset,
			MisuseOffset: defaults.MisuseOffset,
		},
		Validation: ValidationConfig{
			ReportDir:     "reports",
			ReportFile:    "validation_report.json",
			UphillLimit:   5.0,
			DownhillLimit: -10.0,
		},
		Telemetry: TelemetryConfig{Table: "telemetry"},
		Logging:   LoggingConfig{Level: "INFO", Format: "json"},
	}
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. A missing file is not an error when path is
// DefaultFile.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && path == DefaultFile:
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from the environment.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvVersion); v != "" {
		c.Version = v
	}
}

// Validate checks struct tags first, then cross-field constraints.
func (c *Config) Validate() error {
	if err := validation.Struct(c); err != nil {
		return err
	}
	return validation.NewConfigValidator("config").
		When(c.Store.Backend == "s3", func(cv *validation.ConfigValidator) {
			cv.Required("store.s3.bucket", c.Store.S3.Bucket)
		}).
		When(c.Store.Backend == "local", func(cv *validation.ConfigValidator) {
			cv.Required("store.local.root", c.Store.Local.Root)
		}).
		MinDuration("simulation.interval", c.Simulation.Interval, time.Second).
		Multiple("simulation.duration", c.Simulation.Duration, c.Simulation.Interval).
		NonNegativeFloat("simulation.noise_min", c.Simulation.NoiseMin).
		Ordered("simulation.noise_min", c.Simulation.NoiseMin, "simulation.noise_max", c.Simulation.NoiseMax).
		NonNegativeFloat("simulation.leak_offset", c.Simulation.LeakOffset).
		NonNegativeFloat("simulation.misuse_offset", c.Simulation.MisuseOffset).
		PositiveFloat("validation.uphill_limit", c.Validation.UphillLimit).
		Custom("validation.downhill_limit", func() error {
			if c.Validation.DownhillLimit >= 0 {
				return fmt.Errorf("value %g must be negative", c.Validation.DownhillLimit)
			}
			return nil
		}).
		Validate()
}

// DatasetDir is the directory holding the DSL files of the version.
func (c *Config) DatasetDir() string {
	return path.Join(c.Data.Dir, c.Version)
}

// ArtifactKey is the store key of the compiled graph.
func (c *Config) ArtifactKey() string {
	return artifact.Key(c.Build.Dir, c.Version, c.Build.Artifact)
}

// BuildKey is the store key of another build output such as the summary.
func (c *Config) BuildKey(name string) string {
	return artifact.Key(c.Build.Dir, c.Version, name)
}

// OutputPrefix is the store prefix of telemetry outputs.
func (c *Config) OutputPrefix() string {
	return artifact.Key(c.Simulation.OutputDir, c.Version)
}

// ReportKey is the store key of the validation report.
func (c *Config) ReportKey() string {
	return artifact.Key(c.Validation.ReportDir, c.Version, c.Validation.ReportFile)
}

// Timeline converts the simulation window.
func (c *Config) Timeline() simulation.Timeline {
	return simulation.Timeline{
		Start:    c.Simulation.Start,
		Interval: c.Simulation.Interval,
		Duration: c.Simulation.Duration,
	}
}

// Params applies the configured model overrides to the reference constants.
func (c *Config) Params() simulation.Params {
	p := simulation.DefaultParams()
	p.NoiseMin = validation.DefaultOr(c.Simulation.NoiseMin, p.NoiseMin)
	p.NoiseMax = validation.DefaultOr(c.Simulation.NoiseMax, p.NoiseMax)
	p.LeakOffset = validation.DefaultOr(c.Simulation.LeakOffset, p.LeakOffset)
	p.MisuseOffset = validation.DefaultOr(c.Simulation.MisuseOffset, p.MisuseOffset)
	return p
}

// S3 converts the S3 section for artifact.NewS3Store.
func (c *Config) S3() artifact.S3Config {
	s := c.Store.S3
	return artifact.S3Config{
		Bucket:          s.Bucket,
		Prefix:          s.Prefix,
		Region:          s.Region,
		Endpoint:        s.Endpoint,
		AccessKeyID:     s.AccessKeyID,
		SecretAccessKey: s.SecretAccessKey,
		UsePathStyle:    s.UsePathStyle,
	}
}
