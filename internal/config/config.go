package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// ScoringWeights are the coefficients the scoring package uses to turn raw
// match outcomes into the two-objective fitness values.
type ScoringWeights struct {
	HostCriticalityMultiplier float64 `mapstructure:"host_criticality_multiplier" yaml:"host_criticality_multiplier" validate:"gt=0"`
	CredentialValue           float64 `mapstructure:"credential_value" yaml:"credential_value" validate:"gte=0"`
	ExfiltrationBonus         float64 `mapstructure:"exfiltration_bonus" yaml:"exfiltration_bonus" validate:"gte=0"`
	KillChainLengthValue      float64 `mapstructure:"kill_chain_length_value" yaml:"kill_chain_length_value" validate:"gte=0"`
	DetectionValue            float64 `mapstructure:"detection_value" yaml:"detection_value" validate:"gte=0"`
	PreventionValue           float64 `mapstructure:"prevention_value" yaml:"prevention_value" validate:"gte=0"`
	NoExfilBonus              float64 `mapstructure:"no_exfil_bonus" yaml:"no_exfil_bonus" validate:"gte=0"`
	FalsePositivePenalty      float64 `mapstructure:"false_positive_penalty" yaml:"false_positive_penalty" validate:"gte=0"`
}

func DefaultScoringWeights() ScoringWeights {
	return ScoringWeights{
		HostCriticalityMultiplier: 10.0,
		CredentialValue:           3.0,
		ExfiltrationBonus:         50.0,
		KillChainLengthValue:      2.0,
		DetectionValue:            10.0,
		PreventionValue:           10.0,
		NoExfilBonus:              30.0,
		FalsePositivePenalty:      5.0,
	}
}

// LoggerConfig controls the zap-backed structured logger.
type LoggerConfig struct {
	Level       string   `mapstructure:"level" yaml:"level" validate:"oneof=debug info warn error"`
	Format      string   `mapstructure:"format" yaml:"format" validate:"oneof=console json"`
	OutputPaths []string `mapstructure:"output_paths" yaml:"output_paths"`
}

// TelemetryConfig controls OpenTelemetry tracing export.
type TelemetryConfig struct {
	Enabled      bool    `mapstructure:"enabled" yaml:"enabled"`
	ServiceName  string  `mapstructure:"service_name" yaml:"service_name"`
	ExporterType string  `mapstructure:"exporter_type" yaml:"exporter_type" validate:"oneof=otlp none"`
	Endpoint     string  `mapstructure:"endpoint" yaml:"endpoint"`
	SampleRate   float64 `mapstructure:"sample_rate" yaml:"sample_rate" validate:"gte=0,lte=1"`
}

// RedisConfig controls the best-effort metrics-stream publisher.
type RedisConfig struct {
	Addr    string `mapstructure:"addr" yaml:"addr"`
	Channel string `mapstructure:"channel" yaml:"channel"`
	DB      int    `mapstructure:"db" yaml:"db"`
}

// WorkerConfig controls the matchup-dispatch worker pool.
type WorkerConfig struct {
	Count int `mapstructure:"count" yaml:"count" validate:"gte=1"`
}

// Config is the full ACES run configuration, mirroring every externally
// visible knob described for the co-evolution loop.
type Config struct {
	PopulationSize       int            `mapstructure:"population_size" yaml:"population_size" validate:"gte=4"`
	NumGenerations       int            `mapstructure:"num_generations" yaml:"num_generations" validate:"gte=1"`
	TournamentSize       int            `mapstructure:"tournament_size" yaml:"tournament_size" validate:"gte=2"`
	CrossoverRate        float64        `mapstructure:"crossover_rate" yaml:"crossover_rate" validate:"gte=0,lte=1"`
	MutationRate         float64        `mapstructure:"mutation_rate" yaml:"mutation_rate" validate:"gte=0,lte=1"`
	MaxAttackChainLength int            `mapstructure:"max_attack_chain_length" yaml:"max_attack_chain_length" validate:"gte=2"`
	DefenderBudget       float64        `mapstructure:"defender_budget" yaml:"defender_budget" validate:"gt=0"`
	NetworkSize          int            `mapstructure:"network_size" yaml:"network_size" validate:"gte=1"`
	HallOfFameSize       int            `mapstructure:"hall_of_fame_size" yaml:"hall_of_fame_size" validate:"gte=1"`
	MatchupsPerEval       int           `mapstructure:"matchups_per_eval" yaml:"matchups_per_eval" validate:"gte=1"`
	StagnationWindow     int            `mapstructure:"stagnation_window" yaml:"stagnation_window" validate:"gte=1"`
	ImmigrantFraction    float64        `mapstructure:"immigrant_fraction" yaml:"immigrant_fraction" validate:"gte=0,lte=1"`
	HOFOpponentFraction  float64        `mapstructure:"hof_opponent_fraction" yaml:"hof_opponent_fraction" validate:"gte=0,lte=1"`
	Scoring              ScoringWeights `mapstructure:"scoring" yaml:"scoring"`
	OutputDir            string         `mapstructure:"output_dir" yaml:"output_dir" validate:"required"`
	Seed                 int64          `mapstructure:"seed" yaml:"seed"`

	Logger    LoggerConfig    `mapstructure:"logger" yaml:"logger"`
	Telemetry TelemetryConfig `mapstructure:"telemetry" yaml:"telemetry"`
	Redis     RedisConfig     `mapstructure:"redis" yaml:"redis"`
	Worker    WorkerConfig    `mapstructure:"worker" yaml:"worker"`
}

// DefaultConfig mirrors the reference implementation's defaults exactly.
func DefaultConfig() *Config {
	return &Config{
		PopulationSize:       80,
		NumGenerations:       300,
		TournamentSize:       5,
		CrossoverRate:        0.7,
		MutationRate:         0.2,
		MaxAttackChainLength: 12,
		DefenderBudget:       15,
		NetworkSize:          25,
		HallOfFameSize:       10,
		MatchupsPerEval:      5,
		StagnationWindow:     20,
		ImmigrantFraction:    0.1,
		HOFOpponentFraction:  0.2,
		Scoring:              DefaultScoringWeights(),
		OutputDir:            "results",
		Seed:                 42,
		Logger: LoggerConfig{
			Level:       "info",
			Format:      "console",
			OutputPaths: []string{"stdout"},
		},
		Telemetry: TelemetryConfig{
			Enabled:      false,
			ServiceName:  "aces",
			ExporterType: "none",
			Endpoint:     "localhost:4317",
			SampleRate:   1.0,
		},
		Redis: RedisConfig{
			Addr:    "localhost:6379",
			Channel: "aces:generations",
			DB:      0,
		},
		Worker: WorkerConfig{
			Count: 4,
		},
	}
}

// Validate runs struct-tag validation plus the cross-field checks a plain
// validator tag can't express.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}
	if c.TournamentSize > c.PopulationSize {
		return fmt.Errorf("config: tournament_size (%d) cannot exceed population_size (%d)", c.TournamentSize, c.PopulationSize)
	}
	if c.DefenderBudget < 1 {
		return fmt.Errorf("config: defender_budget (%.2f) is too small to field a minimally viable defense genome", c.DefenderBudget)
	}
	return nil
}

func formatValidationError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("config: field %q is required", fe.Namespace())
	case "gte", "gt", "lte", "lt":
		return fmt.Errorf("config: field %q fails constraint %s=%s (got %v)", fe.Namespace(), fe.Tag(), fe.Param(), fe.Value())
	case "oneof":
		return fmt.Errorf("config: field %q must be one of %q (got %v)", fe.Namespace(), fe.Param(), fe.Value())
	default:
		return fmt.Errorf("config: field %q failed validation %q", fe.Namespace(), fe.Tag())
	}
}

// LoadYAML reads and validates a Config from a YAML file, filling any
// missing fields from DefaultConfig first.
func LoadYAML(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveYAML writes the config to disk for reproducibility alongside a run's
// results.
func (c *Config) SaveYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}
