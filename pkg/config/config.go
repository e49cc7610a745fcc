package config

import (
	"github.com/ajitpratap0/cudsviz/pkg/compression"
	"github.com/ajitpratap0/cudsviz/pkg/cuba"
	"github.com/ajitpratap0/cudsviz/pkg/formats/columnar"
	"github.com/ajitpratap0/cudsviz/pkg/logger"
	"github.com/ajitpratap0/cudsviz/pkg/vizerrors"
)

// Config is the cudsviz configuration. Every section has usable defaults,
// so a config file only needs the values it changes.
type Config struct {
	// Logging configures the global zap logger
	Logging logger.Config `yaml:"logging" json:"logging"`

	// Conversion fixes the attribute schemas of converted datasets
	Conversion ConversionConfig `yaml:"conversion" json:"conversion"`

	// Output controls how converted datasets are persisted
	Output OutputConfig `yaml:"output" json:"output"`

	// Metrics controls Prometheus instrumentation
	Metrics MetricsConfig `yaml:"metrics" json:"metrics"`

	// Tracing controls OpenTelemetry span export
	Tracing TracingConfig `yaml:"tracing" json:"tracing"`

	// Batch controls concurrent conversion
	Batch BatchConfig `yaml:"batch" json:"batch"`
}

// ConversionConfig contains attribute schema settings. Empty key lists
// leave the accumulator in expanding mode, tracking every supported key
// the container carries.
type ConversionConfig struct {
	// PointKeys names the point attributes to keep, e.g. ["TEMPERATURE"]
	PointKeys []string `yaml:"point_keys,omitempty" json:"point_keys,omitempty"`
	// CellKeys names the cell attributes to keep
	CellKeys []string `yaml:"cell_keys,omitempty" json:"cell_keys,omitempty"`
}

// OutputConfig contains persistence settings.
type OutputConfig struct {
	// Format is the columnar export format (arrow, parquet, avro)
	Format string `yaml:"format" json:"format"`
	// Compression is the codec used when the output name implies none
	Compression string `yaml:"compression" json:"compression"`
	// Level is the codec level (fastest, default, better, best)
	Level string `yaml:"level" json:"level"`
	// Region and Endpoint configure s3:// outputs
	Region   string `yaml:"region" json:"region"`
	Endpoint string `yaml:"endpoint" json:"endpoint"`
	// CredentialsFile configures gs:// outputs
	CredentialsFile string `yaml:"credentials_file" json:"credentials_file"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled" json:"enabled"`
	Namespace string `yaml:"namespace" json:"namespace"`
	// Addr is the listen address of the /metrics endpoint, e.g. ":9090"
	Addr string `yaml:"addr" json:"addr"`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	Enabled      bool    `yaml:"enabled" json:"enabled"`
	ServiceName  string  `yaml:"service_name" json:"service_name"`
	SamplingRate float64 `yaml:"sampling_rate" json:"sampling_rate"`
}

// BatchConfig contains batch settings.
type BatchConfig struct {
	// Workers bounds concurrent conversions; 0 uses every CPU
	Workers int `yaml:"workers" json:"workers"`
	// Retries re-runs a job after a timeout or connection failure
	Retries int `yaml:"retries" json:"retries"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Logging: logger.DefaultConfig(),
		Output: OutputConfig{
			Format:      string(columnar.Parquet),
			Compression: string(compression.None),
			Level:       "default",
		},
		Metrics: MetricsConfig{
			Namespace: "cudsviz",
		},
		Tracing: TracingConfig{
			ServiceName:  "cudsviz",
			SamplingRate: 1.0,
		},
	}
}

// Validate validates the configuration for correctness.
func (c *Config) Validate() error {
	if _, _, err := c.Conversion.Keys(); err != nil {
		return err
	}
	if _, err := columnar.ParseFormat(c.Output.Format); err != nil {
		return vizerrors.Wrap(err, vizerrors.ErrorTypeConfig, "invalid output.format")
	}
	if _, err := c.Output.CompressionConfig(); err != nil {
		return err
	}
	if c.Metrics.Enabled && c.Metrics.Namespace == "" {
		return vizerrors.New(vizerrors.ErrorTypeConfig, "metrics.namespace is required when metrics are enabled")
	}
	if c.Tracing.SamplingRate < 0 || c.Tracing.SamplingRate > 1 {
		return vizerrors.New(vizerrors.ErrorTypeConfig, "tracing.sampling_rate must be between 0 and 1").
			WithDetail("sampling_rate", c.Tracing.SamplingRate)
	}
	if c.Batch.Workers < 0 {
		return vizerrors.New(vizerrors.ErrorTypeConfig, "batch.workers cannot be negative")
	}
	if c.Batch.Retries < 0 {
		return vizerrors.New(vizerrors.ErrorTypeConfig, "batch.retries cannot be negative")
	}
	return nil
}

// Keys parses the point and cell key lists.
func (c *ConversionConfig) Keys() (points, cells []cuba.Key, err error) {
	points, err = cuba.ParseKeys(c.PointKeys)
	if err != nil {
		return nil, nil, vizerrors.Wrap(err, vizerrors.ErrorTypeConfig, "invalid conversion.point_keys")
	}
	cells, err = cuba.ParseKeys(c.CellKeys)
	if err != nil {
		return nil, nil, vizerrors.Wrap(err, vizerrors.ErrorTypeConfig, "invalid conversion.cell_keys")
	}
	return points, cells, nil
}

// CompressionConfig returns the codec configuration of the output section.
func (o *OutputConfig) CompressionConfig() (*compression.Config, error) {
	alg, err := compression.ParseAlgorithm(o.Compression)
	if err != nil {
		return nil, vizerrors.Wrap(err, vizerrors.ErrorTypeConfig, "invalid output.compression")
	}
	level, err := compression.ParseLevel(o.Level)
	if err != nil {
		return nil, vizerrors.Wrap(err, vizerrors.ErrorTypeConfig, "invalid output.level")
	}
	return &compression.Config{Algorithm: alg, Level: level}, nil
}
