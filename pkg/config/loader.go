package config

import (
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ajitpratap0/cudsviz/pkg/vizerrors"
)

// EnvPrefix prefixes environment overrides, e.g. CUDSVIZ_LOGGING_LEVEL.
const EnvPrefix = "CUDSVIZ"

// Load reads a YAML configuration file over the defaults, substituting
// ${VAR} references from the environment, and validates the result.
func Load(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath) //nolint:gosec // G304: path comes from the --config flag
	if err != nil {
		return nil, vizerrors.Wrap(err, vizerrors.ErrorTypeFile, "failed to read config file").
			WithDetail("path", filePath)
	}

	cfg := Default()
	content := substituteEnvVars(string(data))
	if err := yaml.Unmarshal([]byte(content), cfg); err != nil {
		return nil, vizerrors.Wrap(err, vizerrors.ErrorTypeConfig, "failed to parse YAML").
			WithDetail("path", filePath)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to filePath as YAML.
func Save(filePath string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return vizerrors.Wrap(err, vizerrors.ErrorTypeConfig, "failed to marshal YAML")
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil { //nolint:gosec
		return vizerrors.Wrap(err, vizerrors.ErrorTypeFile, "failed to write config file").
			WithDetail("path", filePath)
	}

	return nil
}

// substituteEnvVars replaces ${VAR_NAME} with environment variable values
func substituteEnvVars(content string) string {
	for {
		start := strings.Index(content, "${")
		if start == -1 {
			break
		}
		end := strings.Index(content[start:], "}")
		if end == -1 {
			break
		}
		end += start

		varName := content[start+2 : end]
		envValue := os.Getenv(varName)
		content = content[:start] + envValue + content[end+1:]
	}
	return content
}

// Keys recognised by FromViper. Flags bound under these names and
// environment variables such as CUDSVIZ_OUTPUT_COMPRESSION override the
// file.
const (
	KeyLogLevel        = "logging.level"
	KeyLogEncoding     = "logging.encoding"
	KeyPointKeys       = "conversion.point_keys"
	KeyCellKeys        = "conversion.cell_keys"
	KeyOutputFormat    = "output.format"
	KeyCompression     = "output.compression"
	KeyLevel           = "output.level"
	KeyRegion          = "output.region"
	KeyEndpoint        = "output.endpoint"
	KeyCredentialsFile = "output.credentials_file"
	KeyMetricsEnabled  = "metrics.enabled"
	KeyMetricsAddr     = "metrics.addr"
	KeyTracingEnabled  = "tracing.enabled"
	KeySamplingRate    = "tracing.sampling_rate"
	KeyWorkers         = "batch.workers"
	KeyRetries         = "batch.retries"
)

// NewViper returns a viper instance reading CUDSVIZ_ environment variables.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// FromViper overlays every key set in v onto base, or onto the defaults
// when base is nil, and validates the result.
func FromViper(v *viper.Viper, base *Config) (*Config, error) {
	cfg := Default()
	if base != nil {
		copied := *base
		cfg = &copied
	}

	setString := func(key string, dst *string) {
		if v.IsSet(key) {
			*dst = v.GetString(key)
		}
	}
	setStrings := func(key string, dst *[]string) {
		if v.IsSet(key) {
			*dst = splitList(v.GetStringSlice(key))
		}
	}
	setBool := func(key string, dst *bool) {
		if v.IsSet(key) {
			*dst = v.GetBool(key)
		}
	}

	setString(KeyLogLevel, &cfg.Logging.Level)
	setString(KeyLogEncoding, &cfg.Logging.Encoding)
	setStrings(KeyPointKeys, &cfg.Conversion.PointKeys)
	setStrings(KeyCellKeys, &cfg.Conversion.CellKeys)
	setString(KeyOutputFormat, &cfg.Output.Format)
	setString(KeyCompression, &cfg.Output.Compression)
	setString(KeyLevel, &cfg.Output.Level)
	setString(KeyRegion, &cfg.Output.Region)
	setString(KeyEndpoint, &cfg.Output.Endpoint)
	setString(KeyCredentialsFile, &cfg.Output.CredentialsFile)
	setBool(KeyMetricsEnabled, &cfg.Metrics.Enabled)
	setString(KeyMetricsAddr, &cfg.Metrics.Addr)
	setBool(KeyTracingEnabled, &cfg.Tracing.Enabled)
	if v.IsSet(KeySamplingRate) {
		cfg.Tracing.SamplingRate = v.GetFloat64(KeySamplingRate)
	}
	if v.IsSet(KeyWorkers) {
		cfg.Batch.Workers = v.GetInt(KeyWorkers)
	}
	if v.IsSet(KeyRetries) {
		cfg.Batch.Retries = v.GetInt(KeyRetries)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// splitList accepts both repeated values and one comma-separated value,
// which is how list environment variables arrive.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
