package config_test

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ajitpratap0/cudsviz/pkg/config"
)

// ExampleDefault shows the defaults every configuration starts from.
func ExampleDefault() {
	cfg := config.Default()

	fmt.Printf("Log level: %s\n", cfg.Logging.Level)
	fmt.Printf("Export format: %s\n", cfg.Output.Format)
	fmt.Printf("Compression: %s\n", cfg.Output.Compression)

	// Output:
	// Log level: info
	// Export format: parquet
	// Compression: none
}

// ExampleLoad demonstrates loading a YAML file with environment variable
// substitution.
func ExampleLoad() {
	dir, err := os.MkdirTemp("", "cudsviz-config-")
	if err != nil {
		fmt.Println(err)
		return
	}
	defer os.RemoveAll(dir)

	os.Setenv("EXAMPLE_CODEC", "zstd")
	defer os.Unsetenv("EXAMPLE_CODEC")

	path := filepath.Join(dir, "cudsviz.yaml")
	content := `
conversion:
  point_keys: [TEMPERATURE]
output:
  compression: ${EXAMPLE_CODEC}
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		fmt.Println(err)
		return
	}

	cfg, err := config.Load(path)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(cfg.Conversion.PointKeys, cfg.Output.Compression, cfg.Logging.Level)

	// Output:
	// [TEMPERATURE] zstd info
}

// ExampleConfig_Validate shows an invalid key list being rejected.
func ExampleConfig_Validate() {
	cfg := config.Default()
	cfg.Conversion.CellKeys = []string{"COLOUR"}

	fmt.Println(cfg.Validate())

	// Output:
	// config: invalid conversion.cell_keys: validation: unknown CUBA key
}
