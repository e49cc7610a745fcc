// Package config provides configuration loading for cudsviz.
//
// # Sources
//
// A configuration comes from three layers, later ones winning:
//
//   - Default(): usable values for every section
//   - a YAML file read by Load, with ${VAR_NAME} substitution
//   - viper overrides from bound flags and CUDSVIZ_ environment variables,
//     applied by FromViper
//
// # File Format
//
//	logging:
//	  level: debug
//	conversion:
//	  point_keys: [TEMPERATURE, VELOCITY]
//	output:
//	  compression: zstd
//	  level: better
//	  region: ${AWS_REGION}
//	metrics:
//	  enabled: true
//	  addr: ":9090"
//
// Every loaded configuration is validated: key lists must name CUBA keys,
// and the export format and output codec must be supported.
package config
