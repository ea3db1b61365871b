// Package config defines the configuration for SchoolPulse Exportd.
//
// Configuration is loaded once at process start from a YAML file, defaults
// are applied, SCHOOLPULSE_* environment variables override file values,
// and the result is validated. The loaded Config is immutable for the life
// of the process and is passed explicitly into constructors; nothing reads
// the environment after startup.
package config
