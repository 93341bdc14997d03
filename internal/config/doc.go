// Package config loads application settings from a YAML file with
// environment-variable overrides. Validation is advisory: bad values
// produce warnings, and each component enforces its own hard preconditions
// at construction time.
package config
