// Package config loads and validates pipeline configuration.
//
// Configuration is a single YAML file shared by every binary. ${VAR}
// references are expanded from the environment before parsing, so secrets
// (store password, provider API keys) can stay out of the file. Loading
// applies defaults for everything optional and then validates; a validation
// failure aborts the run before any work begins.
package config
