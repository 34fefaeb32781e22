// Package config loads the docquery binary configuration from an optional YAML file
// and DOCQUERY_ environment variables, and turns it into connections for the selected engine.
package config
