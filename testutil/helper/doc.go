// Package helper provides test doubles and fixtures shared by the docquery test suites:
// spies for slog handlers, metrics collectors, tracing collectors, and contextual loggers,
// alarm document fixtures, and environment-gated connection settings for integration tests.
package helper
