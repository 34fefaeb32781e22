package postgresengine

import (
	"github.com/AntonStoeckl/docquery-go/docquery"
)

// Option defines a functional option for configuring a Collection.
type Option func(*Collection) error

// WithTableName sets the table the documents are stored in.
func WithTableName(tableName string) Option {
	return func(c *Collection) error {
		if tableName == "" {
			return docquery.ErrEmptyTableName
		}

		c.query.table = tableName

		return nil
	}
}

// WithDocumentColumn sets the JSONB column that holds the documents.
func WithDocumentColumn(column string) Option {
	return func(c *Collection) error {
		if column == "" {
			return ErrEmptyDocumentColumn
		}

		c.query.column = column

		return nil
	}
}

// WithLogger sets the logger for the Collection.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: SQL statements with execution timing (development use)
// Info level: inserted document counts
// Error level: failures to build or run statements and to decode stored documents.
func WithLogger(logger docquery.Logger) Option {
	return func(c *Collection) error {
		c.logger = logger
		return nil
	}
}
