package memengine

import (
	"github.com/AntonStoeckl/docquery-go/docquery"
)

// Option defines a functional option for configuring a Collection.
type Option func(*Collection) error

// WithDocuments preloads the collection.
func WithDocuments(documents ...docquery.Document) Option {
	return func(c *Collection) error {
		c.Insert(documents...)
		return nil
	}
}

// WithLogger sets the logger for the Collection. Find statistics are logged at debug level.
func WithLogger(logger docquery.Logger) Option {
	return func(c *Collection) error {
		c.logger = logger
		return nil
	}
}
