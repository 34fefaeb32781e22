package mongoengine

import (
	"github.com/AntonStoeckl/docquery-go/docquery"
)

// Option defines a functional option for configuring a Collection.
type Option func(*Collection) error

// WithLogger sets the logger for the Collection.
// Debug level receives every server round trip with its duration,
// error level receives failed commands.
func WithLogger(logger docquery.Logger) Option {
	return func(c *Collection) error {
		c.logger = logger
		return nil
	}
}
