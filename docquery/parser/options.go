package parser

import (
	"github.com/AntonStoeckl/docquery-go/docquery"
)

// Option defines a functional option for configuring a Parser.
type Option func(*Parser) error

// WithCollection sets the single collection name statements must address.
// The name is matched case-insensitively, like the statement keywords.
func WithCollection(name string) Option {
	return func(p *Parser) error {
		if name == "" {
			return docquery.ErrEmptyCollectionName
		}

		p.collection = name

		return nil
	}
}

// WithExtractionMode sets how arguments between parentheses are delimited.
func WithExtractionMode(mode ExtractionMode) Option {
	return func(p *Parser) error {
		p.mode = mode
		return nil
	}
}

// WithBalancedParentheses is shorthand for WithExtractionMode(ExtractionBalanced).
func WithBalancedParentheses() Option {
	return WithExtractionMode(ExtractionBalanced)
}

// WithLogger sets the logger for the Parser.
// Accepted and rejected statements are logged at debug level.
func WithLogger(logger docquery.Logger) Option {
	return func(p *Parser) error {
		p.logger = logger
		return nil
	}
}
