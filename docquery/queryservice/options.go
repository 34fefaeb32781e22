package queryservice

import (
	"errors"

	"github.com/AntonStoeckl/docquery-go/docquery"
	"github.com/AntonStoeckl/docquery-go/docquery/executor"
	"github.com/AntonStoeckl/docquery-go/docquery/normalizer"
	"github.com/AntonStoeckl/docquery-go/docquery/parser"
)

var ErrNilExecutor = errors.New("nil executor supplied")
var ErrEmptyFieldName = errors.New("empty field name supplied")

// Option defines a functional option for configuring a Service.
type Option func(*Service) error

// WithParser replaces the default parser, e.g. to address another collection.
func WithParser(p parser.Parser) Option {
	return func(s *Service) error {
		s.parser = p
		return nil
	}
}

// WithExecutor replaces the default executor, e.g. with one that carries metrics and tracing.
func WithExecutor(e *executor.Executor) Option {
	return func(s *Service) error {
		if e == nil {
			return ErrNilExecutor
		}

		s.executor = e

		return nil
	}
}

// WithNormalizer replaces the default normalizer used for WithNormalizedFields.
func WithNormalizer(n normalizer.Normalizer) Option {
	return func(s *Service) error {
		s.normalizer = n
		return nil
	}
}

// WithNormalizedFields renders the given fields of every found document as canonical strings.
func WithNormalizedFields(keys ...string) Option {
	return func(s *Service) error {
		for _, key := range keys {
			if key == "" {
				return ErrEmptyFieldName
			}
		}

		s.normalizedFields = append(s.normalizedFields[:0:0], keys...)

		return nil
	}
}

// WithLogger sets the logger for the Service.
//
// Debug level: received statements
// Info level: answered statements with result counts and durations
// Error level: rejected or failed statements.
func WithLogger(logger docquery.Logger) Option {
	return func(s *Service) error {
		s.logger = logger
		return nil
	}
}
