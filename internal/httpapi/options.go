package httpapi

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/AntonStoeckl/docquery-go/docquery"
)

// Option defines a functional option for configuring the router.
type Option func(*Server) error

// WithLogger sets the logger for requests and failed queries.
func WithLogger(logger docquery.Logger) Option {
	return func(s *Server) error {
		s.logger = logger
		return nil
	}
}

// WithGatherer serves the gathered metrics on /metrics.
func WithGatherer(gatherer prometheus.Gatherer) Option {
	return func(s *Server) error {
		s.gatherer = gatherer
		return nil
	}
}

// WithAllowedOrigin sets the Access-Control-Allow-Origin header. The default is "*".
func WithAllowedOrigin(origin string) Option {
	return func(s *Server) error {
		s.allowedOrigin = origin
		return nil
	}
}
