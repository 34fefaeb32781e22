package queryservice

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/AntonStoeckl/docquery-go/docquery"
	"github.com/AntonStoeckl/docquery-go/docquery/executor"
	"github.com/AntonStoeckl/docquery-go/docquery/normalizer"
	"github.com/AntonStoeckl/docquery-go/docquery/parser"
)

const (
	logMsgQueryReceived = "query received"
	logMsgQueryAnswered = "query answered"
	logMsgQueryFailed   = "query failed"
	logAttrQuery        = "query"
	logAttrCollection   = "collection"
	logAttrError        = "error"
	logAttrErrorKind    = "error_kind"
	logAttrResultType   = "result_type"
	logAttrResultCount  = "result_count"
	logAttrDurationMS   = "duration_ms"
)

// Service answers raw statements against one collection.
// It is safe for concurrent use as long as the collection is.
type Service struct {
	collection       docquery.Collection
	parser           parser.Parser
	executor         *executor.Executor
	normalizer       normalizer.Normalizer
	normalizedFields []string
	logger           docquery.Logger
}

// New creates a Service over collection with a default parser, executor, and normalizer.
func New(collection docquery.Collection, options ...Option) (*Service, error) {
	if collection == nil {
		return nil, docquery.ErrNilCollection
	}

	p, err := parser.New()
	if err != nil {
		return nil, err
	}

	e, err := executor.New()
	if err != nil {
		return nil, err
	}

	n, err := normalizer.New()
	if err != nil {
		return nil, err
	}

	s := &Service{
		collection: collection,
		parser:     p,
		executor:   e,
		normalizer: n,
	}

	for _, option := range options {
		if err := option(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Collection returns the collection name statements must address.
func (s *Service) Collection() string {
	return s.parser.Collection()
}

// Query parses and runs raw.
//
// A blank statement fails with docquery.ErrEmptyQuery; everything else fails with the
// errors of the parser and the executor. Use docquery.ErrorKind to classify them.
func (s *Service) Query(ctx context.Context, raw string) (docquery.QueryResult, error) {
	statement := strings.TrimSpace(raw)
	s.logDebug(logMsgQueryReceived, logAttrQuery, statement, logAttrCollection, s.parser.Collection())

	if statement == "" {
		s.logError(docquery.ErrEmptyQuery, statement)
		return docquery.QueryResult{}, docquery.ErrEmptyQuery
	}

	start := time.Now()

	plan, err := s.parser.Parse(statement)
	if err != nil {
		s.logError(err, statement)
		return docquery.QueryResult{}, err
	}

	result, err := s.executor.Execute(ctx, plan, s.collection)
	if err != nil {
		s.logError(err, statement)
		return docquery.QueryResult{}, err
	}

	if len(s.normalizedFields) > 0 {
		result = result.MapDocuments(func(d docquery.Document) docquery.Document {
			return s.normalizer.Apply(d, s.normalizedFields...)
		})
	}

	s.logInfo(
		logMsgQueryAnswered,
		logAttrQuery, statement,
		logAttrResultType, string(result.Kind()),
		logAttrResultCount, result.Len(),
		logAttrDurationMS, toMilliseconds(time.Since(start)),
	)

	return result, nil
}

// QueryJSON runs raw like Query and encodes the result envelope, e.g. {"type":"count","data":5}.
func (s *Service) QueryJSON(ctx context.Context, raw string) ([]byte, error) {
	result, err := s.Query(ctx, raw)
	if err != nil {
		return nil, err
	}

	return result.MarshalJSON()
}

func (s *Service) logDebug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}

func (s *Service) logInfo(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Info(msg, args...)
	}
}

func (s *Service) logError(err error, statement string) {
	if s.logger != nil {
		s.logger.Error(
			logMsgQueryFailed,
			logAttrError, err.Error(),
			logAttrErrorKind, docquery.ErrorKind(err),
			logAttrQuery, statement,
		)
	}
}

func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}
