package docquery

import (
	"context"
	"errors"
)

var (
	ErrUnsupportedStatement = errors.New("unsupported statement")
	ErrInvalidFilterSyntax  = errors.New("invalid filter syntax")
	ErrInvalidSortSyntax    = errors.New("invalid sort syntax")
	ErrInvalidLimitValue    = errors.New("invalid limit value")
	ErrExecutionFailure     = errors.New("query execution failed")
)

var ErrEmptyQuery = errors.New("empty query supplied")
var ErrEmptyCollectionName = errors.New("empty collection name supplied")
var ErrNilCollection = errors.New("nil collection supplied")
var ErrNilDatabaseConnection = errors.New("nil database connection supplied")
var ErrEmptyTableName = errors.New("empty table name supplied")
var ErrUnsupportedOperator = errors.New("unsupported filter operator")

// Error kinds as reported by ErrorKind.
const (
	ErrorKindNone                 = ""
	ErrorKindUnsupportedStatement = "unsupported_statement"
	ErrorKindInvalidFilterSyntax  = "invalid_filter_syntax"
	ErrorKindInvalidSortSyntax    = "invalid_sort_syntax"
	ErrorKindInvalidLimitValue    = "invalid_limit_value"
	ErrorKindExecutionFailure     = "execution_failure"
	ErrorKindEmptyQuery           = "empty_query"
	ErrorKindCanceled             = "canceled"
	ErrorKindUnknown              = "unknown"
)

// ErrorKind classifies err into one of the stable ErrorKind* labels.
// Parse errors take precedence over execution errors, a nil error yields ErrorKindNone.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ErrorKindNone
	case errors.Is(err, ErrEmptyQuery):
		return ErrorKindEmptyQuery
	case errors.Is(err, ErrUnsupportedStatement):
		return ErrorKindUnsupportedStatement
	case errors.Is(err, ErrInvalidFilterSyntax):
		return ErrorKindInvalidFilterSyntax
	case errors.Is(err, ErrInvalidSortSyntax):
		return ErrorKindInvalidSortSyntax
	case errors.Is(err, ErrInvalidLimitValue):
		return ErrorKindInvalidLimitValue
	case errors.Is(err, ErrExecutionFailure):
		return ErrorKindExecutionFailure
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ErrorKindCanceled
	default:
		return ErrorKindUnknown
	}
}
