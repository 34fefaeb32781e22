package executor

import (
	"context"
	"errors"
	"time"

	"github.com/AntonStoeckl/docquery-go/docquery"
)

const (
	logMsgExecuted        = "query executed"
	logMsgExecutionFailed = "query execution failed"
	logMsgShortCircuit    = "zero limit, store not queried"
	logAttrError          = "error"
	logAttrPlan           = "plan"
	logAttrKind           = "kind"
	logAttrResultCount    = "result_count"
	logAttrDurationMS     = "duration_ms"
)

// Executor runs query plans. It is safe for concurrent use.
type Executor struct {
	logger           docquery.Logger
	contextualLogger docquery.ContextualLogger
	metricsCollector docquery.MetricsCollector
	tracingCollector docquery.TracingCollector
}

// New creates an Executor with optional configuration.
func New(options ...Option) (*Executor, error) {
	e := &Executor{}

	for _, option := range options {
		if err := option(e); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// Execute runs plan against collection.
//
// Errors from the collection are returned joined with docquery.ErrExecutionFailure.
func (e *Executor) Execute(
	ctx context.Context,
	plan docquery.QueryPlan,
	collection docquery.Collection,
) (docquery.QueryResult, error) {

	if collection == nil {
		return docquery.QueryResult{}, docquery.ErrNilCollection
	}

	tracer, ctx := e.startExecuteTracing(ctx, plan)
	metrics := e.startExecuteMetrics(ctx, plan)

	start := time.Now()
	result, err := e.run(ctx, plan, collection)
	duration := time.Since(start)

	if err != nil {
		errorType := docquery.ErrorKind(err)
		tracer.finishError(errorType, duration)
		metrics.recordError(errorType, duration)
		e.logError(ctx, logMsgExecutionFailed, err, logAttrPlan, plan.String(), logAttrDurationMS, e.toMilliseconds(duration))

		return docquery.QueryResult{}, err
	}

	tracer.finishSuccess(result, duration)
	metrics.recordSuccess(result, duration)
	e.logOperation(
		ctx,
		logMsgExecuted,
		logAttrKind, plan.Kind().String(),
		logAttrResultCount, result.Len(),
		logAttrDurationMS, e.toMilliseconds(duration),
	)

	return result, nil
}

func (e *Executor) run(
	ctx context.Context,
	plan docquery.QueryPlan,
	collection docquery.Collection,
) (docquery.QueryResult, error) {

	switch plan.Kind() {
	case docquery.PlanCount:
		n, err := collection.Count(ctx)
		if err != nil {
			return docquery.QueryResult{}, errors.Join(docquery.ErrExecutionFailure, err)
		}

		return docquery.CountResult(n), nil

	case docquery.PlanFind:
		if limit, hasLimit := plan.Limit(); hasLimit && limit == 0 {
			e.logDebug(ctx, logMsgShortCircuit, logAttrPlan, plan.String())
			return docquery.FindResult(nil), nil
		}

		documents, err := collection.Find(ctx, plan)
		if err != nil {
			return docquery.QueryResult{}, errors.Join(docquery.ErrExecutionFailure, err)
		}

		return docquery.FindResult(documents), nil

	default:
		return docquery.QueryResult{}, docquery.ErrUnsupportedStatement
	}
}
