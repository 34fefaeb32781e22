// Package executor runs parsed query plans against a docquery.Collection.
//
// Count plans return the total number of documents of the collection. Find plans return the
// matching documents, ordered and limited as the plan says; a limit of zero yields an empty
// result without a round trip to the store. Store failures are reported as
// docquery.ErrExecutionFailure and never produce a partial result.
//
// The Executor is synchronous. It passes the caller's context to the collection and adds no
// timeouts of its own. Logging, metrics, and tracing are optional and configured via options.
package executor
