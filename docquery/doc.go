// Package docquery provides the core types of a small, shell-like query language
// over document collections.
//
// A statement such as
//
//	alarm_info.find({'level': 'critical'}).sort({'end_time': -1}).limit(20)
//
// is parsed (package parser) into an immutable QueryPlan, which an Executor (package executor)
// runs against a Collection. Collections are provided by the engine packages
// (mongoengine, postgresengine, memengine).
//
// Documents returned by a Collection are ordered sequences of fields whose values are
// tagged unions (Value) over null, boolean, number, string, timestamp, nested document,
// and array. The normalizer package renders such values into canonical display strings.
//
// Key types:
//   - Value: a read-only stored value
//   - Document / Documents: ordered field mappings, used for stored documents, filters, and sort specs
//   - QueryPlan: the parsed, validated form of a statement (Count or Find)
//   - QueryResult: the count or the ordered documents produced by executing a QueryPlan
//   - Collection: the store handle an engine implements
//
// Common usage pattern:
//
//	plan, err := parser.New(parser.WithCollection("alarm_info")).Parse(raw)
//	if err != nil {
//		// errors.Is(err, docquery.ErrInvalidFilterSyntax) etc.
//	}
//
//	result, err := exec.Execute(ctx, plan, collection)
//	if err != nil {
//		// errors.Is(err, docquery.ErrExecutionFailure)
//	}
//
//	payload, err := result.MarshalJSON() // {"type":"find","data":[...]}
package docquery
