// Package queryservice ties the parser, the executor and the normalizer together
// into the single entry point used by the HTTP API and the CLI.
//
// A Service accepts a raw statement, parses it into a QueryPlan for its configured
// collection, runs it, and optionally renders selected fields of the found documents
// through the normalizer:
//
//	svc, err := queryservice.New(collection, queryservice.WithNormalizedFields("start_time", "end_time"))
//	result, err := svc.Query(ctx, "db.alarm_info.find({'level': 'critical'}).limit(10)")
package queryservice
