// Package httpapi exposes a query service over HTTP with gin.
//
// Routes:
//
//	POST /api/mongo/query      {"query": "db.alarm_info.count()"}
//	POST /api/mongo/query/raw  the statement as the plain request body
//	GET  /api/mongo/health
//	GET  /metrics              Prometheus exposition, if a gatherer is configured
//
// Query responses are {"success": bool, "message": string, "result": {"type": ..., "data": ...} | null}.
package httpapi
