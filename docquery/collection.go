package docquery

import (
	"context"
)

// Collection is the store handle a QueryPlan is executed against.
//
// Implementations are provided by the engine packages. They must be safe for concurrent use
// by multiple in-flight requests.
type Collection interface {
	// Count returns the total number of documents in the collection.
	Count(ctx context.Context) (int64, error)

	// Find returns the documents matching the plan's filter, ordered by its sort spec
	// and capped by its limit, fully materialized.
	Find(ctx context.Context, plan QueryPlan) (Documents, error)
}
