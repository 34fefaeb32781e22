package memengine

import (
	"context"
	"sync"

	"github.com/AntonStoeckl/docquery-go/docquery"
)

const (
	logMsgFindCompleted = "memory find completed"
	logAttrScanned      = "scanned"
	logAttrMatched      = "matched"
)

// Collection is a thread-safe, in-memory docquery.Collection.
// Documents are returned in insertion order unless a sort is requested.
type Collection struct {
	mu        sync.RWMutex
	documents docquery.Documents
	logger    docquery.Logger
}

// NewCollection creates an empty Collection with optional configuration.
func NewCollection(options ...Option) (*Collection, error) {
	c := &Collection{documents: make(docquery.Documents, 0)}

	for _, option := range options {
		if err := option(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// Insert appends documents to the collection.
func (c *Collection) Insert(documents ...docquery.Document) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, d := range documents {
		c.documents = append(c.documents, d.Clone())
	}
}

// Count returns the number of stored documents.
func (c *Collection) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	return int64(len(c.documents)), nil
}

// Find returns the documents matching the plan's filter, sorted and limited like MongoDB does:
// a negative limit is applied by its absolute value and a zero limit means no limit.
func (c *Collection) Find(ctx context.Context, plan docquery.QueryPlan) (docquery.Documents, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	snapshot := make(docquery.Documents, len(c.documents))
	copy(snapshot, c.documents)
	c.mu.RUnlock()

	matched := make(docquery.Documents, 0)
	for _, d := range snapshot {
		ok, err := Matches(d, plan.Filter())
		if err != nil {
			return nil, err
		}

		if ok {
			matched = append(matched, d)
		}
	}

	if order, hasSort := plan.Sort(); hasSort {
		if err := Sort(matched, order); err != nil {
			return nil, err
		}
	}

	if limit, hasLimit := plan.Limit(); hasLimit {
		matched = applyLimit(matched, limit)
	}

	if c.logger != nil {
		c.logger.Debug(logMsgFindCompleted, logAttrScanned, len(snapshot), logAttrMatched, len(matched))
	}

	return matched, nil
}

func applyLimit(documents docquery.Documents, limit int64) docquery.Documents {
	if limit < 0 {
		limit = -limit
	}

	if limit == 0 || limit >= int64(len(documents)) {
		return documents
	}

	return documents[:limit]
}
