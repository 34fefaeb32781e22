package mongoengine

import (
	"context"
	"errors"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AntonStoeckl/docquery-go/docquery"
)

var ErrEmptyDatabaseName = errors.New("database name must not be empty")

const (
	logMsgCommandExecuted = "executed mongo command: "
	logMsgCommandFailed   = "mongo command failed"
	logMsgCloseCursor     = "failed to close mongo cursor"
	logAttrError          = "error"
	logAttrCollection     = "collection"
	logAttrFilter         = "filter"
	logAttrDurationMS     = "duration_ms"
	logAttrDocumentCount  = "document_count"
	logActionCount        = "count"
	logActionFind         = "find"
	logActionInsert       = "insert"
	logAttrAction         = "action"
)

// Collection is a docquery.Collection backed by a MongoDB collection.
type Collection struct {
	collection *mongo.Collection
	logger     docquery.Logger
}

// NewCollection wraps an existing driver collection.
func NewCollection(collection *mongo.Collection, opts ...Option) (*Collection, error) {
	if collection == nil {
		return nil, docquery.ErrNilCollection
	}

	c := &Collection{collection: collection}

	for _, option := range opts {
		if err := option(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// NewCollectionFromClient opens the named collection on a connected client.
func NewCollectionFromClient(
	client *mongo.Client,
	database, collection string,
	opts ...Option,
) (*Collection, error) {

	switch {
	case client == nil:
		return nil, docquery.ErrNilDatabaseConnection
	case database == "":
		return nil, ErrEmptyDatabaseName
	case collection == "":
		return nil, docquery.ErrEmptyCollectionName
	}

	return NewCollection(client.Database(database).Collection(collection), opts...)
}

// Name returns the name of the underlying collection.
func (c *Collection) Name() string {
	return c.collection.Name()
}

// Count returns the number of documents in the collection.
func (c *Collection) Count(ctx context.Context) (int64, error) {
	start := time.Now()

	count, err := c.collection.CountDocuments(ctx, bson.D{})
	if err != nil {
		c.logError(err, logActionCount)
		return 0, err
	}

	c.logCommand(logActionCount, time.Since(start), logAttrDocumentCount, count)

	return count, nil
}

// Find runs the plan's filter with its sort and limit and drains the cursor.
func (c *Collection) Find(ctx context.Context, plan docquery.QueryPlan) (docquery.Documents, error) {
	findOptions := options.Find()

	if order, hasSort := plan.Sort(); hasSort {
		findOptions.SetSort(toBSON(order))
	}

	if limit, hasLimit := plan.Limit(); hasLimit {
		findOptions.SetLimit(limit)
	}

	filter := toBSON(plan.Filter())
	start := time.Now()

	cursor, err := c.collection.Find(ctx, filter, findOptions)
	if err != nil {
		c.logError(err, logActionFind)
		return nil, err
	}

	defer func() {
		if closeErr := cursor.Close(ctx); closeErr != nil && c.logger != nil {
			c.logger.Error(logMsgCloseCursor, logAttrError, closeErr.Error())
		}
	}()

	documents := make(docquery.Documents, 0)

	for cursor.Next(ctx) {
		var raw bson.D
		if decodeErr := cursor.Decode(&raw); decodeErr != nil {
			c.logError(decodeErr, logActionFind)
			return nil, decodeErr
		}

		documents = append(documents, fromBSON(raw))
	}

	if cursorErr := cursor.Err(); cursorErr != nil {
		c.logError(cursorErr, logActionFind)
		return nil, cursorErr
	}

	c.logCommand(logActionFind, time.Since(start), logAttrFilter, plan.Filter().String(), logAttrDocumentCount, len(documents))

	return documents, nil
}

// Insert stores documents in the given order.
func (c *Collection) Insert(ctx context.Context, documents ...docquery.Document) error {
	if len(documents) == 0 {
		return nil
	}

	raw := make([]any, 0, len(documents))
	for _, d := range documents {
		raw = append(raw, toBSON(d))
	}

	start := time.Now()

	if _, err := c.collection.InsertMany(ctx, raw, options.InsertMany().SetOrdered(true)); err != nil {
		c.logError(err, logActionInsert)
		return err
	}

	c.logCommand(logActionInsert, time.Since(start), logAttrDocumentCount, len(documents))

	return nil
}

func (c *Collection) logCommand(action string, duration time.Duration, args ...any) {
	if c.logger == nil {
		return
	}

	allArgs := append([]any{logAttrCollection, c.collection.Name(), logAttrDurationMS, toMilliseconds(duration)}, args...)
	c.logger.Debug(logMsgCommandExecuted+action, allArgs...)
}

func (c *Collection) logError(err error, action string) {
	if c.logger != nil {
		c.logger.Error(logMsgCommandFailed, logAttrError, err.Error(), logAttrCollection, c.collection.Name(), logAttrAction, action)
	}
}

func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}
