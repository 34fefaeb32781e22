package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/AntonStoeckl/docquery-go/docquery"
	"github.com/AntonStoeckl/docquery-go/docquery/literal"
	"github.com/AntonStoeckl/docquery-go/docquery/memengine"
	"github.com/AntonStoeckl/docquery-go/docquery/mongoengine"
	"github.com/AntonStoeckl/docquery-go/docquery/postgresengine"
	"github.com/AntonStoeckl/docquery-go/internal/config"
)

const (
	connectTimeout = 10 * time.Second

	logMsgConnecting    = "connecting to document store"
	logMsgCloseFailed   = "failed to close document store"
	logAttrEngine       = "engine"
	logAttrTarget       = "target"
	logAttrError        = "error"
	logAttrDocumentPath = "path"
)

// engine is an opened document store. insert loads documents, close releases the connection.
type engine struct {
	collection docquery.Collection
	insert     func(ctx context.Context, documents ...docquery.Document) error
	close      func()
}

func (a *app) openEngine(ctx context.Context) (*engine, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	switch a.cfg.Engine {
	case config.EngineMongo:
		return a.openMongo(ctx)
	case config.EnginePostgres:
		return a.openPostgres(ctx)
	case config.EngineMemory:
		return a.openMemory()
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownEngine, a.cfg.Engine)
	}
}

func (a *app) openMongo(ctx context.Context) (*engine, error) {
	a.logger.Info(logMsgConnecting, logAttrEngine, config.EngineMongo, logAttrTarget, a.cfg.Mongo.RedactedURI())

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(a.cfg.Mongo.URI()))
	if err != nil {
		return nil, err
	}

	closeClient := func() {
		if disconnectErr := client.Disconnect(context.Background()); disconnectErr != nil {
			a.logger.Error(logMsgCloseFailed, logAttrEngine, config.EngineMongo, logAttrError, disconnectErr.Error())
		}
	}

	if pingErr := client.Ping(ctx, readpref.Primary()); pingErr != nil {
		closeClient()
		return nil, pingErr
	}

	collection, err := mongoengine.NewCollectionFromClient(
		client,
		a.cfg.Mongo.Database,
		a.cfg.Collection,
		mongoengine.WithLogger(a.logger),
	)
	if err != nil {
		closeClient()
		return nil, err
	}

	return &engine{collection: collection, insert: collection.Insert, close: closeClient}, nil
}

func (a *app) openPostgres(ctx context.Context) (*engine, error) {
	a.logger.Info(logMsgConnecting, logAttrEngine, config.EnginePostgres, logAttrTarget, a.cfg.Postgres.Driver)

	pgOptions := []postgresengine.Option{
		postgresengine.WithTableName(a.cfg.Postgres.Table),
		postgresengine.WithDocumentColumn(a.cfg.Postgres.Column),
		postgresengine.WithLogger(a.logger),
	}

	var (
		collection *postgresengine.Collection
		closeDB    func() error
		err        error
	)

	switch a.cfg.Postgres.Driver {
	case config.DriverPGX:
		pool, openErr := a.cfg.Postgres.OpenPGXPool(ctx)
		if openErr != nil {
			return nil, openErr
		}

		closeDB = func() error { pool.Close(); return nil }
		collection, err = postgresengine.NewCollectionFromPGXPool(pool, pgOptions...)

	case config.DriverSQL:
		db, openErr := a.cfg.Postgres.OpenSQLDB(ctx)
		if openErr != nil {
			return nil, openErr
		}

		closeDB = db.Close
		collection, err = postgresengine.NewCollectionFromSQLDB(db, pgOptions...)

	case config.DriverSQLX:
		db, openErr := a.cfg.Postgres.OpenSQLX(ctx)
		if openErr != nil {
			return nil, openErr
		}

		closeDB = db.Close
		collection, err = postgresengine.NewCollectionFromSQLX(db, pgOptions...)

	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownDriver, a.cfg.Postgres.Driver)
	}

	closePostgres := func() {
		if closeErr := closeDB(); closeErr != nil {
			a.logger.Error(logMsgCloseFailed, logAttrEngine, config.EnginePostgres, logAttrError, closeErr.Error())
		}
	}

	if err == nil {
		err = collection.EnsureSchema(ctx)
	}

	if err != nil {
		closePostgres()
		return nil, err
	}

	return &engine{collection: collection, insert: collection.Insert, close: closePostgres}, nil
}

func (a *app) openMemory() (*engine, error) {
	var seed docquery.Documents

	if a.cfg.Memory.Seed != "" {
		documents, err := readDocuments(a.cfg.Memory.Seed)
		if err != nil {
			return nil, err
		}

		seed = documents
	}

	a.logger.Info(logMsgConnecting, logAttrEngine, config.EngineMemory, logAttrDocumentPath, a.cfg.Memory.Seed)

	collection, err := memengine.NewCollection(memengine.WithDocuments(seed...), memengine.WithLogger(a.logger))
	if err != nil {
		return nil, err
	}

	insert := func(_ context.Context, documents ...docquery.Document) error {
		collection.Insert(documents...)
		return nil
	}

	return &engine{collection: collection, insert: insert, close: func() {}}, nil
}

// readDocuments reads one document literal per line. Blank lines and lines starting
// with # or // are skipped.
func readDocuments(path string) (docquery.Documents, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	documents := make(docquery.Documents, 0)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	for lineNumber := 1; scanner.Scan(); lineNumber++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		d, decodeErr := literal.DecodeLenient(line)
		if decodeErr != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, lineNumber, decodeErr)
		}

		documents = append(documents, d)
	}

	if scanErr := scanner.Err(); scanErr != nil {
		return nil, fmt.Errorf("read %s: %w", path, scanErr)
	}

	return documents, nil
}
