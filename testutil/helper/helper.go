package helper

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/docquery-go/docquery"
)

const (
	EnvMongoURI    = "DOCQUERY_TEST_MONGO_URI"
	EnvPostgresDSN = "DOCQUERY_TEST_POSTGRES_DSN"
)

var ErrStoreUnavailable = errors.New("store unavailable")

func GivenUniqueID(t testing.TB) uuid.UUID {
	id, err := uuid.NewV7()
	assert.NoError(t, err, "error in arranging test data")

	return id
}

// GivenMongoURI returns the MongoDB URI for integration tests or skips the test.
func GivenMongoURI(t testing.TB) string {
	uri := os.Getenv(EnvMongoURI)
	if uri == "" {
		t.Skipf("%s not set, skipping MongoDB integration test", EnvMongoURI)
	}

	return uri
}

// GivenPostgresDSN returns the Postgres DSN for integration tests or skips the test.
func GivenPostgresDSN(t testing.TB) string {
	dsn := os.Getenv(EnvPostgresDSN)
	if dsn == "" {
		t.Skipf("%s not set, skipping Postgres integration test", EnvPostgresDSN)
	}

	return dsn
}

// FixtureAlarm builds an alarm document like the ones stored in the alarm_info collection.
func FixtureAlarm(name, level string, startTime time.Time, endTime string) docquery.Document {
	return docquery.D(
		docquery.F("name", name),
		docquery.F("level", level),
		docquery.F("start_time", startTime),
		docquery.F("end_time", endTime),
	)
}

// FixtureAlarms returns five alarms with distinct end times, in insertion order:
// pump-1 (critical), pump-2 (major), fan-1 (critical), fan-2 (minor), valve-1 (major).
func FixtureAlarms() docquery.Documents {
	base := time.Date(2025, 6, 30, 8, 0, 0, 0, time.UTC)

	return docquery.Documents{
		FixtureAlarm("pump-1", "critical", base, "2025-06-30 09:15:00.250"),
		FixtureAlarm("pump-2", "major", base.Add(time.Hour), "2025-06-30 12:00:00"),
		FixtureAlarm("fan-1", "critical", base.Add(2*time.Hour), "2025-06-30 10:30:44"),
		FixtureAlarm("fan-2", "minor", base.Add(3*time.Hour), "2025/6/30 23:30"),
		FixtureAlarm("valve-1", "major", base.Add(4*time.Hour), "not-a-date"),
	}
}

// Names returns the "name" field of every document, in order.
func Names(documents docquery.Documents) []string {
	names := make([]string, 0, len(documents))
	for _, d := range documents {
		v, _ := d.Get("name")
		s, _ := v.AsString()
		names = append(names, s)
	}

	return names
}

// FailingCollection is a docquery.Collection whose every call fails with Err.
type FailingCollection struct {
	Err   error
	Calls int
}

// Count implements docquery.Collection.
func (c *FailingCollection) Count(context.Context) (int64, error) {
	c.Calls++
	return 0, c.Err
}

// Find implements docquery.Collection.
func (c *FailingCollection) Find(context.Context, docquery.QueryPlan) (docquery.Documents, error) {
	c.Calls++
	return nil, c.Err
}
