package main

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/docquery-go/docquery"
	"github.com/AntonStoeckl/docquery-go/docquery/literal"
)

const (
	// NumAlarms - Number of alarm documents to be created - adapt as needed.
	// One hundred thousand alarms make a file of roughly 20MB.
	NumAlarms = 100000

	OutputDir  = "testutil/fixtures" // The directory to put the fixture data into - should be fine as is.
	OutputFile = "alarms.jsonl"      // One document literal per line, as read by "docquery load".
)

var (
	systems = []string{"pump", "fan", "valve", "chiller", "boiler", "compressor"}
	levels  = []string{"critical", "major", "minor", "warning"}
)

func main() {
	if err := GenerateFixtureAlarms(); err != nil {
		panic(fmt.Sprintf("Error generating fixture data: %v\n", err))
	}
}

func GenerateFixtureAlarms() error {
	projectRoot, err := findProjectRoot()
	if err != nil {
		return fmt.Errorf("failed to find project root: %w", err)
	}

	outputDir := filepath.Join(projectRoot, OutputDir)

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.Create(filepath.Join(outputDir, OutputFile))
	if err != nil {
		return fmt.Errorf("failed to create fixture file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fakeClock := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < NumAlarms; i++ {
		fakeClock = fakeClock.Add(time.Duration(rand.Intn(300)+1) * time.Second)

		line, encodeErr := literal.Encode(generateAlarm(i, fakeClock))
		if encodeErr != nil {
			return fmt.Errorf("failed to encode alarm %d: %w", i, encodeErr)
		}

		if _, writeErr := w.Write(append(line, '\n')); writeErr != nil {
			return fmt.Errorf("failed to write alarm %d: %w", i, writeErr)
		}

		if (i+1)%10000 == 0 {
			fmt.Printf("Generated %d alarms...\n", i+1)
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to flush fixture file: %w", err)
	}

	fmt.Printf("Generated %d alarms in %s\n", NumAlarms, filepath.Join(outputDir, OutputFile))

	return nil
}

// generateAlarm builds an alarm. Every fifth alarm is still open; its end_time is the empty string.
// Closed alarms carry a textual end_time, in one of the shapes the stores really contain.
func generateAlarm(i int, startTime time.Time) docquery.Document {
	system := systems[rand.Intn(len(systems))]

	endTime := ""
	if i%5 != 0 {
		end := startTime.Add(time.Duration(rand.Intn(7200)+60) * time.Second)

		switch i % 3 {
		case 0:
			endTime = end.Format("2006-01-02 15:04:05")
		case 1:
			endTime = end.Format("2006-01-02 15:04:05.000")
		default:
			endTime = end.Format("2006/1/2 15:04")
		}
	}

	return docquery.D(
		docquery.F("alarm_id", uuid.NewString()),
		docquery.F("name", fmt.Sprintf("%s-%d", system, rand.Intn(20)+1)),
		docquery.F("system", system),
		docquery.F("level", levels[rand.Intn(len(levels))]),
		docquery.F("severity", rand.Intn(5)+1),
		docquery.F("acked", rand.Intn(2) == 0),
		docquery.F("start_time", startTime),
		docquery.F("end_time", endTime),
	)
}

func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	// Walk up the directory tree looking for go.mod
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("could not find project root (no go.mod found)")
}
