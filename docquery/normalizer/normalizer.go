package normalizer

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/AntonStoeckl/docquery-go/docquery"
)

const (
	timestampLayout = "2006-01-02 15:04"

	logMsgNoFormatMatched = "date string left unchanged, no format matched"
	logMsgFormatMatched   = "date string normalized"
	logAttrInput          = "input"
	logAttrFormat         = "format"
)

var (
	looseDateTime = regexp.MustCompile(`^.*\d{4}[-/]\d{1,2}[-/]\d{1,2}.*\d{1,2}:\d{2}:\d{2}.*$`)
	canonical     = regexp.MustCompile(`^\d{4}/\d{1,2}/\d{1,2} \d{1,2}:\d{2}$`)
)

// zoneMarkers are the abbreviations that enable the textual, zoned format of the cascade.
var zoneMarkers = []string{"CST", "GMT", "UTC"}

// Normalizer renders document values into canonical strings.
// It holds no mutable state and is safe for concurrent use.
type Normalizer struct {
	location *time.Location
	zones    map[string]*time.Location
	logger   docquery.Logger
}

// New creates a Normalizer rendering in time.Local with optional configuration.
//
// The zone table maps UTC and GMT to UTC and CST to China Standard Time (UTC+8);
// WithZoneAbbreviation overrides or extends it.
func New(options ...Option) (Normalizer, error) {
	n := Normalizer{
		location: time.Local,
		zones: map[string]*time.Location{
			"UTC": time.UTC,
			"GMT": time.UTC,
			"CST": time.FixedZone("CST", 8*60*60),
		},
	}

	for _, option := range options {
		if err := option(&n); err != nil {
			return Normalizer{}, err
		}
	}

	return n, nil
}

// Field renders the value stored under key, or returns fallback if the key is missing or null.
func (n Normalizer) Field(doc docquery.Document, key string, fallback string) string {
	if s, ok := n.Lookup(doc, key); ok {
		return s
	}

	return fallback
}

// Lookup renders the value stored under key. It returns false if the key is missing or null.
func (n Normalizer) Lookup(doc docquery.Document, key string) (string, bool) {
	v, found := doc.Get(key)
	if !found || v.IsNull() {
		return "", false
	}

	return n.Value(v), true
}

// Value renders a single value. Null renders as the empty string.
func (n Normalizer) Value(v docquery.Value) string {
	switch v.Kind() {
	case docquery.KindNull:
		return ""

	case docquery.KindTimestamp:
		t, _ := v.AsTimestamp()
		return t.In(n.location).Format(timestampLayout)

	case docquery.KindString:
		s, _ := v.AsString()
		if looseDateTime.MatchString(s) {
			return n.TimeString(s)
		}

		return s

	default:
		return v.String()
	}
}

// TimeString re-renders a date-time string as "yyyy/M/d H:mm".
//
// Blank input yields "". Input already in that shape, and input none of the cascade's
// formats can parse, is returned unchanged.
func (n Normalizer) TimeString(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}

	if canonical.MatchString(s) {
		return s
	}

	for _, format := range cascade {
		if !format.matches(s) {
			continue
		}

		if t, ok := format.parse(n, s); ok {
			n.logDebug(logMsgFormatMatched, logAttrInput, s, logAttrFormat, format.name)
			return render(t)
		}
	}

	n.logDebug(logMsgNoFormatMatched, logAttrInput, s)

	return s
}

// Apply returns a copy of doc in which the listed fields hold their rendered string.
// Missing and null fields are left as they are.
func (n Normalizer) Apply(doc docquery.Document, keys ...string) docquery.Document {
	out := doc

	for _, key := range keys {
		if s, ok := n.Lookup(out, key); ok {
			out = out.With(key, docquery.String(s))
		}
	}

	return out
}

func render(t time.Time) string {
	return fmt.Sprintf("%d/%d/%d %d:%02d", t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute())
}

func (n Normalizer) logDebug(msg string, args ...any) {
	if n.logger != nil {
		n.logger.Debug(msg, args...)
	}
}
