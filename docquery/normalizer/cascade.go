package normalizer

import (
	"regexp"
	"strings"
	"time"
)

// dateFormat is one step of the cascade used by TimeString.
// A step only parses input that matches its shape in full.
type dateFormat struct {
	name    string
	shape   *regexp.Regexp
	applies func(s string) bool
	parse   func(n Normalizer, s string) (time.Time, bool)
}

// cascade is tried in order, the first format that parses wins.
var cascade = []dateFormat{
	{
		name:  "yyyy-MM-dd H.mm:ss.SSS",
		shape: regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{1,2}\.\d{2}:\d{2}\.\d{3}$`),
		parse: layout("2006-01-02 15.04:05.000"),
	},
	{
		name:  "yyyy-MM-dd HH:mm:ss.SSS",
		shape: regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\.\d{3}$`),
		parse: layout("2006-01-02 15:04:05.000"),
	},
	{
		name:  "yyyy-MM-dd HH:mm:ss",
		shape: regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}$`),
		parse: layout("2006-01-02 15:04:05"),
	},
	{
		name:  "yyyy-MM-dd HH:mm",
		shape: regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}$`),
		parse: layout("2006-01-02 15:04"),
	},
	{
		name:    "EEE MMM d HH:mm:ss zzz yyyy",
		shape:   regexp.MustCompile(`^[A-Za-z]{3} [A-Za-z]{3} \d{1,2} \d{2}:\d{2}:\d{2} [A-Za-z]+ \d{4}$`),
		applies: hasZoneMarker,
		parse:   parseZoned,
	},
}

// matches reports whether the step may be tried for s.
func (f dateFormat) matches(s string) bool {
	if f.applies != nil && !f.applies(s) {
		return false
	}

	return f.shape.MatchString(s)
}

// layout parses the whole input in the normalizer's location.
func layout(goLayout string) func(n Normalizer, s string) (time.Time, bool) {
	return func(n Normalizer, s string) (time.Time, bool) {
		t, err := time.ParseInLocation(goLayout, s, n.location)
		return t, err == nil
	}
}

// parseZoned reads English textual timestamps like "Mon Jun 30 23:30:44 CST 2025".
// The zone abbreviation is resolved through the normalizer's zone table and the result is
// converted into the normalizer's location.
func parseZoned(n Normalizer, s string) (time.Time, bool) {
	fields := strings.Split(s, " ")
	if len(fields) != 6 {
		return time.Time{}, false
	}

	zone, known := n.zones[strings.ToUpper(fields[4])]
	if !known {
		return time.Time{}, false
	}

	withoutZone := strings.Join(append(fields[:4:4], fields[5]), " ")

	t, err := time.ParseInLocation("Mon Jan 2 15:04:05 2006", withoutZone, zone)
	if err != nil {
		return time.Time{}, false
	}

	return t.In(n.location), true
}

func hasZoneMarker(s string) bool {
	for _, marker := range zoneMarkers {
		if strings.Contains(s, marker) {
			return true
		}
	}

	return false
}
