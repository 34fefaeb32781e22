package normalizer_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/docquery-go/docquery"
	"github.com/AntonStoeckl/docquery-go/docquery/normalizer"
	"github.com/AntonStoeckl/docquery-go/testutil/helper"
)

func givenNormalizer(t *testing.T, options ...normalizer.Option) normalizer.Normalizer {
	options = append([]normalizer.Option{normalizer.WithLocation(time.UTC)}, options...)
	n, err := normalizer.New(options...)
	require.NoError(t, err, "error in arranging test data")

	return n
}

//nolint:funlen
func Test_Field_RendersValues(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		expected string
	}{
		{name: "timestamp_drops_seconds", value: time.Date(2025, 6, 30, 23, 30, 44, 0, time.UTC), expected: "2025-06-30 23:30"},
		{name: "timestamp_is_zero_padded", value: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC), expected: "2025-01-02 03:04"},
		{name: "millis_string", value: "2025-06-30 23:30:44.123", expected: "2025/6/30 23:30"},
		{name: "seconds_string", value: "2025-06-30 23:30:44", expected: "2025/6/30 23:30"},
		{name: "padded_fields_are_unpadded", value: "2025-01-02 03:04:05", expected: "2025/1/2 3:04"},
		{name: "unpadded_input_is_unchanged", value: "2025-6-3 9:05:00", expected: "2025-6-3 9:05:00"},
		{name: "trailing_text_is_unchanged", value: "2025-06-30 23:30:44 (backup)", expected: "2025-06-30 23:30:44 (backup)"},
		{name: "already_canonical", value: "2025/6/30 23:30", expected: "2025/6/30 23:30"},
		{name: "slash_separated_with_seconds_is_unchanged", value: "2025/06/30 23:30:44", expected: "2025/06/30 23:30:44"},
		{name: "not_a_date", value: "not-a-date", expected: "not-a-date"},
		{name: "empty_string", value: "", expected: ""},
		{name: "integer", value: 42, expected: "42"},
		{name: "float", value: 3.0, expected: "3.0"},
		{name: "bool", value: true, expected: "true"},
		{name: "nested_document", value: docquery.D(docquery.F("a", 1)), expected: `{"a":1}`},
		{name: "array", value: []any{"x", 2}, expected: `["x",2]`},
	}

	n := givenNormalizer(t)

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			doc := docquery.D(docquery.F("t", tc.value))

			// act
			rendered := n.Field(doc, "t", "fallback")

			// assert
			assert.Equal(t, tc.expected, rendered)
		})
	}
}

func Test_Field_FallsBackForMissingAndNull(t *testing.T) {
	// arrange
	n := givenNormalizer(t)
	doc := docquery.D(docquery.F("n", nil))

	// act
	missing := n.Field(doc, "absent", "-")
	null := n.Field(doc, "n", "-")
	_, found := n.Lookup(doc, "absent")

	// assert
	assert.Equal(t, "-", missing)
	assert.Equal(t, "-", null)
	assert.False(t, found)
}

func Test_Field_IsIdempotent(t *testing.T) {
	// arrange
	n := givenNormalizer(t)
	doc := docquery.D(docquery.F("t", "2025-06-30 23:30:44.123"))

	// act
	once := n.Field(doc, "t", "")
	twice := n.Field(docquery.D(docquery.F("t", once)), "t", "")

	// assert
	assert.Equal(t, "2025/6/30 23:30", once)
	assert.Equal(t, once, twice)
}

func Test_Field_RendersTimestampsInConfiguredLocation(t *testing.T) {
	// arrange
	n := givenNormalizer(t, normalizer.WithLocation(time.FixedZone("UTC+8", 8*60*60)))
	doc := docquery.D(docquery.F("t", time.Date(2025, 6, 30, 20, 0, 0, 0, time.UTC)))

	// act
	rendered := n.Field(doc, "t", "")

	// assert
	assert.Equal(t, "2025-07-01 04:00", rendered)
}

func Test_TimeString_Cascade(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "dotted_hour_marker", input: "2025-06-30 23.30:44.123", expected: "2025/6/30 23:30"},
		{name: "millis", input: "2025-06-30 23:30:44.123", expected: "2025/6/30 23:30"},
		{name: "seconds", input: "2025-06-30 23:30:44", expected: "2025/6/30 23:30"},
		{name: "minutes", input: "2025-06-30 23:30", expected: "2025/6/30 23:30"},
		{name: "zoned_utc", input: "Mon Jun 30 23:30:44 UTC 2025", expected: "2025/6/30 23:30"},
		{name: "zoned_gmt", input: "Mon Jun 30 08:05:00 GMT 2025", expected: "2025/6/30 8:05"},
		{name: "zoned_cst_is_china_standard_time", input: "Tue Jul 01 07:30:44 CST 2025", expected: "2025/6/30 23:30"},
		{name: "unknown_zone_is_unchanged", input: "Mon Jun 30 23:30:44 PDT 2025", expected: "Mon Jun 30 23:30:44 PDT 2025"},
		{name: "canonical_is_unchanged", input: "2025/6/30 23:30", expected: "2025/6/30 23:30"},
		{name: "dotted_hour_marker_with_single_digit_hour", input: "2025-06-30 9.30:44.123", expected: "2025/6/30 9:30"},
		{name: "single_digit_hour_is_unchanged", input: "2025-06-30 9:30:44", expected: "2025-06-30 9:30:44"},
		{name: "unpadded_month_and_day_are_unchanged", input: "2025-6-3 09:05:00", expected: "2025-6-3 09:05:00"},
		{name: "two_fraction_digits_are_unchanged", input: "2025-06-30 23:30:44.12", expected: "2025-06-30 23:30:44.12"},
		{name: "six_fraction_digits_are_unchanged", input: "2025-06-30 23:30:44.123456", expected: "2025-06-30 23:30:44.123456"},
		{name: "trailing_zone_letter_is_unchanged", input: "2025-06-30 23:30:44Z", expected: "2025-06-30 23:30:44Z"},
		{name: "trailing_text_is_unchanged", input: "2025-06-30 23:30:44 (backup)", expected: "2025-06-30 23:30:44 (backup)"},
		{name: "leading_text_is_unchanged", input: "at 2025-06-30 23:30:44", expected: "at 2025-06-30 23:30:44"},
		{name: "zoned_with_single_digit_hour_is_unchanged", input: "Mon Jun 30 8:05:00 GMT 2025", expected: "Mon Jun 30 8:05:00 GMT 2025"},
		{name: "zoned_with_trailing_text_is_unchanged", input: "Mon Jun 30 23:30:44 UTC 2025 x", expected: "Mon Jun 30 23:30:44 UTC 2025 x"},
		{name: "garbage_is_unchanged", input: "2025-99-99 99:99:99", expected: "2025-99-99 99:99:99"},
		{name: "blank", input: "   ", expected: ""},
	}

	n := givenNormalizer(t)

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// act
			rendered := n.TimeString(tc.input)

			// assert
			assert.Equal(t, tc.expected, rendered)
		})
	}
}

func Test_TimeString_ZoneAbbreviationCanBeRemapped(t *testing.T) {
	// arrange
	central := time.FixedZone("CST", -6*60*60)
	n := givenNormalizer(t, normalizer.WithZoneAbbreviation("CST", central))

	// act
	rendered := n.TimeString("Mon Jun 30 17:30:44 CST 2025")

	// assert
	assert.Equal(t, "2025/6/30 23:30", rendered)
}

func Test_Apply_ReplacesSelectedFields(t *testing.T) {
	// arrange
	n := givenNormalizer(t)
	doc := docquery.D(
		docquery.F("name", "pump station 4"),
		docquery.F("start_time", time.Date(2025, 6, 30, 23, 30, 44, 0, time.UTC)),
		docquery.F("end_time", "2025-06-30 23:45:00"),
		docquery.F("remark", nil),
	)

	// act
	applied := n.Apply(doc, "start_time", "end_time", "remark", "absent")

	// assert
	assert.Equal(t, []string{"name", "start_time", "end_time", "remark"}, applied.Keys())
	start, _ := applied.Get("start_time")
	end, _ := applied.Get("end_time")
	remark, _ := applied.Get("remark")
	assert.True(t, start.Equal(docquery.String("2025-06-30 23:30")))
	assert.True(t, end.Equal(docquery.String("2025/6/30 23:45")))
	assert.True(t, remark.IsNull())

	original, _ := doc.Get("end_time")
	assert.True(t, original.Equal(docquery.String("2025-06-30 23:45:00")))
}

func Test_New_RejectsInvalidOptions(t *testing.T) {
	// act
	_, errLocation := normalizer.New(normalizer.WithLocation(nil))
	_, errZone := normalizer.New(normalizer.WithZoneAbbreviation("", time.UTC))
	_, errName := normalizer.New(normalizer.WithLocationName("Not/AZone"))

	// assert
	assert.ErrorIs(t, errLocation, normalizer.ErrNilLocation)
	assert.ErrorIs(t, errZone, normalizer.ErrEmptyZoneAbbreviation)
	assert.Error(t, errName)
}

func Test_TimeString_LogsCascadeOutcome(t *testing.T) {
	// setup
	logHandler := helper.NewLogHandlerSpy(false)
	n := givenNormalizer(t, normalizer.WithLogger(slog.New(logHandler)))

	// act
	n.TimeString("2025-06-30 23:30:44")
	n.TimeString("2025-99-99 99:99:99")

	// assert
	assert.True(t, logHandler.HasDebugLog("date string normalized"))
	assert.True(t, logHandler.HasDebugLog("date string left unchanged, no format matched"))
}
