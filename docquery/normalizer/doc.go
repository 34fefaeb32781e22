// Package normalizer renders stored document values into canonical display strings.
//
// Native timestamps render as "2006-01-02 15:04". Strings that look like a date-time
// (a four digit year, "-" or "/" separated date, and an H:MM:SS time) are re-parsed through an
// ordered cascade of formats and, on the first success, rendered as "yyyy/M/d H:mm" with month,
// day, and hour not zero-padded. Strings no format accepts are returned unchanged.
// All other values use their default rendering.
//
// A Normalizer never fails: any parse problem degrades to returning the input.
package normalizer
