// Package mongoengine runs query plans against a MongoDB collection with the official Go driver.
//
// Filters and sort specifications are handed to the server unchanged apart from the value
// conversion between docquery values and BSON; a negative limit is passed through as well,
// which the server treats as its absolute value.
package mongoengine
