// Package memengine provides an in-memory docquery.Collection.
//
// It evaluates the subset of MongoDB filter semantics the query language is used with in practice:
// field equality (including array membership and dotted paths), the comparison operators
// $eq, $ne, $gt, $gte, $lt, $lte, $in, $nin, $exists, and the logical operators $and, $or, $nor.
// Values of different kinds are ordered like BSON types when sorting.
//
// It backs the CLI's "memory" engine and is used as a test double for the executor and the HTTP API.
package memengine
