// Package parser turns statements of the shell-like query language into docquery.QueryPlan values.
//
// Accepted statements (keywords are case-insensitive, the collection name is not):
//
//	[db.]<collection>.count()
//	[db.]<collection>.find(<filter>?)[.sort(<sort>)][.limit(<integer>)]
//
// Filter and sort arguments are object literals in double- or single-quoted JSON.
// An empty or {} filter matches every document, an empty or {} sort leaves the order to the store.
//
// Argument extraction defaults to ExtractionLegacy: an argument ends at the first ")" after its "(",
// so a ")" inside a string value truncates the literal. WithBalancedParentheses switches to a
// nesting- and quote-aware scan.
package parser
