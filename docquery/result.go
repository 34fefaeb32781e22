package docquery

// ResultKind is the value of the "type" member of an encoded QueryResult.
type ResultKind string

const (
	ResultCount ResultKind = "count"
	ResultFind  ResultKind = "find"
)

// QueryResult is the outcome of executing a QueryPlan: either a document count
// or the ordered sequence of found documents.
type QueryResult struct {
	kind      ResultKind
	count     int64
	documents Documents
}

// CountResult builds a count result.
func CountResult(n int64) QueryResult {
	return QueryResult{kind: ResultCount, count: n}
}

// FindResult builds a find result. A nil slice is treated as an empty result.
func FindResult(documents Documents) QueryResult {
	if documents == nil {
		documents = Documents{}
	}

	return QueryResult{kind: ResultFind, documents: documents}
}

// Kind returns ResultCount or ResultFind.
func (r QueryResult) Kind() ResultKind {
	return r.kind
}

// Count returns the count of a count result.
func (r QueryResult) Count() int64 {
	return r.count
}

// Documents returns the documents of a find result.
func (r QueryResult) Documents() Documents {
	return r.documents
}

// Len returns the count of a count result, or the number of documents of a find result.
func (r QueryResult) Len() int64 {
	if r.kind == ResultCount {
		return r.count
	}

	return int64(len(r.documents))
}

// MapDocuments returns a copy of a find result with every document replaced by fn(document).
// Count results are returned unchanged.
func (r QueryResult) MapDocuments(fn func(Document) Document) QueryResult {
	if r.kind != ResultFind {
		return r
	}

	mapped := make(Documents, 0, len(r.documents))
	for _, d := range r.documents {
		mapped = append(mapped, fn(d))
	}

	return FindResult(mapped)
}
