package types

// QueryResult is a read-only projection of a stored payload plus its
// similarity score, produced per search call and never persisted.
type QueryResult struct {
	Score   float64
	Payload Payload
}

// Validate checks if the query result is well formed.
func (r *QueryResult) Validate() error {
	if r.Payload.ID == 0 {
		return ErrInvalidPayloadID
	}
	if r.Payload.Text == "" {
		return ErrEmptyContent
	}
	return nil
}

// OutcomeStatus classifies what happened to one document during ingestion.
type OutcomeStatus string

const (
	// OutcomeProcessed means the document produced at least one chunk.
	OutcomeProcessed OutcomeStatus = "processed"
	// OutcomeSkipped means the document produced no usable text; this is
	// not an error and never aborts the run.
	OutcomeSkipped OutcomeStatus = "skipped"
	// OutcomeFailed means extraction or chunking errored; the document is
	// dropped but the run continues.
	OutcomeFailed OutcomeStatus = "failed"
)

// DocumentOutcome records what happened to one source document. Returning
// these up through the orchestration loop keeps skip-vs-abort semantics
// visible in signatures rather than inferred from error handling.
type DocumentOutcome struct {
	Path    string
	ClassID string
	Source  string
	Status  OutcomeStatus
	Chunks  int
	Reason  string
}
