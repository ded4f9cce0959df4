package models

// RecordFailure describes a raw record that could not be normalized.
// The record is excluded from every output bucket.
type RecordFailure struct {
	Index    int
	RecordID string
	Err      error
}

// PipelineStats holds the counters reported at the end of a run.
type PipelineStats struct {
	Total       int `json:"total"`
	Accepted    int `json:"accepted"`
	Duplicates  int `json:"duplicates"`
	OutOfPeriod int `json:"out_of_period"`
	Invalid     int `json:"invalid"`
}

// PipelineResult is the outcome of one pipeline pass. Every input record
// appears in exactly one of Accepted, Duplicates, OutOfPeriod or Invalid.
type PipelineResult struct {
	RunID       string
	Period      Period
	Accepted    []Transaction
	Duplicates  []string
	OutOfPeriod []string
	Invalid     []RecordFailure
	Stats       PipelineStats
}

// AcceptedLegIDs returns the legIds of the accepted transactions in order.
func (r *PipelineResult) AcceptedLegIDs() []string {
	ids := make([]string, 0, len(r.Accepted))
	for _, tx := range r.Accepted {
		ids = append(ids, tx.LegID)
	}
	return ids
}
