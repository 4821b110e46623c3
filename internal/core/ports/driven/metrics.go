package driven

// Get-or-create outcomes passed to Recorder.GetOrCreate.
const (
	OutcomeFound         = "found"
	OutcomeCreated       = "created"
	OutcomeRaceRecovered = "race_recovered"
)

// Recorder receives operational measurements from core services.
// Implementations must be safe for concurrent use.
type Recorder interface {
	// GetOrCreate records one get-or-create resolution.
	// outcome is one of the Outcome constants.
	GetOrCreate(entity, outcome string)

	// BatchRows records the number of rows in a committed batch.
	BatchRows(op string, rows int)

	// StoreRetry records a retry after a transient store failure.
	StoreRetry(op string)
}
