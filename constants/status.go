package constants

// PersistStatus reports what happened to an extracted batch in storage.
type PersistStatus string

// Stable values (returned to API callers).
const (
	PersistStored PersistStatus = "stored" // every row of the batch was written
	PersistFailed PersistStatus = "failed" // nothing was written; see the error
)
