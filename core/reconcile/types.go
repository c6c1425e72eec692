package reconcile

// Result is the comparison outcome for a single key.
type Result struct {
	// Key identifies the record.
	Key string `json:"key"`

	// LocalPresent indicates whether the key exists in the local snapshot.
	LocalPresent bool `json:"local_present"`

	// RemotePresent indicates whether the key exists in the remote snapshot.
	RemotePresent bool `json:"remote_present"`

	// Changed is set when both sides hold the key with different values.
	Changed bool `json:"changed"`
}

// Change classifies a result from the local side's point of view.
type Change string

const (
	// ChangeAdded is a key only the remote has.
	ChangeAdded Change = "added"
	// ChangeUpdated is a key both sides hold with different values.
	ChangeUpdated Change = "updated"
	// ChangeRemoved is a key only the local side has.
	ChangeRemoved Change = "removed"
	// ChangeNone is a key both sides hold unchanged.
	ChangeNone Change = "unchanged"
)

// Change returns the classification of r.
func (r Result) Change() Change {
	switch {
	case r.RemotePresent && !r.LocalPresent:
		return ChangeAdded
	case r.LocalPresent && !r.RemotePresent:
		return ChangeRemoved
	case r.Changed:
		return ChangeUpdated
	default:
		return ChangeNone
	}
}

// Summary provides aggregate counts over a diff.
type Summary struct {
	Added     int `json:"added"`
	Updated   int `json:"updated"`
	Removed   int `json:"removed"`
	Unchanged int `json:"unchanged"`
}

// Changed reports whether the diff touched anything.
func (s Summary) Changed() bool {
	return s.Added+s.Updated+s.Removed > 0
}
