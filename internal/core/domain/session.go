package domain

// SaveStatus is the outcome of the most recent save, as shown to the owner.
type SaveStatus string

// Save statuses.
const (
	SaveIdle        SaveStatus = "idle"
	SaveInProgress  SaveStatus = "saving"
	SaveSucceeded   SaveStatus = "saved"
	SaveCachedLocal SaveStatus = "saved_locally"
	SaveFailed      SaveStatus = "failed"
)

// Message returns the status line shown in the builder.
func (s SaveStatus) Message() string {
	switch s {
	case SaveIdle:
		return ""
	case SaveInProgress:
		return "saving..."
	case SaveSucceeded:
		return "layout saved"
	case SaveCachedLocal:
		return "changes not saved (kept in local cache)"
	case SaveFailed:
		return "save failed"
	default:
		return unknownDescription
	}
}

// LayoutSource records where a loaded layout came from.
type LayoutSource string

// Layout sources, in fallback order.
const (
	SourceRemote  LayoutSource = "remote"
	SourceCache   LayoutSource = "cache"
	SourceDefault LayoutSource = "default"
)

// LoadResult is the outcome of loading a restaurant's layout.
type LoadResult struct {
	// Layout is the document to edit.
	Layout Layout

	// Snapshot is the stored form, nil when the default page was used.
	Snapshot *Snapshot

	// Source is where Layout came from.
	Source LayoutSource

	// Warning holds the remote error when a fallback was used.
	Warning error
}

// SaveResult is the outcome of saving a snapshot.
type SaveResult struct {
	// Snapshot is what was written, after sanitising.
	Snapshot Snapshot

	// CachedLocally is true when the snapshot reached the local cache.
	CachedLocally bool

	// Remote is true when the backend accepted the snapshot.
	Remote bool
}

// Status maps the result onto the builder's save status.
func (r SaveResult) Status() SaveStatus {
	switch {
	case r.Remote:
		return SaveSucceeded
	case r.CachedLocally:
		return SaveCachedLocal
	default:
		return SaveFailed
	}
}

// EditResult reports what an edit request did.
type EditResult struct {
	// EditorOpened is true when the request only opened the editor.
	EditorOpened bool

	// Changed is true when the layout changed and a history entry was recorded.
	Changed bool
}
