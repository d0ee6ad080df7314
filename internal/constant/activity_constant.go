package constant

// Activity type codes, one per mutation kind.
const (
	ActivityNoteCreated     = "note_created"
	ActivityNoteUpdated     = "note_updated"
	ActivityNoteDeleted     = "note_deleted"
	ActivityNoteRestored    = "note_restored"
	ActivityNotePurged      = "note_permanently_deleted"
	ActivityNotePinned      = "note_pinned"
	ActivityNoteUnpinned    = "note_unpinned"
	ActivityNoteFavorited   = "note_favorited"
	ActivityNoteUnfavorited = "note_unfavorited"
	ActivityNoteBookmarked  = "note_bookmarked"
	ActivityNoteUnbookmark  = "note_unbookmarked"
	ActivityTrashEmptied    = "trash_emptied"
)

// Activity action verbs.
const (
	ActionCreated      = "created"
	ActionUpdated      = "updated"
	ActionDeleted      = "deleted"
	ActionRestored     = "restored"
	ActionPurged       = "purged"
	ActionPinned       = "pinned"
	ActionUnpinned     = "unpinned"
	ActionFavorited    = "favorited"
	ActionUnfavorited  = "unfavorited"
	ActionBookmarked   = "bookmarked"
	ActionUnbookmarked = "unbookmarked"
	ActionEmptied      = "emptied"
)

// Target types for activity records.
const (
	TargetNote  = "note"
	TargetTrash = "trash"
)
