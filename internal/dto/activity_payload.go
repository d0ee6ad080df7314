package dto

import "github.com/google/uuid"

// Typed activity payloads. Each activity type has its own shape so consumers
// can unmarshal by type instead of probing a free-form blob.

type NotePreview struct {
	Id    uuid.UUID `json:"id"`
	Title string    `json:"title"`
}

type NoteCreatedPayload struct {
	Note NotePreview `json:"note"`
}

type NoteUpdatedPayload struct {
	Note          NotePreview `json:"note"`
	ChangedFields []string    `json:"changedFields"`
}

type NoteDeletedPayload struct {
	Note NotePreview `json:"note"`
}

type NoteRestoredPayload struct {
	Note NotePreview `json:"note"`
}

// NotePurgedPayload records what was removed; WasDeleted tells whether the
// note was purged out of the trash or directly from the active state.
type NotePurgedPayload struct {
	Note       NotePreview `json:"note"`
	WasDeleted bool        `json:"wasDeleted"`
}

type FlagToggledPayload struct {
	Note     NotePreview `json:"note"`
	Flag     string      `json:"flag"`
	Previous bool        `json:"previous"`
	Current  bool        `json:"current"`
}

type TrashEmptiedPayload struct {
	Count   int         `json:"count"`
	NoteIds []uuid.UUID `json:"noteIds"`
}
