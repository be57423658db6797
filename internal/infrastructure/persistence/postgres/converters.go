package postgres

import (
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/rezkam/fieldsched/internal/domain"
	"github.com/rezkam/fieldsched/internal/ptr"
)

// textToPtr converts a nullable text column to *string.
func textToPtr(t pgtype.Text) *string {
	return ptr.If(t.String, t.Valid)
}

// ptrToText converts *string to a nullable text column.
func ptrToText(s *string) pgtype.Text {
	return pgtype.Text{String: ptr.Deref(s, ""), Valid: s != nil}
}

// textToID converts a nullable text column to *domain.ID.
func textToID(t pgtype.Text) *domain.ID {
	return ptr.If(domain.ID(t.String), t.Valid)
}

// idToText converts *domain.ID to a nullable text column.
func idToText(id *domain.ID) pgtype.Text {
	return pgtype.Text{String: string(ptr.Deref(id, "")), Valid: id != nil}
}
