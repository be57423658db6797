package postgres

import (
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"

	"github.com/rezkam/fieldsched/internal/domain"
	"github.com/rezkam/fieldsched/internal/ptr"
)

func TestTextConversions(t *testing.T) {
	assert.Nil(t, textToPtr(pgtype.Text{}))
	assert.Equal(t, ptr.To("x"), textToPtr(pgtype.Text{String: "x", Valid: true}))
	assert.Equal(t, ptr.To(""), textToPtr(pgtype.Text{String: "", Valid: true}))

	assert.Equal(t, pgtype.Text{}, ptrToText(nil))
	assert.Equal(t, pgtype.Text{String: "note", Valid: true}, ptrToText(ptr.To("note")))
}

func TestIDConversions(t *testing.T) {
	assert.Nil(t, textToID(pgtype.Text{}))
	assert.Equal(t, ptr.To(domain.ID("5")), textToID(pgtype.Text{String: "5", Valid: true}))

	assert.Equal(t, pgtype.Text{}, idToText(nil))
	assert.Equal(t, pgtype.Text{String: "7", Valid: true}, idToText(ptr.To(domain.ID("7"))))
}
