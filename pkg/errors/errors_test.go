package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapKeepsCauseAndCode(t *testing.T) {
	cause := stdErrors.New("connection reset")
	err := Wrap(CodeInternal, cause, "Order failed")

	assert.True(t, stdErrors.Is(err, cause))
	assert.Equal(t, CodeInternal, err.Code())
	assert.Equal(t, "Order failed", err.Message())
	assert.Contains(t, err.Error(), "connection reset")
}

func TestAsFindsTypedErrorThroughFmtWrap(t *testing.T) {
	base := New(CodeNotFound, "Order not found")
	wrapped := fmt.Errorf("delete order: %w", base)

	typed := As(wrapped)
	require.NotNil(t, typed)
	assert.Equal(t, CodeNotFound, typed.Code())
	assert.True(t, IsCode(wrapped, CodeNotFound))
	assert.False(t, IsCode(wrapped, CodeConflict))
	assert.Nil(t, As(stdErrors.New("plain")))
}

func TestMetadataForUnknownCodeFallsBackToInternal(t *testing.T) {
	meta := MetadataFor(Code("SOMETHING_ELSE"))
	assert.Equal(t, http.StatusInternalServerError, meta.HTTPStatus)
	assert.Equal(t, http.StatusConflict, MetadataFor(CodeConflict).HTTPStatus)
	assert.Equal(t, http.StatusForbidden, MetadataFor(CodeForbidden).HTTPStatus)
}

func TestDumpExtractsPostgresFields(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "wishlist_items_user_product_key", TableName: "wishlist_items"}
	err := Wrap(CodeConflict, pgErr, "Already in wishlist")

	dump := Dump(err)
	assert.Equal(t, CodeConflict, dump.Code)
	assert.Equal(t, "23505", dump.PGCode)
	assert.Equal(t, "wishlist_items_user_product_key", dump.PGConstraint)
	assert.Len(t, dump.Chain, 2)

	fields := dump.Fields()
	assert.Equal(t, "wishlist_items", fields["pg_table"])
}

func TestDumpFieldsOmitPostgresWhenAbsent(t *testing.T) {
	fields := Dump(New(CodeValidation, "Invalid quantity")).Fields()
	assert.NotContains(t, fields, "pg_code")
	assert.Equal(t, CodeValidation, fields["error_code"])
}
