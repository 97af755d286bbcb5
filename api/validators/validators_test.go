package validators

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/angelmondragon/plantnet-backend/pkg/errors"
)

type sample struct {
	Email string `json:"email" validate:"required"`
	Count int    `json:"count" validate:"min=1"`
}

func TestDecodeJSONBodyStrictRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"a@b.c","count":1,"extra":true}`))
	err := DecodeJSONBody(req, &sample{})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	req = httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"a@b.c","count":1,"extra":true}`))
	var got sample
	require.NoError(t, DecodeJSONBodyLenient(req, &got))
	assert.Equal(t, "a@b.c", got.Email)
}

func TestDecodeJSONBodyReportsFieldErrors(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"count":0}`))
	err := DecodeJSONBody(req, &sample{})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	details, ok := typed.Details().(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "is required", details["email"])
	assert.Equal(t, "must be at least 1", details["count"])
}

func TestDecodeJSONBodyEmpty(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(""))
	err := DecodeJSONBody(req, &sample{})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, "request body is required", typed.Message())
}

func TestParseUUID(t *testing.T) {
	_, err := ParseUUID("", "id")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	_, err = ParseUUID("not-a-uuid", "id")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	id, err := ParseUUID(" 6f1c2a8e-3b7d-4c1e-9f0a-1b2c3d4e5f60 ", "id")
	require.NoError(t, err)
	assert.Equal(t, "6f1c2a8e-3b7d-4c1e-9f0a-1b2c3d4e5f60", id.String())
}

func TestBearerToken(t *testing.T) {
	token, ok := BearerToken("Bearer abc.def")
	assert.True(t, ok)
	assert.Equal(t, "abc.def", token)

	_, ok = BearerToken("Basic xyz")
	assert.False(t, ok)
	_, ok = BearerToken("bearer   ")
	assert.False(t, ok)
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "fern", SanitizeString("  fern  ", 10))
	assert.Equal(t, "fe", SanitizeString("fern", 2))
	assert.Equal(t, "h", SanitizeString("héllo", 2))
}
