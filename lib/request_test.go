package lib

import (
	"dallasdresses_server/structs"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractAndValidateBody(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Summer Dresses","slug":"summer-dresses"}`))
	body, err := ExtractAndValidateBody[structs.CategoryCreateRequest](r)
	require.NoError(t, err)
	assert.Equal(t, "Summer Dresses", body.Name)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	_, err = ExtractAndValidateBody[structs.CategoryCreateRequest](r)
	assert.ErrorIs(t, err, ErrEmptyBody)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Gowns","colour":"red"}`))
	_, err = ExtractAndValidateBody[structs.CategoryCreateRequest](r)
	assert.Error(t, err, "unknown fields are rejected")

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"G","slug":"Not A Slug"}`))
	_, err = ExtractAndValidateBody[structs.CategoryCreateRequest](r)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	fields := map[string]string{}
	for _, fe := range ve.Errors {
		fields[fe.Field] = fe.Message
	}
	assert.Equal(t, "must be at least 2", fields["name"])
	assert.Equal(t, "must contain only lowercase letters, numbers and hyphens", fields["slug"])
}

func TestValidateStructCustomTags(t *testing.T) {
	valid := structs.UserCreateRequest{
		Email:     "jane@example.com",
		Locale:    "en",
		Telephone: "+31612345678",
		Addresses: []structs.AddressEmbedRequest{{
			AddressType:  structs.AddressHome,
			AddressLine1: "1 Elm St",
			City:         "Dallas",
			State:        "TX",
			Country:      "US",
			PostalCode:   "75201",
		}},
	}
	assert.NoError(t, ValidateStruct(valid))

	invalid := valid
	invalid.Telephone = "call me"
	invalid.Addresses = []structs.AddressEmbedRequest{valid.Addresses[0]}
	invalid.Addresses[0].PostalCode = "75#201"

	err := ValidateStruct(invalid)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	messages := map[string]bool{}
	for _, fe := range ve.Errors {
		messages[fe.Message] = true
	}
	assert.True(t, messages["must be a valid phone number (E.164)"])
	assert.True(t, messages["must be a valid postal code"])
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "evening-gownsdrop", SanitizeString("  Evening-Gowns; DROP ", true, true))
	assert.Equal(t, "Mixed Case", SanitizeString(" Mixed Case ", false, false))
	assert.Equal(t, "price_asc", SanitizeString("price_asc!", false, true))
}
