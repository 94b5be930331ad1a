package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorTaxonomyStatusCodes(t *testing.T) {
	cases := []struct {
		err    error
		code   string
		status int
	}{
		{NewUnknownPrincipal("mallory"), "UNKNOWN_PRINCIPAL", http.StatusNotFound},
		{NewUnauthorized("nope"), "UNAUTHORIZED", http.StatusForbidden},
		{NewUnauthenticated(), "UNAUTHENTICATED", http.StatusUnauthorized},
		{NewConflict("dup", nil), "CONFLICT", http.StatusConflict},
		{NewNotFound("product", nil), "NOT_FOUND", http.StatusNotFound},
		{NewValidationError("bad", nil), "VALIDATION_FAILED", http.StatusBadRequest},
	}

	for _, tc := range cases {
		domainErr := ToDomainError(tc.err)
		require.NotNil(t, domainErr)
		assert.Equal(t, tc.code, domainErr.Code)
		assert.Equal(t, tc.status, domainErr.HTTPStatus)
	}
}

func TestUnauthenticatedMessageIsGeneric(t *testing.T) {
	domainErr := ToDomainError(NewUnauthenticated())
	assert.NotContains(t, domainErr.Message, "signature")
	assert.NotContains(t, domainErr.Message, "expired token")
}

func TestToDomainErrorMapsNoRows(t *testing.T) {
	domainErr := ToDomainError(fmt.Errorf("lookup: %w", pgx.ErrNoRows))
	require.NotNil(t, domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}

func TestToDomainErrorMapsUniqueViolation(t *testing.T) {
	cause := &pgconn.PgError{Code: "23505", ConstraintName: "products_name_key"}
	domainErr := ToDomainError(fmt.Errorf("insert: %w", cause))
	require.NotNil(t, domainErr)
	assert.Equal(t, "CONFLICT", domainErr.Code)
	assert.Equal(t, http.StatusConflict, domainErr.HTTPStatus)
	assert.Equal(t, "products_name_key", domainErr.Details["constraint"])
}

func TestToDomainErrorWrapsUnknown(t *testing.T) {
	cause := errors.New("disk on fire")
	domainErr := ToDomainError(cause)
	require.NotNil(t, domainErr)
	assert.Equal(t, "INTERNAL_ERROR", domainErr.Code)
	assert.ErrorIs(t, domainErr, cause)
}

func TestToDomainErrorPassthrough(t *testing.T) {
	original := NewUnknownPrincipal("mallory")
	wrapped := fmt.Errorf("mint: %w", original)
	domainErr := ToDomainError(wrapped)
	assert.Equal(t, "UNKNOWN_PRINCIPAL", domainErr.Code)
}

func TestToDomainErrorNil(t *testing.T) {
	assert.Nil(t, ToDomainError(nil))
}
