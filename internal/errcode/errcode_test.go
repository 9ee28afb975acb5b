package errcode

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func TestKindOfFollowsWrapChain(t *testing.T) {
	base := MissingContext("candidate basic info not found")
	wrapped := fmt.Errorf("reconcile: %w", base)

	require.Equal(t, KindMissingCandidateContext, KindOf(wrapped))
	require.True(t, Is(wrapped, KindMissingCandidateContext))
	require.Equal(t, "candidate basic info not found", Message(wrapped))
	require.Equal(t, MissingCandidateContext, base.Code())
	require.Equal(t, http.StatusNotFound, KindOf(wrapped).HTTPStatus())
}

func TestKindOfPlainError(t *testing.T) {
	err := errors.New("boom")
	require.Equal(t, KindUnknown, KindOf(err))
	require.Equal(t, http.StatusInternalServerError, KindOf(err).HTTPStatus())
	require.Equal(t, SystemError, KindOf(err).Code())
	require.Equal(t, "boom", Message(err))
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("deadline exceeded")
	err := Extraction("structure resume", cause)
	require.ErrorIs(t, err, cause)
	require.Equal(t, "structure resume: deadline exceeded", err.Error())
}

func TestPgClassification(t *testing.T) {
	unique := fmt.Errorf("upsert: %w", &pgconn.PgError{Code: "23505"})
	require.True(t, IsUniqueViolation(unique))
	require.False(t, IsNotNullViolation(unique))

	nul := &pgconn.PgError{Code: "22021"}
	require.True(t, IsInvalidByteSequence(nul))
	require.False(t, IsUniqueViolation(errors.New("other")))
}
