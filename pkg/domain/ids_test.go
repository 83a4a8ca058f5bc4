package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "recruiterrisk/pkg/domain-errors"
)

// TestParseID_Invariants validates the parsing invariant:
// IDs must be valid, non-empty, non-nil UUIDs.
func TestParseID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseRecruiterID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseCandidateID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseFeedbackID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		valid := uuid.New()
		id, err := ParseRecruiterID(valid.String())
		require.NoError(t, err)
		assert.Equal(t, RecruiterID(valid), id)
	})

	t.Run("round-trips through String", func(t *testing.T) {
		id := NewRecruiterID()
		parsed, err := ParseRecruiterID(id.String())
		require.NoError(t, err)
		assert.Equal(t, id, parsed)
	})
}

func TestIsZero(t *testing.T) {
	assert.True(t, RecruiterID{}.IsZero())
	assert.False(t, NewRecruiterID().IsZero())
	assert.True(t, CandidateID{}.IsZero())
	assert.False(t, NewCandidateID().IsZero())
}
