package leaderboard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "recruiterrisk/pkg/domain"
)

func TestMemoryRanker(t *testing.T) {
	ctx := context.Background()
	ranker := NewMemoryRanker()

	a, b, c := id.NewRecruiterID(), id.NewRecruiterID(), id.NewRecruiterID()
	require.NoError(t, ranker.Update(ctx, a, 40))
	require.NoError(t, ranker.Update(ctx, b, 90))
	require.NoError(t, ranker.Update(ctx, c, 65))

	t.Run("orders best first with ranks", func(t *testing.T) {
		entries, err := ranker.Top(ctx, 10)
		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, Entry{Rank: 1, RecruiterID: b, TrustScore: 90}, entries[0])
		assert.Equal(t, Entry{Rank: 2, RecruiterID: c, TrustScore: 65}, entries[1])
		assert.Equal(t, Entry{Rank: 3, RecruiterID: a, TrustScore: 40}, entries[2])
	})

	t.Run("honors the limit", func(t *testing.T) {
		entries, err := ranker.Top(ctx, 2)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, b, entries[0].RecruiterID)
	})

	t.Run("update replaces the previous score", func(t *testing.T) {
		require.NoError(t, ranker.Update(ctx, a, 95))
		entries, err := ranker.Top(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, a, entries[0].RecruiterID)
		assert.Equal(t, 95, entries[0].TrustScore)
	})

	t.Run("remove drops the recruiter", func(t *testing.T) {
		require.NoError(t, ranker.Remove(ctx, a))
		entries, err := ranker.Top(ctx, 10)
		require.NoError(t, err)
		for _, entry := range entries {
			assert.NotEqual(t, a, entry.RecruiterID)
		}
	})
}
