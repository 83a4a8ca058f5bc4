package leaderboard

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	id "recruiterrisk/pkg/domain"
)

const rankingKey = "recruiterrisk:leaderboard"

// RedisRanker keeps the ranking in a redis sorted set keyed by recruiter ID.
type RedisRanker struct {
	client redis.Cmdable
}

// NewRedisRanker builds the ranker over an existing client.
func NewRedisRanker(client redis.Cmdable) *RedisRanker {
	return &RedisRanker{client: client}
}

func (r *RedisRanker) Update(ctx context.Context, recruiterID id.RecruiterID, trustScore int) error {
	err := r.client.ZAdd(ctx, rankingKey, redis.Z{
		Score:  float64(trustScore),
		Member: recruiterID.String(),
	}).Err()
	if err != nil {
		return fmt.Errorf("leaderboard update: %w", err)
	}
	return nil
}

func (r *RedisRanker) Remove(ctx context.Context, recruiterID id.RecruiterID) error {
	if err := r.client.ZRem(ctx, rankingKey, recruiterID.String()).Err(); err != nil {
		return fmt.Errorf("leaderboard remove: %w", err)
	}
	return nil
}

func (r *RedisRanker) Top(ctx context.Context, n int) ([]Entry, error) {
	if n <= 0 {
		return nil, nil
	}

	members, err := r.client.ZRevRangeWithScores(ctx, rankingKey, 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("leaderboard read: %w", err)
	}

	entries := make([]Entry, 0, len(members))
	for i, member := range members {
		raw, ok := member.Member.(string)
		if !ok {
			continue
		}
		recruiterID, err := id.ParseRecruiterID(raw)
		if err != nil {
			// Skip foreign members rather than failing the whole read.
			continue
		}
		entries = append(entries, Entry{
			Rank:        i + 1,
			RecruiterID: recruiterID,
			TrustScore:  int(member.Score),
		})
	}
	return entries, nil
}
