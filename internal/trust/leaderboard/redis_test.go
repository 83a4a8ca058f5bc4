//go:build integration

package leaderboard

import (
	"context"
	"testing"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	id "recruiterrisk/pkg/domain"
)

type RedisRankerSuite struct {
	suite.Suite
	container *tcredis.RedisContainer
	client    *goredis.Client
	ranker    *RedisRanker
	ctx       context.Context
}

func TestRedisRankerSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisRankerSuite))
}

func (s *RedisRankerSuite) SetupSuite() {
	s.ctx = context.Background()

	container, err := tcredis.Run(s.ctx, "redis:7-alpine")
	s.Require().NoError(err)
	s.container = container

	uri, err := container.ConnectionString(s.ctx)
	s.Require().NoError(err)

	opts, err := goredis.ParseURL(uri)
	s.Require().NoError(err)
	s.client = goredis.NewClient(opts)
	s.ranker = NewRedisRanker(s.client)
}

func (s *RedisRankerSuite) TearDownSuite() {
	if s.client != nil {
		s.Require().NoError(s.client.Close())
	}
	if s.container != nil {
		s.Require().NoError(s.container.Terminate(s.ctx))
	}
}

func (s *RedisRankerSuite) SetupTest() {
	s.Require().NoError(s.client.Del(s.ctx, rankingKey).Err())
}

func (s *RedisRankerSuite) TestRanking() {
	a, b, c := id.NewRecruiterID(), id.NewRecruiterID(), id.NewRecruiterID()
	s.Require().NoError(s.ranker.Update(s.ctx, a, 40))
	s.Require().NoError(s.ranker.Update(s.ctx, b, 90))
	s.Require().NoError(s.ranker.Update(s.ctx, c, 65))

	entries, err := s.ranker.Top(s.ctx, 2)
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Equal(b, entries[0].RecruiterID)
	s.Equal(90, entries[0].TrustScore)
	s.Equal(1, entries[0].Rank)
	s.Equal(c, entries[1].RecruiterID)
}

func (s *RedisRankerSuite) TestUpdateReplacesScore() {
	a := id.NewRecruiterID()
	s.Require().NoError(s.ranker.Update(s.ctx, a, 10))
	s.Require().NoError(s.ranker.Update(s.ctx, a, 88))

	entries, err := s.ranker.Top(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal(88, entries[0].TrustScore)
}

func (s *RedisRankerSuite) TestRemove() {
	a, b := id.NewRecruiterID(), id.NewRecruiterID()
	s.Require().NoError(s.ranker.Update(s.ctx, a, 70))
	s.Require().NoError(s.ranker.Update(s.ctx, b, 60))
	s.Require().NoError(s.ranker.Remove(s.ctx, a))

	entries, err := s.ranker.Top(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal(b, entries[0].RecruiterID)
}

func (s *RedisRankerSuite) TestForeignMembersSkipped() {
	s.Require().NoError(s.client.ZAdd(s.ctx, rankingKey, goredis.Z{Score: 99, Member: "not-a-uuid"}).Err())
	a := id.NewRecruiterID()
	s.Require().NoError(s.ranker.Update(s.ctx, a, 50))

	entries, err := s.ranker.Top(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal(a, entries[0].RecruiterID)
}
