package redis

import (
	"context"
	"strconv"

	"github.com/kailas-cloud/jobmatch/internal/db"
)

// ZAdd inserts or rescores a member of a sorted set.
func (s *Store) ZAdd(ctx context.Context, key string, score float64, member string) error {
	cmd := s.b().Zadd().Key(key).ScoreMember().ScoreMember(score, member).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpZAdd, Err: err}
	}
	return nil
}

// ZRevRange returns members ordered by descending score.
func (s *Store) ZRevRange(ctx context.Context, key string, offset, limit int) ([]string, error) {
	if offset < 0 {
		offset = 0
	}
	stop := -1
	if limit > 0 {
		stop = offset + limit - 1
	}
	cmd := s.b().Zrange().Key(key).Min(strconv.Itoa(offset)).Max(strconv.Itoa(stop)).Rev().Build()
	members, err := s.do(ctx, cmd).AsStrSlice()
	if err != nil {
		return nil, &db.Error{Op: db.OpZRange, Err: err}
	}
	return members, nil
}

// ZRem removes members from a sorted set. Absent members are ignored.
func (s *Store) ZRem(ctx context.Context, key string, members ...string) error {
	if len(members) == 0 {
		return nil
	}
	cmd := s.b().Zrem().Key(key).Member(members...).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpZRem, Err: err}
	}
	return nil
}

// ZCard returns the number of members in a sorted set.
func (s *Store) ZCard(ctx context.Context, key string) (int64, error) {
	cmd := s.b().Zcard().Key(key).Build()
	n, err := s.do(ctx, cmd).AsInt64()
	if err != nil {
		return 0, &db.Error{Op: db.OpZCard, Err: err}
	}
	return n, nil
}
