package redis

import (
	"context"

	"github.com/redis/rueidis"

	"github.com/harsh17-bit/estate-alerts/internal/db"
)

// addEachScript adds every ARGV member to the set at KEYS[1] and
// returns the members that were not already present. Running as a
// script keeps the whole batch atomic: either all members persist and
// the newly-added subset is reported back, or the script never ran.
var addEachScript = rueidis.NewLuaScript(`local added = {}
for i = 1, #ARGV do
  if redis.call('SADD', KEYS[1], ARGV[i]) == 1 then
    added[#added + 1] = ARGV[i]
  end
end
return added`)

// SAddEach atomically adds members to a set and returns exactly the
// members that were not already present. Re-adding an existing member
// is filtered out, which makes the caller's record-if-absent idempotent.
func (s *Store) SAddEach(ctx context.Context, key string, members []string) ([]string, error) {
	if len(members) == 0 {
		return nil, nil
	}

	added, err := addEachScript.Exec(ctx, s.client, []string{key}, members).AsStrSlice()
	if err != nil {
		return nil, &db.Error{Op: db.OpSAdd, Err: err}
	}
	return added, nil
}

// SAdd adds members to a set.
func (s *Store) SAdd(ctx context.Context, key string, members ...string) error {
	if len(members) == 0 {
		return nil
	}
	cmd := s.b().Sadd().Key(key).Member(members...).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpSAdd, Err: err}
	}
	return nil
}

// SRem removes members from a set.
func (s *Store) SRem(ctx context.Context, key string, members ...string) error {
	if len(members) == 0 {
		return nil
	}
	cmd := s.b().Srem().Key(key).Member(members...).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpSRem, Err: err}
	}
	return nil
}

// SMembers returns all members of a set.
func (s *Store) SMembers(ctx context.Context, key string) ([]string, error) {
	cmd := s.b().Smembers().Key(key).Build()
	members, err := s.do(ctx, cmd).AsStrSlice()
	if err != nil {
		return nil, &db.Error{Op: db.OpSMembers, Err: err}
	}
	return members, nil
}
