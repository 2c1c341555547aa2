// Package match tracks which property ids have already been surfaced
// for each alert. Backed by one redis set per alert, so membership adds
// are atomic and idempotent.
package match

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/harsh17-bit/estate-alerts/internal/db"
)

const keyPrefix = "estalert:"

// store is the consumer interface for match state (ISP).
type store interface {
	SAddEach(ctx context.Context, key string, members []string) ([]string, error)
	SMembers(ctx context.Context, key string) ([]string, error)
	DelMulti(ctx context.Context, keys ...string) error
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Repo implements the match tracker contract. The matched set only
// grows while the alert lives; a property that later stops matching is
// never retracted.
type Repo struct {
	store store
}

// New creates a match tracker repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// MatchedIDs returns the set of property ids already surfaced for the alert.
func (r *Repo) MatchedIDs(ctx context.Context, alertID string) (map[string]struct{}, error) {
	members, err := r.store.SMembers(ctx, matchKey(alertID))
	if err != nil {
		return nil, fmt.Errorf("smembers %s: %w", matchKey(alertID), err)
	}
	ids := make(map[string]struct{}, len(members))
	for _, m := range members {
		ids[m] = struct{}{}
	}
	return ids, nil
}

// RecordNewMatches adds ids to the alert's matched set and returns
// exactly the subset that was not previously present. Re-adding an
// existing id is a no-op and is not reported back.
func (r *Repo) RecordNewMatches(ctx context.Context, alertID string, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	// Deterministic order keeps dispatch payloads stable.
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)

	added, err := r.store.SAddEach(ctx, matchKey(alertID), sorted)
	if err != nil {
		return nil, fmt.Errorf("sadd %s: %w", matchKey(alertID), err)
	}
	return added, nil
}

// LastChecked returns the timestamp of the most recent evaluation pass,
// or the zero time if the alert has never been checked.
func (r *Repo) LastChecked(ctx context.Context, alertID string) (time.Time, error) {
	raw, err := r.store.Get(ctx, checkedKey(alertID))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return time.Time{}, nil
		}
		return time.Time{}, fmt.Errorf("get %s: %w", checkedKey(alertID), err)
	}
	ms, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %s: %w", checkedKey(alertID), err)
	}
	return time.UnixMilli(ms).UTC(), nil
}

// Touch records the time of an evaluation pass.
func (r *Repo) Touch(ctx context.Context, alertID string, t time.Time) error {
	val := strconv.FormatInt(t.UnixMilli(), 10)
	if err := r.store.Set(ctx, checkedKey(alertID), []byte(val)); err != nil {
		return fmt.Errorf("set %s: %w", checkedKey(alertID), err)
	}
	return nil
}

// Clear removes all match state for an alert. Used only by the delete
// cascade.
func (r *Repo) Clear(ctx context.Context, alertID string) error {
	if err := r.store.DelMulti(ctx, matchKey(alertID), checkedKey(alertID)); err != nil {
		return fmt.Errorf("clear match state %s: %w", alertID, err)
	}
	return nil
}

func matchKey(alertID string) string {
	return keyPrefix + "match:" + alertID
}

func checkedKey(alertID string) string {
	return keyPrefix + "checked:" + alertID
}
