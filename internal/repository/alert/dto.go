package alert

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	domalert "github.com/harsh17-bit/estate-alerts/internal/domain/alert"
	"github.com/harsh17-bit/estate-alerts/internal/domain/criteria"
)

// keyPrefix namespaces every engine key in the shared backend.
const keyPrefix = "estalert:"

// activeKey is the global index set of active alert ids.
const activeKey = keyPrefix + "active"

func alertKey(id string) string {
	return keyPrefix + "alert:" + id
}

func ownerKey(ownerID string) string {
	return keyPrefix + "owner:" + ownerID
}

// buildHashFields converts a domain Alert into a flat map for HSET.
// Criteria is stored as a JSON blob; timestamps as unix milliseconds.
func buildHashFields(a domalert.Alert) map[string]string {
	c, _ := json.Marshal(a.Criteria())
	active := "0"
	if a.Active() {
		active = "1"
	}
	return map[string]string{
		"owner_id":   a.OwnerID(),
		"criteria":   string(c),
		"active":     active,
		"created_at": strconv.FormatInt(a.CreatedAt().UnixMilli(), 10),
		"updated_at": strconv.FormatInt(a.UpdatedAt().UnixMilli(), 10),
	}
}

// parseHashFields converts a flat hash map back into a domain Alert.
func parseHashFields(id string, m map[string]string) (domalert.Alert, error) {
	ownerID := m["owner_id"]
	if ownerID == "" {
		return domalert.Alert{}, fmt.Errorf("alert %s: missing owner_id", id)
	}

	var c criteria.Criteria
	if raw := m["criteria"]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &c); err != nil {
			return domalert.Alert{}, fmt.Errorf("alert %s: decode criteria: %w", id, err)
		}
	}

	createdAt, err := parseMilli(m["created_at"])
	if err != nil {
		return domalert.Alert{}, fmt.Errorf("alert %s: created_at: %w", id, err)
	}
	updatedAt, err := parseMilli(m["updated_at"])
	if err != nil {
		return domalert.Alert{}, fmt.Errorf("alert %s: updated_at: %w", id, err)
	}

	return domalert.Reconstruct(id, ownerID, c, m["active"] == "1", createdAt, updatedAt), nil
}

func parseMilli(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(ms).UTC(), nil
}

// sortByCreatedDesc orders newest first with id as tiebreak so listings
// are stable across calls.
func sortByCreatedDesc(alerts []domalert.Alert) {
	sort.Slice(alerts, func(i, j int) bool {
		if !alerts[i].CreatedAt().Equal(alerts[j].CreatedAt()) {
			return alerts[i].CreatedAt().After(alerts[j].CreatedAt())
		}
		return alerts[i].ID() < alerts[j].ID()
	})
}
