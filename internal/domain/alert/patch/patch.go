package patch

import (
	"fmt"

	"github.com/harsh17-bit/estate-alerts/internal/domain/criteria"
)

// Patch is a partial alert update. Nil fields are unchanged.
// Only criteria and the active flag are mutable; id and owner never change.
type Patch struct {
	criteria *criteria.Criteria
	active   *bool
}

// New validates and creates a Patch. At least one field must be provided,
// and a replacement criteria must itself be valid.
func New(c *criteria.Criteria, active *bool) (Patch, error) {
	if c == nil && active == nil {
		return Patch{}, fmt.Errorf("at least one field must be provided")
	}
	if c != nil {
		if err := c.Validate(); err != nil {
			return Patch{}, fmt.Errorf("invalid criteria: %w", err)
		}
	}
	return Patch{criteria: c, active: active}, nil
}

// Criteria returns the replacement criteria, or nil if unchanged.
func (p Patch) Criteria() *criteria.Criteria { return p.criteria }

// Active returns the new active flag, or nil if unchanged.
func (p Patch) Active() *bool { return p.active }

// HasCriteria reports whether the patch replaces the criteria.
func (p Patch) HasCriteria() bool { return p.criteria != nil }
