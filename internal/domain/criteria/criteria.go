// Package criteria is the saved-search filter and its pure evaluator.
package criteria

import (
	"fmt"
	"strings"

	"github.com/harsh17-bit/estate-alerts/internal/domain/property"
)

// Listing type values accepted by ListingType.
const (
	ListingBuy  = "buy"
	ListingRent = "rent"
)

// Criteria is a partially-specified listing filter. A nil field means
// "no constraint on this dimension". All present dimensions are
// AND-combined by Matches.
type Criteria struct {
	City         *string  `json:"city,omitempty"`
	Locality     *string  `json:"locality,omitempty"`
	ListingType  *string  `json:"listingType,omitempty"`
	PropertyType *string  `json:"propertyType,omitempty"`
	PriceMin     *float64 `json:"priceMin,omitempty"`
	PriceMax     *float64 `json:"priceMax,omitempty"`
	BedroomsMin  *int     `json:"bedroomsMin,omitempty"`
	BathroomsMin *int     `json:"bathroomsMin,omitempty"`
	AreaSqFtMin  *float64 `json:"areaSqFtMin,omitempty"`
	FurnishedOnly *bool   `json:"furnishedOnly,omitempty"`
	VerifiedOnly  *bool   `json:"verifiedOnly,omitempty"`
}

// ConstraintCount returns the number of constraining dimensions.
// FurnishedOnly/VerifiedOnly only constrain when true.
func (c Criteria) ConstraintCount() int {
	n := 0
	for _, set := range []bool{
		c.City != nil,
		c.Locality != nil,
		c.ListingType != nil,
		c.PropertyType != nil,
		c.PriceMin != nil,
		c.PriceMax != nil,
		c.BedroomsMin != nil,
		c.BathroomsMin != nil,
		c.AreaSqFtMin != nil,
		c.FurnishedOnly != nil && *c.FurnishedOnly,
		c.VerifiedOnly != nil && *c.VerifiedOnly,
	} {
		if set {
			n++
		}
	}
	return n
}

// Validate checks field-level consistency. Criteria matching everything
// (zero constraining fields) is rejected.
func (c Criteria) Validate() error {
	if c.ConstraintCount() == 0 {
		return fmt.Errorf("criteria must constrain at least one field")
	}
	if c.ListingType != nil {
		lt := normalize(*c.ListingType)
		if lt != ListingBuy && lt != ListingRent {
			return fmt.Errorf("listingType must be %q or %q, got %q", ListingBuy, ListingRent, *c.ListingType)
		}
	}
	if c.PriceMin != nil && *c.PriceMin < 0 {
		return fmt.Errorf("priceMin must be non-negative")
	}
	if c.PriceMax != nil && *c.PriceMax < 0 {
		return fmt.Errorf("priceMax must be non-negative")
	}
	if c.PriceMin != nil && c.PriceMax != nil && *c.PriceMin > *c.PriceMax {
		return fmt.Errorf("priceMin %v exceeds priceMax %v", *c.PriceMin, *c.PriceMax)
	}
	if c.BedroomsMin != nil && *c.BedroomsMin < 0 {
		return fmt.Errorf("bedroomsMin must be non-negative")
	}
	if c.BathroomsMin != nil && *c.BathroomsMin < 0 {
		return fmt.Errorf("bathroomsMin must be non-negative")
	}
	if c.AreaSqFtMin != nil && *c.AreaSqFtMin < 0 {
		return fmt.Errorf("areaSqFtMin must be non-negative")
	}
	return nil
}

// Matches reports whether the listing satisfies every present dimension.
// Pure: no I/O, deterministic, order-independent across dimensions.
// Numeric bounds are inclusive; string dimensions compare
// case-insensitively on the trimmed exact value.
func (c Criteria) Matches(p property.Property) bool {
	if c.City != nil && !sameValue(*c.City, p.City) {
		return false
	}
	if c.Locality != nil && !sameValue(*c.Locality, p.Locality) {
		return false
	}
	if c.ListingType != nil && !sameValue(*c.ListingType, p.ListingType) {
		return false
	}
	if c.PropertyType != nil && !sameValue(*c.PropertyType, p.PropertyType) {
		return false
	}
	if c.PriceMin != nil && p.Price < *c.PriceMin {
		return false
	}
	if c.PriceMax != nil && p.Price > *c.PriceMax {
		return false
	}
	if c.BedroomsMin != nil && p.Bedrooms < *c.BedroomsMin {
		return false
	}
	if c.BathroomsMin != nil && p.Bathrooms < *c.BathroomsMin {
		return false
	}
	if c.AreaSqFtMin != nil && p.AreaSqFt < *c.AreaSqFtMin {
		return false
	}
	if c.FurnishedOnly != nil && *c.FurnishedOnly && !p.Furnished {
		return false
	}
	if c.VerifiedOnly != nil && *c.VerifiedOnly && !p.Verified {
		return false
	}
	return true
}

// Hints returns the coarse catalog pre-filter derived from the
// criteria's cheap categorical dimensions.
func (c Criteria) Hints() property.Filter {
	var f property.Filter
	if c.City != nil {
		f.City = normalize(*c.City)
	}
	if c.ListingType != nil {
		f.ListingType = normalize(*c.ListingType)
	}
	return f
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func sameValue(want, got string) bool {
	return strings.EqualFold(strings.TrimSpace(want), strings.TrimSpace(got))
}
