// Package property holds the catalog's listing representation.
// The catalog is an external collaborator; listings are read-only here.
package property

import "time"

// Property is a single catalog listing as returned by the catalog service.
type Property struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	City         string    `json:"city"`
	Locality     string    `json:"locality,omitempty"`
	ListingType  string    `json:"listingType"` // buy | rent
	PropertyType string    `json:"propertyType,omitempty"`
	Price        float64   `json:"price"`
	Bedrooms     int       `json:"bedrooms"`
	Bathrooms    int       `json:"bathrooms"`
	AreaSqFt     float64   `json:"areaSqFt,omitempty"`
	Furnished    bool      `json:"furnished"`
	Verified     bool      `json:"isVerified"`
	ListedAt     time.Time `json:"listedAt,omitzero"`
}

// Filter is the coarse pre-filter passed to the catalog to bound the
// candidate set. Empty fields mean no restriction; fine-grained matching
// happens against the full criteria afterwards.
type Filter struct {
	City        string `json:"city,omitempty"`
	ListingType string `json:"listingType,omitempty"`
}
