package health

import "context"

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// CatalogPinger checks property catalog availability.
type CatalogPinger interface {
	Ping(ctx context.Context) error
}
