package db

import "context"

type LabelDatabase interface {
	Artists() ArtistInterface
	Releases() ReleaseInterface
	Platforms() PlatformInterface
	Employees() EmployeeInterface
	Accounts() AccountInterface
	Schema() SchemaInterface
	Close() error
}

// SchemaInterface manages the version of the database schema.
type SchemaInterface interface {
	// Version returns the schema version stored in the database.
	//
	// 0 means "no schema applied yet".
	Version(ctx context.Context) (int, error)

	// Upgrade applies schema versions newer than the current one.
	Upgrade(ctx context.Context) error

	// Context returns a context which is canceled
	// when the database schema gets older than the schema repository.
	Context(ctx context.Context) (context.Context, context.CancelFunc)
}
