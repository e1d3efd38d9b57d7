// Package sqlite provides the public API for the SQLite container backend.
// This package exposes the factory function for creating SQLite backends
// while keeping implementation details internal.
package sqlite

import (
	"log/slog"

	"github.com/mesh-intelligence/cabinet/internal/sqlite"
	"github.com/mesh-intelligence/cabinet/pkg/types"
)

// Backend persists buckets of container entries and their order.
type Backend interface {
	Attach(config types.Config) error
	Detach() error
	Buckets() ([]string, error)
	Store(bucket string) (types.Store, error)
	OrderList(bucket string) (types.OrderStore, error)
	ExportJSONL(bucket, path string) (int, error)
}

type backend struct {
	*sqlite.Backend
}

func (b backend) Store(bucket string) (types.Store, error) {
	s, err := b.Backend.Store(bucket)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (b backend) OrderList(bucket string) (types.OrderStore, error) {
	o, err := b.Backend.OrderList(bucket)
	if err != nil {
		return nil, err
	}
	return o, nil
}

// NewBackend creates a new SQLite backend instance. A nil logger discards.
// The backend is not attached; call Attach with a Config to initialize.
//
// Example:
//
//	backend := sqlite.NewBackend(nil)
//	err := backend.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".cabinet-db",
//	})
//	defer backend.Detach()
func NewBackend(logger *slog.Logger) Backend {
	var opts []sqlite.Option
	if logger != nil {
		opts = append(opts, sqlite.WithLogger(logger))
	}
	return backend{sqlite.NewBackend(opts...)}
}

// ImportJSONL stores the records of an export file in c, in file order.
func ImportJSONL(path string, c types.WriteContainer) (int, error) {
	return sqlite.ImportJSONL(path, c)
}
