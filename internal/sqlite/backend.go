// Package sqlite persists container buckets in a SQLite database.
//
// A bucket is a named key space. Store returns a types.Store over a bucket
// and OrderList a types.OrderStore for its presentation order; both write
// through to the database file cabinet.db in the configured data directory.
package sqlite

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/cabinet/pkg/types"
)

// DatabaseFile is the name of the database inside the data directory.
const DatabaseFile = "cabinet.db"

// Backend owns the database connection and the open buckets.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	id       string
	config   types.Config
	db       *sql.DB
	codec    Codec
	logger   *slog.Logger
	stores   map[string]*Store
	orders   map[string]*OrderList
}

// Option configures a Backend.
type Option func(*Backend)

// WithCodec sets the value codec. The default is JSONCodec.
func WithCodec(c Codec) Option {
	return func(b *Backend) { b.codec = c }
}

// WithLogger sets the logger. The default discards.
func WithLogger(l *slog.Logger) Option {
	return func(b *Backend) { b.logger = l }
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend(opts ...Option) *Backend {
	b := &Backend{
		codec:  JSONCodec{},
		logger: slog.New(slog.DiscardHandler),
		stores: make(map[string]*Store),
		orders: make(map[string]*OrderList),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// Attach validates config, creates DataDir if it does not exist, opens
// the database and creates the schema.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}

	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return err
	}

	dbPath := filepath.Join(dataDir, DatabaseFile)
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return err
	}
	// A single connection keeps writes serialised.
	db.SetMaxOpenConns(1)

	for _, ddl := range append(append([]string{}, schemaDDL...), indexDDL...) {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return fmt.Errorf("creating schema: %w", err)
		}
	}

	b.db = db
	b.config = config
	b.id = generateUUID()
	b.attached = true
	b.logger.Debug("backend attached", "backend", b.id, "path", dbPath)
	return nil
}

// Detach closes the database. Stores obtained earlier keep serving reads
// from their index; writes return ErrDetached. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}

	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}

	b.attached = false
	b.stores = make(map[string]*Store)
	b.orders = make(map[string]*OrderList)
	b.logger.Debug("backend detached", "backend", b.id)
	return nil
}

// ID returns the identifier of the current attachment.
func (b *Backend) ID() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.id
}

// Config returns the configuration passed to Attach.
func (b *Backend) Config() types.Config {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.config
}

// Store returns the store for bucket, loading it on first use. Repeated
// calls return the same Store.
func (b *Backend) Store(bucket string) (*Store, error) {
	if err := checkBucket(bucket); err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil, types.ErrDetached
	}
	if s, ok := b.stores[bucket]; ok {
		return s, nil
	}
	s := newStore(b, bucket)
	if err := s.load(); err != nil {
		return nil, fmt.Errorf("loading bucket %q: %w", bucket, err)
	}
	b.stores[bucket] = s
	b.logger.Debug("bucket opened", "backend", b.id, "bucket", bucket, "entries", s.Len())
	return s, nil
}

// OrderList returns the order store for bucket.
func (b *Backend) OrderList(bucket string) (*OrderList, error) {
	if err := checkBucket(bucket); err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil, types.ErrDetached
	}
	if o, ok := b.orders[bucket]; ok {
		return o, nil
	}
	o := &OrderList{backend: b, bucket: bucket}
	b.orders[bucket] = o
	return o, nil
}

// Buckets lists every bucket holding entries or an order, sorted by name.
func (b *Backend) Buckets() ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrDetached
	}
	rows, err := b.db.Query(`SELECT bucket FROM entries UNION SELECT bucket FROM orders ORDER BY bucket`)
	if err != nil {
		return nil, fmt.Errorf("listing buckets: %w", err)
	}
	defer rows.Close()

	var buckets []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning bucket: %w", err)
		}
		buckets = append(buckets, name)
	}
	return buckets, rows.Err()
}

// exec runs a write statement while attached.
func (b *Backend) exec(query string, args ...any) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return types.ErrDetached
	}
	_, err := b.db.Exec(query, args...)
	return err
}

func checkBucket(bucket string) error {
	if bucket == "" || strings.ContainsAny(bucket, "/\x00") {
		return fmt.Errorf("%w: %q", types.ErrInvalidBucket, bucket)
	}
	return nil
}

// now formats the current time for updated_at columns.
func now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// generateUUID generates a new UUID v7 for backend instance IDs.
func generateUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails
		return uuid.New().String()
	}
	return id.String()
}
