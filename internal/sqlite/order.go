package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/cabinet/pkg/types"
)

// OrderList is a types.OrderStore keeping a bucket's order as a JSON array
// in the orders table.
type OrderList struct {
	backend *Backend
	bucket  string
}

// Load returns the saved order, or nil when none was saved.
func (o *OrderList) Load() ([]string, error) {
	o.backend.mu.RLock()
	defer o.backend.mu.RUnlock()

	if !o.backend.attached {
		return nil, types.ErrDetached
	}
	var raw string
	err := o.backend.db.QueryRow(`SELECT keys FROM orders WHERE bucket = ?`, o.bucket).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading order of %q: %w", o.bucket, err)
	}
	var keys []string
	if err := json.Unmarshal([]byte(raw), &keys); err != nil {
		return nil, fmt.Errorf("decoding order of %q: %w", o.bucket, err)
	}
	if keys == nil {
		keys = []string{}
	}
	return keys, nil
}

// Save replaces the saved order.
func (o *OrderList) Save(order []string) error {
	if order == nil {
		order = []string{}
	}
	raw, err := json.Marshal(order)
	if err != nil {
		return err
	}
	err = o.backend.exec(`INSERT INTO orders (bucket, keys, updated_at) VALUES (?, ?, ?)
ON CONFLICT (bucket) DO UPDATE SET keys = excluded.keys, updated_at = excluded.updated_at`,
		o.bucket, string(raw), now())
	if err != nil {
		return fmt.Errorf("writing order of %q: %w", o.bucket, err)
	}
	return nil
}

var _ types.OrderStore = (*OrderList)(nil)
