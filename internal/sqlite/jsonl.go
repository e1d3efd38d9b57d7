package sqlite

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/cabinet/pkg/container"
	"github.com/mesh-intelligence/cabinet/pkg/types"
)

// Record is one line of an export file.
type Record struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

// ExportJSONL writes the entries of bucket to path, one Record per line, in
// the bucket's saved order followed by any entries the order does not
// list. It returns the number of records written.
func (b *Backend) ExportJSONL(bucket, path string) (int, error) {
	s, err := b.Store(bucket)
	if err != nil {
		return 0, err
	}
	ol, err := b.OrderList(bucket)
	if err != nil {
		return 0, err
	}
	order, err := ol.Load()
	if err != nil {
		return 0, err
	}

	seen := make(map[string]bool, s.Len())
	keys := make([]string, 0, s.Len())
	for _, k := range order {
		if s.Has(k) && !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	for k := range s.Keys("") {
		if !seen[k] {
			keys = append(keys, k)
		}
	}

	records := make([]json.RawMessage, 0, len(keys))
	for _, k := range keys {
		v, _ := s.Get(k)
		value, err := json.Marshal(container.Unwrap(v))
		if err != nil {
			return 0, fmt.Errorf("encoding %q: %w", k, err)
		}
		line, err := json.Marshal(Record{Key: k, Value: value})
		if err != nil {
			return 0, fmt.Errorf("encoding %q: %w", k, err)
		}
		records = append(records, line)
	}
	if err := writeJSONL(path, records); err != nil {
		return 0, err
	}
	return len(records), nil
}

// ImportJSONL reads the records in path and stores each value in c under
// its key, in file order. Malformed lines and lines without a key are
// skipped. It stops at the first failing Set and returns the number of
// records stored so far.
func ImportJSONL(path string, c types.WriteContainer) (int, error) {
	lines, err := readJSONL(path)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, line := range lines {
		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil || rec.Key == "" {
			continue
		}
		var v any
		if len(rec.Value) > 0 {
			if err := json.Unmarshal(rec.Value, &v); err != nil {
				continue
			}
		}
		if err := c.Set(rec.Key, v); err != nil {
			return n, fmt.Errorf("importing %q: %w", rec.Key, err)
		}
		n++
	}
	return n, nil
}

// readJSONL reads a JSONL file and returns each non-empty, parseable line as
// a json.RawMessage. Malformed lines are skipped.
func readJSONL(path string) ([]json.RawMessage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var records []json.RawMessage
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if !json.Valid(line) {
			continue
		}
		cp := make([]byte, len(line))
		copy(cp, line)
		records = append(records, json.RawMessage(cp))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}
	return records, nil
}

// writeJSONL atomically writes records to a JSONL file using the temp-file,
// fsync, rename pattern.
func writeJSONL(path string, records []json.RawMessage) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".jsonl-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	fail := func(err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}

	w := bufio.NewWriter(tmp)
	for _, rec := range records {
		if _, err := w.Write(rec); err != nil {
			return fail(fmt.Errorf("writing record: %w", err))
		}
		if err := w.WriteByte('\n'); err != nil {
			return fail(fmt.Errorf("writing newline: %w", err))
		}
	}
	if err := w.Flush(); err != nil {
		return fail(fmt.Errorf("flushing buffer: %w", err))
	}
	if err := tmp.Sync(); err != nil {
		return fail(fmt.Errorf("syncing temp file: %w", err))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
