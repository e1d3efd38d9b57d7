// Package memory provides the in-memory backing store for containers: a
// B-tree keyed by name with ascending range scans and an O(1) count.
//
// The store holds values as-is, so object identity survives a round trip.
// It does not lock; a container is used by one writer at a time.
package memory
