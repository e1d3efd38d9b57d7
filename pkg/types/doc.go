// Package types defines the location metadata, containment events, store
// contracts, configuration and standard error types shared by every cabinet
// package. It holds no container logic; see package container for that.
package types
