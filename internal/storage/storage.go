// Package storage provides the key/value bucket each scheme persists into.
//
// Values are opaque strings: JSON documents for record lists and drafts, and
// decimal integers for sequence counters. Drivers: memory, leveldb, redis and
// postgres.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"regdesk/pkg/platform/sentinel"
)

// Local is the bucket interface the registration engine depends on.
type Local interface {
	// Get returns the value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set overwrites the value.
	Set(ctx context.Context, key, value string) error
	// Remove deletes the keys. Missing keys are ignored.
	Remove(ctx context.Context, keys ...string) error
	// Incr atomically adds one to a decimal counter (absent counts as zero)
	// and returns the new value.
	Incr(ctx context.Context, key string) (int64, error)
	// Update runs a read-modify-write on one key atomically with respect to
	// other writers of that key. Returning ErrNoChange from fn aborts without
	// writing.
	Update(ctx context.Context, key string, fn UpdateFunc) error
	// Scan lists keys starting with prefix, sorted.
	Scan(ctx context.Context, prefix string) ([]string, error)
	Close() error
}

// UpdateFunc receives the current value and returns the value to store.
type UpdateFunc func(current string, exists bool) (string, error)

// ErrNoChange tells Update to leave the key untouched.
var ErrNoChange = errors.New("storage: no change")

// ErrCorruptCounter reports a counter value that is not a decimal integer.
var ErrCorruptCounter = fmt.Errorf("storage: counter is not an integer: %w", sentinel.ErrInvalidState)

func parseCounter(key, value string, exists bool) (int64, error) {
	if !exists || strings.TrimSpace(value) == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: key %s", ErrCorruptCounter, key)
	}
	return n, nil
}

// applyUpdate runs fn and reports whether a write is needed.
func applyUpdate(fn UpdateFunc, current string, exists bool) (string, bool, error) {
	next, err := fn(current, exists)
	if errors.Is(err, ErrNoChange) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return next, true, nil
}
