// Package store keeps a scheme's accepted registrations as one JSON array
// under the scheme's storage key, plus the sequence counter that numbers
// them.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"regdesk/internal/registration/models"
	"regdesk/internal/storage"
	id "regdesk/pkg/domain"
	"regdesk/pkg/platform/sentinel"
)

// Store reads and writes one scheme's registration list.
type Store struct {
	local      storage.Local
	storageKey string
	counterKey string
	logger     *slog.Logger
	onCorrupt  func()
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used to report corrupt lists.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithCorruptHook is called whenever the stored list fails to parse.
func WithCorruptHook(fn func()) Option {
	return func(s *Store) {
		s.onCorrupt = fn
	}
}

// New builds a store over the given keys.
func New(local storage.Local, storageKey, counterKey string, opts ...Option) *Store {
	s := &Store{
		local:      local,
		storageKey: storageKey,
		counterKey: counterKey,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// decode parses a stored list. A corrupt list reads as empty.
func (s *Store) decode(ctx context.Context, raw string, exists bool) []models.Record {
	if !exists || raw == "" {
		return []models.Record{}
	}
	var records []models.Record
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		s.logger.WarnContext(ctx, "ignoring corrupt registration list",
			"key", s.storageKey,
			"error", err,
		)
		if s.onCorrupt != nil {
			s.onCorrupt()
		}
		return []models.Record{}
	}
	if records == nil {
		records = []models.Record{}
	}
	return records
}

func encode(records []models.Record) (string, error) {
	raw, err := json.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("encode registrations: %w", err)
	}
	return string(raw), nil
}

// List returns every record in insertion order. Absent or corrupt data is an
// empty list; only storage failures are errors.
func (s *Store) List(ctx context.Context) ([]models.Record, error) {
	raw, ok, err := s.local.Get(ctx, s.storageKey)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	return s.decode(ctx, raw, ok), nil
}

// Append adds r at the end. IDs are not checked for duplicates.
func (s *Store) Append(ctx context.Context, r models.Record) error {
	err := s.local.Update(ctx, s.storageKey, func(current string, exists bool) (string, error) {
		records := s.decode(ctx, current, exists)
		return encode(append(records, r))
	})
	if err != nil {
		return fmt.Errorf("append registration: %w", err)
	}
	return nil
}

// Delete removes every record with the ID. It reports whether any matched;
// an unknown ID leaves storage untouched.
func (s *Store) Delete(ctx context.Context, regID id.RegistrationID) (bool, error) {
	removed := false
	err := s.local.Update(ctx, s.storageKey, func(current string, exists bool) (string, error) {
		removed = false
		records := s.decode(ctx, current, exists)
		kept := make([]models.Record, 0, len(records))
		for _, r := range records {
			if r.RegistrationID == regID {
				continue
			}
			kept = append(kept, r)
		}
		if len(kept) == len(records) {
			return "", storage.ErrNoChange
		}
		removed = true
		return encode(kept)
	})
	if err != nil && !errors.Is(err, storage.ErrNoChange) {
		return false, fmt.Errorf("delete registration: %w", err)
	}
	return removed, nil
}

// Clear removes the list and the counter, so numbering restarts at 1. It
// returns how many records were removed.
func (s *Store) Clear(ctx context.Context) (int, error) {
	records, err := s.List(ctx)
	if err != nil {
		return 0, err
	}
	if err := s.local.Remove(ctx, s.storageKey, s.counterKey); err != nil {
		return 0, fmt.Errorf("clear registrations: %w", err)
	}
	return len(records), nil
}

// NextSequence atomically increments the counter and returns the new value.
// A counter that is not an integer is re-seeded from the highest sequence
// among the stored records before incrementing.
func (s *Store) NextSequence(ctx context.Context) (int64, error) {
	n, err := s.local.Incr(ctx, s.counterKey)
	if errors.Is(err, storage.ErrCorruptCounter) {
		if err := s.reseed(ctx); err != nil {
			return 0, err
		}
		n, err = s.local.Incr(ctx, s.counterKey)
	}
	if err != nil {
		return 0, fmt.Errorf("next registration sequence: %w", err)
	}
	return n, nil
}

// reseed replaces a corrupt counter with the highest stored sequence.
func (s *Store) reseed(ctx context.Context) error {
	records, err := s.List(ctx)
	if err != nil {
		return err
	}
	highest := MaxSequence(records)
	err = s.local.Update(ctx, s.counterKey, func(current string, exists bool) (string, error) {
		if _, err := parseSequence(s.counterKey, current, exists); err == nil {
			return "", storage.ErrNoChange
		}
		return strconv.FormatInt(highest, 10), nil
	})
	if err != nil && !errors.Is(err, storage.ErrNoChange) {
		return fmt.Errorf("reseed registration sequence: %w", err)
	}
	s.logger.WarnContext(ctx, "reseeded corrupt registration counter",
		"key", s.counterKey,
		"sequence", highest,
	)
	return nil
}

// MaxSequence returns the highest sequence number among the records' IDs.
// IDs that do not parse are skipped.
func MaxSequence(records []models.Record) int64 {
	var highest int64
	for _, r := range records {
		_, _, seq, err := id.ParseRegistrationID(r.RegistrationID.String())
		if err != nil {
			continue
		}
		if seq > highest {
			highest = seq
		}
	}
	return highest
}

// Sequence returns the counter's current value without changing it.
func (s *Store) Sequence(ctx context.Context) (int64, error) {
	raw, ok, err := s.local.Get(ctx, s.counterKey)
	if err != nil {
		return 0, fmt.Errorf("read registration sequence: %w", err)
	}
	return parseSequence(s.counterKey, raw, ok)
}

func parseSequence(key, raw string, exists bool) (int64, error) {
	if !exists || raw == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: key %s", storage.ErrCorruptCounter, key)
	}
	return n, nil
}

// Get returns the first record with the ID, or sentinel.ErrNotFound.
func (s *Store) Get(ctx context.Context, regID id.RegistrationID) (models.Record, error) {
	records, err := s.List(ctx)
	if err != nil {
		return models.Record{}, err
	}
	for _, r := range records {
		if r.RegistrationID == regID {
			return r, nil
		}
	}
	return models.Record{}, fmt.Errorf("registration %s: %w", regID, sentinel.ErrNotFound)
}
