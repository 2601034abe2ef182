// Package draft persists unsubmitted form snapshots per device and schedules
// debounced saves.
package draft

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"regdesk/internal/registration/models"
	"regdesk/internal/registration/photo"
	"regdesk/internal/storage"
	id "regdesk/pkg/domain"
)

// Toast messages shown after draft actions.
const (
	MsgSaved     = "Draft saved!"
	MsgRestored  = "Draft restored!"
	MsgDiscarded = "Draft discarded."
)

// Store reads and writes drafts under {draftKey}:{deviceID}.
type Store struct {
	local     storage.Local
	draftKey  string
	scheme    id.SchemeSlug
	photos    *photo.Cache
	logger    *slog.Logger
	onCorrupt func()
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used to report corrupt drafts.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithPhotoCache makes Discard also drop the device's cached photo.
func WithPhotoCache(scheme id.SchemeSlug, photos *photo.Cache) Option {
	return func(s *Store) {
		s.scheme = scheme
		s.photos = photos
	}
}

// WithCorruptHook is called whenever a stored draft fails to parse.
func WithCorruptHook(fn func()) Option {
	return func(s *Store) {
		s.onCorrupt = fn
	}
}

// NewStore builds a draft store for one scheme's draft key.
func NewStore(local storage.Local, draftKey string, opts ...Option) *Store {
	s := &Store{
		local:    local,
		draftKey: draftKey,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key returns the storage key of a device's draft.
func (s *Store) Key(device id.DeviceID) string {
	return s.draftKey + ":" + device.String()
}

// Save overwrites the device's draft. The photo is never part of it.
func (s *Store) Save(ctx context.Context, device id.DeviceID, d models.FormData) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	if err := s.local.Set(ctx, s.Key(device), string(raw)); err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

// Get returns the stored draft whatever its content. Corrupt JSON counts as
// absent.
func (s *Store) Get(ctx context.Context, device id.DeviceID) (models.FormData, bool, error) {
	raw, ok, err := s.local.Get(ctx, s.Key(device))
	if err != nil {
		return models.FormData{}, false, fmt.Errorf("load draft: %w", err)
	}
	if !ok {
		return models.FormData{}, false, nil
	}
	var d models.FormData
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		s.logger.WarnContext(ctx, "ignoring corrupt draft",
			"key", s.Key(device),
			"error", err,
		)
		if s.onCorrupt != nil {
			s.onCorrupt()
		}
		return models.FormData{}, false, nil
	}
	return d, true, nil
}

// Load returns the draft worth offering for restore: one that exists and has
// a full name.
func (s *Store) Load(ctx context.Context, device id.DeviceID) (models.FormData, bool, error) {
	d, ok, err := s.Get(ctx, device)
	if err != nil || !ok {
		return models.FormData{}, false, err
	}
	if strings.TrimSpace(d.FullName) == "" {
		return models.FormData{}, false, nil
	}
	return d, true, nil
}

// Discard deletes the draft and the cached photo.
func (s *Store) Discard(ctx context.Context, device id.DeviceID) error {
	if s.photos != nil {
		s.photos.Remove(s.scheme, device)
	}
	if err := s.local.Remove(ctx, s.Key(device)); err != nil {
		return fmt.Errorf("discard draft: %w", err)
	}
	return nil
}

// Devices lists the devices holding a draft.
func (s *Store) Devices(ctx context.Context) ([]id.DeviceID, error) {
	keys, err := s.local.Scan(ctx, s.draftKey+":")
	if err != nil {
		return nil, fmt.Errorf("scan drafts: %w", err)
	}
	devices := make([]id.DeviceID, 0, len(keys))
	for _, k := range keys {
		device, err := id.ParseDeviceID(strings.TrimPrefix(k, s.draftKey+":"))
		if err != nil {
			continue
		}
		devices = append(devices, device)
	}
	return devices, nil
}
