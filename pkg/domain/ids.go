package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	dErrors "regdesk/pkg/domain-errors"
)

// DeviceID identifies one browser profile. Drafts, pending photos and the
// submission state are scoped to it.
type DeviceID uuid.UUID

// NewDeviceID returns a fresh random device ID.
func NewDeviceID() DeviceID {
	return DeviceID(uuid.New())
}

// ParseDeviceID validates a device ID taken from a cookie.
//
// Errors: CodeInvalidInput when the value is empty, malformed or the nil UUID.
func ParseDeviceID(s string) (DeviceID, error) {
	if s == "" {
		return DeviceID{}, dErrors.New(dErrors.CodeInvalidInput, "device id cannot be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return DeviceID{}, dErrors.New(dErrors.CodeInvalidInput, "invalid device id")
	}
	if u == uuid.Nil {
		return DeviceID{}, dErrors.New(dErrors.CodeInvalidInput, "device id cannot be nil")
	}
	return DeviceID(u), nil
}

func (d DeviceID) String() string {
	return uuid.UUID(d).String()
}

func (d DeviceID) IsNil() bool {
	return uuid.UUID(d) == uuid.Nil
}

// sequenceWidth is the zero-padded width of the numeric suffix.
const sequenceWidth = 6

// maxRegistrationIDLen bounds input at trust boundaries.
const maxRegistrationIDLen = 64

// RegistrationID is the human readable `{prefix}-{sequence:06d}` identifier.
// It is assigned once, on acceptance, and never changes.
type RegistrationID string

// FormatRegistrationID renders prefix and sequence, e.g. ("YV-UT-2025", 1) →
// "YV-UT-2025-000001". Sequences wider than six digits are not truncated.
func FormatRegistrationID(prefix string, seq int64) RegistrationID {
	return RegistrationID(fmt.Sprintf("%s-%0*d", prefix, sequenceWidth, seq))
}

var registrationIDPattern = regexp.MustCompile(`^([A-Z0-9]+(?:-[A-Z0-9]+)*)-([0-9]{6,})$`)

// ParseRegistrationID validates an identifier from a URL or CLI flag and
// splits it into prefix and sequence.
//
// Errors: CodeInvalidInput for empty, oversized, non-UTF8 or malformed values.
func ParseRegistrationID(s string) (RegistrationID, string, int64, error) {
	if s == "" {
		return "", "", 0, dErrors.New(dErrors.CodeInvalidInput, "registration id cannot be empty")
	}
	if len(s) > maxRegistrationIDLen || !utf8.ValidString(s) {
		return "", "", 0, dErrors.New(dErrors.CodeInvalidInput, "invalid registration id")
	}
	m := registrationIDPattern.FindStringSubmatch(s)
	if m == nil {
		return "", "", 0, dErrors.New(dErrors.CodeInvalidInput, "invalid registration id")
	}
	seq, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil || seq < 1 {
		return "", "", 0, dErrors.New(dErrors.CodeInvalidInput, "invalid registration sequence")
	}
	return RegistrationID(s), m[1], seq, nil
}

func (r RegistrationID) String() string {
	return string(r)
}

// HasPrefix reports whether the ID was issued under prefix.
func (r RegistrationID) HasPrefix(prefix string) bool {
	return strings.HasPrefix(string(r), prefix+"-")
}

// SchemeSlug is the URL-safe name of a scheme, e.g. "youth-volunteering".
type SchemeSlug string

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// ParseSchemeSlug validates a slug from a route parameter or flag.
//
// Errors: CodeInvalidInput when empty, longer than 64 bytes or not kebab-case.
func ParseSchemeSlug(s string) (SchemeSlug, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "scheme cannot be empty")
	}
	if len(s) > 64 || !slugPattern.MatchString(s) {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid scheme")
	}
	return SchemeSlug(s), nil
}

func (s SchemeSlug) String() string {
	return string(s)
}
