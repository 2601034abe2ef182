package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "regdesk/pkg/domain-errors"
)

// TestParseDeviceID_Invariants validates the parsing invariant:
// "device IDs must be valid, non-empty, non-nil UUIDs"
func TestParseDeviceID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseDeviceID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseDeviceID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseDeviceID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		valid := uuid.New()
		got, err := ParseDeviceID(valid.String())
		require.NoError(t, err)
		assert.Equal(t, DeviceID(valid), got)
		assert.False(t, got.IsNil())
	})
}

func TestFormatRegistrationID(t *testing.T) {
	assert.Equal(t, RegistrationID("YV-UT-2025-000001"), FormatRegistrationID("YV-UT-2025", 1))
	assert.Equal(t, RegistrationID("KMK-UT-2026-000042"), FormatRegistrationID("KMK-UT-2026", 42))
	assert.Equal(t, RegistrationID("AT-UT-2026-1234567"), FormatRegistrationID("AT-UT-2026", 1234567))
}

func TestParseRegistrationID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		prefix  string
		seq     int64
		wantErr bool
	}{
		{"first id", "VT-UT-2025-000001", "VT-UT-2025", 1, false},
		{"wide sequence", "AT-UT-2026-1000000", "AT-UT-2026", 1000000, false},
		{"single segment prefix", "KMK-000123", "KMK", 123, false},

		{"empty", "", "", 0, true},
		{"short sequence", "VT-UT-2025-12", "", 0, true},
		{"zero sequence", "VT-UT-2025-000000", "", 0, true},
		{"lowercase prefix", "vt-ut-2025-000001", "", 0, true},
		{"path traversal", "../../etc/passwd", "", 0, true},
		{"null byte", "VT-UT-2025\x00-000001", "", 0, true},
		{"oversized", strings.Repeat("A", 70) + "-000001", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, prefix, seq, err := ParseRegistrationID(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.prefix, prefix)
			assert.Equal(t, tt.seq, seq)
			assert.True(t, id.HasPrefix(tt.prefix))
		})
	}
}

func TestParseSchemeSlug(t *testing.T) {
	for _, ok := range []string{"youth-volunteering", "khel-mahakumbh", "at2026"} {
		_, err := ParseSchemeSlug(ok)
		require.NoError(t, err, ok)
	}
	for _, bad := range []string{"", "Youth", "youth--volunteering", "-lead", "trail-", "a b", strings.Repeat("a", 65)} {
		_, err := ParseSchemeSlug(bad)
		require.Error(t, err, bad)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	}
}

func TestConsentKinds(t *testing.T) {
	kinds := ConsentKinds()
	require.Len(t, kinds, 4)
	for _, k := range kinds {
		assert.True(t, k.IsValid())
	}
	assert.False(t, ConsentKind("consentMarketing").IsValid())
}
