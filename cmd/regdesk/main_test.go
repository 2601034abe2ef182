package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("EVENTS_SINK", "none")
	t.Setenv("LOG_LEVEL", "error")

	var out, errOut bytes.Buffer
	cmd := rootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "regdesk version dev")
}

func TestSchemesListsBuiltins(t *testing.T) {
	out, _, err := run(t, "", "schemes")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[0], "ID PREFIX")
	assert.Contains(t, lines[1], "adventure-training")
	assert.Contains(t, lines[4], "khel-mahakumbh")
	assert.Contains(t, lines[4], "10-60")
}

func TestExportWithNoRecords(t *testing.T) {
	out, errOut, err := run(t, "", "export", "khel-mahakumbh", "-o", "-")
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "No records to export.")
}

func TestExportUnknownScheme(t *testing.T) {
	_, _, err := run(t, "", "export", "chess-club")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chess-club")
}

func TestPurgeWithNoRecords(t *testing.T) {
	out, _, err := run(t, "", "purge", "youth-volunteering")
	require.NoError(t, err)
	assert.Contains(t, out, "No records to clear.")
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"yes", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		assert.Equal(t, tt.want, confirm(strings.NewReader(tt.input), &out, "Delete?"), "input %q", tt.input)
		assert.Equal(t, "Delete? [y/N] ", out.String())
	}
}
