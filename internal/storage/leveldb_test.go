package storage_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"regdesk/internal/storage"
	"regdesk/internal/storage/storagetest"
)

func TestLevelDB(t *testing.T) {
	suite.Run(t, &storagetest.Suite{
		NewLocal: func() storage.Local {
			l, err := storage.OpenLevelDB(filepath.Join(t.TempDir(), "kv"))
			require.NoError(t, err)
			return l
		},
	})
}

func TestLevelDBSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "kv")

	l, err := storage.OpenLevelDB(path)
	require.NoError(t, err)
	_, err = l.Incr(ctx, "kmk_id_counter")
	require.NoError(t, err)
	require.NoError(t, l.Close())

	l, err = storage.OpenLevelDB(path)
	require.NoError(t, err)
	defer l.Close()
	n, err := l.Incr(ctx, "kmk_id_counter")
	require.NoError(t, err)
	require.Equal(t, int64(2), n)
}
