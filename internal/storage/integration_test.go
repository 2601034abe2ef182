//go:build integration

package storage_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"regdesk/internal/platform/postgres"
	"regdesk/internal/storage"
	"regdesk/internal/storage/storagetest"
	"regdesk/pkg/testutil/containers"
)

func TestRedisDriver(t *testing.T) {
	rc := containers.NewRedisContainer(t)

	suite.Run(t, &storagetest.Suite{
		NewLocal: func() storage.Local {
			require.NoError(t, rc.FlushAll(context.Background()))
			return storage.NewRedis(rc.Client)
		},
	})
}

func TestPostgresDriver(t *testing.T) {
	pc := containers.NewPostgresContainer(t)
	require.NoError(t, postgres.Migrate(context.Background(), pc.DB))

	suite.Run(t, &storagetest.Suite{
		NewLocal: func() storage.Local {
			require.NoError(t, pc.Truncate(context.Background(), "kv"))
			return storage.NewPostgres(pc.DB)
		},
	})
}
