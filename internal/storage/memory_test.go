package storage_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"regdesk/internal/storage"
	"regdesk/internal/storage/storagetest"
)

func TestMemory(t *testing.T) {
	suite.Run(t, &storagetest.Suite{
		NewLocal: func() storage.Local { return storage.NewMemory() },
	})
}
