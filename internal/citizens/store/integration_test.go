//go:build integration

package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"census/internal/citizens/store"
	"census/pkg/testutil/containers"
)

func TestPostgresStore(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	pg := containers.GetManager().GetPostgres(t)
	s := store.NewPostgres(pg.DB)
	require.NoError(t, s.EnsureSchema(context.Background()))

	suite.Run(t, &ContractSuite{newStore: func(t *testing.T) store.Store {
		require.NoError(t, pg.TruncateTables(context.Background(), "imports"))
		return s
	}})
}

func TestRedisStore(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	rc := containers.GetManager().GetRedis(t)

	suite.Run(t, &ContractSuite{newStore: func(t *testing.T) store.Store {
		require.NoError(t, rc.FlushAll(context.Background()))
		return store.NewRedis(rc.Client)
	}})
}
