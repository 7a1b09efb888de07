package store_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"census/internal/citizens/store"
	platformbadger "census/internal/platform/badger"
)

func TestInMemoryStore(t *testing.T) {
	suite.Run(t, &ContractSuite{newStore: func(*testing.T) store.Store {
		return store.NewInMemoryStore()
	}})
}

func TestSQLiteStore(t *testing.T) {
	suite.Run(t, &ContractSuite{newStore: func(t *testing.T) store.Store {
		s, err := store.OpenSQLite(filepath.Join(t.TempDir(), "census.db"))
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close() })
		return s
	}})
}

func TestBadgerStore(t *testing.T) {
	suite.Run(t, &ContractSuite{newStore: func(t *testing.T) store.Store {
		db, err := platformbadger.Open(platformbadger.InMemoryOptions())
		require.NoError(t, err)
		t.Cleanup(func() { _ = db.Close() })
		return store.NewBadger(db.DB)
	}})
}

func TestSQLiteStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "census.db")
	s, err := store.OpenSQLite(path)
	require.NoError(t, err)
	importID, err := s.Create(t.Context(), sampleCitizens())
	require.NoError(t, err)
	require.NoError(t, s.Close())

	reopened, err := store.OpenSQLite(path)
	require.NoError(t, err)
	defer reopened.Close()

	imp, err := reopened.Get(t.Context(), importID)
	require.NoError(t, err)
	require.Equal(t, sampleCitizens(), imp.Citizens)

	next, err := reopened.Create(t.Context(), sampleCitizens())
	require.NoError(t, err)
	require.Equal(t, importID+1, next)
}

func TestOpenSQLiteRequiresPath(t *testing.T) {
	_, err := store.OpenSQLite("  ")
	require.Error(t, err)
}
