package store_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"census/internal/citizens/models"
	"census/internal/citizens/store"
	id "census/pkg/domain"
	"census/pkg/platform/sentinel"
)

// ContractSuite is the behaviour every Store backend must share. Backends run it
// with a factory returning an empty store.
type ContractSuite struct {
	suite.Suite
	newStore func(t *testing.T) store.Store
	store    store.Store
	ctx      context.Context
}

func (s *ContractSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = s.newStore(s.T())
}

func sampleCitizens() []models.Citizen {
	return []models.Citizen{
		{
			CitizenID: 1,
			Town:      "Moscow",
			Street:    "Lva Tolstogo",
			Building:  "16k7str5",
			Apartment: 7,
			Name:      "Ivanov Ivan",
			BirthDate: models.NewBirthDate(1986, time.December, 26),
			Gender:    models.GenderMale,
			Relatives: []id.CitizenID{2},
		},
		{
			CitizenID: 2,
			Town:      "Moscow",
			Street:    "Lva Tolstogo",
			Building:  "16k7str5",
			Apartment: 7,
			Name:      "Ivanova Maria",
			BirthDate: models.NewBirthDate(1990, time.April, 1),
			Gender:    models.GenderFemale,
			Relatives: []id.CitizenID{1},
		},
		{
			CitizenID: 3,
			Town:      "Kerch",
			Street:    "Ivana Ivanovicha",
			Building:  "1",
			Apartment: 0,
			Name:      "Romanova Maria",
			BirthDate: models.NewBirthDate(1997, time.January, 2),
			Gender:    models.GenderFemale,
			Relatives: []id.CitizenID{},
		},
	}
}

func (s *ContractSuite) TestCreateAssignsSequentialIDs() {
	for want := id.ImportID(1); want <= 3; want++ {
		got, err := s.store.Create(s.ctx, sampleCitizens())
		s.Require().NoError(err)
		s.Equal(want, got)
	}
}

func (s *ContractSuite) TestGetReturnsStoredCitizens() {
	importID, err := s.store.Create(s.ctx, sampleCitizens())
	s.Require().NoError(err)

	imp, err := s.store.Get(s.ctx, importID)
	s.Require().NoError(err)
	s.Equal(importID, imp.ImportID)
	s.Equal(sampleCitizens(), imp.Citizens)
}

func (s *ContractSuite) TestNilRelativesComeBackEmpty() {
	citizens := sampleCitizens()[2:]
	citizens[0].Relatives = nil
	importID, err := s.store.Create(s.ctx, citizens)
	s.Require().NoError(err)

	imp, err := s.store.Get(s.ctx, importID)
	s.Require().NoError(err)
	s.NotNil(imp.Citizens[0].Relatives)
	s.Empty(imp.Citizens[0].Relatives)
}

func (s *ContractSuite) TestGetUnknownImport() {
	_, err := s.store.Get(s.ctx, 42)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *ContractSuite) TestReplaceOverwritesCitizens() {
	importID, err := s.store.Create(s.ctx, sampleCitizens())
	s.Require().NoError(err)

	updated := sampleCitizens()
	updated[2].Town = "Sevastopol"
	updated[2].Relatives = []id.CitizenID{3}
	s.Require().NoError(s.store.Replace(s.ctx, importID, updated))

	imp, err := s.store.Get(s.ctx, importID)
	s.Require().NoError(err)
	s.Equal(updated, imp.Citizens)
}

func (s *ContractSuite) TestReplaceUnknownImportDoesNotCreate() {
	err := s.store.Replace(s.ctx, 7, sampleCitizens())
	s.ErrorIs(err, sentinel.ErrNotFound)

	imports, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Empty(imports)
}

func (s *ContractSuite) TestListOrdersByNumericID() {
	for range 11 {
		_, err := s.store.Create(s.ctx, sampleCitizens()[:1])
		s.Require().NoError(err)
	}

	imports, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(imports, 11)
	for i, imp := range imports {
		s.Equal(id.ImportID(i+1), imp.ImportID)
		s.Len(imp.Citizens, 1)
	}
}

func (s *ContractSuite) TestListEmpty() {
	imports, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Empty(imports)
}

func (s *ContractSuite) TestReturnedCitizensAreDetached() {
	citizens := sampleCitizens()
	importID, err := s.store.Create(s.ctx, citizens)
	s.Require().NoError(err)
	citizens[0].Relatives[0] = 99

	imp, err := s.store.Get(s.ctx, importID)
	s.Require().NoError(err)
	imp.Citizens[0].Town = "Elsewhere"
	imp.Citizens[1].Relatives = append(imp.Citizens[1].Relatives, 3)

	again, err := s.store.Get(s.ctx, importID)
	s.Require().NoError(err)
	s.Equal(sampleCitizens(), again.Citizens)
}

func (s *ContractSuite) TestConcurrentCreatesGetDistinctIDs() {
	const writers = 10
	var wg sync.WaitGroup
	ids := make(chan id.ImportID, writers)
	errs := make(chan error, writers)
	for range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			importID, err := s.store.Create(s.ctx, sampleCitizens()[:1])
			if err != nil {
				errs <- err
				return
			}
			ids <- importID
		}()
	}
	wg.Wait()
	close(ids)
	close(errs)

	for err := range errs {
		s.NoError(err)
	}
	seen := map[id.ImportID]bool{}
	for importID := range ids {
		s.False(seen[importID], "duplicate id %d", importID)
		seen[importID] = true
	}
	s.Len(seen, writers)
	for want := id.ImportID(1); want <= writers; want++ {
		s.True(seen[want], "missing id %d", want)
	}
}

func (s *ContractSuite) TestPing() {
	pinger, ok := s.store.(store.Pinger)
	if !ok {
		s.T().Skip("backend does not report reachability")
	}
	s.NoError(pinger.Ping(s.ctx))
}
