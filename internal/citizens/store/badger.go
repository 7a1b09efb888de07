package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"census/internal/citizens/models"
	id "census/pkg/domain"
	"census/pkg/platform/sentinel"
)

const badgerImportPrefix = "import/"

// BadgerStore keeps imports in an embedded Badger database under import/<id>.
// Keys are not zero padded, so ordering by id is done after the scan.
type BadgerStore struct {
	db *badger.DB
}

func NewBadger(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

func badgerImportKey(importID id.ImportID) []byte {
	return []byte(badgerImportPrefix + importKey(importID))
}

// Create scans the keys for the highest id and writes the next one in the same
// transaction. Conflicting creators fail at commit with ErrConflict and retry.
func (s *BadgerStore) Create(ctx context.Context, citizens []models.Citizen) (id.ImportID, error) {
	citizens = models.CloneCitizens(citizens)
	for attempt := 0; attempt < maxCreateAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		var importID id.ImportID
		err := s.db.Update(func(txn *badger.Txn) error {
			ids, err := scanImportIDs(txn)
			if err != nil {
				return err
			}
			importID = 1
			for _, existing := range ids {
				if existing >= importID {
					importID = existing + 1
				}
			}
			// reading the new key puts it in this txn's read set, so a
			// concurrent creator of the same id fails at commit
			if _, err := txn.Get(badgerImportKey(importID)); !errors.Is(err, badger.ErrKeyNotFound) {
				if err == nil {
					return badger.ErrConflict
				}
				return err
			}
			payload, err := encodeImport(importID, citizens)
			if err != nil {
				return err
			}
			return txn.Set(badgerImportKey(importID), payload)
		})
		if err == nil {
			return importID, nil
		}
		if !errors.Is(err, badger.ErrConflict) {
			return 0, fmt.Errorf("create import: %w", err)
		}
	}
	return 0, fmt.Errorf("create import: %w", sentinel.ErrConflict)
}

func (s *BadgerStore) Get(_ context.Context, importID id.ImportID) (*models.Import, error) {
	var imp *models.Import
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(badgerImportKey(importID))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return sentinel.ErrNotFound
			}
			return fmt.Errorf("get import: %w", err)
		}
		return item.Value(func(val []byte) error {
			imp, err = decodeImport(val)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return imp, nil
}

func (s *BadgerStore) Replace(_ context.Context, importID id.ImportID, citizens []models.Citizen) error {
	payload, err := encodeImport(importID, models.CloneCitizens(citizens))
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		key := badgerImportKey(importID)
		if _, err := txn.Get(key); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return sentinel.ErrNotFound
			}
			return fmt.Errorf("replace import: %w", err)
		}
		return txn.Set(key, payload)
	})
}

func (s *BadgerStore) List(_ context.Context) ([]*models.Import, error) {
	byID := map[id.ImportID]*models.Import{}
	var order []id.ImportID
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(badgerImportPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			importID, err := parseImportKey(strings.TrimPrefix(string(item.Key()), badgerImportPrefix))
			if err != nil {
				return err
			}
			err = item.Value(func(val []byte) error {
				imp, err := decodeImport(val)
				if err != nil {
					return err
				}
				byID[importID] = imp
				return nil
			})
			if err != nil {
				return err
			}
			order = append(order, importID)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list imports: %w", err)
	}

	slices.Sort(order)
	out := make([]*models.Import, 0, len(order))
	for _, importID := range order {
		out = append(out, byID[importID])
	}
	return out, nil
}

func (s *BadgerStore) Ping(context.Context) error {
	if s.db.IsClosed() {
		return fmt.Errorf("badger: %w", sentinel.ErrUnavailable)
	}
	return nil
}

func scanImportIDs(txn *badger.Txn) ([]id.ImportID, error) {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = []byte(badgerImportPrefix)
	it := txn.NewIterator(opts)
	defer it.Close()

	var ids []id.ImportID
	for it.Rewind(); it.Valid(); it.Next() {
		importID, err := parseImportKey(strings.TrimPrefix(string(it.Item().Key()), badgerImportPrefix))
		if err != nil {
			return nil, err
		}
		ids = append(ids, importID)
	}
	return ids, nil
}
