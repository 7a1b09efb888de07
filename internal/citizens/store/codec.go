package store

import (
	"encoding/json"
	"fmt"
	"strconv"

	"census/internal/citizens/models"
	id "census/pkg/domain"
)

// record is the persisted shape of an import. Birth dates keep their DD.MM.YYYY
// wire form so records stay readable in any backend.
type record struct {
	ImportID id.ImportID      `json:"import_id"`
	Citizens []models.Citizen `json:"citizens"`
}

func encodeImport(importID id.ImportID, citizens []models.Citizen) ([]byte, error) {
	data, err := json.Marshal(record{ImportID: importID, Citizens: normalize(citizens)})
	if err != nil {
		return nil, fmt.Errorf("encode import %d: %w", importID, err)
	}
	return data, nil
}

func decodeImport(data []byte) (*models.Import, error) {
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode import: %w", err)
	}
	return &models.Import{ImportID: rec.ImportID, Citizens: normalize(rec.Citizens)}, nil
}

// normalize guarantees non-nil slices so an empty relatives list encodes as [].
func normalize(citizens []models.Citizen) []models.Citizen {
	if citizens == nil {
		return []models.Citizen{}
	}
	for i := range citizens {
		if citizens[i].Relatives == nil {
			citizens[i].Relatives = []id.CitizenID{}
		}
	}
	return citizens
}

// importKey renders an id as its decimal string, the form every key-value
// backend stores it under.
func importKey(importID id.ImportID) string {
	return strconv.FormatInt(int64(importID), 10)
}

func parseImportKey(key string) (id.ImportID, error) {
	n, err := strconv.ParseInt(key, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse import key %q: %w", key, err)
	}
	return id.ImportID(n), nil
}
