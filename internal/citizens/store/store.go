// Package store persists imports. Every backend keeps one record per import id
// holding the full citizen list, and assigns ids as the current maximum plus one.
package store

//go:generate mockgen -source=store.go -destination=mocks/mocks.go -package=mocks Store,Pinger

import (
	"context"

	"census/internal/citizens/models"
	id "census/pkg/domain"
)

// Store is the import store accessor shared by every backend.
//
// Get and Replace return sentinel.ErrNotFound for an unknown import id. Replace
// never creates a record. List orders imports by id. Returned citizens never
// alias the store's own memory.
type Store interface {
	Create(ctx context.Context, citizens []models.Citizen) (id.ImportID, error)
	Get(ctx context.Context, importID id.ImportID) (*models.Import, error)
	Replace(ctx context.Context, importID id.ImportID, citizens []models.Citizen) error
	List(ctx context.Context) ([]*models.Import, error)
}

// Pinger is implemented by backends that can report reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// maxCreateAttempts bounds optimistic retries when concurrent creators race
// for the same id.
const maxCreateAttempts = 32
