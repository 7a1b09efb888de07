package models

import id "census/pkg/domain"

// Roster indexes an import's citizens by id while keeping insertion order.
// Lookups during relatives reconciliation and report generation go through the
// index instead of scanning the list.
type Roster struct {
	citizens []Citizen
	index    map[id.CitizenID]int
}

// NewRoster takes ownership of citizens. When ids repeat, the first occurrence
// wins; uniqueness is checked by validation, not here.
func NewRoster(citizens []Citizen) *Roster {
	index := make(map[id.CitizenID]int, len(citizens))
	for i, c := range citizens {
		if _, seen := index[c.CitizenID]; !seen {
			index[c.CitizenID] = i
		}
	}
	return &Roster{citizens: citizens, index: index}
}

// Get returns a pointer into the roster so callers can mutate in place.
func (r *Roster) Get(citizenID id.CitizenID) (*Citizen, bool) {
	i, ok := r.index[citizenID]
	if !ok {
		return nil, false
	}
	return &r.citizens[i], true
}

// Has reports whether a citizen with the id exists.
func (r *Roster) Has(citizenID id.CitizenID) bool {
	_, ok := r.index[citizenID]
	return ok
}

// Citizens returns the citizens in insertion order.
func (r *Roster) Citizens() []Citizen {
	return r.citizens
}

func (r *Roster) Len() int {
	return len(r.citizens)
}
