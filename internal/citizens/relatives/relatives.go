// Package relatives keeps the relatives graph of an import symmetric when one
// citizen's relatives list changes.
package relatives

import (
	"slices"

	"census/internal/citizens/models"
	id "census/pkg/domain"
	dErrors "census/pkg/domain-errors"
)

// Diff splits an old and new relatives set into the ids gained and lost. Ids in
// both sets appear in neither result. Order follows the input lists.
func Diff(oldSet, newSet []id.CitizenID) (added, removed []id.CitizenID) {
	for _, rid := range newSet {
		if !slices.Contains(oldSet, rid) && !slices.Contains(added, rid) {
			added = append(added, rid)
		}
	}
	for _, rid := range oldSet {
		if !slices.Contains(newSet, rid) && !slices.Contains(removed, rid) {
			removed = append(removed, rid)
		}
	}
	return added, removed
}

// Reconcile updates the peers of target so they mirror the change from
// oldSet to newSet: every gained relative lists target back, every lost one
// stops listing it. The target's own list is not touched and a self link is
// never treated as a peer.
//
// A peer id missing from the roster yields an invalid relatives error. The
// roster may be partially updated when that happens, so callers must discard it.
func Reconcile(roster *models.Roster, target id.CitizenID, oldSet, newSet []id.CitizenID) error {
	added, removed := Diff(oldSet, newSet)

	for _, peerID := range added {
		if peerID == target {
			continue
		}
		peer, ok := roster.Get(peerID)
		if !ok {
			return dErrors.New(dErrors.CodeRelativesConsistency, "invalid relatives")
		}
		if !peer.HasRelative(target) {
			peer.Relatives = append(peer.Relatives, target)
		}
	}

	for _, peerID := range removed {
		if peerID == target {
			continue
		}
		peer, ok := roster.Get(peerID)
		if !ok {
			return dErrors.New(dErrors.CodeRelativesConsistency, "invalid relatives")
		}
		if i := slices.Index(peer.Relatives, target); i >= 0 {
			peer.Relatives = slices.Delete(peer.Relatives, i, i+1)
		}
	}
	return nil
}
