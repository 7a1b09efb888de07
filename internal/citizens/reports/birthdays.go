// Package reports derives the read-only views of a stored import. Every report
// is a pure function of the citizen list and is recomputed on each call.
package reports

import (
	"census/internal/citizens/models"
	id "census/pkg/domain"
)

// Birthdays counts, for every month, the presents each citizen buys for
// relatives born in that month. All twelve months are present in the result.
// A giver appears in a month only after its first present there, and givers
// keep the order of the citizen list.
func Birthdays(roster *models.Roster) models.BirthdayReport {
	report := make(models.BirthdayReport, 12)
	positions := make(map[int]map[id.CitizenID]int, 12)
	for month := 1; month <= 12; month++ {
		report[month] = []models.GiftCount{}
		positions[month] = map[id.CitizenID]int{}
	}

	for _, giver := range roster.Citizens() {
		for _, relativeID := range giver.Relatives {
			relative, ok := roster.Get(relativeID)
			if !ok {
				// stored imports are consistent; skip rather than fail a read
				continue
			}
			month := int(relative.BirthDate.Month())
			if i, seen := positions[month][giver.CitizenID]; seen {
				report[month][i].Presents++
				continue
			}
			positions[month][giver.CitizenID] = len(report[month])
			report[month] = append(report[month], models.GiftCount{CitizenID: giver.CitizenID, Presents: 1})
		}
	}
	return report
}
